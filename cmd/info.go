package cmd

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	consts "github.com/khanhnv2901/site-checker/internal/shared/constants"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the resolved configuration and scoring rules",
	Long: `Display sitecheck configuration information including:
  - Configuration file in use
  - Resolved server and check settings
  - Whether reputation lookups are enabled
  - The score deductions applied to every report`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Get application context
		appCtx := getAppContext(cmd)
		cfg := appCtx.Config

		configFile := viper.ConfigFileUsed()
		if configFile == "" {
			configFile = "✗ (using defaults; create ~/.sitecheck.yaml to override)"
		}

		reputation := colorWarn("disabled") + " (set " + consts.SafeBrowsingKeyEnv + " to enable)"
		if cfg.SafeBrowsing.APIKey != "" {
			reputation = colorSuccess("enabled")
		}

		corsOrigins := "* (any)"
		if len(cfg.Server.CORSOrigins) > 0 {
			corsOrigins = strings.Join(cfg.Server.CORSOrigins, ", ")
		}

		maxConcurrent := "unlimited"
		if cfg.Checks.MaxConcurrent > 0 {
			maxConcurrent = fmt.Sprintf("%d", cfg.Checks.MaxConcurrent)
		}

		// Get output writer (for testing support)
		out := cmd.OutOrStdout()

		// Print information
		fmt.Fprintln(out, "sitecheck System Information")
		fmt.Fprintln(out, "============================")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Platform:          %s/%s\n", runtime.GOOS, runtime.GOARCH)
		fmt.Fprintf(out, "Version:           %s\n", Version)
		fmt.Fprintf(out, "Configuration:     %s\n", configFile)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Server:")
		fmt.Fprintf(out, "  Address:            %s\n", cfg.Server.Addr)
		fmt.Fprintf(out, "  Auth token:         %s\n", yesNo(cfg.Server.AuthToken != ""))
		fmt.Fprintf(out, "  CORS origins:       %s\n", corsOrigins)
		fmt.Fprintf(out, "  Shutdown timeout:   %s\n", cfg.Server.ShutdownTimeout)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Checks:")
		fmt.Fprintf(out, "  Timeout:            %s\n", cfg.Checks.Timeout)
		fmt.Fprintf(out, "  Max redirects:      %d\n", cfg.Checks.MaxRedirects)
		fmt.Fprintf(out, "  TLS port:           %s\n", cfg.Checks.TLSPort)
		fmt.Fprintf(out, "  Max concurrent:     %s\n", maxConcurrent)
		fmt.Fprintf(out, "  Reputation lookup:  %s\n", reputation)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Scoring (starts at 100, clamped to 0-100):")
		for _, spec := range getSecurityCheckCatalog() {
			fmt.Fprintf(out, "  %-14s %-52s %s\n", spec.Category, spec.Name, spec.Deduction)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
