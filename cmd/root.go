package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	consts "github.com/khanhnv2901/site-checker/internal/shared/constants"
)

var cfgFile string
var debug bool

// AppContext carries what every command needs once flags and config are resolved.
type AppContext struct {
	Logger *zap.Logger
	Config Config
}

type appContextKey struct{}

var globalAppContext *AppContext

var rootCmd = &cobra.Command{
	Use:           "sitecheck",
	Short:         "Score a website's security from its TLS certificate, headers, reputation and mixed content",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v := viper.GetViper()
		if err := configureViper(v, cfgFile); err != nil {
			return err
		}

		logger, err := newLogger(debug)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}

		storeAppContext(cmd, &AppContext{
			Logger: logger,
			Config: loadConfig(v, cmd.Flags()),
		})
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if appCtx := getAppContext(cmd); appCtx != nil && appCtx.Logger != nil {
			_ = appCtx.Logger.Sync()
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, colorError("Error:"), err)
		os.Exit(1)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func storeAppContext(cmd *cobra.Command, appCtx *AppContext) {
	globalAppContext = appCtx
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, appContextKey{}, appCtx))
}

func getAppContext(cmd *cobra.Command) *AppContext {
	if cmd != nil && cmd.Context() != nil {
		if appCtx, ok := cmd.Context().Value(appContextKey{}).(*AppContext); ok {
			return appCtx
		}
	}
	return globalAppContext
}

func registerCheckLimitFlags(flags *pflag.FlagSet) {
	flags.Duration("timeout", consts.DefaultCheckTimeout, "Timeout for each outbound request and TLS handshake")
	flags.Int("max-redirects", consts.DefaultMaxRedirects, "Redirects followed by the header audit")
	flags.String("tls-port", consts.DefaultTLSPort, "Port the TLS inspector connects to")
	flags.Int("max-concurrent", 0, "Cap on checks in flight across all sites (0 = unlimited)")
	flags.String("safe-browsing-endpoint", "", "Override the Google Safe Browsing API endpoint")
}

func init() {
	// config file flag
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.sitecheck.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable development logging")

	// check limits shared by serve and check
	registerCheckLimitFlags(rootCmd.PersistentFlags())

	// add subcommands
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
