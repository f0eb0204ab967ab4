package cmd

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/khanhnv2901/site-checker/internal/application"
	consts "github.com/khanhnv2901/site-checker/internal/shared/constants"
)

// Config file keys.
const (
	keyServerAddr            = "server.addr"
	keyServerPort            = "server.port"
	keyServerAuthToken       = "server.auth_token"
	keyServerCORSOrigins     = "server.cors_origins"
	keyServerShutdownTimeout = "server.shutdown_timeout"
	keyChecksTimeout         = "checks.timeout"
	keyChecksMaxRedirects    = "checks.max_redirects"
	keyChecksTLSPort         = "checks.tls_port"
	keyChecksMaxConcurrent   = "checks.max_concurrent"
	keySafeBrowsingAPIKey    = "safe_browsing.api_key"
	keySafeBrowsingEndpoint  = "safe_browsing.endpoint"
)

// Config captures runtime configuration shared across commands.
type Config struct {
	Server       ServerConfig
	Checks       ChecksConfig
	SafeBrowsing SafeBrowsingConfig
}

// ServerConfig holds the API server settings.
type ServerConfig struct {
	Addr            string
	AuthToken       string
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

// ChecksConfig holds the limits applied to every site check.
type ChecksConfig struct {
	Timeout       time.Duration
	MaxRedirects  int
	TLSPort       string
	MaxConcurrent int64
}

// SafeBrowsingConfig holds the reputation lookup credential.
type SafeBrowsingConfig struct {
	APIKey   string
	Endpoint string
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":" + consts.DefaultListenPort,
			CORSOrigins:     []string{},
			ShutdownTimeout: consts.DefaultShutdownTimeout,
		},
		Checks: ChecksConfig{
			Timeout:      consts.DefaultCheckTimeout,
			MaxRedirects: consts.DefaultMaxRedirects,
			TLSPort:      consts.DefaultTLSPort,
		},
	}
}

// applicationConfig converts the runtime config into what the checkers need.
func (c Config) applicationConfig() application.Config {
	return application.Config{
		CheckTimeout:         c.Checks.Timeout,
		MaxRedirects:         c.Checks.MaxRedirects,
		TLSPort:              c.Checks.TLSPort,
		MaxConcurrent:        c.Checks.MaxConcurrent,
		SafeBrowsingKey:      c.SafeBrowsing.APIKey,
		SafeBrowsingEndpoint: c.SafeBrowsing.Endpoint,
	}
}

// configureViper points v at the config file and binds the environment
// variables the service has always honoured.
func configureViper(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath("$HOME")
		v.SetConfigName(".sitecheck")
		v.SetConfigType("yaml")
	}

	if err := v.BindEnv(keySafeBrowsingAPIKey, consts.SafeBrowsingKeyEnv); err != nil {
		return err
	}
	if err := v.BindEnv(keyServerPort, "PORT"); err != nil {
		return err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// loadConfig resolves the runtime config. Flag values (or their defaults)
// come first; config file and environment values replace them unless the
// flag was set explicitly.
func loadConfig(v *viper.Viper, flags *pflag.FlagSet) Config {
	cfg := defaultConfig()

	cfg.Server.Addr = flagString(flags, "addr", cfg.Server.Addr)
	cfg.Server.AuthToken = flagString(flags, "auth-token", cfg.Server.AuthToken)
	cfg.Server.CORSOrigins = flagStringSlice(flags, "cors-origins", cfg.Server.CORSOrigins)
	cfg.Server.ShutdownTimeout = flagDuration(flags, "shutdown-timeout", cfg.Server.ShutdownTimeout)
	cfg.Checks.Timeout = flagDuration(flags, "timeout", cfg.Checks.Timeout)
	cfg.Checks.MaxRedirects = flagInt(flags, "max-redirects", cfg.Checks.MaxRedirects)
	cfg.Checks.TLSPort = flagString(flags, "tls-port", cfg.Checks.TLSPort)
	cfg.Checks.MaxConcurrent = int64(flagInt(flags, "max-concurrent", int(cfg.Checks.MaxConcurrent)))
	cfg.SafeBrowsing.Endpoint = flagString(flags, "safe-browsing-endpoint", cfg.SafeBrowsing.Endpoint)

	switch {
	case v.IsSet(keyServerAddr):
		applyStringDefault(flags, "addr", v.GetString(keyServerAddr), func(s string) { cfg.Server.Addr = s })
	case v.IsSet(keyServerPort):
		applyStringDefault(flags, "addr", net.JoinHostPort("", v.GetString(keyServerPort)), func(s string) { cfg.Server.Addr = s })
	}
	if v.IsSet(keyServerAuthToken) {
		applyStringDefault(flags, "auth-token", v.GetString(keyServerAuthToken), func(s string) { cfg.Server.AuthToken = s })
	}
	if v.IsSet(keyServerCORSOrigins) {
		applyStringSliceDefault(flags, "cors-origins", v.GetStringSlice(keyServerCORSOrigins), func(s []string) { cfg.Server.CORSOrigins = s })
	}
	if v.IsSet(keyServerShutdownTimeout) {
		applyDurationDefault(flags, "shutdown-timeout", v.GetDuration(keyServerShutdownTimeout), func(d time.Duration) { cfg.Server.ShutdownTimeout = d })
	}
	if v.IsSet(keyChecksTimeout) {
		applyDurationDefault(flags, "timeout", v.GetDuration(keyChecksTimeout), func(d time.Duration) { cfg.Checks.Timeout = d })
	}
	if v.IsSet(keyChecksMaxRedirects) {
		applyIntDefault(flags, "max-redirects", v.GetInt(keyChecksMaxRedirects), func(n int) { cfg.Checks.MaxRedirects = n })
	}
	if v.IsSet(keyChecksTLSPort) {
		applyStringDefault(flags, "tls-port", v.GetString(keyChecksTLSPort), func(s string) { cfg.Checks.TLSPort = s })
	}
	if v.IsSet(keyChecksMaxConcurrent) {
		applyIntDefault(flags, "max-concurrent", v.GetInt(keyChecksMaxConcurrent), func(n int) { cfg.Checks.MaxConcurrent = int64(n) })
	}
	if v.IsSet(keySafeBrowsingEndpoint) {
		applyStringDefault(flags, "safe-browsing-endpoint", v.GetString(keySafeBrowsingEndpoint), func(s string) { cfg.SafeBrowsing.Endpoint = s })
	}

	// The credential never comes from a flag.
	cfg.SafeBrowsing.APIKey = v.GetString(keySafeBrowsingAPIKey)

	return cfg
}

func flagString(flags *pflag.FlagSet, name, def string) string {
	if flags == nil || flags.Lookup(name) == nil {
		return def
	}
	v, err := flags.GetString(name)
	if err != nil {
		return def
	}
	return v
}

func flagStringSlice(flags *pflag.FlagSet, name string, def []string) []string {
	if flags == nil || flags.Lookup(name) == nil {
		return def
	}
	v, err := flags.GetStringSlice(name)
	if err != nil {
		return def
	}
	return v
}

func flagInt(flags *pflag.FlagSet, name string, def int) int {
	if flags == nil || flags.Lookup(name) == nil {
		return def
	}
	v, err := flags.GetInt(name)
	if err != nil {
		return def
	}
	return v
}

func flagDuration(flags *pflag.FlagSet, name string, def time.Duration) time.Duration {
	if flags == nil || flags.Lookup(name) == nil {
		return def
	}
	v, err := flags.GetDuration(name)
	if err != nil {
		return def
	}
	return v
}

func applyIntDefault(flags *pflag.FlagSet, name string, value int, setter func(int)) {
	if setter == nil || flagChanged(flags, name) {
		return
	}
	setter(value)
}

func applyStringDefault(flags *pflag.FlagSet, name, value string, setter func(string)) {
	if setter == nil || flagChanged(flags, name) {
		return
	}
	setter(value)
}

func applyStringSliceDefault(flags *pflag.FlagSet, name string, value []string, setter func([]string)) {
	if setter == nil || flagChanged(flags, name) {
		return
	}
	setter(value)
}

func applyDurationDefault(flags *pflag.FlagSet, name string, value time.Duration, setter func(time.Duration)) {
	if setter == nil || flagChanged(flags, name) {
		return
	}
	setter(value)
}

func flagChanged(flags *pflag.FlagSet, name string) bool {
	if flags == nil {
		return false
	}
	flag := flags.Lookup(name)
	return flag != nil && flag.Changed
}
