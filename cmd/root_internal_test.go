package cmd

import (
	"context"
	"testing"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestStoreAndGetAppContext(t *testing.T) {
	original := globalAppContext
	t.Cleanup(func() { globalAppContext = original })

	cmd := &cobra.Command{Use: "probe"}
	appCtx := &AppContext{Logger: zap.NewNop(), Config: defaultConfig()}

	storeAppContext(cmd, appCtx)

	if got := getAppContext(cmd); got != appCtx {
		t.Fatalf("expected stored context from command, got %v", got)
	}
	if globalAppContext != appCtx {
		t.Fatalf("expected global app context to be updated")
	}
}

func TestGetAppContextFallsBackToGlobal(t *testing.T) {
	original := globalAppContext
	t.Cleanup(func() { globalAppContext = original })

	appCtx := &AppContext{Logger: zap.NewNop()}
	globalAppContext = appCtx

	cmd := &cobra.Command{Use: "probe"}
	cmd.SetContext(context.Background())

	if got := getAppContext(cmd); got != appCtx {
		t.Fatalf("expected global fallback, got %v", got)
	}
	if got := getAppContext(nil); got != appCtx {
		t.Fatalf("expected global fallback for nil command, got %v", got)
	}
}

func TestNewLogger(t *testing.T) {
	prod, err := newLogger(false)
	if err != nil {
		t.Fatalf("production logger: %v", err)
	}
	if prod.Core().Enabled(zapcore.DebugLevel) {
		t.Errorf("production logger should not log at debug level")
	}

	dev, err := newLogger(true)
	if err != nil {
		t.Fatalf("development logger: %v", err)
	}
	if !dev.Core().Enabled(zapcore.DebugLevel) {
		t.Errorf("development logger should log at debug level")
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	want := map[string]bool{"check": false, "serve": false, "version": false, "info": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("expected %s subcommand", name)
		}
	}

	for _, name := range []string{"config", "debug", "timeout", "max-redirects", "tls-port", "max-concurrent", "safe-browsing-endpoint"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("expected persistent flag --%s", name)
		}
	}
}
