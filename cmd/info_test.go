package cmd

import (
	"bytes"
	"runtime"
	"strings"
	"testing"
)

func TestInfoCommand(t *testing.T) {
	disableColor(t)
	appCtx := setupTestAppContext(t)
	appCtx.Config.Checks.MaxConcurrent = 8
	appCtx.Config.Server.CORSOrigins = []string{"https://a.example", "https://b.example"}

	var buf bytes.Buffer
	infoCmd.SetOut(&buf)
	infoCmd.SetErr(&buf)
	t.Cleanup(func() {
		infoCmd.SetOut(nil)
		infoCmd.SetErr(nil)
	})

	if err := infoCmd.RunE(infoCmd, []string{}); err != nil {
		t.Fatalf("info command failed: %v", err)
	}

	output := buf.String()

	expectedSections := []string{
		"sitecheck System Information",
		"Platform:",
		"Configuration:",
		"Server:",
		"Checks:",
		"Max concurrent:     8",
		"CORS origins:       https://a.example, https://b.example",
		"Reputation lookup:  disabled",
		"Scoring (starts at 100, clamped to 0-100):",
	}
	for _, section := range expectedSections {
		if !strings.Contains(output, section) {
			t.Errorf("Expected output to contain '%s', got:\n%s", section, output)
		}
	}

	expectedPlatform := runtime.GOOS + "/" + runtime.GOARCH
	if !strings.Contains(output, expectedPlatform) {
		t.Errorf("Expected platform '%s' in output, got:\n%s", expectedPlatform, output)
	}
}

func TestInfoCommandReputationEnabled(t *testing.T) {
	disableColor(t)
	appCtx := setupTestAppContext(t)
	appCtx.Config.SafeBrowsing.APIKey = "secret"

	var buf bytes.Buffer
	infoCmd.SetOut(&buf)
	t.Cleanup(func() { infoCmd.SetOut(nil) })

	if err := infoCmd.RunE(infoCmd, nil); err != nil {
		t.Fatalf("info command failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Reputation lookup:  enabled") {
		t.Errorf("expected reputation to be reported enabled, got:\n%s", output)
	}
	if strings.Contains(output, "secret") {
		t.Errorf("API key must not be printed, got:\n%s", output)
	}
	if !strings.Contains(output, "Max concurrent:     unlimited") {
		t.Errorf("expected unlimited concurrency, got:\n%s", output)
	}
}
