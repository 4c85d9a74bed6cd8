package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mediabatch/internal/config"
	"mediabatch/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	root       string
	calls      string
}

// stubEncoderScript creates its last argument and logs each invocation.
const stubEncoderScript = `#!/bin/sh
echo "$*" >> %q
for last; do :; done
case "$last" in /*) : > "$last" ;; esac
exit %d
`

func setupCLITestEnv(t *testing.T, exitCode int, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	calls := filepath.Join(base, "encoder-calls.txt")
	binary := filepath.Join(base, "fake-ffmpeg")
	script := fmt.Sprintf(stubEncoderScript, calls, exitCode)
	if err := os.WriteFile(binary, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub encoder: %v", err)
	}
	cfg.Encoder.Binary = binary

	root := filepath.Join(base, "media")
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("mkdir root: %v", err)
	}
	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, root: root, calls: calls}
}

func (e *cliTestEnv) encoderCalls(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile(e.calls)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("read encoder calls: %v", err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
log_dir = %q
staging_dir = %q

[stitch]
bucket_count = %d
timestamp_overlay = %t

[encoder]
binary = %q
retry_delay_seconds = 0

[logging]
verbose = false

[journal]
enabled = %t
`,
		cfg.Paths.LogDir,
		cfg.Paths.StagingDir,
		cfg.Stitch.BucketCount,
		cfg.Stitch.TimestampOverlay,
		cfg.Encoder.Binary,
		cfg.Journal.Enabled,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
