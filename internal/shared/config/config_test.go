package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"beholder/internal/shared/types"
)

const sampleIni = `[beholder]
log_file = /var/log/beholder.log
log_level = debug
connect_retry_count = 3
connect_retry_interval = 100

[sentinel]
host = 127.0.0.1
port = 26379

[twemproxy]
config_file = /etc/nutcracker/nutcracker.yml
restart_command = systemctl reload nutcracker
`

func writeIni(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "beholder.ini")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write ini: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg := new(types.Config)
	if err := Load(cfg, writeIni(t, sampleIni)); err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.LogFile != "/var/log/beholder.log" || cfg.LogLevel != "debug" {
		t.Fatalf("beholder conf = %+v", cfg.BeholderConf)
	}
	if cfg.ConnectRetryCount != 3 {
		t.Fatalf("retry count = %d", cfg.ConnectRetryCount)
	}
	if cfg.RetryInterval() != 100*time.Millisecond {
		t.Fatalf("retry interval = %v", cfg.RetryInterval())
	}
	if cfg.SentinelAddr() != "127.0.0.1:26379" {
		t.Fatalf("sentinel addr = %q", cfg.SentinelAddr())
	}
	if cfg.ConfigFile != "/etc/nutcracker/nutcracker.yml" {
		t.Fatalf("config file = %q", cfg.ConfigFile)
	}
	if cfg.RestartCommand != "systemctl reload nutcracker" {
		t.Fatalf("restart command = %q", cfg.RestartCommand)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg := new(types.Config)
	if err := Load(cfg, filepath.Join(t.TempDir(), "missing.ini")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("BEHOLDER_SENTINEL_HOST", "10.1.2.3")
	cfg := new(types.Config)
	if err := Load(cfg, writeIni(t, sampleIni)); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SentinelConf.Host != "10.1.2.3" {
		t.Fatalf("host = %q, want env override", cfg.SentinelConf.Host)
	}
}
