package gconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gvox.toml")
	contents := `
workers = 4
compression = "lz4"
checksum = true

[logging]
logfile = "gvox.log"
max_size_mb = 10
max_age_days = 7
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Workers != 4 || cfg.Compression != "lz4" || !cfg.Checksum {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Logging.Logfile != "gvox.log" || cfg.Logging.MaxSize != 10 || cfg.Logging.MaxAge != 7 {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
}

func TestValidateRejectsUnknownCompression(t *testing.T) {
	cfg := &Config{Compression: "zstd"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown compression")
	}
}

func TestWorkerCountDefaultsToNumCPU(t *testing.T) {
	cfg := &Config{Workers: 0}
	if cfg.WorkerCount() <= 0 {
		t.Fatal("expected positive default worker count")
	}
}
