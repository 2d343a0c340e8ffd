package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultMatchesTeacherDefaults(t *testing.T) {
	cfg := Default()
	if cfg.DBHost != "localhost" || cfg.DBPort != 5432 || cfg.DBUser != "postgres" || cfg.DBName != "hospital_pricing" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.BatchSize != DefaultBatchSize {
		t.Errorf("BatchSize = %d, want %d", cfg.BatchSize, DefaultBatchSize)
	}
}

func TestLoadCredentialFileMergesFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cred.txt")
	content := "# comment\nDB_HOST=db.internal\nDB_PORT=6543\nDB_PASSWORD=secret\n\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg := Default()
	if err := LoadCredentialFile(&cfg, path); err != nil {
		t.Fatalf("LoadCredentialFile: %v", err)
	}
	if cfg.DBHost != "db.internal" {
		t.Errorf("DBHost = %q, want db.internal", cfg.DBHost)
	}
	if cfg.DBPort != 6543 {
		t.Errorf("DBPort = %d, want 6543", cfg.DBPort)
	}
	if cfg.DBPassword != "secret" {
		t.Errorf("DBPassword = %q, want secret", cfg.DBPassword)
	}
}

func TestLoadCredentialFileMissingIsNotAnError(t *testing.T) {
	cfg := Default()
	if err := LoadCredentialFile(&cfg, "/nonexistent/cred.txt"); err != nil {
		t.Errorf("expected no error for missing credential file, got %v", err)
	}
}

func TestApplyEnvOverridesDefaults(t *testing.T) {
	t.Setenv("HOSPITALMRF_DB_HOST", "envhost")
	t.Setenv("HOSPITALMRF_BATCH_SIZE", "250")
	t.Setenv("HOSPITALMRF_DEBUG", "true")

	cfg := Default()
	ApplyEnv(&cfg)

	if cfg.DBHost != "envhost" {
		t.Errorf("DBHost = %q, want envhost", cfg.DBHost)
	}
	if cfg.BatchSize != 250 {
		t.Errorf("BatchSize = %d, want 250", cfg.BatchSize)
	}
	if !cfg.Debug {
		t.Error("expected Debug = true")
	}
}

func TestConnStringFormatsPostgresURL(t *testing.T) {
	cfg := Config{DBHost: "h", DBPort: 5432, DBUser: "u", DBPassword: "p", DBName: "d"}
	want := "postgres://u:p@h:5432/d?sslmode=disable"
	if got := cfg.ConnString(); got != want {
		t.Errorf("ConnString() = %q, want %q", got, want)
	}
}
