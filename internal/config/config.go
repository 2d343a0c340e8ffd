// Package config composes the tool's database and run settings from three
// sources, in increasing priority: defaults, a credential file, and
// environment variables — cobra flags at the CLI layer bind on top of all
// three. Grounded on parser/main.go's flat flag.String/flag.Int block for
// the field set, and on original_source's "../Credentials/cred.txt"
// convention for the credential file (there, a bare connection string on
// the first line; here, a small key=value file so individual fields can
// still be overridden piecemeal by env vars).
package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const DefaultBatchSize = 5000

// Config holds everything a run of cmd/hospitalmrf needs beyond the URLs
// it's given on the command line.
type Config struct {
	DBHost      string
	DBPort      int
	DBUser      string
	DBPassword  string
	DBName      string
	BatchSize   int
	MaxBuffered int
	Debug       bool
}

// Default returns the teacher's own defaults (parser/main.go): localhost,
// 5432, postgres/hospital_pricing, no password.
func Default() Config {
	return Config{
		DBHost:      "localhost",
		DBPort:      5432,
		DBUser:      "postgres",
		DBName:      "hospital_pricing",
		BatchSize:   DefaultBatchSize,
		MaxBuffered: 1,
	}
}

// LoadCredentialFile merges key=value pairs from path into cfg, ignoring
// blank lines and lines starting with '#'. A missing file is not an
// error — the credential file is optional, env vars and flags can supply
// everything instead.
func LoadCredentialFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("config: opening credential file %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		applyField(cfg, strings.TrimSpace(key), strings.TrimSpace(value))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("config: reading credential file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg fields from HOSPITALMRF_-prefixed environment
// variables, the ambient convention for containerized runs where a
// credential file isn't mounted.
func ApplyEnv(cfg *Config) {
	for _, key := range []string{"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "BATCH_SIZE", "MAX_BUFFERED", "DEBUG"} {
		if v, ok := os.LookupEnv("HOSPITALMRF_" + key); ok {
			applyField(cfg, key, v)
		}
	}
}

func applyField(cfg *Config, key, value string) {
	switch strings.ToUpper(key) {
	case "DB_HOST", "HOST":
		cfg.DBHost = value
	case "DB_PORT", "PORT":
		if n, err := strconv.Atoi(value); err == nil {
			cfg.DBPort = n
		}
	case "DB_USER", "USER":
		cfg.DBUser = value
	case "DB_PASSWORD", "PASSWORD":
		cfg.DBPassword = value
	case "DB_NAME", "DBNAME":
		cfg.DBName = value
	case "BATCH_SIZE", "BATCH":
		if n, err := strconv.Atoi(value); err == nil {
			cfg.BatchSize = n
		}
	case "MAX_BUFFERED":
		if n, err := strconv.Atoi(value); err == nil {
			cfg.MaxBuffered = n
		}
	case "DEBUG":
		cfg.Debug = value == "1" || strings.EqualFold(value, "true")
	}
}

// ConnString builds a pgx-style connection string from cfg.
func (c Config) ConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}
