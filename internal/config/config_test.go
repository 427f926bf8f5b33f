package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "financas.db")

	tests := []struct {
		name        string
		config      Config
		wantErr     bool
		errorString string
	}{
		{
			name: "valid config",
			config: Config{
				Port:                  "8082",
				SQLiteDBPath:          dbPath,
				ClassifierStrategy:    "keyword",
				CardCeilingCents:      150000,
				HighBalanceMinCents:   100000,
				MediumBalanceMinCents: 50000,
			},
			wantErr: false,
		},
		{
			name: "invalid port - non-numeric",
			config: Config{
				Port:               "abc",
				SQLiteDBPath:       dbPath,
				ClassifierStrategy: "simple",
			},
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name: "invalid port - out of range",
			config: Config{
				Port:               "70000",
				SQLiteDBPath:       dbPath,
				ClassifierStrategy: "simple",
			},
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name: "missing database path",
			config: Config{
				Port:               "8082",
				SQLiteDBPath:       "",
				ClassifierStrategy: "simple",
			},
			wantErr:     true,
			errorString: "SQLite database path cannot be empty",
		},
		{
			name: "unknown classifier strategy",
			config: Config{
				Port:               "8082",
				SQLiteDBPath:       dbPath,
				ClassifierStrategy: "neural",
			},
			wantErr:     true,
			errorString: "invalid classifier strategy 'neural': must be simple or keyword",
		},
		{
			name: "negative card ceiling",
			config: Config{
				Port:               "8082",
				SQLiteDBPath:       dbPath,
				ClassifierStrategy: "keyword",
				CardCeilingCents:   -1,
			},
			wantErr:     true,
			errorString: "card ceiling cannot be negative",
		},
		{
			name: "inverted balance tiers",
			config: Config{
				Port:                  "8082",
				SQLiteDBPath:          dbPath,
				ClassifierStrategy:    "keyword",
				HighBalanceMinCents:   50000,
				MediumBalanceMinCents: 100000,
			},
			wantErr:     true,
			errorString: "medium balance tier cannot start above the high tier",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Config.Validate() error = nil, wantErr %v", tt.wantErr)
					return
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Config.Validate() error = %v, want error containing %v", err.Error(), tt.errorString)
				}
			} else {
				if err != nil {
					t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
				}
			}
		})
	}
}

func TestLoad(t *testing.T) {
	vars := []string{
		"PORT", "SQLITE_DB_PATH", "AMQP_URL", "AMQP_EXCHANGE", "AMQP_QUEUE",
		"CONSUME_TIMEOUT", "CLASSIFIER_STRATEGY",
		"CARD_METHOD_NAME", "CARD_CEILING", "HIGH_BALANCE_MIN", "MEDIUM_BALANCE_MIN",
	}

	original := map[string]string{}
	for _, key := range vars {
		original[key] = os.Getenv(key)
		os.Unsetenv(key)
	}
	defer func() {
		for key, value := range original {
			if value != "" {
				os.Setenv(key, value)
			} else {
				os.Unsetenv(key)
			}
		}
	}()

	t.Run("default values", func(t *testing.T) {
		cfg := Load()

		if cfg.Port != "8082" {
			t.Errorf("Load() Port = %v, want 8082", cfg.Port)
		}
		if cfg.SQLiteDBPath != "./data/financas.db" {
			t.Errorf("Load() SQLiteDBPath = %v, want ./data/financas.db", cfg.SQLiteDBPath)
		}
		if cfg.ClassifierStrategy != "keyword" {
			t.Errorf("Load() ClassifierStrategy = %v, want keyword", cfg.ClassifierStrategy)
		}
		if cfg.ConsumeTimeout != 30*time.Second {
			t.Errorf("Load() ConsumeTimeout = %v, want 30s", cfg.ConsumeTimeout)
		}
		if cfg.CardMethodName != "Cartão" {
			t.Errorf("Load() CardMethodName = %v, want Cartão", cfg.CardMethodName)
		}
		if cfg.CardCeilingCents != 150000 {
			t.Errorf("Load() CardCeilingCents = %v, want 150000", cfg.CardCeilingCents)
		}
		if cfg.HighBalanceMinCents != 100000 {
			t.Errorf("Load() HighBalanceMinCents = %v, want 100000", cfg.HighBalanceMinCents)
		}
		if cfg.MediumBalanceMinCents != 50000 {
			t.Errorf("Load() MediumBalanceMinCents = %v, want 50000", cfg.MediumBalanceMinCents)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		os.Setenv("PORT", "9090")
		os.Setenv("SQLITE_DB_PATH", "/tmp/test.db")
		os.Setenv("CLASSIFIER_STRATEGY", "simple")
		os.Setenv("CARD_CEILING", "2000,00")
		os.Setenv("CONSUME_TIMEOUT", "45s")

		cfg := Load()

		if cfg.Port != "9090" {
			t.Errorf("Load() Port = %v, want 9090", cfg.Port)
		}
		if cfg.SQLiteDBPath != "/tmp/test.db" {
			t.Errorf("Load() SQLiteDBPath = %v, want /tmp/test.db", cfg.SQLiteDBPath)
		}
		if cfg.ClassifierStrategy != "simple" {
			t.Errorf("Load() ClassifierStrategy = %v, want simple", cfg.ClassifierStrategy)
		}
		if cfg.CardCeilingCents != 200000 {
			t.Errorf("Load() CardCeilingCents = %v, want 200000", cfg.CardCeilingCents)
		}
		if cfg.ConsumeTimeout != 45*time.Second {
			t.Errorf("Load() ConsumeTimeout = %v, want 45s", cfg.ConsumeTimeout)
		}
	})

	t.Run("invalid environment values fall back to defaults", func(t *testing.T) {
		os.Setenv("CARD_CEILING", "not-a-number")
		os.Setenv("CONSUME_TIMEOUT", "soon")

		cfg := Load()

		if cfg.CardCeilingCents != 150000 {
			t.Errorf("Load() CardCeilingCents = %v, want 150000 (default for invalid input)", cfg.CardCeilingCents)
		}
		if cfg.ConsumeTimeout != 30*time.Second {
			t.Errorf("Load() ConsumeTimeout = %v, want 30s (default for invalid input)", cfg.ConsumeTimeout)
		}
	})
}
