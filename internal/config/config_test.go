package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeTestConfig writes YAML content to a temp file and returns its path.
func writeTestConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "natal-cli.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name       string
		configData string
		wantError  error
		check      func(t *testing.T, cfg *Config)
	}{
		{
			name: "full config",
			configData: `
version: "1.0"
engine:
  command: ["python", "-m", "nataly"]
  min_version: ">= 1.0.0"
  timeout: 45s
ephemeris:
  path: /var/lib/nataly/ephe
orbs:
  Conjunction: 6.5
  Square: 5.0
storage:
  database_path: charts.db
output:
  max_aspects: 25
`,
			check: func(t *testing.T, cfg *Config) {
				if len(cfg.Engine.Command) != 3 || cfg.Engine.Command[0] != "python" {
					t.Errorf("Engine.Command = %v, want [python -m nataly]", cfg.Engine.Command)
				}
				if cfg.Engine.MinVersion != ">= 1.0.0" {
					t.Errorf("Engine.MinVersion = %q, want >= 1.0.0", cfg.Engine.MinVersion)
				}
				if cfg.Engine.GetTimeout() != 45*time.Second {
					t.Errorf("GetTimeout() = %v, want 45s", cfg.Engine.GetTimeout())
				}
				if cfg.Ephemeris.Path != "/var/lib/nataly/ephe" {
					t.Errorf("Ephemeris.Path = %q, want /var/lib/nataly/ephe", cfg.Ephemeris.Path)
				}
				if cfg.Orbs["Conjunction"] != 6.5 {
					t.Errorf("Orbs[Conjunction] = %v, want 6.5", cfg.Orbs["Conjunction"])
				}
				if cfg.Storage.DatabasePath != "charts.db" {
					t.Errorf("Storage.DatabasePath = %q, want charts.db", cfg.Storage.DatabasePath)
				}
				if cfg.Output.GetMaxAspects() != 25 {
					t.Errorf("GetMaxAspects() = %d, want 25", cfg.Output.GetMaxAspects())
				}
			},
		},
		{
			name:       "empty config uses defaults",
			configData: "version: \"1.0\"\n",
			check: func(t *testing.T, cfg *Config) {
				if cfg.Engine.GetTimeout() != 30*time.Second {
					t.Errorf("GetTimeout() = %v, want default 30s", cfg.Engine.GetTimeout())
				}
				if cfg.Output.GetMaxAspects() != DefaultMaxAspects {
					t.Errorf("GetMaxAspects() = %d, want %d", cfg.Output.GetMaxAspects(), DefaultMaxAspects)
				}
				if cfg.Storage.DatabasePath != "" {
					t.Errorf("Storage.DatabasePath = %q, want empty (chart log disabled)", cfg.Storage.DatabasePath)
				}
			},
		},
		{
			name:       "blank engine command element",
			configData: "engine:\n  command: [\"nataly\", \"\"]\n",
			wantError:  ErrBlankEngineCommand,
		},
		{
			name:       "bad min_version constraint",
			configData: "engine:\n  min_version: \"not-a-constraint\"\n",
			wantError:  ErrInvalidMinVersion,
		},
		{
			name:       "negative orb override",
			configData: "orbs:\n  Trine: -2.0\n",
			wantError:  ErrNegativeOrb,
		},
		{
			name:       "negative max_aspects",
			configData: "output:\n  max_aspects: -1\n",
			wantError:  ErrNegativeMaxAspects,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTestConfig(t, tt.configData)
			cfg, err := LoadConfig(path)
			if tt.wantError != nil {
				if !errors.Is(err, tt.wantError) {
					t.Fatalf("LoadConfig() error = %v, want %v", err, tt.wantError)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadConfig() unexpected error: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig(\"\") unexpected error: %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfig(\"\") returned nil config")
	}
	if len(cfg.Engine.Command) != 0 {
		t.Errorf("default Engine.Command = %v, want unset (engine default applies)", cfg.Engine.Command)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("LoadConfig() expected error for missing file")
	}
}

func TestGetTimeoutBadValue(t *testing.T) {
	cfg := EngineConfig{Timeout: "soon"}
	if cfg.GetTimeout() != 30*time.Second {
		t.Errorf("GetTimeout() = %v, want default 30s for unparseable value", cfg.GetTimeout())
	}
}
