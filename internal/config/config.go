// Package config loads the wizard's runtime configuration: a YAML file with
// defaults, overridden by environment variables. A .env file in the working
// directory is honored before the environment is read.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-intake/pkg/wizard"
)

const defaultBackendURL = "https://api.bangkok.solutions"

// Duration makes time.Duration round-trip through YAML in its usual string
// form ("5s", "2m").
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("config: parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Config is the full runtime configuration for one wizard run.
type Config struct {
	BackendURL string   `yaml:"backend_url"`
	Timeout    Duration `yaml:"timeout"`
	MirrorPath string   `yaml:"mirror_path"`

	Theme struct {
		Name    string `yaml:"name"`
		Variant string `yaml:"variant"`
	} `yaml:"theme"`

	Scope wizard.Scope `yaml:"scope"`
}

// Default returns the configuration used when no file or environment
// overrides are present. The scope defaults mirror the demo policy the
// sample photos belong to.
func Default() Config {
	cfg := Config{
		BackendURL: defaultBackendURL,
		Timeout:    Duration(60 * time.Second),
		MirrorPath: filepath.Join(os.TempDir(), "intake-session.db"),
		Scope: wizard.Scope{
			PolicyID:     "pol-demo-1",
			NamedInsured: "John Doe",
			Make:         "Honda",
			Model:        "Fit",
		},
	}
	return cfg
}

// Load builds the configuration: defaults, then the YAML file at path when it
// exists, then environment variables. A missing file is not an error; a
// malformed one is.
func Load(path string) (Config, error) {
	// Missing .env is the normal case.
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// fall through to env overrides
		default:
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the invariants the rest of the program assumes.
func (c *Config) Validate() error {
	if c.BackendURL == "" {
		return fmt.Errorf("config: backend_url must not be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("config: timeout must be positive")
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("INTAKE_BACKEND_URL"); v != "" {
		cfg.BackendURL = v
	}
	if v := os.Getenv("INTAKE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = Duration(d)
		}
	}
	if v := os.Getenv("INTAKE_MIRROR_PATH"); v != "" {
		cfg.MirrorPath = v
	}
	if v := os.Getenv("INTAKE_THEME"); v != "" {
		cfg.Theme.Name = v
	}
	if v := os.Getenv("INTAKE_THEME_VARIANT"); v != "" {
		cfg.Theme.Variant = v
	}
	if v := os.Getenv("INTAKE_POLICY_ID"); v != "" {
		cfg.Scope.PolicyID = v
	}
	if v := os.Getenv("INTAKE_NAMED_INSURED"); v != "" {
		cfg.Scope.NamedInsured = v
	}
	if v := os.Getenv("INTAKE_VEHICLE_MAKE"); v != "" {
		cfg.Scope.Make = v
	}
	if v := os.Getenv("INTAKE_VEHICLE_MODEL"); v != "" {
		cfg.Scope.Model = v
	}
}
