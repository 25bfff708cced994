// Package config loads CLI settings from YAML, JSON or TOML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formflow/pkg/client"
	"github.com/goliatone/go-formflow/pkg/navigation"
)

// Duration is a time.Duration that decodes from strings such as "300ms".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler, used by TOML.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", text, err)
	}
	*d = Duration(parsed)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Service configures the form service client.
type Service struct {
	BaseURL       string   `yaml:"base_url" toml:"base_url"`
	Timeout       Duration `yaml:"timeout" toml:"timeout"`
	Retries       uint64   `yaml:"retries" toml:"retries"`
	RetryInterval Duration `yaml:"retry_interval" toml:"retry_interval"`
}

// Wizard configures the session.
type Wizard struct {
	TransitionDelay Duration `yaml:"transition_delay" toml:"transition_delay"`
	Renderer        string   `yaml:"renderer" toml:"renderer"`
	Schema          string   `yaml:"schema" toml:"schema"`
}

// Log configures logging.
type Log struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// Config is the full CLI configuration.
type Config struct {
	Service Service `yaml:"service" toml:"service"`
	Wizard  Wizard  `yaml:"wizard" toml:"wizard"`
	Log     Log     `yaml:"log" toml:"log"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Service: Service{
			BaseURL:       client.DefaultBaseURL,
			Timeout:       Duration(client.DefaultTimeout),
			RetryInterval: Duration(500 * time.Millisecond),
		},
		Wizard: Wizard{
			TransitionDelay: Duration(navigation.DefaultDelay),
			Renderer:        "tui",
		},
		Log: Log{Level: "info", Format: "console"},
	}
}

// Load reads path over the defaults. An empty path returns Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := Decode(filepath.Ext(path), data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Decode parses data in the format named by ext into cfg.
func Decode(ext string, data []byte, cfg *Config) error {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "yaml", "yml", "json":
		return yaml.Unmarshal(data, cfg)
	case "toml":
		_, err := toml.Decode(string(data), cfg)
		return err
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
}

// Validate reports settings that cannot be used.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Service.BaseURL) == "" && strings.TrimSpace(c.Wizard.Schema) == "" {
		errs = append(errs, errors.New("config: service.base_url or wizard.schema is required"))
	}
	if c.Service.Timeout < 0 {
		errs = append(errs, errors.New("config: service.timeout must not be negative"))
	}
	if c.Wizard.TransitionDelay < 0 {
		errs = append(errs, errors.New("config: wizard.transition_delay must not be negative"))
	}
	switch c.Wizard.Renderer {
	case "tui", "html":
	default:
		errs = append(errs, fmt.Errorf("config: unknown renderer %q", c.Wizard.Renderer))
	}
	return errors.Join(errs...)
}
