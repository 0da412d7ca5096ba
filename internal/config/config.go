// Package config provides configuration loading and management using Viper.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spf13/viper"
)

// Config represents the top-level configuration structure.
type Config struct {
	Version    int     `mapstructure:"version" json:"version" yaml:"version"`
	Features   string  `mapstructure:"features" json:"features" yaml:"features"`
	Output     string  `mapstructure:"output" json:"output" yaml:"output"`
	Title      string  `mapstructure:"title" json:"title" yaml:"title"`
	APIVersion string  `mapstructure:"api_version" json:"api_version" yaml:"api_version"`
	Assets     Assets  `mapstructure:"assets" json:"assets" yaml:"assets"`
	History    History `mapstructure:"history" json:"history" yaml:"history"`
	Serve      Serve   `mapstructure:"serve" json:"serve" yaml:"serve"`
}

// Assets overrides the stylesheet and script URLs embedded in the report.
type Assets struct {
	Stylesheet string `mapstructure:"stylesheet" json:"stylesheet,omitempty" yaml:"stylesheet,omitempty"`
	Theme      string `mapstructure:"theme" json:"theme,omitempty" yaml:"theme,omitempty"`
	JQuery     string `mapstructure:"jquery" json:"jquery,omitempty" yaml:"jquery,omitempty"`
	Script     string `mapstructure:"script" json:"script,omitempty" yaml:"script,omitempty"`
}

// History configures the run history database. An empty path disables it.
type History struct {
	Path string `mapstructure:"path" json:"path,omitempty" yaml:"path,omitempty"`
}

// Serve configures the live preview server.
type Serve struct {
	Addr        string        `mapstructure:"addr" json:"addr" yaml:"addr"`
	Debounce    time.Duration `mapstructure:"debounce" json:"debounce" yaml:"debounce"`
	CORSOrigins []string      `mapstructure:"cors_origins" json:"cors_origins,omitempty" yaml:"cors_origins,omitempty"`
}

// Defaults applied before any config file is read.
const (
	DefaultFeatures   = "features"
	DefaultOutput     = "docs.html"
	DefaultTitle      = "API Documentation"
	DefaultAPIVersion = "1.0.0"
	DefaultAddr       = ":8080"
	DefaultDebounce   = "100ms"
)

// ErrInvalid is returned when the configuration does not match the schema.
var ErrInvalid = errors.New("invalid configuration")

//go:embed config.schema.json
var schemaJSON []byte

const schemaURL = "https://github.com/alexbrand/apidocs/config.schema.json"

var (
	cfg *Config
	v   *viper.Viper
)

// configDir returns the configuration directory path.
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "apidocs"), nil
}

// Init initializes the configuration system.
// Config files are searched in the following order:
// 1. Explicit path via cfgPath parameter (--config flag)
// 2. Project-local: .apidocs/config.yaml (current directory)
// 3. User global: ~/.config/apidocs/config.yaml
func Init(cfgPath string) error {
	v = viper.New()

	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(".apidocs")
		configPath, err := configDir()
		if err != nil {
			return err
		}
		v.AddConfigPath(configPath)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetDefault("version", 1)
	v.SetDefault("features", DefaultFeatures)
	v.SetDefault("output", DefaultOutput)
	v.SetDefault("title", DefaultTitle)
	v.SetDefault("api_version", DefaultAPIVersion)
	v.SetDefault("serve.addr", DefaultAddr)
	v.SetDefault("serve.debounce", DefaultDebounce)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK - we'll use defaults
	}

	if err := validate(v.AllSettings()); err != nil {
		return err
	}

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return nil
}

// validate checks settings against the embedded JSON schema.
func validate(settings map[string]any) error {
	compiler := jsonschema.NewCompiler()
	compiler.DefaultDraft(jsonschema.Draft2020)

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return fmt.Errorf("failed to load config schema: %w", err)
	}
	if err := compiler.AddResource(schemaURL, doc); err != nil {
		return fmt.Errorf("failed to load config schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return fmt.Errorf("failed to compile config schema: %w", err)
	}

	// Round-trip through JSON so values have the types the validator expects.
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Get returns the current configuration.
// Returns nil if Init has not been called.
func Get() *Config {
	return cfg
}

// Set overrides a single dotted key such as "serve.addr". The resulting
// configuration is validated against the schema before it takes effect.
func Set(key string, value any) error {
	if v == nil {
		return fmt.Errorf("configuration not initialized")
	}

	settings := v.AllSettings()
	setNested(settings, strings.Split(key, "."), value)
	if err := validate(settings); err != nil {
		return err
	}

	v.Set(key, value)
	next := &Config{}
	if err := v.Unmarshal(next); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg = next
	return nil
}

func setNested(settings map[string]any, keys []string, value any) {
	for _, k := range keys[:len(keys)-1] {
		child, ok := settings[k].(map[string]any)
		if !ok {
			child = map[string]any{}
			settings[k] = child
		}
		settings = child
	}
	settings[keys[len(keys)-1]] = value
}

// ConfigFilePath returns the path to the config file being used.
func ConfigFilePath() string {
	if v == nil {
		return ""
	}
	return v.ConfigFileUsed()
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}
