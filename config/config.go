// Package config loads the idlbind configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/partite-ai/idlbind/internal/logger"
	"github.com/partite-ai/idlbind/model"
)

// DefaultFile is the name looked up next to the inputs when no file is given.
const DefaultFile = "idlbind.yaml"

type Config struct {
	// NamespaceVersion is a semver constraint every compiled namespace must
	// satisfy. Empty disables the check.
	NamespaceVersion string `yaml:"namespace_version"`

	// StrictCallWith turns unresolvable CallWith relations into build errors.
	StrictCallWith bool `yaml:"strict_call_with"`

	Logging Logging `yaml:"logging"`
	Kotlin  Kotlin  `yaml:"kotlin"`
	Watch   Watch   `yaml:"watch"`
}

type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

type Kotlin struct {
	PackageName string `yaml:"package_name"`
	CdylibName  string `yaml:"cdylib_name"`
}

type Watch struct {
	Debounce time.Duration `yaml:"debounce"`
}

func Default() *Config {
	return &Config{
		Logging: Logging{Level: "info", Format: "text"},
		Watch:   Watch{Debounce: 200 * time.Millisecond},
	}
}

// Load reads the file at path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a configuration document over the defaults. Unknown keys are
// rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.NamespaceVersion != "" {
		if _, err := semver.NewConstraint(c.NamespaceVersion); err != nil {
			return fmt.Errorf("invalid namespace_version %q: %w", c.NamespaceVersion, err)
		}
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging: %w", err)
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid logging: unknown log format %q", c.Logging.Format)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("invalid watch: negative debounce %s", c.Watch.Debounce)
	}
	return nil
}

// LoggerConfig translates the logging section for logger.Init.
func (c *Config) LoggerConfig() logger.Config {
	cfg := logger.DefaultConfig()
	cfg.Level, _ = logger.ParseLevel(c.Logging.Level)
	if c.Logging.Format != "" {
		cfg.Format = c.Logging.Format
	}
	cfg.LogFile = c.Logging.File
	return cfg
}

// BuilderOptions returns the model builder options the configuration asks for.
func (c *Config) BuilderOptions() []model.BuilderOption {
	var opts []model.BuilderOption
	if c.StrictCallWith {
		opts = append(opts, model.WithStrictCallWith())
	}
	return opts
}

// CheckNamespaceVersion verifies that ci declares a version satisfying the
// configured constraint.
func (c *Config) CheckNamespaceVersion(ci *model.ComponentInterface) error {
	if c.NamespaceVersion == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(c.NamespaceVersion)
	if err != nil {
		return fmt.Errorf("invalid namespace_version %q: %w", c.NamespaceVersion, err)
	}
	if ci.Version() == "" {
		return fmt.Errorf("namespace %s declares no version, %s required", ci.Namespace(), c.NamespaceVersion)
	}
	v, err := semver.NewVersion(ci.Version())
	if err != nil {
		return fmt.Errorf("namespace %s: invalid version %q: %w", ci.Namespace(), ci.Version(), err)
	}
	if ok, errs := constraint.Validate(v); !ok {
		return fmt.Errorf("namespace %s version %s does not satisfy %s: %w", ci.Namespace(), v, c.NamespaceVersion, errors.Join(errs...))
	}
	return nil
}
