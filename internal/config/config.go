// Package config loads the settings of the email2dict command from a TOML
// file.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/zostay/go-email2dict/record"
)

// Config is the complete command configuration.
type Config struct {
	Log     Log     `toml:"log"`
	Output  Output  `toml:"output"`
	Extract Extract `toml:"extract"`
}

// Log configures the logger.
type Log struct {
	Level  string `toml:"level" validate:"oneof=debug info warn error"`
	Format string `toml:"format" validate:"oneof=text json"`
}

// Output configures how records are printed.
type Output struct {
	// Format is json or dump.
	Format string `toml:"format" validate:"oneof=json dump"`

	// Indent is the number of spaces per JSON nesting level. 0 prints each
	// record on a single line.
	Indent int `toml:"indent" validate:"min=0,max=8"`
}

// Extract configures message extraction.
type Extract struct {
	ParallelParts bool `toml:"parallel_parts"`
	MaxDepth      int  `toml:"max_depth" validate:"min=0"`

	// Workers is the number of messages of a mailbox extracted at once.
	Workers int `toml:"workers" validate:"min=1,max=256"`
}

var validate = validator.New()

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Log: Log{
			Level:  "info",
			Format: "text",
		},
		Output: Output{
			Format: "json",
			Indent: 2,
		},
		Extract: Extract{
			Workers: 1,
		},
	}
}

// Decode reads the TOML document over the defaults and validates the result.
// Unknown keys are an error.
func Decode(doc string) (*Config, error) {
	c := Default()
	md, err := toml.Decode(doc, c)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if un := md.Undecoded(); len(un) > 0 {
		keys := make([]string, len(un))
		for i, k := range un {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Load reads the configuration file at path. An empty path returns the
// defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	doc, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	c, err := Decode(string(doc))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return c, nil
}

// Validate checks every setting against its allowed values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// RecordOptions returns the record.Extract options for the settings.
func (c *Config) RecordOptions() []record.Option {
	var opts []record.Option
	if c.Extract.ParallelParts {
		opts = append(opts, record.WithParallelParts())
	}
	if c.Extract.MaxDepth > 0 {
		opts = append(opts, record.WithMaxDepth(c.Extract.MaxDepth))
	}
	return opts
}
