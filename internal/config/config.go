// Package config loads the nodenator configuration file.
//
// The file is optional YAML with strict keys:
//
//	target: python            # python | javascript
//	message_identifier: message
//	sender_identifier: node_from
//	database: runs.db         # evaluation log, empty disables logging
//	log_level: info           # debug | info | warn | error
//
// Environment variables override the file: NODENATOR_TARGET and
// NODENATOR_DATABASE. NODENATOR_CONFIG names the file when no path is
// given explicitly.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fridex/nodenator/internal/dispatch"
	"github.com/fridex/nodenator/internal/predicate"
	"github.com/fridex/nodenator/internal/render"
)

// Environment variables read by Load.
const (
	EnvConfig   = "NODENATOR_CONFIG"
	EnvTarget   = "NODENATOR_TARGET"
	EnvDatabase = "NODENATOR_DATABASE"
)

// Config holds settings shared by every command.
type Config struct {
	Target            string `yaml:"target"`
	MessageIdentifier string `yaml:"message_identifier"`
	SenderIdentifier  string `yaml:"sender_identifier"`
	Database          string `yaml:"database"`
	LogLevel          string `yaml:"log_level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Target:            render.TargetPython,
		MessageIdentifier: predicate.DefaultMessageIdentifier,
		SenderIdentifier:  dispatch.DefaultSender,
		LogLevel:          "info",
	}
}

// Load reads the configuration file at path, falling back to $NODENATOR_CONFIG
// and then to defaults when neither is set. Keys missing from the file keep
// their defaults. Environment overrides are applied last and the result is
// validated.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfig)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := cfg.decode(data); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if v, ok := os.LookupEnv(EnvTarget); ok {
		cfg.Target = v
	}
	if v, ok := os.LookupEnv(EnvDatabase); ok {
		cfg.Database = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks that every value is usable. The message and sender
// identifiers are printed bare into generated code, so they must be
// identifiers of the target language and must differ.
func (c *Config) Validate() error {
	r, err := render.For(c.Target)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.MessageIdentifier == "" {
		return fmt.Errorf("config: message_identifier must not be empty")
	}
	if c.SenderIdentifier == "" {
		return fmt.Errorf("config: sender_identifier must not be empty")
	}
	if err := r.CheckIdentifier(c.MessageIdentifier); err != nil {
		return fmt.Errorf("config: message_identifier: %w", err)
	}
	if err := r.CheckIdentifier(c.SenderIdentifier); err != nil {
		return fmt.Errorf("config: sender_identifier: %w", err)
	}
	if c.MessageIdentifier == c.SenderIdentifier {
		return fmt.Errorf("config: message_identifier and sender_identifier must differ, both are %q", c.MessageIdentifier)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the slog level named by LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: invalid log_level %q", c.LogLevel)
	}
	return level, nil
}

// Renderer returns the renderer for Target.
func (c *Config) Renderer() (render.Renderer, error) {
	return render.For(c.Target)
}
