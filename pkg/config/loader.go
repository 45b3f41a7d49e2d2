package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/macropower/mdpkm/pkg/yaml"
)

// Validator validates decoded configuration data.
type Validator interface {
	Validate(data any) error
}

type LoaderOpt func(*Loader)

// WithValidator replaces [DefaultValidator].
func WithValidator(v Validator) LoaderOpt {
	return func(l *Loader) {
		l.validator = v
	}
}

// Loader validates and decodes configuration data.
type Loader struct {
	validator Validator
	yamlError *yaml.ErrorWrapper
	data      []byte
}

func NewLoaderFromBytes(data []byte, opts ...LoaderOpt) *Loader {
	l := &Loader{
		validator: DefaultValidator,
		data:      data,
		yamlError: yaml.NewErrorWrapper(data),
	}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

func NewLoaderFromFile(path string, opts ...LoaderOpt) (*Loader, error) {
	data, err := readConfig(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	return NewLoaderFromBytes(data, opts...), nil
}

// Validate checks the data against the schema without decoding it into a
// [Config].
func (l *Loader) Validate() error {
	var anyConfig any

	err := yaml.NewDecoder(bytes.NewReader(l.data)).Decode(&anyConfig)
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: empty document", ErrInvalid)
	}
	if err != nil {
		return l.yamlError.Wrap(err)
	}

	if l.validator != nil {
		err = l.validator.Validate(anyConfig)
		if err != nil {
			return l.yamlError.Wrap(err)
		}
	}

	return nil
}

// Load decodes the data, fills defaults, and runs [Config.Validate].
func (l *Loader) Load() (*Config, error) {
	c := &Config{}

	err := yaml.NewDecoder(bytes.NewReader(l.data)).Decode(c)
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty document", ErrInvalid)
	}
	if err != nil {
		return nil, l.yamlError.Wrap(err)
	}

	c.EnsureDefaults()

	err = c.Validate()
	if err != nil {
		return nil, err
	}

	return c, nil
}

// WriteDefaultConfig writes the embedded default config and its JSON schema
// next to each other. An existing config is kept unless force is set, in
// which case it is moved to a timestamped backup first.
func WriteDefaultConfig(path string, force bool) error {
	exists := false

	info, err := os.Stat(path)
	if info != nil {
		switch {
		case err == nil && info.Mode().IsRegular():
			exists = true
		case info.IsDir():
			return fmt.Errorf("%s: path is a directory", path)
		default:
			return fmt.Errorf("%s: unknown file state", path)
		}
	}

	err = os.MkdirAll(filepath.Dir(path), 0o700)
	if err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	if exists && force {
		backup := filepath.Join(filepath.Dir(path),
			fmt.Sprintf("%s.%d.old", filepath.Base(path), time.Now().UnixNano()))

		slog.Info("backing up existing config file", slog.String("path", backup))

		err = os.Rename(path, backup)
		if err != nil {
			return fmt.Errorf("rename existing config file to backup: %w", err)
		}

		exists = false
	}

	if exists {
		slog.Debug("configuration file already exists, skipping write", slog.String("path", path))
	} else {
		slog.Info("write default configuration", slog.String("path", path))

		err = os.WriteFile(path, defaultConfigYAML, 0o600)
		if err != nil {
			return fmt.Errorf("write config file: %w", err)
		}
	}

	schemaPath := filepath.Join(filepath.Dir(path), SchemaFile)
	slog.Debug("write JSON schema", slog.String("path", schemaPath))

	err = os.WriteFile(schemaPath, SchemaJSON, 0o600)
	if err != nil {
		return fmt.Errorf("write schema file: %w", err)
	}

	return nil
}

// DefaultYAML returns the embedded default configuration.
func DefaultYAML() []byte {
	return bytes.Clone(defaultConfigYAML)
}

// GetPath returns $XDG_CONFIG_HOME/mdpkm/config.yaml, falling back to
// ~/.config and then the temp directory.
func GetPath() string {
	if xdgHome, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok && xdgHome != "" {
		return filepath.Join(xdgHome, "mdpkm", "config.yaml")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".config", "mdpkm", "config.yaml")
	}

	tmp := filepath.Join(os.TempDir(), "mdpkm", "config.yaml")

	slog.Warn("could not determine user config directory, using temp path for config",
		slog.String("path", tmp),
		slog.Any("error", fmt.Errorf("$XDG_CONFIG_HOME is unset, fall back to home directory: %w", err)),
	)

	return tmp
}

func readConfig(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s: %w: path is a directory", path, os.ErrInvalid)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: %w: unknown file state", path, os.ErrInvalid)
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: Potential file inclusion via variable.
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}
