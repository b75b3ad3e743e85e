// Package config loads the operator's policy declaration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mj1618/wmpolicy/internal/logger"
	"github.com/mj1618/wmpolicy/internal/model"
)

const (
	appDirName     = "wmpolicy"
	configFileName = "config.yaml"
)

// File is the on-disk configuration.
type File struct {
	model.PolicyDecl `yaml:",inline"`
	LogLevel         string `yaml:"log_level,omitempty"`
}

// Default returns the configuration written when no file exists.
func Default() File {
	return File{PolicyDecl: model.DefaultDecl()}
}

// Policy builds the validated focus policy declared by f.
func (f File) Policy() (*model.FocusPolicy, error) {
	return model.NewFocusPolicy(f.PolicyDecl)
}

// ErrEmptyConfig is returned for a document with no content. A file caught
// mid-write by the watcher looks like this and must not load as the defaults.
var ErrEmptyConfig = errors.New("config is empty")

// Decode reads a configuration document. Keys absent from the document keep
// their default values; unknown keys are rejected.
func Decode(r io.Reader) (File, error) {
	f := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return File{}, ErrEmptyConfig
		}
		return File{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return f, nil
}

// Load reads and decodes the configuration at path.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	f, err := Decode(bytes.NewReader(data))
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Write stores f at path, creating parent directories.
func Write(path string, f File) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString(header)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

const header = `# wmpolicy focus policy
#
# client_buttons - modifier(s) and button grabbed on client windows for
#                  interactive move/resize, e.g. "A-2", "C-A-2", "W-1"
# click_focus    - clicking in a client focuses it
# enter_focus    - the pointer entering a client focuses it
# leave_unfocus  - the pointer leaving the focused client unfocuses it
`

// DefaultPath returns $XDG_CONFIG_HOME/wmpolicy/config.yaml (or the platform equivalent).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(dir, appDirName, configFileName), nil
}

// Find resolves and loads the configuration. An explicit path must exist and
// parse. Without one, the default path is used and created with defaults if
// it does not exist yet.
func Find(providedPath string, log *logger.Logger) (string, File, error) {
	if providedPath != "" {
		log.Debug("Loading configuration", "path", providedPath)
		f, err := Load(providedPath)
		if err != nil {
			return "", File{}, err
		}
		return providedPath, f, nil
	}

	path, err := DefaultPath()
	if err != nil {
		return "", File{}, err
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		log.Info("Creating default configuration", "path", path)
		f := Default()
		if err := Write(path, f); err != nil {
			log.Error("Failed to write default configuration", err, "path", path)
			return "", File{}, err
		}
		return path, f, nil
	}

	log.Debug("Loading configuration", "path", path)
	f, err := Load(path)
	if err != nil {
		return "", File{}, err
	}
	return path, f, nil
}
