// Package config manages the registry of profile libraries.
//
// A library is a directory holding a profiles/ folder. Users can register
// several libraries (personal, work, experimental vocabularies) and switch
// between them; the ZERO_EDIT_DIR environment variable overrides whatever
// library is current. The registry persists to
// ~/.config/zero-edit/libraries.json.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// EnvLibraryDir is the environment variable that overrides the active
// library path.
const EnvLibraryDir = "ZERO_EDIT_DIR"

// Library represents one registered profile library
type Library struct {
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	Description string    `json:"description,omitempty"`
	IsDefault   bool      `json:"is_default,omitempty"`
	AddedAt     time.Time `json:"added_at"`
}

// LibraryConfig is the persistent registry of libraries
type LibraryConfig struct {
	Libraries []Library `json:"libraries"`
	Current   string    `json:"current"`

	configPath string
}

// NewLibraryConfig loads the library registry, creating it with a single
// default library (~/.zero-edit) on first use.
func NewLibraryConfig() (*LibraryConfig, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	configPath := filepath.Join(homeDir, ".config", "zero-edit", "libraries.json")
	config := &LibraryConfig{configPath: configPath}

	if err := config.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load library configuration: %w", err)
		}
		config.Libraries = []Library{{
			Name:      "default",
			Path:      filepath.Join(homeDir, ".zero-edit"),
			IsDefault: true,
			AddedAt:   time.Now(),
		}}
		config.Current = "default"
		if err := config.Save(); err != nil {
			return nil, err
		}
	}

	return config, nil
}

// Load reads the library configuration from disk
func (c *LibraryConfig) Load() error {
	data, err := os.ReadFile(c.configPath)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, c)
}

// Save writes the library configuration to disk
func (c *LibraryConfig) Save() error {
	configDir := filepath.Dir(c.configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal library configuration: %w", err)
	}

	return os.WriteFile(c.configPath, data, 0644)
}

// AddLibrary registers a new library
func (c *LibraryConfig) AddLibrary(name, path, description string) error {
	for _, lib := range c.Libraries {
		if lib.Name == name {
			return fmt.Errorf("library '%s' already exists", name)
		}
	}

	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("library path '%s' is not accessible: %w", path, err)
	}

	c.Libraries = append(c.Libraries, Library{
		Name:        name,
		Path:        path,
		Description: description,
		AddedAt:     time.Now(),
	})
	return c.Save()
}

// RemoveLibrary removes a library from the registry. The default library
// cannot be removed.
func (c *LibraryConfig) RemoveLibrary(name string) error {
	for i, lib := range c.Libraries {
		if lib.Name == name {
			if lib.IsDefault {
				return fmt.Errorf("cannot remove the default library")
			}
			c.Libraries = append(c.Libraries[:i], c.Libraries[i+1:]...)
			if c.Current == name {
				c.Current = "default"
			}
			return c.Save()
		}
	}

	return fmt.Errorf("library '%s' not found", name)
}

// GetLibrary retrieves a library by name
func (c *LibraryConfig) GetLibrary(name string) (*Library, error) {
	for i := range c.Libraries {
		if c.Libraries[i].Name == name {
			return &c.Libraries[i], nil
		}
	}
	return nil, fmt.Errorf("library '%s' not found", name)
}

// GetCurrentLibrary returns the currently selected library
func (c *LibraryConfig) GetCurrentLibrary() (*Library, error) {
	return c.GetLibrary(c.Current)
}

// SwitchLibrary changes the current library
func (c *LibraryConfig) SwitchLibrary(name string) error {
	if _, err := c.GetLibrary(name); err != nil {
		return err
	}
	c.Current = name
	return c.Save()
}

// GetEffectiveLibraryPath resolves the library path in effect, with its
// source: "environment" when ZERO_EDIT_DIR is set, otherwise the current
// library's name.
func (c *LibraryConfig) GetEffectiveLibraryPath() (string, string, error) {
	if envPath := os.Getenv(EnvLibraryDir); envPath != "" {
		return envPath, "environment", nil
	}

	current, err := c.GetCurrentLibrary()
	if err != nil {
		return "", "", err
	}
	return current.Path, current.Name, nil
}
