package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dpshade/zero-edit/internal/errors"
	"github.com/dpshade/zero-edit/internal/models"
)

// DefaultProfileName is the built-in profile seeded by InitLibrary. It is
// always listed first when present.
const DefaultProfileName = "default-edit"

// Storage handles all file system operations for profile files
type Storage struct {
	rootPath string
	cache    *ProfileCache
}

// NewStorage creates a new storage instance rooted at rootPath, defaulting
// to ~/.zero-edit when empty.
func NewStorage(rootPath string) (*Storage, error) {
	if rootPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		rootPath = filepath.Join(homeDir, ".zero-edit")
	}

	return &Storage{
		rootPath: rootPath,
		cache:    NewProfileCache(),
	}, nil
}

// GetBaseDir returns the root path of the storage
func (s *Storage) GetBaseDir() string {
	return s.rootPath
}

// ProfilesDir returns the directory profiles are discovered in
func (s *Storage) ProfilesDir() string {
	return filepath.Join(s.rootPath, "profiles")
}

// InitLibrary creates the directory structure for a profile library and
// seeds the built-in default edit profile if no profile exists yet.
func (s *Storage) InitLibrary() error {
	dirs := []string{
		s.rootPath,
		s.ProfilesDir(),
		filepath.Join(s.rootPath, "logs"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	defaultPath := filepath.Join(s.ProfilesDir(), DefaultProfileName+".json")
	if _, err := os.Stat(defaultPath); os.IsNotExist(err) {
		if err := os.WriteFile(defaultPath, []byte(defaultProfileJSON), 0644); err != nil {
			return fmt.Errorf("failed to write default profile: %w", err)
		}
	}

	return nil
}

// ListProfiles discovers all profile files (*.json, *.yaml, *.yml) in the
// profiles directory and returns their names without extension, sorted,
// with the default profile first when present.
func (s *Storage) ListProfiles() ([]string, error) {
	entries, err := os.ReadDir(s.ProfilesDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.StorageError("list profiles", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".json" || ext == ".yaml" || ext == ".yml" {
			names = append(names, strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())))
		}
	}
	sort.Strings(names)

	// Default profile floats to the front
	for i, name := range names {
		if name == DefaultProfileName && i > 0 {
			names = append(names[:i], names[i+1:]...)
			names = append([]string{DefaultProfileName}, names...)
			break
		}
	}

	return names, nil
}

// LoadProfile loads a profile by name (with or without extension). Parsed
// profiles are cached keyed by path and modification time, so repeated
// loads of an unchanged file do not re-parse.
func (s *Storage) LoadProfile(name string) (*models.Profile, error) {
	path, err := s.resolveProfilePath(name)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeFileNotFound, fmt.Sprintf("Profile '%s' not found", name))
	}

	if cached, ok := s.cache.Get(path, info); ok {
		return cached, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.StorageError("read profile", err)
	}

	profile, err := parseProfile(data, filepath.Ext(path))
	if err != nil {
		return nil, err
	}

	profile.FilePath = path
	profile.ContentHash = calculateHash(data)
	if profile.Name == "" {
		profile.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	s.cache.Set(path, info, profile)
	return profile, nil
}

// SaveProfile writes a profile to the profiles directory as JSON.
func (s *Storage) SaveProfile(profile *models.Profile, name string) error {
	if err := os.MkdirAll(s.ProfilesDir(), 0755); err != nil {
		return errors.StorageError("create profiles directory", err)
	}

	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return errors.StorageError("serialize profile", err)
	}
	data = append(data, '\n')

	path := filepath.Join(s.ProfilesDir(), name+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.StorageError("write profile", err)
	}

	s.cache.Invalidate(path)
	return nil
}

// ParseProfileFile parses a profile from an arbitrary file path, outside
// any library. Used by standalone tools that lint files in place.
func ParseProfileFile(path string) (*models.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeFileNotFound, fmt.Sprintf("Cannot read '%s'", path))
	}

	profile, err := parseProfile(data, filepath.Ext(path))
	if err != nil {
		return nil, err
	}

	profile.FilePath = path
	profile.ContentHash = calculateHash(data)
	if profile.Name == "" {
		profile.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return profile, nil
}

// resolveProfilePath maps a profile name to an existing file, trying the
// name verbatim first and then each recognized extension.
func (s *Storage) resolveProfilePath(name string) (string, error) {
	candidates := []string{name}
	if filepath.Ext(name) == "" {
		candidates = []string{name + ".json", name + ".yaml", name + ".yml"}
	}

	for _, candidate := range candidates {
		path := filepath.Join(s.ProfilesDir(), candidate)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", errors.Wrap(os.ErrNotExist, errors.ErrCodeFileNotFound,
		fmt.Sprintf("Profile '%s' not found in %s", name, s.ProfilesDir()))
}

// parseProfile decodes a serialized profile and rejects structurally
// malformed documents with an error naming the offending field.
func parseProfile(data []byte, ext string) (*models.Profile, error) {
	var profile models.Profile
	var err error

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &profile)
	default:
		err = json.Unmarshal(data, &profile)
	}
	if err != nil {
		return nil, errors.MalformedProfileError("document", err)
	}

	if profile.Templates == nil {
		return nil, errors.NewAppError(errors.ErrCodeMalformedProfile, "Profile missing 'templates' field")
	}
	if profile.Pools == nil {
		return nil, errors.NewAppError(errors.ErrCodeMalformedProfile, "Profile missing 'pools' field")
	}

	return &profile, nil
}

// calculateHash generates a SHA256 hash of the content
func calculateHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}
