// Package service provides the business logic layer of zero-edit.
//
// SYSTEM ARCHITECTURE ROLE:
// This module ties storage, validation, and the generation engine together
// behind one interface consumed by every host surface (CLI, HTTP API, TUI).
// Profiles are validated once at load; a profile with fatal findings is
// rejected here and never reaches the engine.
//
// KEY RESPONSIBILITIES:
// - Resolve the active profile library and initialize storage
// - Load profiles and gate them through validation before generation
// - Expose GenerateOne / GenerateBatch / DescribeProfile to hosts
// - Provide profile discovery and fuzzy search over profile metadata
//
// INTEGRATION POINTS:
// - internal/storage/storage.go: file discovery, parsing, and the parse cache
// - internal/validation/validator.go: load-time gate and statistics
// - internal/engine: Compose and ComposeRange perform the actual generation
// - internal/config/libraries.go: effective library path resolution
// - main.go, internal/cli, internal/api, internal/ui: consumers
package service

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/dpshade/zero-edit/internal/config"
	"github.com/dpshade/zero-edit/internal/engine"
	"github.com/dpshade/zero-edit/internal/models"
	"github.com/dpshade/zero-edit/internal/storage"
	"github.com/dpshade/zero-edit/internal/validation"
)

// Service provides business logic for profile management and generation
type Service struct {
	storage *storage.Storage
}

// NewService creates a service rooted at the effective library path:
// ZERO_EDIT_DIR when set, otherwise the current library in the registry.
func NewService() (*Service, error) {
	libConfig, err := config.NewLibraryConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load library configuration: %w", err)
	}

	path, _, err := libConfig.GetEffectiveLibraryPath()
	if err != nil {
		return nil, err
	}

	return NewServiceWithPath(path)
}

// NewServiceWithPath creates a service rooted at an explicit library path
func NewServiceWithPath(path string) (*Service, error) {
	store, err := storage.NewStorage(path)
	if err != nil {
		return nil, err
	}
	return &Service{storage: store}, nil
}

// InitLibrary creates the library directory structure and seeds the
// built-in default edit profile.
func (s *Service) InitLibrary() error {
	return s.storage.InitLibrary()
}

// BaseDir returns the library root path
func (s *Service) BaseDir() string {
	return s.storage.GetBaseDir()
}

// ListProfileNames returns the names of all discoverable profiles
func (s *Service) ListProfileNames() ([]string, error) {
	return s.storage.ListProfiles()
}

// ListProfiles loads every discoverable profile. Profiles that fail to
// parse are skipped; listing is a browsing surface, not a validation gate.
func (s *Service) ListProfiles() ([]*models.Profile, error) {
	names, err := s.storage.ListProfiles()
	if err != nil {
		return nil, err
	}

	var profiles []*models.Profile
	for _, name := range names {
		profile, err := s.storage.LoadProfile(name)
		if err != nil {
			continue
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

// GetProfile loads a profile by name and gates it through validation.
// Profiles with fatal findings are rejected with the corresponding
// structural error; generation never sees an invalid profile.
func (s *Service) GetProfile(name string) (*models.Profile, error) {
	profile, err := s.storage.LoadProfile(name)
	if err != nil {
		return nil, err
	}

	if result := validation.ValidateProfile(profile); !result.Valid {
		return nil, result.ToAppError()
	}

	return profile, nil
}

// ValidateProfile returns the full validation result for a profile,
// including non-fatal warnings.
func (s *Service) ValidateProfile(name string) (*validation.ValidationResult, error) {
	profile, err := s.storage.LoadProfile(name)
	if err != nil {
		return nil, err
	}
	return validation.ValidateProfile(profile), nil
}

// GenerateOne produces the single prompt at (seed, index) for a profile.
// The same arguments always produce the identical string.
func (s *Service) GenerateOne(profileName string, seed uint32, index uint64, prefix, suffix string) (string, error) {
	profile, err := s.GetProfile(profileName)
	if err != nil {
		return "", err
	}
	return engine.Compose(profile, seed, index, prefix, suffix)
}

// GenerateBatch produces count prompts at consecutive indices starting at
// startIndex, in index order.
func (s *Service) GenerateBatch(profileName string, seed uint32, startIndex uint64, count int, prefix, suffix string) ([]string, error) {
	profile, err := s.GetProfile(profileName)
	if err != nil {
		return nil, err
	}
	return engine.ComposeRange(profile, seed, startIndex, count, prefix, suffix)
}

// DescribeProfile returns display statistics for a profile: template
// count, per-pool sizes, and the total combination count.
func (s *Service) DescribeProfile(name string) (*models.Stats, error) {
	profile, err := s.storage.LoadProfile(name)
	if err != nil {
		return nil, err
	}
	return validation.Stats(profile), nil
}

// SearchProfiles performs fuzzy search across profile names and
// descriptions.
func (s *Service) SearchProfiles(query string) ([]*models.Profile, error) {
	profiles, err := s.ListProfiles()
	if err != nil {
		return nil, err
	}

	if query == "" {
		return profiles, nil
	}

	// Build search strings from name and description
	var searchStrings []string
	for _, p := range profiles {
		searchStr := strings.ToLower(fmt.Sprintf("%s %s", p.Name, p.Summary))
		searchStrings = append(searchStrings, searchStr)
	}

	// Perform fuzzy search
	matches := fuzzy.Find(strings.ToLower(query), searchStrings)

	// Build result list
	var results []*models.Profile
	for _, match := range matches {
		results = append(results, profiles[match.Index])
	}

	return results, nil
}

// SaveProfile writes a profile into the library
func (s *Service) SaveProfile(profile *models.Profile, name string) error {
	return s.storage.SaveProfile(profile, name)
}
