package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dpshade/zero-edit/internal/errors"
	"github.com/dpshade/zero-edit/internal/models"
	"github.com/dpshade/zero-edit/internal/storage"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "zero-edit-service-test")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	svc, err := NewServiceWithPath(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.InitLibrary(); err != nil {
		t.Fatal(err)
	}
	return svc
}

func writeLibraryProfile(t *testing.T, svc *Service, filename, content string) {
	t.Helper()
	path := filepath.Join(svc.BaseDir(), "profiles", filename)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestNewServiceHonorsEnvOverride(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "zero-edit-service-env-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	originalEnv := os.Getenv("ZERO_EDIT_DIR")
	os.Setenv("ZERO_EDIT_DIR", tmpDir)
	defer os.Setenv("ZERO_EDIT_DIR", originalEnv)

	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpDir)
	defer os.Setenv("HOME", originalHome)

	svc, err := NewService()
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}
	if svc.BaseDir() != tmpDir {
		t.Errorf("Expected base dir %q, got %q", tmpDir, svc.BaseDir())
	}
}

func TestGenerateOneDeterministic(t *testing.T) {
	svc := newTestService(t)

	first, err := svc.GenerateOne(storage.DefaultProfileName, 42, 7, "", "")
	if err != nil {
		t.Fatalf("Failed to generate: %v", err)
	}
	if first == "" {
		t.Fatal("Expected non-empty prompt")
	}

	for i := 0; i < 10; i++ {
		got, err := svc.GenerateOne(storage.DefaultProfileName, 42, 7, "", "")
		if err != nil {
			t.Fatal(err)
		}
		if got != first {
			t.Fatalf("Generation not stable: got %q then %q", first, got)
		}
	}
}

func TestGenerateBatchMatchesSingles(t *testing.T) {
	svc := newTestService(t)

	prompts, err := svc.GenerateBatch(storage.DefaultProfileName, 3, 10, 8, "", "")
	if err != nil {
		t.Fatalf("Failed to generate batch: %v", err)
	}
	if len(prompts) != 8 {
		t.Fatalf("Expected 8 prompts, got %d", len(prompts))
	}

	for i, got := range prompts {
		want, err := svc.GenerateOne(storage.DefaultProfileName, 3, 10+uint64(i), "", "")
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("Batch prompt %d: expected %q, got %q", i, want, got)
		}
	}
}

func TestGenerateRejectsInvalidProfile(t *testing.T) {
	svc := newTestService(t)

	writeLibraryProfile(t, svc, "bad-ref.json",
		`{"name":"bad-ref","templates":["{ghost} everything"],"pools":{"action":["x"]}}`)

	_, err := svc.GenerateOne("bad-ref", 0, 0, "", "")
	if err == nil {
		t.Fatal("Expected generation to fail for profile with unknown pool reference")
	}
	appErr := errors.GetAppError(err)
	if appErr == nil || appErr.Code != errors.ErrCodeUnresolvedPlaceholder {
		t.Errorf("Expected %s error, got %v", errors.ErrCodeUnresolvedPlaceholder, err)
	}
}

func TestGetProfileAllowsWarnings(t *testing.T) {
	svc := newTestService(t)

	// Duplicates warn but do not block generation
	writeLibraryProfile(t, svc, "dup.json",
		`{"name":"dup","version":"1","templates":["{a} it"],"pools":{"a":["x","X","y"]}}`)

	profile, err := svc.GetProfile("dup")
	if err != nil {
		t.Fatalf("Expected profile with warnings to load, got %v", err)
	}
	if profile.Name != "dup" {
		t.Errorf("Expected name 'dup', got %q", profile.Name)
	}

	if _, err := svc.GenerateOne("dup", 1, 1, "", ""); err != nil {
		t.Errorf("Expected generation to succeed with warnings, got %v", err)
	}
}

func TestListProfilesSkipsBrokenFiles(t *testing.T) {
	svc := newTestService(t)

	writeLibraryProfile(t, svc, "broken.json", `{"name": not json`)

	profiles, err := svc.ListProfiles()
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range profiles {
		if p.Name == "broken" {
			t.Error("Expected broken profile to be skipped in listing")
		}
	}
	if len(profiles) != 1 {
		t.Errorf("Expected only the default profile, got %d", len(profiles))
	}
}

func TestDescribeProfile(t *testing.T) {
	svc := newTestService(t)

	writeLibraryProfile(t, svc, "counted.json",
		`{"name":"counted","version":"1","templates":["{a} the {b}"],"pools":{"a":["1","2","3"],"b":["4","5","6","7"]}}`)

	stats, err := svc.DescribeProfile("counted")
	if err != nil {
		t.Fatalf("Failed to describe profile: %v", err)
	}
	if stats.TemplateCount != 1 {
		t.Errorf("Expected 1 template, got %d", stats.TemplateCount)
	}
	if stats.TotalCombinations.String() != "12" {
		t.Errorf("Expected 12 combinations, got %s", stats.TotalCombinations)
	}
}

func TestSearchProfiles(t *testing.T) {
	svc := newTestService(t)

	writeLibraryProfile(t, svc, "portrait.json",
		`{"name":"portrait","version":"1","description":"Portrait retouch edits","templates":["x"],"pools":{}}`)
	writeLibraryProfile(t, svc, "landscape.json",
		`{"name":"landscape","version":"1","description":"Landscape color edits","templates":["x"],"pools":{}}`)

	results, err := svc.SearchProfiles("portrait")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("Expected at least one match for 'portrait'")
	}
	if results[0].Name != "portrait" {
		t.Errorf("Expected best match 'portrait', got %q", results[0].Name)
	}

	// Empty query returns everything
	all, err := svc.SearchProfiles("")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 profiles for empty query, got %d", len(all))
	}
}

func TestSaveProfile(t *testing.T) {
	svc := newTestService(t)

	profile := &models.Profile{
		Name:      "written",
		Version:   "1.0",
		Templates: []string{"{a} it"},
		Pools:     map[string][]string{"a": {"fix"}},
	}
	if err := svc.SaveProfile(profile, "written"); err != nil {
		t.Fatalf("Failed to save profile: %v", err)
	}

	loaded, err := svc.GetProfile("written")
	if err != nil {
		t.Fatalf("Failed to load saved profile: %v", err)
	}
	if loaded.Name != "written" {
		t.Errorf("Expected name 'written', got %q", loaded.Name)
	}
}
