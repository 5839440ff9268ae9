package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dpshade/zero-edit/internal/errors"
	"github.com/dpshade/zero-edit/internal/models"
)

func newTestStorage(t *testing.T) (*Storage, string) {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "zero-edit-storage-test")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	store, err := NewStorage(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	return store, tmpDir
}

func writeProfile(t *testing.T, store *Storage, filename, content string) {
	t.Helper()
	if err := os.MkdirAll(store.ProfilesDir(), 0755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(store.ProfilesDir(), filename)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestInitLibrary(t *testing.T) {
	store, tmpDir := newTestStorage(t)

	if err := store.InitLibrary(); err != nil {
		t.Fatalf("Failed to initialize library: %v", err)
	}

	for _, dir := range []string{"profiles", "logs"} {
		if _, err := os.Stat(filepath.Join(tmpDir, dir)); err != nil {
			t.Errorf("Expected %s directory to exist: %v", dir, err)
		}
	}

	profile, err := store.LoadProfile(DefaultProfileName)
	if err != nil {
		t.Fatalf("Failed to load seeded default profile: %v", err)
	}
	if profile.TemplateCount() == 0 {
		t.Error("Default profile has no templates")
	}
	if len(profile.Pools) == 0 {
		t.Error("Default profile has no pools")
	}
}

func TestListProfilesDefaultFirst(t *testing.T) {
	store, _ := newTestStorage(t)
	if err := store.InitLibrary(); err != nil {
		t.Fatal(err)
	}

	writeProfile(t, store, "aaa-custom.json",
		`{"name":"aaa","templates":["x"],"pools":{}}`)
	writeProfile(t, store, "zzz-custom.yaml",
		"name: zzz\ntemplates:\n  - y\npools: {}\n")

	names, err := store.ListProfiles()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 3 {
		t.Fatalf("Expected 3 profiles, got %d: %v", len(names), names)
	}
	if names[0] != DefaultProfileName {
		t.Errorf("Expected default profile first, got %q", names[0])
	}
	if names[1] != "aaa-custom" || names[2] != "zzz-custom" {
		t.Errorf("Expected sorted remainder, got %v", names)
	}
}

func TestListProfilesMissingDirectory(t *testing.T) {
	store, _ := newTestStorage(t)

	names, err := store.ListProfiles()
	if err != nil {
		t.Fatalf("Expected no error for missing profiles directory, got %v", err)
	}
	if len(names) != 0 {
		t.Errorf("Expected no profiles, got %v", names)
	}
}

func TestLoadProfileJSONAndYAML(t *testing.T) {
	store, _ := newTestStorage(t)

	writeProfile(t, store, "json-prof.json",
		`{"name":"json-prof","description":"from json","templates":["{a} x"],"pools":{"a":["1","2"]}}`)
	writeProfile(t, store, "yaml-prof.yaml",
		"name: yaml-prof\ndescription: from yaml\ntemplates:\n  - \"{a} y\"\npools:\n  a: [\"1\"]\n")

	jsonProf, err := store.LoadProfile("json-prof")
	if err != nil {
		t.Fatalf("Failed to load JSON profile: %v", err)
	}
	if jsonProf.Summary != "from json" {
		t.Errorf("Expected description 'from json', got %q", jsonProf.Summary)
	}
	if jsonProf.ContentHash == "" {
		t.Error("Expected content hash to be set")
	}

	yamlProf, err := store.LoadProfile("yaml-prof")
	if err != nil {
		t.Fatalf("Failed to load YAML profile: %v", err)
	}
	if yamlProf.Summary != "from yaml" {
		t.Errorf("Expected description 'from yaml', got %q", yamlProf.Summary)
	}

	// Loading with explicit extension also works
	if _, err := store.LoadProfile("json-prof.json"); err != nil {
		t.Errorf("Failed to load by filename: %v", err)
	}
}

func TestLoadProfileNameFallsBackToFilename(t *testing.T) {
	store, _ := newTestStorage(t)

	writeProfile(t, store, "anonymous.json",
		`{"templates":["x"],"pools":{}}`)

	profile, err := store.LoadProfile("anonymous")
	if err != nil {
		t.Fatal(err)
	}
	if profile.Name != "anonymous" {
		t.Errorf("Expected name to fall back to 'anonymous', got %q", profile.Name)
	}
}

func TestLoadProfileNotFound(t *testing.T) {
	store, _ := newTestStorage(t)
	if err := store.InitLibrary(); err != nil {
		t.Fatal(err)
	}

	_, err := store.LoadProfile("does-not-exist")
	if err == nil {
		t.Fatal("Expected error for missing profile")
	}
	appErr := errors.GetAppError(err)
	if appErr == nil || appErr.Code != errors.ErrCodeFileNotFound {
		t.Errorf("Expected %s error, got %v", errors.ErrCodeFileNotFound, err)
	}
}

func TestLoadProfileMalformed(t *testing.T) {
	store, _ := newTestStorage(t)

	writeProfile(t, store, "broken.json", `{"name": "broken", not valid json`)
	writeProfile(t, store, "missing-templates.json", `{"name":"mt","pools":{}}`)
	writeProfile(t, store, "missing-pools.json", `{"name":"mp","templates":["x"]}`)

	for _, name := range []string{"broken", "missing-templates", "missing-pools"} {
		_, err := store.LoadProfile(name)
		if err == nil {
			t.Fatalf("Expected error loading %q", name)
		}
		appErr := errors.GetAppError(err)
		if appErr == nil || appErr.Code != errors.ErrCodeMalformedProfile {
			t.Errorf("Expected %s error for %q, got %v", errors.ErrCodeMalformedProfile, name, err)
		}
	}
}

func TestLoadProfileCacheInvalidatesOnChange(t *testing.T) {
	store, _ := newTestStorage(t)

	writeProfile(t, store, "cached.json",
		`{"name":"cached","version":"1","templates":["x"],"pools":{}}`)

	first, err := store.LoadProfile("cached")
	if err != nil {
		t.Fatal(err)
	}
	if first.Version != "1" {
		t.Fatalf("Expected version 1, got %q", first.Version)
	}

	// Unchanged file returns the cached profile
	again, err := store.LoadProfile("cached")
	if err != nil {
		t.Fatal(err)
	}
	if again != first {
		t.Error("Expected cached pointer for unchanged file")
	}

	// Rewrite with different size so the stat check detects the change
	writeProfile(t, store, "cached.json",
		`{"name":"cached","version":"2-updated","templates":["x"],"pools":{}}`)

	updated, err := store.LoadProfile("cached")
	if err != nil {
		t.Fatal(err)
	}
	if updated.Version != "2-updated" {
		t.Errorf("Expected reparsed version '2-updated', got %q", updated.Version)
	}
}

func TestSaveProfileRoundTrip(t *testing.T) {
	store, _ := newTestStorage(t)

	original := &models.Profile{
		Name:      "saved",
		Version:   "1.0",
		Templates: []string{"{a} the image"},
		Pools:     map[string][]string{"a": {"sharpen", "soften"}},
	}
	if err := store.SaveProfile(original, "saved"); err != nil {
		t.Fatalf("Failed to save profile: %v", err)
	}

	loaded, err := store.LoadProfile("saved")
	if err != nil {
		t.Fatalf("Failed to load saved profile: %v", err)
	}
	if loaded.Name != original.Name {
		t.Errorf("Expected name %q, got %q", original.Name, loaded.Name)
	}
	if loaded.TemplateCount() != original.TemplateCount() {
		t.Errorf("Expected %d templates, got %d", original.TemplateCount(), loaded.TemplateCount())
	}
}

func TestParseProfileFile(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "zero-edit-parse-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "standalone.yaml")
	content := "name: standalone\ntemplates:\n  - \"{a} z\"\npools:\n  a: [\"1\", \"2\"]\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	profile, err := ParseProfileFile(path)
	if err != nil {
		t.Fatalf("Failed to parse standalone file: %v", err)
	}
	if profile.Name != "standalone" {
		t.Errorf("Expected name 'standalone', got %q", profile.Name)
	}
	if profile.FilePath != path {
		t.Errorf("Expected file path %q, got %q", path, profile.FilePath)
	}

	_, err = ParseProfileFile(filepath.Join(tmpDir, "nope.json"))
	if err == nil {
		t.Error("Expected error for missing file")
	}
}
