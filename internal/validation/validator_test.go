package validation

import (
	"testing"

	"github.com/dpshade/zero-edit/internal/errors"
	"github.com/dpshade/zero-edit/internal/models"
)

func validProfile() *models.Profile {
	return &models.Profile{
		Name:      "test",
		Version:   "1.0",
		Templates: []string{"{action} the {target}"},
		Pools: map[string][]string{
			"action": {"sharpen", "soften", "recolor"},
			"target": {"background", "subject", "sky", "foreground"},
		},
	}
}

func hasErrorCode(result *ValidationResult, code string) bool {
	for _, e := range result.Errors {
		if e.Code == code {
			return true
		}
	}
	return false
}

func hasWarningCode(result *ValidationResult, code string) bool {
	for _, w := range result.Warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}

func TestValidateProfileValid(t *testing.T) {
	result := ValidateProfile(validProfile())
	if !result.Valid {
		t.Fatalf("Expected valid profile, got errors: %v", result.Errors)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", result.Warnings)
	}
}

func TestValidateProfileEmptyTemplates(t *testing.T) {
	profile := validProfile()
	profile.Templates = []string{}

	result := ValidateProfile(profile)
	if result.Valid {
		t.Fatal("Expected invalid result for empty template list")
	}
	if !hasErrorCode(result, CodeEmptyTemplates) {
		t.Errorf("Expected %s error, got %v", CodeEmptyTemplates, result.Errors)
	}
}

func TestValidateProfileUnknownPool(t *testing.T) {
	profile := validProfile()
	profile.Templates = append(profile.Templates, "{missing} everything")

	result := ValidateProfile(profile)
	if result.Valid {
		t.Fatal("Expected invalid result for unknown pool reference")
	}
	if !hasErrorCode(result, CodeUnknownPool) {
		t.Errorf("Expected %s error, got %v", CodeUnknownPool, result.Errors)
	}
}

func TestValidateProfileEmptyReferencedPool(t *testing.T) {
	profile := validProfile()
	profile.Pools["action"] = []string{}

	result := ValidateProfile(profile)
	if result.Valid {
		t.Fatal("Expected invalid result for empty referenced pool")
	}
	if !hasErrorCode(result, CodeEmptyPool) {
		t.Errorf("Expected %s error, got %v", CodeEmptyPool, result.Errors)
	}
}

func TestValidateProfileDuplicateEntriesWarn(t *testing.T) {
	profile := validProfile()
	profile.Pools["action"] = []string{"sharpen", "Sharpen", "soften"}

	result := ValidateProfile(profile)
	if !result.Valid {
		t.Fatalf("Duplicates must not be fatal, got errors: %v", result.Errors)
	}
	if !hasWarningCode(result, CodeDuplicateEntry) {
		t.Errorf("Expected %s warning, got %v", CodeDuplicateEntry, result.Warnings)
	}
}

func TestValidateProfileUnreferencedPoolWarns(t *testing.T) {
	profile := validProfile()
	profile.Pools["mood"] = []string{"calm", "dramatic"}

	result := ValidateProfile(profile)
	if !result.Valid {
		t.Fatalf("Unreferenced pool must not be fatal, got errors: %v", result.Errors)
	}
	if !hasWarningCode(result, CodeUnreferencedPool) {
		t.Errorf("Expected %s warning, got %v", CodeUnreferencedPool, result.Warnings)
	}
}

func TestValidateProfileBlankEntryWarns(t *testing.T) {
	profile := validProfile()
	profile.Pools["target"] = append(profile.Pools["target"], "   ")

	result := ValidateProfile(profile)
	if !result.Valid {
		t.Fatalf("Blank entry must not be fatal, got errors: %v", result.Errors)
	}
	if !hasWarningCode(result, CodeBlankEntry) {
		t.Errorf("Expected %s warning, got %v", CodeBlankEntry, result.Warnings)
	}
}

func TestValidateProfileMissingMetadataWarns(t *testing.T) {
	profile := validProfile()
	profile.Name = ""
	profile.Version = ""

	result := ValidateProfile(profile)
	if !result.Valid {
		t.Fatalf("Missing metadata must not be fatal, got errors: %v", result.Errors)
	}
	if !hasWarningCode(result, CodeMissingMetadata) {
		t.Errorf("Expected %s warning, got %v", CodeMissingMetadata, result.Warnings)
	}
}

func TestStatsSingleTemplate(t *testing.T) {
	// One template referencing pools of 3 and 4 entries: 3*4 = 12
	stats := Stats(validProfile())

	if stats.TemplateCount != 1 {
		t.Errorf("Expected 1 template, got %d", stats.TemplateCount)
	}
	if stats.PoolSizes["action"] != 3 || stats.PoolSizes["target"] != 4 {
		t.Errorf("Unexpected pool sizes: %v", stats.PoolSizes)
	}
	if stats.TotalCombinations.String() != "12" {
		t.Errorf("Expected 12 combinations, got %s", stats.TotalCombinations)
	}
}

func TestStatsSumsPerTemplate(t *testing.T) {
	// Template 0 uses pools of 3 and 4 (12), template 1 uses a pool of
	// 5 (5): total 17.
	profile := &models.Profile{
		Name:    "sum",
		Version: "1.0",
		Templates: []string{
			"{action} the {target}",
			"make it {mood}",
		},
		Pools: map[string][]string{
			"action": {"a", "b", "c"},
			"target": {"w", "x", "y", "z"},
			"mood":   {"1", "2", "3", "4", "5"},
		},
	}

	stats := Stats(profile)
	if stats.TotalCombinations.String() != "17" {
		t.Errorf("Expected 17 combinations, got %s", stats.TotalCombinations)
	}
}

func TestStatsRepeatedPlaceholderCountsOnce(t *testing.T) {
	profile := &models.Profile{
		Name:      "repeat",
		Version:   "1.0",
		Templates: []string{"{action} then {action}"},
		Pools: map[string][]string{
			"action": {"a", "b", "c"},
		},
	}

	stats := Stats(profile)
	if stats.TotalCombinations.String() != "3" {
		t.Errorf("Expected 3 combinations for repeated placeholder, got %s", stats.TotalCombinations)
	}
}

func TestStatsTemplateWithoutPlaceholders(t *testing.T) {
	profile := &models.Profile{
		Name:      "fixed",
		Version:   "1.0",
		Templates: []string{"make no changes"},
		Pools:     map[string][]string{},
	}

	stats := Stats(profile)
	if stats.TotalCombinations.String() != "1" {
		t.Errorf("Expected 1 combination for fixed template, got %s", stats.TotalCombinations)
	}
}

func TestToAppError(t *testing.T) {
	profile := validProfile()
	profile.Templates = []string{}
	result := ValidateProfile(profile)

	appErr := result.ToAppError()
	if appErr == nil {
		t.Fatal("Expected AppError for invalid result")
	}
	if appErr.Code != errors.ErrCodeEmptyProfile {
		t.Errorf("Expected %s, got %s", errors.ErrCodeEmptyProfile, appErr.Code)
	}

	valid := ValidateProfile(validProfile())
	if valid.ToAppError() != nil {
		t.Error("Expected nil AppError for valid result")
	}
}
