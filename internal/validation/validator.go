// Package validation provides profile integrity checking and statistics.
//
// SYSTEM ARCHITECTURE ROLE:
// This module implements the validation layer of the system. A profile is
// validated once at load time; a profile with fatal findings is rejected
// outright rather than failing per-generation-call. The composer re-checks
// references at generation time, but this package is the authoritative gate.
//
// KEY RESPONSIBILITIES:
// - Detect fatal structural findings: empty template list, template
//   placeholders that reference no pool, referenced pools with no entries
// - Detect non-fatal findings: duplicate pool entries, blank entries,
//   pools never referenced by any template, missing descriptive metadata
// - Compute profile statistics, including the total combination count
//
// INTEGRATION POINTS:
// - internal/service/service.go: LoadProfile rejects profiles with fatal findings
// - internal/cli/cli.go: `zero-edit validate` prints findings and exits non-zero
// - internal/api/server.go: POST /api/v1/validate returns the ValidationResult
// - cmd/profile-lint: standalone lint tool built on ValidateProfile and Stats
// - internal/errors/errors.go: ValidationResult.ToAppError() converts failures
//
// COMBINATION COUNTING:
// The total is the sum over templates of the product of the sizes of the
// distinct pools each template references. A repeated placeholder counts
// once; a pool no template references contributes nothing. Totals routinely
// exceed uint64, so they are computed in math/big.
package validation

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/dpshade/zero-edit/internal/errors"
	"github.com/dpshade/zero-edit/internal/models"
)

// Finding codes reported by ValidateProfile.
const (
	CodeEmptyTemplates   = "EMPTY_TEMPLATES"
	CodeBlankTemplate    = "BLANK_TEMPLATE"
	CodeUnknownPool      = "UNKNOWN_POOL"
	CodeEmptyPool        = "EMPTY_POOL"
	CodeDuplicateEntry   = "DUPLICATE_ENTRY"
	CodeBlankEntry       = "BLANK_ENTRY"
	CodeUnreferencedPool = "UNREFERENCED_POOL"
	CodeMissingMetadata  = "MISSING_METADATA"
)

// ValidationError represents a fatal profile finding. A profile with any
// fatal finding must not be used for generation.
type ValidationError struct {
	Field   string      `json:"field"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// ValidationWarning represents a non-fatal profile finding.
type ValidationWarning struct {
	Field   string      `json:"field"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// ValidationResult represents the outcome of validating one profile.
type ValidationResult struct {
	Valid    bool                `json:"valid"`
	Errors   []ValidationError   `json:"errors,omitempty"`
	Warnings []ValidationWarning `json:"warnings,omitempty"`
}

// ValidateProfile checks the referential integrity of a profile.
//
// Fatal findings: an empty template list, a placeholder referencing a pool
// that does not exist, and a referenced pool with no entries. Warnings:
// duplicate entries within a pool (compared case-insensitively), blank
// entries, pools never referenced by any template, and missing descriptive
// metadata.
func ValidateProfile(profile *models.Profile) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if profile.Name == "" {
		result.warn("name", CodeMissingMetadata, "Profile has no name")
	}
	if profile.Version == "" {
		result.warn("version", CodeMissingMetadata, "Profile has no version")
	}

	if profile.TemplateCount() == 0 {
		result.fail("templates", CodeEmptyTemplates, "Profile has no templates", nil)
		return result
	}

	referenced := make(map[string]bool)
	for i := 0; i < profile.TemplateCount(); i++ {
		field := fmt.Sprintf("templates[%d]", i)
		if strings.TrimSpace(profile.TemplateAt(i)) == "" {
			result.warn(field, CodeBlankTemplate, fmt.Sprintf("Template %d is blank", i))
		}
		for _, name := range profile.Placeholders(i) {
			referenced[name] = true
			if !profile.HasPool(name) {
				result.fail(field, CodeUnknownPool,
					fmt.Sprintf("Template %d references undefined pool '%s'", i, name), name)
			} else if profile.PoolSize(name) == 0 {
				result.fail(field, CodeEmptyPool,
					fmt.Sprintf("Template %d references empty pool '%s'", i, name), name)
			}
		}
	}

	for _, name := range profile.PoolNames() {
		field := "pools." + name

		if !referenced[name] {
			result.warn(field, CodeUnreferencedPool,
				fmt.Sprintf("Pool '%s' is never referenced by any template", name))
		}

		seen := make(map[string]bool, profile.PoolSize(name))
		for i := 0; i < profile.PoolSize(name); i++ {
			entry := profile.PoolEntryAt(name, i)
			if strings.TrimSpace(entry) == "" {
				result.warn(field, CodeBlankEntry,
					fmt.Sprintf("Blank entry at index %d in pool '%s'", i, name))
				continue
			}
			lower := strings.ToLower(entry)
			if seen[lower] {
				result.warn(field, CodeDuplicateEntry,
					fmt.Sprintf("Duplicate entry in pool '%s': '%s'", name, entry))
			}
			seen[lower] = true
		}
	}

	return result
}

func (r *ValidationResult) fail(field, code, message string, value interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, ValidationError{Field: field, Code: code, Message: message, Value: value})
}

func (r *ValidationResult) warn(field, code, message string) {
	r.Warnings = append(r.Warnings, ValidationWarning{Field: field, Code: code, Message: message})
}

// Stats computes display statistics for a profile. The total is
// Σ over templates of Π over that template's distinct pools of the pool
// size; templates that omit a pool do not have its size multiplied in.
func Stats(profile *models.Profile) *models.Stats {
	stats := &models.Stats{
		TemplateCount:     profile.TemplateCount(),
		PoolSizes:         make(map[string]int, len(profile.Pools)),
		TotalCombinations: big.NewInt(0),
	}

	for _, name := range profile.PoolNames() {
		stats.PoolSizes[name] = profile.PoolSize(name)
	}

	for i := 0; i < profile.TemplateCount(); i++ {
		product := big.NewInt(1)
		for _, name := range profile.Placeholders(i) {
			product.Mul(product, big.NewInt(int64(profile.PoolSize(name))))
		}
		stats.TotalCombinations.Add(stats.TotalCombinations, product)
	}

	return stats
}

// ToAppError converts validation result to AppError
func (r *ValidationResult) ToAppError() *errors.AppError {
	if r.Valid {
		return nil
	}

	if len(r.Errors) == 0 {
		return errors.ValidationError("Validation failed")
	}

	// Use the first error's code to pick the taxonomy entry
	first := r.Errors[0]
	var appErr *errors.AppError
	switch first.Code {
	case CodeEmptyTemplates:
		appErr = errors.EmptyProfileError()
	case CodeUnknownPool:
		appErr = errors.NewAppError(errors.ErrCodeUnresolvedPlaceholder, first.Message)
	case CodeEmptyPool:
		name, _ := first.Value.(string)
		appErr = errors.EmptyPoolError(name)
	default:
		appErr = errors.ValidationError(first.Message)
	}

	var details []string
	for _, e := range r.Errors {
		details = append(details, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	appErr.WithDetails(strings.Join(details, "; "))
	appErr.WithContext("validation_errors", r.Errors)
	if len(r.Warnings) > 0 {
		appErr.WithContext("validation_warnings", r.Warnings)
	}

	return appErr
}
