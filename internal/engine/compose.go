package engine

import (
	"strings"

	"github.com/dpshade/zero-edit/internal/errors"
	"github.com/dpshade/zero-edit/internal/models"
)

// TemplateSlot is the coordinate slot reserved for template selection.
// Placeholder slots start at TemplateSlot + 1.
const TemplateSlot uint32 = 0

// Compose generates the single prompt at (seed, index) from a profile.
//
// Slot assignment rule (frozen): slot 0 selects the template; each distinct
// placeholder name then receives the next slot (1, 2, ...) in order of first
// appearance scanning the chosen template left to right. A placeholder that
// repeats within the template reuses its slot, so both occurrences
// substitute the same chosen phrase.
//
// prefix and suffix, when non-empty, are joined to the prompt with a single
// space. No other whitespace normalization is performed.
func Compose(profile *models.Profile, seed uint32, index uint64, prefix, suffix string) (string, error) {
	if profile.TemplateCount() == 0 {
		return "", errors.EmptyProfileError()
	}

	templateIdx, err := Select(seed, index, TemplateSlot, profile.TemplateCount())
	if err != nil {
		return "", err
	}
	template := profile.TemplateAt(templateIdx)

	result := template
	for i, name := range models.ExtractPlaceholders(template) {
		slot := TemplateSlot + 1 + uint32(i)

		if !profile.HasPool(name) {
			return "", errors.UnknownPoolError(name)
		}
		size := profile.PoolSize(name)
		if size == 0 {
			return "", errors.EmptyPoolError(name)
		}

		entryIdx, err := Select(seed, index, slot, size)
		if err != nil {
			return "", err
		}
		result = strings.ReplaceAll(result, "{"+name+"}", profile.PoolEntryAt(name, entryIdx))
	}

	if prefix != "" {
		result = prefix + " " + result
	}
	if suffix != "" {
		result = result + " " + suffix
	}
	return result, nil
}
