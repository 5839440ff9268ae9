package engine

import (
	"strings"
	"testing"

	"github.com/dpshade/zero-edit/internal/errors"
	"github.com/dpshade/zero-edit/internal/models"
)

func testProfile() *models.Profile {
	return &models.Profile{
		Name: "test",
		Templates: []string{
			"{action} the {target}",
			"carefully {action} every {target}",
		},
		Pools: map[string][]string{
			"action": {"sharpen", "soften", "recolor"},
			"target": {"background", "subject", "sky", "foreground"},
		},
	}
}

func TestComposeDeterministic(t *testing.T) {
	profile := testProfile()

	first, err := Compose(profile, 42, 7, "", "")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		got, err := Compose(profile, 42, 7, "", "")
		if err != nil {
			t.Fatal(err)
		}
		if got != first {
			t.Fatalf("Compose not stable: got %q then %q", first, got)
		}
	}
}

func TestComposeResolvesAllPlaceholders(t *testing.T) {
	profile := testProfile()

	for i := uint64(0); i < 100; i++ {
		prompt, err := Compose(profile, 3, i, "", "")
		if err != nil {
			t.Fatal(err)
		}
		if strings.Contains(prompt, "{") || strings.Contains(prompt, "}") {
			t.Fatalf("Prompt at index %d contains unresolved placeholder: %q", i, prompt)
		}
	}
}

func TestComposeUsesPoolEntries(t *testing.T) {
	profile := testProfile()

	prompt, err := Compose(profile, 1, 1, "", "")
	if err != nil {
		t.Fatal(err)
	}

	foundAction := false
	for _, entry := range profile.Pools["action"] {
		if strings.Contains(prompt, entry) {
			foundAction = true
		}
	}
	if !foundAction {
		t.Errorf("Prompt %q contains no entry from the action pool", prompt)
	}

	foundTarget := false
	for _, entry := range profile.Pools["target"] {
		if strings.Contains(prompt, entry) {
			foundTarget = true
		}
	}
	if !foundTarget {
		t.Errorf("Prompt %q contains no entry from the target pool", prompt)
	}
}

func TestComposeRepeatedPlaceholderSamePhrase(t *testing.T) {
	profile := &models.Profile{
		Name:      "repeat",
		Templates: []string{"{action} then {action} again"},
		Pools: map[string][]string{
			"action": {"sharpen", "soften", "recolor", "blur", "warm"},
		},
	}

	for i := uint64(0); i < 50; i++ {
		prompt, err := Compose(profile, 11, i, "", "")
		if err != nil {
			t.Fatal(err)
		}
		// Both occurrences substitute the same phrase, so the prompt must
		// read "<x> then <x> again".
		rest := strings.TrimSuffix(prompt, " again")
		parts := strings.Split(rest, " then ")
		if len(parts) != 2 || parts[0] != parts[1] {
			t.Fatalf("Repeated placeholder resolved inconsistently at index %d: %q", i, prompt)
		}
	}
}

func TestComposePrefixSuffix(t *testing.T) {
	profile := testProfile()

	bare, err := Compose(profile, 5, 5, "", "")
	if err != nil {
		t.Fatal(err)
	}

	decorated, err := Compose(profile, 5, 5, "please", "thanks")
	if err != nil {
		t.Fatal(err)
	}
	if decorated != "please "+bare+" thanks" {
		t.Errorf("Expected %q, got %q", "please "+bare+" thanks", decorated)
	}

	prefixOnly, err := Compose(profile, 5, 5, "please", "")
	if err != nil {
		t.Fatal(err)
	}
	if prefixOnly != "please "+bare {
		t.Errorf("Expected %q, got %q", "please "+bare, prefixOnly)
	}
}

func TestComposeEmptyProfile(t *testing.T) {
	profile := &models.Profile{
		Name:      "empty",
		Templates: []string{},
		Pools:     map[string][]string{},
	}

	_, err := Compose(profile, 0, 0, "", "")
	if err == nil {
		t.Fatal("Expected error for profile with no templates")
	}
	appErr := errors.GetAppError(err)
	if appErr == nil || appErr.Code != errors.ErrCodeEmptyProfile {
		t.Errorf("Expected %s error, got %v", errors.ErrCodeEmptyProfile, err)
	}
}

func TestComposeUnknownPool(t *testing.T) {
	profile := &models.Profile{
		Name:      "unknown",
		Templates: []string{"{missing} the image"},
		Pools:     map[string][]string{"action": {"sharpen"}},
	}

	_, err := Compose(profile, 0, 0, "", "")
	if err == nil {
		t.Fatal("Expected error for template referencing an unknown pool")
	}
	appErr := errors.GetAppError(err)
	if appErr == nil || appErr.Code != errors.ErrCodeUnknownPool {
		t.Errorf("Expected %s error, got %v", errors.ErrCodeUnknownPool, err)
	}
}

func TestComposeEmptyPool(t *testing.T) {
	profile := &models.Profile{
		Name:      "hollow",
		Templates: []string{"{action} the image"},
		Pools:     map[string][]string{"action": {}},
	}

	_, err := Compose(profile, 0, 0, "", "")
	if err == nil {
		t.Fatal("Expected error for empty referenced pool")
	}
	appErr := errors.GetAppError(err)
	if appErr == nil || appErr.Code != errors.ErrCodeEmptyPool {
		t.Errorf("Expected %s error, got %v", errors.ErrCodeEmptyPool, err)
	}
}

func TestComposeSeedChangesOutput(t *testing.T) {
	profile := testProfile()

	// With 2 templates and pools of 3 and 4 entries, two seeds agreeing on
	// every one of 50 indices would mean the hash ignores the seed.
	same := 0
	for i := uint64(0); i < 50; i++ {
		a, err := Compose(profile, 1, i, "", "")
		if err != nil {
			t.Fatal(err)
		}
		b, err := Compose(profile, 2, i, "", "")
		if err != nil {
			t.Fatal(err)
		}
		if a == b {
			same++
		}
	}
	if same == 50 {
		t.Error("Seeds 1 and 2 produced identical prompts at every index")
	}
}
