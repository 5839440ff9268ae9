package renderer

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/dpshade/zero-edit/internal/models"
)

// Renderer formats generated prompts and profile information for output
type Renderer struct {
	profile *models.Profile
	stats   *models.Stats
}

// NewRenderer creates a new renderer instance
func NewRenderer(profile *models.Profile, stats *models.Stats) *Renderer {
	return &Renderer{
		profile: profile,
		stats:   stats,
	}
}

// Message represents a chat message for LLM APIs
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// RenderText renders generated prompts as plain text, one per line
func (r *Renderer) RenderText(prompts []string) string {
	return strings.Join(prompts, "\n")
}

// RenderJSON renders generated prompts as a JSON message array for LLM APIs
func (r *Renderer) RenderJSON(prompts []string) (string, error) {
	messages := make([]Message, 0, len(prompts))
	for _, p := range prompts {
		messages = append(messages, Message{
			Role:    "user",
			Content: p,
		})
	}

	jsonBytes, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal to JSON: %w", err)
	}

	return string(jsonBytes), nil
}

// RenderInfoMarkdown renders profile statistics as markdown for display
// through glamour in the TUI or plain in the CLI.
func (r *Renderer) RenderInfoMarkdown() string {
	var b strings.Builder

	name := r.profile.Name
	if name == "" {
		name = "(unnamed profile)"
	}
	fmt.Fprintf(&b, "# %s\n\n", name)

	if r.profile.Summary != "" {
		fmt.Fprintf(&b, "%s\n\n", r.profile.Summary)
	}
	if r.profile.Version != "" {
		fmt.Fprintf(&b, "Version: %s\n\n", r.profile.Version)
	}

	b.WriteString("## Pool Sizes\n\n")
	for _, poolName := range r.profile.PoolNames() {
		fmt.Fprintf(&b, "- `%s`: %d entries\n", poolName, r.stats.PoolSizes[poolName])
	}
	fmt.Fprintf(&b, "- templates: %d variations\n\n", r.stats.TemplateCount)

	fmt.Fprintf(&b, "## Combinations\n\n")
	fmt.Fprintf(&b, "Total unique edit prompts: %s\n\n", formatBigInt(r.stats.TotalCombinations))
	fmt.Fprintf(&b, "Scientific notation: %s\n", scientific(r.stats.TotalCombinations))

	return b.String()
}

// formatBigInt renders a big integer with thousands separators
func formatBigInt(n *big.Int) string {
	s := n.String()
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)

	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}

// scientific renders a big integer in scientific notation with two decimals
func scientific(n *big.Int) string {
	f := new(big.Float).SetInt(n)
	return f.Text('e', 2)
}
