// Package cli provides headless command-line interface functionality.
//
// Commands map directly onto the service layer: listing and searching
// profiles, showing statistics, validating, and generating single prompts
// or ordered batches. Output defaults to plain text with --format json
// available on every command that prints data.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dpshade/zero-edit/internal/errors"
	"github.com/dpshade/zero-edit/internal/models"
	"github.com/dpshade/zero-edit/internal/renderer"
	"github.com/dpshade/zero-edit/internal/service"
)

// CLI provides headless command-line interface functionality
type CLI struct {
	service      *service.Service
	errorHandler *errors.CLIErrorHandler
}

// NewCLI creates a new CLI instance
func NewCLI(svc *service.Service) *CLI {
	return &CLI{
		service:      svc,
		errorHandler: errors.NewCLIErrorHandler(os.Getenv("VERBOSE") == "true"),
	}
}

// ExecuteCommand processes a CLI command and returns the result
func (c *CLI) ExecuteCommand(args []string) error {
	if len(args) == 0 {
		return c.printUsage()
	}

	command := args[0]
	commandArgs := args[1:]

	var err error
	switch command {
	case "profiles", "list", "ls":
		err = c.listProfiles(commandArgs)
	case "search":
		err = c.searchProfiles(commandArgs)
	case "info", "show":
		err = c.showProfile(commandArgs)
	case "validate":
		err = c.validateProfile(commandArgs)
	case "generate", "gen":
		err = c.generate(commandArgs)
	case "batch":
		err = c.generateBatch(commandArgs)
	case "init":
		err = c.initLibrary()
	case "help":
		err = c.printUsage()
	default:
		err = errors.CommandNotFoundError(command)
	}

	if err != nil {
		return c.errorHandler.HandleError(err)
	}
	return nil
}

// listProfiles lists all discoverable profiles
func (c *CLI) listProfiles(args []string) error {
	format := parseStringFlag(args, "--format", "-f")

	profiles, err := c.service.ListProfiles()
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}

	return c.formatProfiles(profiles, format)
}

// searchProfiles fuzzy-searches profile names and descriptions
func (c *CLI) searchProfiles(args []string) error {
	if len(args) == 0 {
		return errors.InvalidCommandError("search", "requires a query")
	}

	format := parseStringFlag(args, "--format", "-f")
	query := strings.Join(stripFlags(args), " ")

	profiles, err := c.service.SearchProfiles(query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	return c.formatProfiles(profiles, format)
}

// showProfile displays statistics for a specific profile
func (c *CLI) showProfile(args []string) error {
	if len(args) == 0 {
		return errors.InvalidCommandError("info", "requires a profile name")
	}
	name := args[0]
	format := parseStringFlag(args[1:], "--format", "-f")

	profile, err := c.service.GetProfile(name)
	if err != nil {
		return err
	}
	stats, err := c.service.DescribeProfile(name)
	if err != nil {
		return err
	}

	if format == "json" {
		out := map[string]interface{}{
			"name":              profile.Name,
			"description":       profile.Summary,
			"version":           profile.Version,
			"templateCount":     stats.TemplateCount,
			"poolSizes":         stats.PoolSizes,
			"totalCombinations": stats.TotalCombinations.String(),
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	r := renderer.NewRenderer(profile, stats)
	fmt.Println(r.RenderInfoMarkdown())
	return nil
}

// validateProfile prints validation findings and fails on fatal ones
func (c *CLI) validateProfile(args []string) error {
	if len(args) == 0 {
		return errors.InvalidCommandError("validate", "requires a profile name")
	}
	name := args[0]
	format := parseStringFlag(args[1:], "--format", "-f")

	result, err := c.service.ValidateProfile(name)
	if err != nil {
		return err
	}

	if format == "json" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	} else {
		for _, e := range result.Errors {
			fmt.Printf("❌ %s: %s\n", e.Field, e.Message)
		}
		for _, w := range result.Warnings {
			fmt.Printf("⚠️  %s: %s\n", w.Field, w.Message)
		}
		if result.Valid {
			fmt.Printf("✓ Profile '%s' is valid (%d warning(s))\n", name, len(result.Warnings))
		}
	}

	if !result.Valid {
		return result.ToAppError()
	}
	return nil
}

// generate produces a single prompt at (seed, index)
func (c *CLI) generate(args []string) error {
	if len(args) == 0 {
		return errors.InvalidCommandError("generate", "requires a profile name")
	}
	name := args[0]
	flags := args[1:]

	seed, err := parseUint32Flag(flags, "--seed", "-s", 0)
	if err != nil {
		return err
	}
	index, err := parseUint64Flag(flags, "--index", "-i", 0)
	if err != nil {
		return err
	}
	prefix := parseStringFlag(flags, "--prefix", "")
	suffix := parseStringFlag(flags, "--suffix", "")
	format := parseStringFlag(flags, "--format", "-f")

	prompt, err := c.service.GenerateOne(name, seed, index, prefix, suffix)
	if err != nil {
		return err
	}

	return c.writePrompts([]string{prompt}, format)
}

// generateBatch produces sequential prompts starting at --start
func (c *CLI) generateBatch(args []string) error {
	if len(args) == 0 {
		return errors.InvalidCommandError("batch", "requires a profile name")
	}
	name := args[0]
	flags := args[1:]

	seed, err := parseUint32Flag(flags, "--seed", "-s", 0)
	if err != nil {
		return err
	}
	start, err := parseUint64Flag(flags, "--start", "", 0)
	if err != nil {
		return err
	}
	count, err := parseIntFlag(flags, "--count", "-n", 5)
	if err != nil {
		return err
	}
	prefix := parseStringFlag(flags, "--prefix", "")
	suffix := parseStringFlag(flags, "--suffix", "")
	format := parseStringFlag(flags, "--format", "-f")

	prompts, err := c.service.GenerateBatch(name, seed, start, count, prefix, suffix)
	if err != nil {
		return err
	}

	return c.writePrompts(prompts, format)
}

// initLibrary creates the library structure with the default profile
func (c *CLI) initLibrary() error {
	if err := c.service.InitLibrary(); err != nil {
		return fmt.Errorf("failed to initialize library: %w", err)
	}
	fmt.Printf("Initialized zero-edit library at %s\n", c.service.BaseDir())
	return nil
}

// writePrompts prints generated prompts in the requested format
func (c *CLI) writePrompts(prompts []string, format string) error {
	r := renderer.NewRenderer(nil, nil)

	switch format {
	case "json":
		out, err := r.RenderJSON(prompts)
		if err != nil {
			return err
		}
		fmt.Println(out)
	default:
		fmt.Println(r.RenderText(prompts))
	}
	return nil
}

// formatProfiles prints a profile listing in the requested format
func (c *CLI) formatProfiles(profiles []*models.Profile, format string) error {
	switch format {
	case "json":
		type entry struct {
			Name        string `json:"name"`
			Description string `json:"description,omitempty"`
			Version     string `json:"version,omitempty"`
			FilePath    string `json:"filePath,omitempty"`
		}
		var out []entry
		for _, p := range profiles {
			out = append(out, entry{Name: p.Name, Description: p.Summary, Version: p.Version, FilePath: p.FilePath})
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	case "ids":
		for _, p := range profiles {
			fmt.Println(p.Name)
		}
	default:
		if len(profiles) == 0 {
			fmt.Println("No profiles found. Run 'zero-edit init' to create the default library.")
			return nil
		}
		for _, p := range profiles {
			line := p.Name
			if p.Version != "" {
				line += " (v" + p.Version + ")"
			}
			if p.Summary != "" {
				line += " - " + p.Summary
			}
			fmt.Println(line)
		}
	}
	return nil
}

// printUsage shows the CLI command summary
func (c *CLI) printUsage() error {
	fmt.Print(`zero-edit commands:

  profiles, ls                 List available profiles
  search <query>               Fuzzy-search profiles by name/description
  info, show <profile>         Show profile statistics
  validate <profile>           Validate a profile (exit 1 on fatal findings)
  generate <profile>           Generate one prompt
      --seed N --index N [--prefix s] [--suffix s] [--format text|json]
  batch <profile>              Generate sequential prompts
      --seed N --start N --count N [--prefix s] [--suffix s] [--format text|json]
  init                         Initialize the library with the default profile
  help                         Show this help

Same (seed, index, profile) always produces the same prompt.
`)
	return nil
}

// Flag parsing helpers

func parseStringFlag(args []string, long, short string) string {
	for i, arg := range args {
		if arg == long || (short != "" && arg == short) {
			if i+1 < len(args) {
				return args[i+1]
			}
		}
	}
	return ""
}

func parseIntFlag(args []string, long, short string, def int) (int, error) {
	raw := parseStringFlag(args, long, short)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.NewAppError(errors.ErrCodeInvalidInput, fmt.Sprintf("%s must be an integer, got '%s'", long, raw))
	}
	return v, nil
}

func parseUint32Flag(args []string, long, short string, def uint32) (uint32, error) {
	raw := parseStringFlag(args, long, short)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, errors.NewAppError(errors.ErrCodeInvalidInput, fmt.Sprintf("%s must be a 32-bit unsigned integer, got '%s'", long, raw))
	}
	return uint32(v), nil
}

func parseUint64Flag(args []string, long, short string, def uint64) (uint64, error) {
	raw := parseStringFlag(args, long, short)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errors.NewAppError(errors.ErrCodeInvalidInput, fmt.Sprintf("%s must be a 64-bit unsigned integer, got '%s'", long, raw))
	}
	return v, nil
}

// stripFlags removes --flag value pairs from an argument list, leaving the
// positional words of a query.
func stripFlags(args []string) []string {
	var out []string
	skip := false
	for _, arg := range args {
		if skip {
			skip = false
			continue
		}
		if strings.HasPrefix(arg, "-") {
			skip = true
			continue
		}
		out = append(out, arg)
	}
	return out
}
