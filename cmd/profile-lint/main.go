// profile-lint validates profile files in place and reports their
// statistics, without needing an initialized library. Pass file paths;
// with --samples it also prints deterministic preview prompts so the
// vocabulary can be eyeballed before the profile is installed.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dpshade/zero-edit/internal/engine"
	"github.com/dpshade/zero-edit/internal/renderer"
	"github.com/dpshade/zero-edit/internal/storage"
	"github.com/dpshade/zero-edit/internal/validation"
)

func main() {
	var samples int
	var seed uint
	var quiet bool

	flag.IntVar(&samples, "samples", 0, "Number of preview prompts to generate")
	flag.UintVar(&seed, "seed", 0, "Seed for preview prompts")
	flag.BoolVar(&quiet, "quiet", false, "Only print findings, skip statistics")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: profile-lint [OPTIONS] <profile-file>...

Validates profile files and prints their statistics. Exits non-zero if
any file has fatal findings.

OPTIONS:
`)
		flag.PrintDefaults()
	}
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	failed := false
	for _, path := range paths {
		if !lintFile(path, samples, uint32(seed), quiet) {
			failed = true
		}
	}

	if failed {
		os.Exit(1)
	}
}

// lintFile validates one profile file and reports on it. Returns false
// when the file has fatal findings or cannot be parsed.
func lintFile(path string, samples int, seed uint32, quiet bool) bool {
	fmt.Printf("== %s\n", path)

	profile, err := storage.ParseProfileFile(path)
	if err != nil {
		fmt.Printf("❌ %v\n\n", err)
		return false
	}

	result := validation.ValidateProfile(profile)
	for _, e := range result.Errors {
		fmt.Printf("❌ %s: %s\n", e.Field, e.Message)
	}
	for _, w := range result.Warnings {
		fmt.Printf("⚠️  %s: %s\n", w.Field, w.Message)
	}

	if !result.Valid {
		fmt.Println()
		return false
	}

	fmt.Printf("✓ valid (%d warning(s))\n", len(result.Warnings))

	if !quiet {
		stats := validation.Stats(profile)
		fmt.Println()
		fmt.Print(renderer.NewRenderer(profile, stats).RenderInfoMarkdown())
	}

	if samples > 0 {
		fmt.Printf("\nPreview (seed %d):\n", seed)
		for i := 0; i < samples; i++ {
			prompt, err := engine.Compose(profile, seed, uint64(i), "", "")
			if err != nil {
				fmt.Printf("❌ generation failed at index %d: %v\n", i, err)
				return false
			}
			fmt.Printf("%3d. %s\n", i, prompt)
		}
	}

	fmt.Println()
	return true
}
