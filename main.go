package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dpshade/zero-edit/internal/api"
	"github.com/dpshade/zero-edit/internal/cli"
	"github.com/dpshade/zero-edit/internal/service"
	"github.com/dpshade/zero-edit/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

var version = "0.1.0"

func printHelp() {
	fmt.Printf(`zero-edit - Deterministic image edit prompt generator

USAGE:
    zero-edit [OPTIONS] [COMMAND]

OPTIONS:
    --help          Show this help information
    --version       Print version information
    --init          Initialize a new profile library
    --api-server    Start the HTTP API server
    --port          Port for the API server (default: 8080)

COMMANDS:
    (no command)         Start interactive TUI mode
    profiles, ls         List all profiles
    search <query>       Search profiles
    info, show <name>    Show profile statistics
    validate <name>      Validate a profile
    generate <name>      Generate one prompt at (seed, index)
    batch <name>         Generate sequential prompts
    init                 Initialize the profile library
    help                 Show CLI command help

EXAMPLES:
    zero-edit                                        # Start interactive mode
    zero-edit --init                                 # Initialize new library
    zero-edit --api-server --port 9000               # Start API on port 9000
    zero-edit profiles --format json                 # List profiles as JSON
    zero-edit generate default-edit --seed 7 --index 42
    zero-edit batch default-edit --seed 7 --start 0 --count 10
    zero-edit info default-edit                      # Show combination counts

DETERMINISM:
    The same (profile, seed, index) always produces the identical prompt.
    Prompts are never stored; coordinates are the only state.

STORAGE:
    Default directory: ~/.zero-edit
    Override with: ZERO_EDIT_DIR=<path>
`)
}

func main() {
	var showVersion bool
	var initLib bool
	var showHelp bool
	var apiServer bool
	var port int

	flag.BoolVar(&showVersion, "version", false, "Print version information")
	flag.BoolVar(&initLib, "init", false, "Initialize a new profile library")
	flag.BoolVar(&showHelp, "help", false, "Show help information")
	flag.BoolVar(&apiServer, "api-server", false, "Start the HTTP API server")
	flag.IntVar(&port, "port", 8080, "Port for the API server")
	flag.Parse()

	if showHelp {
		printHelp()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("zero-edit version %s\n", version)
		os.Exit(0)
	}

	// Initialize service with file storage
	svc, err := service.NewService()
	if err != nil {
		fmt.Println(err)
		return
	}

	if initLib {
		if err := svc.InitLibrary(); err != nil {
			fmt.Println("Error initializing library:", err)
			return
		}
		fmt.Printf("Initialized zero-edit library at %s\n", svc.BaseDir())
		return
	}

	if apiServer {
		srv := api.NewAPIServer(svc, port)

		// Shut down cleanly on SIGINT/SIGTERM
		go func() {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Stop(ctx)
		}()

		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("Error starting API server: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Check if we have command line arguments for CLI mode
	args := flag.Args()
	if len(args) > 0 {
		// CLI mode - execute command and exit
		cliHandler := cli.NewCLI(svc)
		if err := cliHandler.ExecuteCommand(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// No arguments provided - start TUI mode
	model, err := ui.NewModel(svc)
	if err != nil {
		fmt.Println(err)
		return
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Println(err)
		return
	}
}
