package main

import (
	"database/sql"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"airdash/cmd"
	"airdash/internal/dataset"
	"airdash/internal/db"
	"airdash/internal/logging"
	"airdash/internal/ui"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup runs before exit.
func run() int {
	// Parse CLI flags
	config, err := cmd.ParseFlags(version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if config.ShowVersion {
		fmt.Printf("airdash %s\n", config.Version)
		return 0
	}

	closer, err := logging.Setup(config.LogFile, config.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closer.Close()

	log.Info().Str("version", config.Version).Str("data", config.DataPath).Msg("starting")

	// Open the parse cache; the dashboard still works without it
	var database *sql.DB
	if !config.NoCache {
		database, err = db.Open(config.CachePath)
		if err != nil {
			log.Warn().Err(err).Str("path", config.CachePath).Msg("cache disabled")
			fmt.Fprintf(os.Stderr, "ℹ  Cache unavailable (%v), parsing without it\n", err)
		} else {
			defer database.Close()
		}
	}

	// Detect terminal capabilities
	termCaps := ui.DetectTerminalCapabilities()

	opts := dataset.DefaultOptions()
	opts.Delimiter = config.Delimiter

	src := ui.DataSource{Path: config.DataPath, Options: opts}

	// Create and run Bubble Tea app
	p := tea.NewProgram(ui.New(database, src, termCaps), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Error().Err(err).Msg("app exited with error")
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		return 1
	}
	return 0
}
