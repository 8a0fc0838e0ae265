package cmd

import (
	"errors"
	"flag"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// DefaultDataFile is read from the working directory when no path is given.
const DefaultDataFile = "AirbnbData_with_features.csv"

// Config holds CLI configuration.
type Config struct {
	DataPath    string
	Delimiter   rune
	CachePath   string
	NoCache     bool
	LogFile     string
	LogLevel    string
	ShowVersion bool
	Version     string
}

// ParseFlags parses command-line flags and returns configuration.
func ParseFlags(version string) (*Config, error) {
	// Load .env files first so env-based defaults work with existing flag parsing.
	// Variables already set in the environment win.
	for _, name := range []string{".env", ".env.local"} {
		if err := loadDotEnv(name); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", name, err)
		}
	}

	return parseArgs(os.Args[1:], version)
}

func parseArgs(args []string, version string) (*Config, error) {
	config := &Config{Version: version}

	fs := flag.NewFlagSet("airdash", flag.ContinueOnError)
	var delim string
	fs.StringVar(&config.DataPath, "data", "", "Path to the listings CSV (or set AIRDASH_DATA env var)")
	fs.StringVar(&delim, "delim", ",", "Field delimiter of the data file")
	fs.StringVar(&config.CachePath, "cache", "", "Path to SQLite parse cache (default: ~/.airdash/cache.db)")
	fs.BoolVar(&config.NoCache, "no-cache", false, "Always parse the data file, never touch the cache")
	fs.StringVar(&config.LogFile, "log-file", "", "Path to log file (default: ~/.airdash/airdash.log)")
	fs.StringVar(&config.LogLevel, "log-level", "", "Log level: debug, info, warn, error (or set AIRDASH_LOG_LEVEL)")
	fs.BoolVar(&config.ShowVersion, "version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	runes := []rune(delim)
	if len(runes) != 1 || runes[0] == '"' || runes[0] == '\n' || runes[0] == '\r' {
		return nil, fmt.Errorf("invalid delimiter %q: must be a single character", delim)
	}
	config.Delimiter = runes[0]

	if config.DataPath == "" {
		config.DataPath = os.Getenv("AIRDASH_DATA")
	}
	if config.DataPath == "" {
		config.DataPath = DefaultDataFile
	}
	if config.CachePath == "" {
		config.CachePath = os.Getenv("AIRDASH_CACHE")
	}
	if config.LogLevel == "" {
		config.LogLevel = os.Getenv("AIRDASH_LOG_LEVEL")
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}

	if config.ShowVersion {
		return config, nil
	}

	// Set default paths under ~/.airdash if not specified
	if config.CachePath == "" || config.LogFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		configDir := filepath.Join(home, ".airdash")
		if err := os.MkdirAll(configDir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}

		if config.CachePath == "" {
			config.CachePath = filepath.Join(configDir, "cache.db")
		}
		if config.LogFile == "" {
			config.LogFile = filepath.Join(configDir, "airdash.log")
		}
	}

	return config, nil
}

// loadDotEnv reads path into the environment without overriding variables
// already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, iofs.ErrNotExist) {
		return err
	}
	return nil
}
