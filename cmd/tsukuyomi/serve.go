package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nao1215/tsukuyomi/internal/config"
	"github.com/nao1215/tsukuyomi/internal/log"
	"github.com/nao1215/tsukuyomi/internal/server"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the crawler trap HTTP server",
		Long: `Serve starts the trap HTTP server.

Every path answers with a normal-looking page carrying links to deeper pages.
The graph is derived on the fly from the salt, so two traps with the same salt
and parameters serve identical pages.

Examples:
  # Serve with defaults on :8080
  tsukuyomi serve --salt "my-secret-salt"

  # Aggressive trap: wide fan-out, early folding, long delays
  tsukuyomi serve --salt s3cret --branching 16 --max-depth 20 --delay-max 5s

  # Rich content variant with persistent hit logging
  tsukuyomi serve --salt s3cret --rich --db-dir /var/lib/tsukuyomi

  # Use a custom configuration file
  tsukuyomi serve -c mytrap.yaml

Configuration file (.tsukuyomi) example:
  addr: ":8080"
  salt: "my-secret-salt"
  branching_factor: 8
  max_depth: 100
  delay_min: "100ms"
  delay_max: "2s"
  rich_content: true`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	// Listener flags
	cmd.Flags().StringP("addr", "a", config.DefaultAddr,
		"Listen address in host:port form")

	// Graph shape flags
	cmd.Flags().IntP("branching", "n", config.DefaultBranching,
		"Number of child links per page")
	cmd.Flags().IntP("max-depth", "m", config.DefaultMaxDepth,
		"Depth threshold beyond which traversal folds into a cycle")
	cmd.Flags().Int("cycle-length", config.DefaultCycleLength,
		"Cycle length of the depth fold")
	cmd.Flags().StringP("salt", "s", "",
		"Secret salt for page derivation (ephemeral if empty)")

	// Tarpit flags
	cmd.Flags().Duration("delay-min", config.DefaultDelayMin,
		"Minimum artificial response delay")
	cmd.Flags().Duration("delay-max", config.DefaultDelayMax,
		"Maximum artificial response delay")
	cmd.Flags().Int("delay-after-depth", config.DefaultDelayAfterDepth,
		"Effective depth beyond which delays apply")

	// Content and tracking flags
	cmd.Flags().BoolP("rich", "r", false,
		"Serve the rich content variant (generated narrative and statistics)")
	cmd.Flags().Bool("no-tracking", false,
		"Disable the in-memory visit tracker and /stats endpoint")
	cmd.Flags().String("db-dir", "",
		"Directory for the persistent SQLite hit log (empty disables it)")
	cmd.Flags().String("log-file", "",
		"Append JSON request logs to this file")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .tsukuyomi in current or home directory)")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildServeConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	cfg.Verbose = getVerboseFlag(cmd)
	logger := log.NewLogger(os.Stderr, cfg.Salt, cfg.Verbose)
	for _, warning := range cfg.Normalize() {
		logger.Warn("configuration corrected", slog.String("detail", warning))
	}

	// An empty salt still serves a consistent graph within one process, but
	// the graph changes on every restart. Warn without revealing the value.
	if cfg.Salt == "" {
		salt, err := ephemeralSalt()
		if err != nil {
			return fmt.Errorf("failed to generate ephemeral salt: %w", err)
		}
		cfg.Salt = salt
		logger = log.NewLogger(os.Stderr, cfg.Salt, cfg.Verbose)
		logger.Warn("no salt configured, generated an ephemeral one; the page graph will change on restart")
	}

	serverLogger := logger
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) //nolint:gosec // User-provided log path is intentional
		if err != nil {
			return fmt.Errorf("failed to open log file %s: %w", cfg.LogFile, err)
		}
		defer f.Close() //nolint:errcheck
		serverLogger = log.NewJSONLogger(f, cfg.Salt, cfg.Verbose)
	}
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv, err := server.New(cfg, serverLogger)
	if err != nil {
		return fmt.Errorf("failed to build trap server: %w", err)
	}

	logger.Info("starting crawler trap",
		slog.String("addr", cfg.Addr),
		slog.Int("branching", cfg.Branching),
		slog.Int("max_depth", cfg.MaxDepth),
		slog.Int("cycle_length", cfg.CycleLength),
		slog.Duration("delay_min", cfg.DelayMin),
		slog.Duration("delay_max", cfg.DelayMax),
		slog.Bool("rich_content", cfg.RichContent),
		slog.Bool("tracking", cfg.TrackingEnabled),
	)

	return srv.Run(ctx)
}

// ephemeralSalt generates a random salt for a single process lifetime.
func ephemeralSalt() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// buildServeConfig creates a Config from the config file and cobra flags.
// The file only overrides what it mentions; flags the user actually set win
// over both defaults and the file.
func buildServeConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	configFlagPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.ConfigFilePath = configFlagPath

	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently continue without a file.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.ApplyTo(cfg)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	if err := applyServeFlags(cmd, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyServeFlags copies every flag the user changed onto the config.
func applyServeFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	stringFlags := map[string]*string{
		"addr":     &cfg.Addr,
		"salt":     &cfg.Salt,
		"db-dir":   &cfg.DBDir,
		"log-file": &cfg.LogFile,
	}
	for name, dst := range stringFlags {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetString(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	intFlags := map[string]*int{
		"branching":         &cfg.Branching,
		"max-depth":         &cfg.MaxDepth,
		"cycle-length":      &cfg.CycleLength,
		"delay-after-depth": &cfg.DelayAfterDepth,
	}
	for name, dst := range intFlags {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetInt(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	durationFlags := map[string]*time.Duration{
		"delay-min": &cfg.DelayMin,
		"delay-max": &cfg.DelayMax,
	}
	for name, dst := range durationFlags {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetDuration(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	if flags.Changed("rich") {
		v, err := flags.GetBool("rich")
		if err != nil {
			return err
		}
		cfg.RichContent = v
	}
	if flags.Changed("no-tracking") {
		v, err := flags.GetBool("no-tracking")
		if err != nil {
			return err
		}
		cfg.TrackingEnabled = !v
	}

	return nil
}
