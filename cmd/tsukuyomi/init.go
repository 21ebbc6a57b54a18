package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

//go:embed templates/tsukuyomi.yaml
var configTemplate embed.FS

// configFileName is the default configuration file name.
const configFileName = ".tsukuyomi"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new Tsukuyomi configuration file",
		Long: `Initialize creates a new .tsukuyomi configuration file in the current directory.

The generated file includes:
- Default settings for the graph shape, delays, and tracking
- Commented examples for the rich content variant and persistence
- Documentation for all available options

Examples:
  # Create .tsukuyomi in current directory
  tsukuyomi init

  # Create config file at a specific path
  tsukuyomi init -o mytrap.yaml

  # Force overwrite existing file
  tsukuyomi init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", configFileName,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	// Check if file already exists
	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	// Read template from embedded filesystem
	content, err := configTemplate.ReadFile("templates/tsukuyomi.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	// Create parent directories if needed
	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Write configuration file
	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(cmd.OutOrStdout(), "\nEdit this file to configure the trap, in particular:")
	fmt.Fprintln(cmd.OutOrStdout(), "  - salt: set a stable secret so the graph survives restarts")
	fmt.Fprintln(cmd.OutOrStdout(), "  - branching_factor and max_depth: the shape of the graph")
	fmt.Fprintln(cmd.OutOrStdout(), "  - db_dir: enable the persistent hit log for reports")

	return nil
}
