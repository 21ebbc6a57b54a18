package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nao1215/tsukuyomi/internal/config"
	"github.com/nao1215/tsukuyomi/internal/database"
	"github.com/nao1215/tsukuyomi/internal/report"
	"github.com/spf13/cobra"
)

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize recorded trap activity",
		Long: `Report reads the persistent hit log and summarizes trap activity:
total hits, unique clients, deepest observed crawl, and per-client details.

The trap must have been run with --db-dir (or db_dir in the config file) for
anything to be recorded.

Examples:
  # Terminal summary of the default database
  tsukuyomi report

  # Markdown report written to a file
  tsukuyomi report --format markdown --output trap-report.md

  # Machine-readable JSON on stdout
  tsukuyomi report --format json --pretty`,
		Args: cobra.NoArgs,
		RunE: runReportCmd,
	}

	cmd.Flags().String("db-dir", "",
		"Directory of the SQLite hit log (default: XDG data directory)")
	cmd.Flags().StringP("format", "f", "simple",
		"Report format: simple, json, or markdown")
	cmd.Flags().StringP("output", "o", "",
		"Write the report to specified file path in addition to stdout")
	cmd.Flags().Bool("pretty", false,
		"Indent JSON output")

	return cmd
}

// runReportCmd executes the report command.
func runReportCmd(cmd *cobra.Command, _ []string) error {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	db, err := database.Open(dbDir, opts)
	if err != nil {
		return fmt.Errorf("no hit log found in %s (did the trap run with --db-dir?): %w", dbDir, err)
	}
	defer db.Close() //nolint:errcheck

	trapReport, err := db.Summary(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to summarize hit log: %w", err)
	}

	writer, closer, err := buildReportWriter(cmd)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close() //nolint:errcheck
	}

	if _, err := writer.Write(trapReport); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// buildReportWriter assembles the report writer chain from flags.
// The returned closer, when non-nil, owns the output file.
func buildReportWriter(cmd *cobra.Command) (report.Writer, io.Closer, error) {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return nil, nil, err
	}
	pretty, err := cmd.Flags().GetBool("pretty")
	if err != nil {
		return nil, nil, err
	}
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return nil, nil, err
	}
	verbose := getVerboseFlag(cmd)

	newWriter := func(w io.Writer) (report.Writer, error) {
		switch format {
		case "simple":
			return report.NewSimpleWriter(w, report.WithVerbose(verbose)), nil
		case "json":
			var jsonOpts []report.JSONWriterOption
			if pretty {
				jsonOpts = append(jsonOpts, report.WithPrettyPrint())
			}
			return report.NewFullJSONWriter(w, getVersion(), jsonOpts...), nil
		case "markdown":
			return report.NewMarkdownWriter(w), nil
		default:
			return nil, fmt.Errorf("unknown report format %q (want simple, json, or markdown)", format)
		}
	}

	stdout, err := newWriter(cmd.OutOrStdout())
	if err != nil {
		return nil, nil, err
	}
	if outputPath == "" {
		return stdout, nil, nil
	}

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(outputPath) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	fileWriter, err := newWriter(f)
	if err != nil {
		f.Close() //nolint:errcheck,gosec
		return nil, nil, err
	}
	return report.NewMultiWriter(stdout, fileWriter), f, nil
}
