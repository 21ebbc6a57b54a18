package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/nao1215/tsukuyomi/internal/probe"
	"github.com/spf13/cobra"
)

// NewProbeCmd creates the probe command.
func NewProbeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Verify a running trap behaves as promised",
		Long: `Probe crawls a running trap the way a real crawler would and checks
the properties the trap guarantees: identical bytes for repeated fetches,
HTTP 200 on arbitrary paths, the configured fan-out on every page, and links
that always lead deeper.

Run it after deployment, or from monitoring, to confirm the trap is wired
correctly.

Examples:
  # Probe a local trap with the default page budget
  tsukuyomi probe

  # Probe a deployed trap and verify its fan-out
  tsukuyomi probe --url https://trap.example.com --fanout 8

  # Quick smoke test
  tsukuyomi probe --max-pages 8`,
		Args: cobra.NoArgs,
		RunE: runProbeCmd,
	}

	cmd.Flags().StringP("url", "u", "http://127.0.0.1:8080",
		"Base URL of the trap to probe")
	cmd.Flags().IntP("max-pages", "p", 32,
		"Maximum number of pages to fetch")
	cmd.Flags().IntP("fanout", "n", 0,
		"Expected page links per page (0 skips the fan-out check)")
	cmd.Flags().DurationP("timeout", "t", 30*time.Second,
		"Timeout for each request")

	return cmd
}

// runProbeCmd executes the probe command.
func runProbeCmd(cmd *cobra.Command, _ []string) error {
	baseURL, err := cmd.Flags().GetString("url")
	if err != nil {
		return err
	}
	maxPages, err := cmd.Flags().GetInt("max-pages")
	if err != nil {
		return err
	}
	fanout, err := cmd.Flags().GetInt("fanout")
	if err != nil {
		return err
	}
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return err
	}

	p := probe.NewProber(baseURL,
		probe.WithClient(&http.Client{Timeout: timeout}),
		probe.WithMaxPages(maxPages),
		probe.WithExpectedFanout(fanout),
	)

	result, err := p.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("probe aborted: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Probed %s\n", baseURL)
	fmt.Fprintf(out, "  pages fetched:  %d\n", result.PagesFetched)
	fmt.Fprintf(out, "  deepest link:   %d\n", result.MaxDepthSeen)
	fmt.Fprintf(out, "  unique pages:   %d\n", result.UniqueTokens)

	if result.OK() {
		fmt.Fprintln(out, "  verdict:        OK")
		return nil
	}

	fmt.Fprintf(out, "  verdict:        %d problem(s)\n", len(result.Problems))
	for _, problem := range result.Problems {
		fmt.Fprintf(out, "    - %s\n", problem)
	}
	return fmt.Errorf("trap failed %d probe check(s)", len(result.Problems))
}
