package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/tsukuyomi/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// maxClients caps the number of per-client rows shown.
	maxClients int

	// verbose shows every client instead of the top rows only.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithMaxClients caps the number of per-client rows in the output.
func WithMaxClients(n int) SimpleWriterOption {
	return func(w *SimpleWriter) {
		if n > 0 {
			w.maxClients = n
		}
	}
}

// WithVerbose shows all clients regardless of the row cap.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		maxClients: 20,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.TrapReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeSummary(&sb, report)
	w.writeClients(&sb, report)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.TrapReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        TSUKUYOMI TRAP REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Generated:      %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")))
	if report.HasActivity() {
		sb.WriteString(fmt.Sprintf("First Hit:      %s\n", report.FirstHit.Format("2006-01-02 15:04:05 MST")))
		sb.WriteString(fmt.Sprintf("Last Hit:       %s\n", report.LastHit.Format("2006-01-02 15:04:05 MST")))
	}
	sb.WriteString("\n")
}

// writeSummary writes the aggregate activity section.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.TrapReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("ACTIVITY SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  TOTAL HITS:      %d\n", report.TotalHits))
	sb.WriteString(fmt.Sprintf("  UNIQUE CLIENTS:  %d\n", report.UniqueClients))
	sb.WriteString(fmt.Sprintf("  DEEPEST CRAWL:   %d\n", report.MaxDepth))
	sb.WriteString("\n")
}

// writeClients writes the per-client section, most active first.
func (w *SimpleWriter) writeClients(sb *strings.Builder, report *model.TrapReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("CLIENTS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(report.Clients) == 0 {
		sb.WriteString("  No clients recorded\n\n")
		return
	}

	clients := report.Clients
	truncated := 0
	if !w.verbose && len(clients) > w.maxClients {
		truncated = len(clients) - w.maxClients
		clients = clients[:w.maxClients]
	}

	for _, c := range clients {
		sb.WriteString(fmt.Sprintf("  [+] %s\n", c.ClientKey))
		sb.WriteString(fmt.Sprintf("      Agent:     %s\n", c.UserAgent))
		sb.WriteString(fmt.Sprintf("      Hits:      %d\n", c.Hits))
		sb.WriteString(fmt.Sprintf("      Max Depth: %d\n", c.MaxDepth))
		sb.WriteString(fmt.Sprintf("      Active:    %s .. %s\n",
			c.FirstSeen.Format("2006-01-02 15:04:05"),
			c.LastSeen.Format("2006-01-02 15:04:05"),
		))
	}
	if truncated > 0 {
		sb.WriteString(fmt.Sprintf("\n  ... and %d more (use --verbose to show all)\n", truncated))
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by tsukuyomi\n")
	sb.WriteString("https://github.com/nao1215/tsukuyomi\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
