package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/tsukuyomi/internal/model"
)

// maxChartClients caps how many clients the activity pie chart shows.
const maxChartClients = 8

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.TrapReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeClients(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with the activity window.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.TrapReport) {
	md.H1("Tsukuyomi Trap Report")
	md.PlainText("")

	rows := [][]string{
		{"Generated", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
		{"Total Hits", strconv.Itoa(report.TotalHits)},
		{"Unique Clients", strconv.Itoa(report.UniqueClients)},
		{"Deepest Crawl", strconv.Itoa(report.MaxDepth)},
	}
	if report.HasActivity() {
		rows = append(rows,
			[]string{"First Hit", report.FirstHit.Format("2006-01-02 15:04:05 MST")},
			[]string{"Last Hit", report.LastHit.Format("2006-01-02 15:04:05 MST")},
		)
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeSummary writes the activity chart and a verdict alert.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.TrapReport) {
	md.H2("Activity")
	md.PlainText("")

	if report.HasActivity() && len(report.Clients) > 0 {
		w.writePieChart(md, report)
	}

	switch {
	case report.MaxDepth > 100:
		md.Warningf(
			"At least one client crawled %d levels deep. That is automated traversal, not a human.",
			report.MaxDepth,
		)
	case report.HasActivity():
		md.Notef("%d hits recorded from %d clients.", report.TotalHits, report.UniqueClients)
	default:
		md.Tip("No trap activity recorded yet.")
	}
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart of hits per client.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.TrapReport) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Hits per Client"),
		piechart.WithShowData(true),
	)

	clients := report.Clients
	if len(clients) > maxChartClients {
		clients = clients[:maxChartClients]
	}
	for _, c := range clients {
		chart.LabelAndIntValue(c.ClientKey, uint64(c.Hits))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeClients writes the per-client activity table.
func (w *MarkdownWriter) writeClients(md *markdown.Markdown, report *model.TrapReport) {
	md.H2("Clients")
	md.PlainText("")

	if len(report.Clients) == 0 {
		md.PlainText("No clients recorded.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.Clients))
	for i, c := range report.Clients {
		rows[i] = []string{
			"`" + c.ClientKey + "`",
			truncateString(c.UserAgent, 50),
			strconv.Itoa(c.Hits),
			strconv.Itoa(c.MaxDepth),
			c.LastSeen.Format("2006-01-02 15:04:05"),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Client", "User Agent", "Hits", "Max Depth", "Last Seen"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [tsukuyomi](https://github.com/nao1215/tsukuyomi)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
