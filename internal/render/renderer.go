package render

import (
	"bytes"
	"fmt"
	"html/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/tsukuyomi/internal/model"
)

// pageTemplate is the trap page. One template serves both variants; the
// minimal variant simply has no narrative and no computation table.
const pageTemplate = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="coordinate">re {{printf "%.15f" .Coordinate.Real}} &middot; im {{printf "%.15f" .Coordinate.Imag}} &middot; {{.Coordinate.Zoom}}x</p>
{{- range .Narrative}}
<p>{{.}}</p>
{{- end}}
{{- if .Computation}}
<table class="computation">
{{- range .Computation}}
<tr><th>{{.Name}}</th><td>{{.Value}}</td></tr>
{{- end}}
</table>
{{- end}}
<ul class="branches">
{{- range .Links}}
<li><a href="{{.URL}}">{{.Label}}</a></li>
{{- end}}
</ul>
<p class="nav"><a href="/">origin frame</a> &middot; <a href="/sitemap-index.xml">survey index</a></p>
</body>
</html>
`

// statsTemplate is the operator-facing activity page.
const statsTemplate = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Trap Activity</title>
</head>
<body>
<h1>Trap Activity</h1>
{{- if .HasActivity}}
<p>{{.TotalHits}} hits from {{.UniqueClients}} clients; deepest traversal {{.MaxDepth}}.</p>
<table>
<tr><th>Client</th><th>User Agent</th><th>Hits</th><th>Max Depth</th><th>Last Seen</th></tr>
{{- range .Clients}}
<tr><td>{{.ClientKey}}</td><td>{{.UserAgent}}</td><td>{{.Hits}}</td><td>{{.MaxDepth}}</td><td>{{.LastSeen.Format "2006-01-02 15:04:05"}}</td></tr>
{{- end}}
</table>
{{- else}}
<p>No activity recorded yet.</p>
{{- end}}
</body>
</html>
`

// statRow is one name/value pair in the rich variant's computation table.
type statRow struct {
	Name  string
	Value string
}

// pageLink is one rendered child link.
type pageLink struct {
	URL   string
	Label string
}

// pageData is what the page template executes against.
type pageData struct {
	Title       string
	Coordinate  model.Coordinate
	Narrative   []string
	Computation []statRow
	Links       []pageLink
}

// PageView is the caller-provided input for rendering one trap page.
// All values are computed upstream; the renderer only formats them.
type PageView struct {
	// Token is the page's own token.
	Token model.Token

	// Coordinate is the page's display coordinate.
	Coordinate model.Coordinate

	// Children are the child tokens, in stable order.
	Children []model.Token

	// ChildDepth is the raw depth to encode into child URLs.
	ChildDepth int
}

// Renderer formats trap pages and the operator stats page.
type Renderer struct {
	// rich selects the narrative variant.
	rich bool

	// page and stats are the parsed templates.
	page  *template.Template
	stats *template.Template

	// titleCaser title-cases generated headings.
	titleCaser cases.Caser
}

// NewRenderer creates a Renderer. If rich is true, pages carry the survey
// narrative and computation table; otherwise they stay under a few kilobytes.
func NewRenderer(rich bool) *Renderer {
	return &Renderer{
		rich:       rich,
		page:       template.Must(template.New("page").Parse(pageTemplate)),
		stats:      template.Must(template.New("stats").Parse(statsTemplate)),
		titleCaser: cases.Title(language.English),
	}
}

// Page renders one trap page. Output is byte-identical for the same view.
func (r *Renderer) Page(view PageView) ([]byte, error) {
	data := pageData{
		Title:      r.titleCaser.String(pageTitle(view.Token, view.Coordinate.Zoom)),
		Coordinate: view.Coordinate,
		Links:      make([]pageLink, 0, len(view.Children)),
	}
	if r.rich {
		data.Narrative = narrative(view.Token, view.Coordinate)
		data.Computation = computation(view.Token, view.Coordinate)
	}
	for _, child := range view.Children {
		data.Links = append(data.Links, pageLink{
			URL:   model.PageURL(view.ChildDepth, child),
			Label: linkLabel(child),
		})
	}

	var buf bytes.Buffer
	if err := r.page.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render page: %w", err)
	}
	return buf.Bytes(), nil
}

// Stats renders the operator activity page from a report.
func (r *Renderer) Stats(report *model.TrapReport) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.stats.Execute(&buf, report); err != nil {
		return nil, fmt.Errorf("failed to render stats: %w", err)
	}
	return buf.Bytes(), nil
}
