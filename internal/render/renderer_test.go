package render

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"golang.org/x/net/html"

	"github.com/nao1215/tsukuyomi/internal/fractal"
	"github.com/nao1215/tsukuyomi/internal/model"
)

// testView builds a realistic page view through the real derivation chain.
func testView(t *testing.T) PageView {
	t.Helper()

	deriver := fractal.NewDeriver("test-salt")
	root := deriver.Root("/")
	expander := fractal.NewExpander(deriver, 8)
	synthesizer := fractal.NewSynthesizer()

	return PageView{
		Token:      root,
		Coordinate: synthesizer.Locate(root, 0),
		Children:   expander.Expand(root, 0),
		ChildDepth: 1,
	}
}

// extractLinks parses rendered HTML and returns all anchor hrefs.
func extractLinks(t *testing.T, body []byte) []string {
	t.Helper()

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("rendered page is not parseable HTML: %v", err)
	}

	var links []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key == "href" {
					links = append(links, attr.Val)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links
}

// TestRendererPage verifies the trap page output.
func TestRendererPage(t *testing.T) {
	t.Parallel()

	t.Run("repeated rendering is byte-identical", func(t *testing.T) {
		t.Parallel()
		view := testView(t)
		r := NewRenderer(true)

		first, err := r.Page(view)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		second, err := r.Page(view)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !bytes.Equal(first, second) {
			t.Error("expected byte-identical output for the same view")
		}
	})

	t.Run("every child becomes a page link at the child depth", func(t *testing.T) {
		t.Parallel()
		view := testView(t)
		body, err := NewRenderer(false).Page(view)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var pageLinks []string
		for _, link := range extractLinks(t, body) {
			if strings.HasPrefix(link, "/page/") {
				pageLinks = append(pageLinks, link)
			}
		}
		if len(pageLinks) != len(view.Children) {
			t.Fatalf("expected %d page links, got %d", len(view.Children), len(pageLinks))
		}
		for i, link := range pageLinks {
			want := model.PageURL(view.ChildDepth, view.Children[i])
			if link != want {
				t.Errorf("link %d: expected %q, got %q", i, want, link)
			}
		}
	})

	t.Run("minimal variant stays under five kilobytes", func(t *testing.T) {
		t.Parallel()
		body, err := NewRenderer(false).Page(testView(t))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(body) >= 5*1024 {
			t.Errorf("expected under 5KB, got %d bytes", len(body))
		}
	})

	t.Run("rich variant carries the survey narrative", func(t *testing.T) {
		t.Parallel()
		view := testView(t)

		minimal, err := NewRenderer(false).Page(view)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		rich, err := NewRenderer(true).Page(view)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(rich) <= len(minimal) {
			t.Error("expected rich variant to be larger than minimal")
		}
		if !strings.Contains(string(rich), "iterations") {
			t.Error("expected computation narrative in rich variant")
		}
	})

	t.Run("output never contains the salt", func(t *testing.T) {
		t.Parallel()
		body, err := NewRenderer(true).Page(testView(t))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if strings.Contains(string(body), "test-salt") {
			t.Error("salt leaked into rendered output")
		}
	})
}

// TestRendererStats verifies the operator activity page.
func TestRendererStats(t *testing.T) {
	t.Parallel()

	t.Run("empty report renders the idle message", func(t *testing.T) {
		t.Parallel()
		body, err := NewRenderer(false).Stats(&model.TrapReport{GeneratedAt: time.Now()})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(string(body), "No activity") {
			t.Errorf("expected idle message, got %s", body)
		}
	})

	t.Run("active report lists clients", func(t *testing.T) {
		t.Parallel()
		report := &model.TrapReport{
			GeneratedAt:   time.Now(),
			TotalHits:     42,
			UniqueClients: 1,
			MaxDepth:      17,
			Clients: []model.ClientActivity{
				{ClientKey: "192.0.2.1#abc", UserAgent: "testbot/1.0", Hits: 42, MaxDepth: 17, LastSeen: time.Now()},
			},
		}
		body, err := NewRenderer(false).Stats(report)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		out := string(body)
		if !strings.Contains(out, "192.0.2.1#abc") || !strings.Contains(out, "testbot/1.0") {
			t.Errorf("expected client row in output, got %s", out)
		}
	})
}

// TestSitemap verifies the sitemap chain documents.
func TestSitemap(t *testing.T) {
	t.Parallel()

	t.Run("index references every numbered page", func(t *testing.T) {
		t.Parallel()
		body, err := SitemapIndex(3)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var index struct {
			Sitemaps []struct {
				Loc string `xml:"loc"`
			} `xml:"sitemap"`
		}
		if err := xml.Unmarshal(body, &index); err != nil {
			t.Fatalf("index is not valid XML: %v", err)
		}
		if len(index.Sitemaps) != 3 {
			t.Fatalf("expected 3 sitemap refs, got %d", len(index.Sitemaps))
		}
		if index.Sitemaps[2].Loc != "/sitemap-3.xml" {
			t.Errorf("expected /sitemap-3.xml, got %q", index.Sitemaps[2].Loc)
		}
	})

	t.Run("page lists one URL per token", func(t *testing.T) {
		t.Parallel()
		deriver := fractal.NewDeriver("test-salt")
		tokens := []model.Token{
			deriver.Root("/sitemap/1/0"),
			deriver.Root("/sitemap/1/1"),
		}

		body, err := Sitemap(tokens, 0)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var set struct {
			URLs []struct {
				Loc string `xml:"loc"`
			} `xml:"url"`
		}
		if err := xml.Unmarshal(body, &set); err != nil {
			t.Fatalf("sitemap is not valid XML: %v", err)
		}
		if len(set.URLs) != 2 {
			t.Fatalf("expected 2 URLs, got %d", len(set.URLs))
		}
		if set.URLs[0].Loc != model.PageURL(0, tokens[0]) {
			t.Errorf("expected %q, got %q", model.PageURL(0, tokens[0]), set.URLs[0].Loc)
		}
	})

	t.Run("robots advertises the sitemap", func(t *testing.T) {
		t.Parallel()
		out := string(Robots())
		if !strings.Contains(out, "Sitemap: /sitemap-index.xml") {
			t.Errorf("expected sitemap line, got %s", out)
		}
		if !strings.Contains(out, "Allow: /page/") {
			t.Errorf("expected page allow line, got %s", out)
		}
	})
}
