package probe

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nao1215/tsukuyomi/internal/config"
	"github.com/nao1215/tsukuyomi/internal/log"
	"github.com/nao1215/tsukuyomi/internal/server"
)

// newTrapServer starts a trap with fast test settings.
func newTrapServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := config.NewConfig()
	cfg.Salt = "probe-test-salt"
	cfg.Branching = 3
	cfg.DelayMin = 0
	cfg.DelayMax = 0
	cfg.Normalize()

	s, err := server.New(cfg, log.NewLogger(io.Discard, cfg.Salt, false))
	if err != nil {
		t.Fatalf("failed to build server: %v", err)
	}

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

// TestProberAgainstTrap verifies the prober passes a healthy trap.
func TestProberAgainstTrap(t *testing.T) {
	t.Parallel()

	ts := newTrapServer(t)
	p := NewProber(ts.URL,
		WithClient(ts.Client()),
		WithMaxPages(10),
		WithExpectedFanout(3),
	)

	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !result.OK() {
		t.Errorf("expected a clean probe, got problems: %v", result.Problems)
	}
	if result.PagesFetched < 4 {
		t.Errorf("expected several pages fetched, got %d", result.PagesFetched)
	}
	if result.MaxDepthSeen < 1 {
		t.Errorf("expected the walk to go deeper than the front page, got depth %d", result.MaxDepthSeen)
	}
	if result.UniqueTokens == 0 {
		t.Error("expected unique page paths to be recorded")
	}
}

// TestProberFlagsWrongFanout verifies the fan-out check fires.
func TestProberFlagsWrongFanout(t *testing.T) {
	t.Parallel()

	ts := newTrapServer(t)
	p := NewProber(ts.URL,
		WithClient(ts.Client()),
		WithMaxPages(4),
		WithExpectedFanout(7),
	)

	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.OK() {
		t.Error("expected fan-out problems against a branching-3 trap")
	}
}

// TestProberFlagsNonDeterministicServer verifies the determinism check.
func TestProberFlagsNonDeterministicServer(t *testing.T) {
	t.Parallel()

	counter := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		counter++
		_, _ = w.Write([]byte(strings.Repeat("x", counter)))
	}))
	defer ts.Close()

	p := NewProber(ts.URL, WithClient(ts.Client()), WithMaxPages(4))
	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.OK() {
		t.Error("expected a determinism problem")
	}
}

// TestParsePageLink verifies page link recognition.
func TestParsePageLink(t *testing.T) {
	t.Parallel()

	t.Run("well-formed page link", func(t *testing.T) {
		t.Parallel()
		link, ok := parsePageLink("/page/12/abcdefghijklmnopqrstuvwxyz234567")
		if !ok {
			t.Fatal("expected link to parse")
		}
		if link.depth != 12 {
			t.Errorf("expected depth 12, got %d", link.depth)
		}
	})

	t.Run("non-page hrefs are ignored", func(t *testing.T) {
		t.Parallel()
		for _, href := range []string{"/", "/sitemap-index.xml", "/page/x/tok", "/page/-1/tok", "https://example.com/page/1/t/x"} {
			if _, ok := parsePageLink(href); ok {
				t.Errorf("expected %q to be rejected", href)
			}
		}
	})
}

// TestExtractPageLinks verifies link extraction from HTML.
func TestExtractPageLinks(t *testing.T) {
	t.Parallel()

	page := `<html><body>
	<a href="/page/1/abcdefghijklmnopqrstuvwxyz234567">one</a>
	<a href="/stats">stats</a>
	<a href="/page/2/234567abcdefghijklmnopqrstuvwxyz">two</a>
	</body></html>`

	links, err := extractPageLinks(strings.NewReader(page))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(links) != 2 {
		t.Fatalf("expected 2 page links, got %d", len(links))
	}
	if links[0].depth != 1 || links[1].depth != 2 {
		t.Errorf("unexpected depths: %+v", links)
	}
}
