package probe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Prober walks a running trap and verifies its promised properties.
// It manages a queue of page URLs and compares what it sees against the
// expected fan-out and determinism guarantees.
type Prober struct {
	// client is the HTTP client used for fetching.
	client *http.Client

	// baseURL is the trap's base URL, without a trailing slash.
	baseURL string

	// maxPages limits the total number of pages fetched.
	// The trap is infinite; the prober must bound itself.
	maxPages int

	// expectedFanout is the expected number of page links per page.
	// Zero disables the fan-out check.
	expectedFanout int

	// userAgent is the User-Agent header to announce.
	userAgent string

	// maxBodySize limits the size of response bodies to read.
	maxBodySize int64
}

// Option configures a Prober.
type Option func(*Prober)

// WithClient sets a custom HTTP client.
func WithClient(client *http.Client) Option {
	return func(p *Prober) {
		p.client = client
	}
}

// WithMaxPages sets the maximum number of pages to fetch.
func WithMaxPages(n int) Option {
	return func(p *Prober) {
		if n > 0 {
			p.maxPages = n
		}
	}
}

// WithExpectedFanout sets the expected number of page links per page.
func WithExpectedFanout(n int) Option {
	return func(p *Prober) {
		p.expectedFanout = n
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(p *Prober) {
		p.userAgent = ua
	}
}

// NewProber creates a Prober for the trap at baseURL.
func NewProber(baseURL string, opts ...Option) *Prober {
	p := &Prober{
		client:      &http.Client{Timeout: 30 * time.Second},
		baseURL:     trimTrailingSlash(baseURL),
		maxPages:    32,
		userAgent:   "tsukuyomi-probe/1.0",
		maxBodySize: 1 << 20,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

func trimTrailingSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}

// Result is the outcome of one probe run.
type Result struct {
	// PagesFetched is the number of pages fetched.
	PagesFetched int

	// MaxDepthSeen is the largest raw depth seen in any link.
	MaxDepthSeen int

	// UniqueTokens is the number of distinct page paths encountered.
	UniqueTokens int

	// Problems lists every property violation found. Empty means the
	// trap behaves as promised.
	Problems []string
}

// OK reports whether the probe found no property violations.
func (r *Result) OK() bool {
	return len(r.Problems) == 0
}

// Run probes the trap: it verifies determinism of the front page, then
// walks page links breadth-first up to the page budget, checking fan-out
// and status codes as it goes.
func (p *Prober) Run(ctx context.Context) (*Result, error) {
	result := &Result{}

	// Determinism: the same URL must serve identical bytes.
	first, err := p.fetch(ctx, "/")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch front page: %w", err)
	}
	second, err := p.fetch(ctx, "/")
	if err != nil {
		return nil, fmt.Errorf("failed to re-fetch front page: %w", err)
	}
	result.PagesFetched += 2
	if !bytes.Equal(first.body, second.body) {
		result.Problems = append(result.Problems, "front page differs across fetches")
	}

	// An arbitrary path must still serve a normal trap page.
	stray, err := p.fetch(ctx, "/definitely/not/a/real/path")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stray path: %w", err)
	}
	result.PagesFetched++
	if stray.status != http.StatusOK {
		result.Problems = append(result.Problems, fmt.Sprintf("stray path answered %d, want 200", stray.status))
	}

	// Breadth-first walk through page links.
	seen := map[string]bool{}
	queue := make([]pageLink, 0)
	links, err := extractPageLinks(bytes.NewReader(first.body))
	if err != nil {
		return nil, fmt.Errorf("front page is not parseable HTML: %w", err)
	}
	p.checkFanout(result, "/", links)
	queue = append(queue, links...)

	for len(queue) > 0 && result.PagesFetched < p.maxPages {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		link := queue[0]
		queue = queue[1:]
		if seen[link.path] {
			continue
		}
		seen[link.path] = true

		page, err := p.fetch(ctx, link.path)
		if err != nil {
			result.Problems = append(result.Problems, fmt.Sprintf("fetch %s: %v", link.path, err))
			continue
		}
		result.PagesFetched++
		if link.depth > result.MaxDepthSeen {
			result.MaxDepthSeen = link.depth
		}
		if page.status != http.StatusOK {
			result.Problems = append(result.Problems, fmt.Sprintf("%s answered %d, want 200", link.path, page.status))
			continue
		}

		children, err := extractPageLinks(bytes.NewReader(page.body))
		if err != nil {
			result.Problems = append(result.Problems, fmt.Sprintf("%s is not parseable HTML: %v", link.path, err))
			continue
		}
		p.checkFanout(result, link.path, children)
		for _, child := range children {
			if child.depth <= link.depth {
				result.Problems = append(result.Problems,
					fmt.Sprintf("%s links to depth %d, want deeper than %d", link.path, child.depth, link.depth))
			}
			if !seen[child.path] {
				queue = append(queue, child)
			}
		}
	}

	result.UniqueTokens = len(seen)
	return result, nil
}

// checkFanout records a problem if the page's fan-out is off.
func (p *Prober) checkFanout(result *Result, path string, links []pageLink) {
	if p.expectedFanout <= 0 {
		return
	}
	if len(links) != p.expectedFanout {
		result.Problems = append(result.Problems,
			fmt.Sprintf("%s has %d page links, want %d", path, len(links), p.expectedFanout))
	}
}

// fetchedPage is one fetched response.
type fetchedPage struct {
	status int
	body   []byte
}

// fetch retrieves one trap path.
func (p *Prober) fetch(ctx context.Context, path string) (*fetchedPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, p.maxBodySize))
	if err != nil {
		return nil, err
	}

	return &fetchedPage{status: resp.StatusCode, body: body}, nil
}
