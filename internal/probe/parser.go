package probe

import (
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// pageLink is one trap page link discovered on a fetched page.
type pageLink struct {
	// path is the link target, always of the form /page/<depth>/<token>.
	path string

	// depth is the raw depth parsed out of the path.
	depth int
}

// extractPageLinks parses HTML and returns all trap page links.
//
// Design decision: We use golang.org/x/net/html rather than regex because
// it correctly handles malformed HTML, and the prober must parse exactly
// what a real crawler's parser would see.
func extractPageLinks(content io.Reader) ([]pageLink, error) {
	doc, err := html.Parse(content)
	if err != nil {
		return nil, err
	}

	var links []pageLink
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}
				if link, ok := parsePageLink(attr.Val); ok {
					links = append(links, link)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links, nil
}

// parsePageLink matches /page/<depth>/<token> hrefs.
func parsePageLink(href string) (pageLink, bool) {
	parts := strings.Split(href, "/")
	if len(parts) != 4 || parts[0] != "" || parts[1] != "page" {
		return pageLink{}, false
	}
	depth, err := strconv.Atoi(parts[2])
	if err != nil || depth < 0 {
		return pageLink{}, false
	}
	return pageLink{path: href, depth: depth}, true
}
