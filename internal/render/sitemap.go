package render

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/nao1215/tsukuyomi/internal/model"
)

// sitemapNamespace is the standard sitemap protocol namespace. Crawlers that
// honor it treat the chain as authoritative, which is exactly the point.
const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// sitemapIndex is the <sitemapindex> document pointing at numbered pages.
type sitemapIndex struct {
	XMLName  xml.Name     `xml:"sitemapindex"`
	Xmlns    string       `xml:"xmlns,attr"`
	Sitemaps []sitemapRef `xml:"sitemap"`
}

// sitemapRef is one entry in the index.
type sitemapRef struct {
	Loc string `xml:"loc"`
}

// urlSet is a numbered sitemap page listing trap URLs.
type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	Xmlns   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

// urlEntry is one URL in a sitemap page.
type urlEntry struct {
	Loc      string `xml:"loc"`
	Priority string `xml:"priority,omitempty"`
}

// SitemapIndex renders the sitemap index referencing pageCount numbered
// sitemap pages, 1-based.
func SitemapIndex(pageCount int) ([]byte, error) {
	index := sitemapIndex{Xmlns: sitemapNamespace}
	for i := 1; i <= pageCount; i++ {
		index.Sitemaps = append(index.Sitemaps, sitemapRef{
			Loc: fmt.Sprintf("/sitemap-%d.xml", i),
		})
	}
	return marshalXML(index)
}

// Sitemap renders one numbered sitemap page listing the given tokens at the
// given raw depth.
func Sitemap(tokens []model.Token, depth int) ([]byte, error) {
	set := urlSet{Xmlns: sitemapNamespace}
	for _, token := range tokens {
		set.URLs = append(set.URLs, urlEntry{
			Loc:      model.PageURL(depth, token),
			Priority: "0.8",
		})
	}
	return marshalXML(set)
}

// marshalXML produces an indented document with the XML header.
func marshalXML(v any) ([]byte, error) {
	body, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sitemap: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.Write(body)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Robots renders the robots.txt that steers crawlers into the trap.
// Disallowing a few plausible paths makes the Allow lines look deliberate.
func Robots() []byte {
	return []byte(`User-agent: *
Allow: /
Allow: /page/
Disallow: /stats
Sitemap: /sitemap-index.xml
Crawl-delay: 1
`)
}
