package scraper

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// MaxHTMLSize limits HTML input to 10MB to prevent memory exhaustion.
const MaxHTMLSize = 10 * 1024 * 1024

// visibleTextXPath selects text nodes a reader can actually see. Comment
// nodes are not text() nodes, so they are excluded for free.
const visibleTextXPath = `//text()[not(ancestor::script) and not(ancestor::style) and not(ancestor::head) and not(ancestor::noscript) and not(ancestor::template)]`

func validateHTML(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("html content required")
	}
	if len(data) > MaxHTMLSize {
		return fmt.Errorf("html exceeds maximum size of %d bytes", MaxHTMLSize)
	}
	return nil
}

// detectCharset detects and returns the charset of raw HTML bytes.
func detectCharset(data []byte) string {
	detector := chardet.NewTextDetector()
	result, err := detector.DetectBest(data)
	if err != nil || result == nil {
		return "utf-8"
	}
	return strings.ToLower(result.Charset)
}

// loadDocument parses HTML into a goquery document with automatic charset
// detection.
func loadDocument(data []byte) (*goquery.Document, error) {
	if err := validateHTML(data); err != nil {
		return nil, err
	}

	detected := detectCharset(data)

	utf8Reader, err := charset.NewReader(bytes.NewReader(data), detected)
	if err != nil {
		// Fallback to direct parsing
		return goquery.NewDocumentFromReader(bytes.NewReader(data))
	}

	return goquery.NewDocumentFromReader(utf8Reader)
}

// loadNode parses HTML into an xpath-compatible node tree.
func loadNode(data []byte) (*html.Node, error) {
	if err := validateHTML(data); err != nil {
		return nil, err
	}

	detected := detectCharset(data)

	utf8Reader, err := charset.NewReader(bytes.NewReader(data), detected)
	if err != nil {
		return htmlquery.Parse(bytes.NewReader(data))
	}

	return htmlquery.Parse(utf8Reader)
}

// visibleText joins the page's visible text nodes with single spaces.
func visibleText(node *html.Node) string {
	textNodes, err := htmlquery.QueryAll(node, visibleTextXPath)
	if err != nil {
		return ""
	}

	parts := make([]string, 0, len(textNodes))
	for _, n := range textNodes {
		if trimmed := strings.TrimSpace(n.Data); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, " ")
}

// resolveURL resolves href against base, returning href unchanged when it
// cannot be parsed.
func resolveURL(base *url.URL, href string) string {
	if base == nil {
		return href
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// normalizeWhitespace collapses runs of whitespace into single spaces.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncateText caps text at maxLen characters, appending an ellipsis when
// cut. Counting runes rather than bytes keeps a multi-byte character from
// being split at the boundary.
func truncateText(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
