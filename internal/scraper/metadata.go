package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// PageMeta is the title/description summary of one page.
type PageMeta struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Metadata extracts title and meta description from each page. Pages that
// fail to fetch are skipped.
func (s *Scraper) Metadata(ctx context.Context, urls []string) []PageMeta {
	results := []PageMeta{}

	for _, pageURL := range urls {
		doc, _, ok := s.loadPage(ctx, pageURL)
		if !ok {
			continue
		}

		results = append(results, PageMeta{
			URL:         pageURL,
			Title:       strings.TrimSpace(doc.Find("title").First().Text()),
			Description: strings.TrimSpace(doc.Find("meta[name='description']").AttrOr("content", "")),
		})
	}

	return results
}

// Headings aggregates heading texts across all pages, keyed h1 through h6.
// Every level is present in the result even when empty.
func (s *Scraper) Headings(ctx context.Context, urls []string) map[string][]string {
	result := make(map[string][]string, 6)
	for level := 1; level <= 6; level++ {
		result[fmt.Sprintf("h%d", level)] = []string{}
	}

	for _, pageURL := range urls {
		doc, _, ok := s.loadPage(ctx, pageURL)
		if !ok {
			continue
		}

		for level := 1; level <= 6; level++ {
			key := fmt.Sprintf("h%d", level)
			doc.Find(key).Each(func(_ int, sel *goquery.Selection) {
				if text := strings.TrimSpace(sel.Text()); text != "" {
					result[key] = append(result[key], text)
				}
			})
		}
	}

	return result
}

// SearchKeywords reports which of the given terms appear in each page's
// text, case-insensitively. Empty terms fall back to the configured search
// terms. A failed page maps to an empty list.
func (s *Scraper) SearchKeywords(ctx context.Context, urls []string, terms []string) map[string][]string {
	if len(terms) == 0 {
		terms = s.cfg.SearchTerms
	}

	hits := make(map[string][]string, len(urls))

	for _, pageURL := range urls {
		page, err := s.client.Get(ctx, pageURL)
		if err != nil {
			s.log.Warn("failed to search page",
				zap.String("url", pageURL), zap.Error(err))
			hits[pageURL] = []string{}
			continue
		}

		text := strings.ToLower(s.textPolicy.Sanitize(string(page.Body)))

		matches := []string{}
		for _, term := range terms {
			if strings.Contains(text, strings.ToLower(term)) {
				matches = append(matches, term)
			}
		}
		hits[pageURL] = matches
	}

	return hits
}

// JSONLD extracts JSON-LD structured data blocks from each page, keyed by
// URL. Each script block is parsed independently; malformed blocks are
// skipped without aborting the rest of the page. Top-level arrays are
// flattened. A failed page maps to an empty list.
func (s *Scraper) JSONLD(ctx context.Context, urls []string) map[string][]any {
	results := make(map[string][]any, len(urls))

	for _, pageURL := range urls {
		doc, _, ok := s.loadPage(ctx, pageURL)
		if !ok {
			results[pageURL] = []any{}
			continue
		}

		results[pageURL] = s.extractJSONLD(doc, pageURL)
	}

	return results
}

func (s *Scraper) extractJSONLD(doc *goquery.Document, pageURL string) []any {
	data := []any{}

	doc.Find("script[type='application/ld+json']").Each(func(_ int, sel *goquery.Selection) {
		content := strings.TrimSpace(sel.Text())
		if content == "" {
			return
		}

		var parsed any
		if err := sonic.UnmarshalString(content, &parsed); err != nil {
			s.log.Debug("skipping malformed JSON-LD block",
				zap.String("url", pageURL), zap.Error(err))
			return
		}

		if list, ok := parsed.([]any); ok {
			data = append(data, list...)
		} else {
			data = append(data, parsed)
		}
	})

	return data
}
