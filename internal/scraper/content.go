package scraper

import (
	"context"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// Link is an anchor with its visible text and resolved href.
type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// FetchLinks collects every hyperlink across the given pages as a flat
// list, resolved against each page's URL. URLs that fail to fetch are
// skipped.
func (s *Scraper) FetchLinks(ctx context.Context, urls []string) []string {
	links := []string{}

	for _, pageURL := range urls {
		doc, base, ok := s.loadPage(ctx, pageURL)
		if !ok {
			continue
		}

		doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
			if href, exists := sel.Attr("href"); exists {
				links = append(links, resolveURL(base, href))
			}
		})
	}

	return links
}

// LinksWithText extracts all links along with their anchor text, keyed by
// page URL. A failed page maps to an empty list.
func (s *Scraper) LinksWithText(ctx context.Context, urls []string) map[string][]Link {
	results := make(map[string][]Link, len(urls))

	for _, pageURL := range urls {
		doc, base, ok := s.loadPage(ctx, pageURL)
		if !ok {
			results[pageURL] = []Link{}
			continue
		}

		links := []Link{}
		doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
			if href, exists := sel.Attr("href"); exists {
				links = append(links, Link{
					Text: normalizeWhitespace(sel.Text()),
					Href: resolveURL(base, href),
				})
			}
		})

		results[pageURL] = links
	}

	return results
}

// ImageURLs collects every image source across the given pages, resolved
// against each page's URL. Failed pages are skipped.
func (s *Scraper) ImageURLs(ctx context.Context, urls []string) []string {
	images := []string{}

	for _, pageURL := range urls {
		doc, base, ok := s.loadPage(ctx, pageURL)
		if !ok {
			continue
		}

		doc.Find("img[src]").Each(func(_ int, sel *goquery.Selection) {
			if src, exists := sel.Attr("src"); exists && src != "" {
				images = append(images, resolveURL(base, src))
			}
		})
	}

	return images
}

// MainText extracts each page's visible text, keyed by URL. A failed page
// maps to an empty string.
func (s *Scraper) MainText(ctx context.Context, urls []string) map[string]string {
	results := make(map[string]string, len(urls))

	for _, pageURL := range urls {
		page, err := s.client.Get(ctx, pageURL)
		if err != nil {
			s.log.Warn("failed to extract main text",
				zap.String("url", pageURL), zap.Error(err))
			results[pageURL] = ""
			continue
		}

		node, err := loadNode(page.Body)
		if err != nil {
			s.log.Warn("failed to parse page",
				zap.String("url", pageURL), zap.Error(err))
			results[pageURL] = ""
			continue
		}

		results[pageURL] = visibleText(node)
	}

	return results
}

// loadPage fetches and parses one page, logging and reporting failure
// instead of returning errors so batch loops stay flat.
func (s *Scraper) loadPage(ctx context.Context, pageURL string) (*goquery.Document, *url.URL, bool) {
	page, err := s.client.Get(ctx, pageURL)
	if err != nil {
		s.log.Warn("failed to fetch page",
			zap.String("url", pageURL), zap.Error(err))
		return nil, nil, false
	}

	doc, err := loadDocument(page.Body)
	if err != nil {
		s.log.Warn("failed to parse page",
			zap.String("url", pageURL), zap.Error(err))
		return nil, nil, false
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		base = nil
	}
	return doc, base, true
}
