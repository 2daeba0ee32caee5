package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// snippetLimit caps a snapshot's main text snippet.
const snippetLimit = 1000

// Snapshot is a structured, serializable summary of one page.
type Snapshot struct {
	URL             string              `json:"url"`
	Title           string              `json:"title"`
	Headings        map[string][]string `json:"headings"`
	MainTextSnippet string              `json:"main_text_snippet"`
	JSONLD          []any               `json:"json_ld"`
	Links           []Link              `json:"links"`
}

// Tables extracts HTML tables from each page, keyed by URL: page -> tables
// -> rows -> cell texts. Rows with no cell text are dropped, as are tables
// with no rows. A failed page maps to an empty list.
func (s *Scraper) Tables(ctx context.Context, urls []string) map[string][][][]string {
	results := make(map[string][][][]string, len(urls))

	for _, pageURL := range urls {
		doc, _, ok := s.loadPage(ctx, pageURL)
		if !ok {
			results[pageURL] = [][][]string{}
			continue
		}

		tables := [][][]string{}
		doc.Find("table").Each(func(_ int, table *goquery.Selection) {
			rows := [][]string{}
			table.Find("tr").Each(func(_ int, row *goquery.Selection) {
				cells := []string{}
				row.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
					cells = append(cells, strings.TrimSpace(cell.Text()))
				})
				if len(cells) > 0 {
					rows = append(rows, cells)
				}
			})
			if len(rows) > 0 {
				tables = append(tables, rows)
			}
		})

		results[pageURL] = tables
	}

	return results
}

// Snapshots produces one structured summary per URL: title, headings,
// visible-text snippet, JSON-LD blocks, and links with text. A failed page
// yields a zero-value snapshot carrying only the URL.
func (s *Scraper) Snapshots(ctx context.Context, urls []string) []Snapshot {
	snapshots := make([]Snapshot, 0, len(urls))

	for _, pageURL := range urls {
		page, err := s.client.Get(ctx, pageURL)
		if err != nil {
			s.log.Warn("snapshot failed",
				zap.String("url", pageURL), zap.Error(err))
			snapshots = append(snapshots, emptySnapshot(pageURL))
			continue
		}

		doc, err := loadDocument(page.Body)
		if err != nil {
			s.log.Warn("snapshot parse failed",
				zap.String("url", pageURL), zap.Error(err))
			snapshots = append(snapshots, emptySnapshot(pageURL))
			continue
		}

		node, err := loadNode(page.Body)
		snippet := ""
		if err == nil {
			snippet = truncateText(visibleText(node), snippetLimit)
		}

		snapshots = append(snapshots, s.buildSnapshot(pageURL, doc, snippet))
	}

	return snapshots
}

func (s *Scraper) buildSnapshot(pageURL string, doc *goquery.Document, snippet string) Snapshot {
	snap := Snapshot{
		URL:             pageURL,
		Title:           strings.TrimSpace(doc.Find("title").First().Text()),
		Headings:        make(map[string][]string, 6),
		MainTextSnippet: snippet,
		JSONLD:          s.extractJSONLD(doc, pageURL),
		Links:           []Link{},
	}

	for level := 1; level <= 6; level++ {
		key := fmt.Sprintf("h%d", level)
		texts := []string{}
		doc.Find(key).Each(func(_ int, sel *goquery.Selection) {
			if text := strings.TrimSpace(sel.Text()); text != "" {
				texts = append(texts, text)
			}
		})
		snap.Headings[key] = texts
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		base = nil
	}
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		if href, exists := sel.Attr("href"); exists {
			snap.Links = append(snap.Links, Link{
				Text: normalizeWhitespace(sel.Text()),
				Href: resolveURL(base, href),
			})
		}
	})

	return snap
}

func emptySnapshot(pageURL string) Snapshot {
	headings := make(map[string][]string, 6)
	for level := 1; level <= 6; level++ {
		headings[fmt.Sprintf("h%d", level)] = []string{}
	}
	return Snapshot{
		URL:      pageURL,
		Headings: headings,
		JSONLD:   []any{},
		Links:    []Link{},
	}
}
