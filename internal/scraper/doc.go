// Package scraper implements the scraping operations the tool catalog
// exposes: link/image collection, metadata and heading extraction, keyword
// search, table extraction, JSON-LD parsing, structured page snapshots,
// extension-filtered file downloads, and JSON/CSV snapshot exports.
//
// All multi-URL operations are strictly sequential. A fetch or parse
// failure for one URL degrades that URL's result to an empty value and
// never aborts the rest of the batch; malformed JSON-LD blocks are skipped
// per fragment.
//
// Built on specialized libraries:
//   - goquery: jQuery-like CSS selectors
//   - htmlquery: XPath for visible-text extraction
//   - chardet + x/net charset: automatic encoding detection
//   - bluemonday: markup reduction for keyword search
//   - mimetype: content sniffing for extension-less downloads
//   - sonic: JSON-LD parsing and snapshot export
package scraper
