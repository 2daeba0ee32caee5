package scraper

import (
	"fmt"
	"os"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/pagescout/pagescout/internal/fetch"
	"github.com/pagescout/pagescout/internal/logging"
)

// Default configuration carried over from the toolkit's original use case.
var (
	DefaultSearchTerms    = []string{"price", "cost", "patients", "transparecny", "estimates"}
	DefaultFileExtensions = []string{".pdf", ".xlsx", "csv"}
)

// Config holds scraping defaults.
type Config struct {
	SearchTerms []string
	FileTypes   []string
	OutputDir   string

	// MaxDepth is reserved for depth-limited traversal; no current
	// operation consults it. Scraping is single-level per URL.
	MaxDepth int
}

// Scraper fetches pages one URL at a time and extracts structured views.
// A fetch or parse failure for one URL degrades that URL's result to empty
// and never aborts the rest of the batch.
type Scraper struct {
	cfg    Config
	client *fetch.Client
	log    *logging.Logger

	// textPolicy reduces markup to searchable text for keyword matching.
	textPolicy *bluemonday.Policy

	mu         sync.Mutex
	downloaded []string
}

// New creates a scraper and ensures the output directory exists.
func New(cfg Config, client *fetch.Client, log *logging.Logger) (*Scraper, error) {
	if client == nil {
		return nil, fmt.Errorf("fetch client required")
	}
	if log == nil {
		log = logging.NewNop()
	}
	if len(cfg.SearchTerms) == 0 {
		cfg.SearchTerms = DefaultSearchTerms
	}
	if len(cfg.FileTypes) == 0 {
		cfg.FileTypes = DefaultFileExtensions
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "downloads"
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return &Scraper{
		cfg:        cfg,
		client:     client,
		log:        log,
		textPolicy: bluemonday.StrictPolicy(),
	}, nil
}

// OutputDir returns the configured base output directory.
func (s *Scraper) OutputDir() string {
	return s.cfg.OutputDir
}

// Downloaded returns a copy of the accumulated downloaded file paths.
func (s *Scraper) Downloaded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.downloaded))
	copy(out, s.downloaded)
	return out
}

func (s *Scraper) recordDownloads(paths []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.downloaded = append(s.downloaded, paths...)
}
