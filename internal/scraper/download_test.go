package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagescout/pagescout/internal/fetch"
	"github.com/pagescout/pagescout/internal/logging"
)

func newDownloadScraper(t *testing.T, handler http.Handler) (*Scraper, *httptest.Server, string) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	outputDir := t.TempDir()
	client := fetch.NewClient(fetch.Options{}, logging.NewNop(), nil)
	s, err := New(Config{OutputDir: outputDir}, client, logging.NewNop())
	require.NoError(t, err)
	return s, srv, outputDir
}

func TestDownloadFilesPartitionsByDomainAndExt(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/files/charges.csv", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("code,price\nA100,50\n"))
	})
	mux.HandleFunc("/files/report.pdf", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("%PDF-1.4 fake"))
	})

	s, srv, outputDir := newDownloadScraper(t, mux)
	host := mustHost(t, srv.URL)

	paths := s.DownloadFiles(context.Background(), []string{
		srv.URL + "/files/charges.csv",
		srv.URL + "/files/report.pdf",
		srv.URL + "/files/missing.pdf",
	}, "")

	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(outputDir, host, "csv", "charges.csv"), paths[0])
	assert.Equal(t, filepath.Join(outputDir, host, "pdf", "report.pdf"), paths[1])

	for _, p := range paths {
		_, err := os.Stat(p)
		assert.NoError(t, err)
	}

	// The accumulator records the same paths.
	assert.Equal(t, paths, s.Downloaded())
}

func TestDownloadFilesSniffsUnknownExtension(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/export", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("%PDF-1.4\n1 0 obj\nendobj\n"))
	})

	s, srv, outputDir := newDownloadScraper(t, mux)
	host := mustHost(t, srv.URL)

	paths := s.DownloadFiles(context.Background(), []string{srv.URL + "/export"}, "")
	require.Len(t, paths, 1)

	// The extension-less file is re-homed by sniffed content type.
	assert.Equal(t, filepath.Join(outputDir, host, "pdf", "export"), paths[0])
	_, err := os.Stat(filepath.Join(outputDir, host, "unknown", "export"))
	assert.True(t, os.IsNotExist(err))
}

func TestDownloadFilesSkipsLinksWithoutFilename(t *testing.T) {
	s, srv, _ := newDownloadScraper(t, http.NotFoundHandler())

	paths := s.DownloadFiles(context.Background(), []string{srv.URL + "/"}, "")
	assert.Empty(t, paths)
}

func TestDownloadFilesExplicitOutputDir(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/a.csv", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("x,y\n"))
	})

	s, srv, _ := newDownloadScraper(t, mux)
	other := t.TempDir()
	host := mustHost(t, srv.URL)

	paths := s.DownloadFiles(context.Background(), []string{srv.URL + "/a.csv"}, other)
	require.Len(t, paths, 1)
	assert.Equal(t, filepath.Join(other, host, "csv", "a.csv"), paths[0])
}

func mustHost(t *testing.T, rawURL string) string {
	t.Helper()
	parsed, err := url.Parse(rawURL)
	require.NoError(t, err)
	return parsed.Host
}
