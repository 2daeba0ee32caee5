package scraper

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

// FilterLinksByType keeps only links whose lowercase URL ends with one of
// the given extensions. Empty exts fall back to the configured file types.
func (s *Scraper) FilterLinksByType(links []string, exts []string) []string {
	if len(exts) == 0 {
		exts = s.cfg.FileTypes
	}

	filtered := []string{}
	for _, link := range links {
		lower := strings.ToLower(link)
		for _, ext := range exts {
			if strings.HasSuffix(lower, strings.ToLower(ext)) {
				filtered = append(filtered, link)
				break
			}
		}
	}
	return filtered
}

// DownloadFiles downloads each link into outputDir partitioned as
// <domain>/<extension>/<filename>. Links without a filename in their path
// are skipped, as are failed downloads; neither aborts the batch.
// Successfully saved paths are returned and appended to the scraper's
// in-memory accumulator. An empty outputDir uses the configured default.
func (s *Scraper) DownloadFiles(ctx context.Context, links []string, outputDir string) []string {
	if outputDir == "" {
		outputDir = s.cfg.OutputDir
	}

	downloaded := []string{}

	for _, link := range links {
		parsed, err := url.Parse(link)
		if err != nil {
			s.log.Warn("skipping unparsable link", zap.String("link", link))
			continue
		}

		filename := path.Base(parsed.Path)
		if filename == "" || filename == "." || filename == "/" {
			continue
		}

		domain := parsed.Host
		ext := strings.TrimPrefix(filepath.Ext(filename), ".")
		if ext == "" {
			ext = "unknown"
		}

		savePath := filepath.Join(outputDir, domain, ext, filename)

		if _, err := s.client.Download(ctx, link, savePath); err != nil {
			s.log.Warn("failed to download file",
				zap.String("link", link), zap.Error(err))
			continue
		}

		if ext == "unknown" {
			savePath = s.repartitionByContent(outputDir, domain, savePath)
		}

		downloaded = append(downloaded, savePath)
	}

	s.recordDownloads(downloaded)
	s.log.Info("downloaded files", zap.Int("count", len(downloaded)))
	return downloaded
}

// repartitionByContent moves a file saved under unknown/ into a directory
// named after its sniffed content type extension. The file stays where it
// is when sniffing fails.
func (s *Scraper) repartitionByContent(outputDir, domain, savePath string) string {
	mtype, err := mimetype.DetectFile(savePath)
	if err != nil {
		return savePath
	}

	ext := strings.TrimPrefix(mtype.Extension(), ".")
	if ext == "" {
		return savePath
	}

	newDir := filepath.Join(outputDir, domain, ext)
	newPath := filepath.Join(newDir, filepath.Base(savePath))
	if err := os.MkdirAll(newDir, 0755); err != nil {
		return savePath
	}
	if err := os.Rename(savePath, newPath); err != nil {
		s.log.Debug("failed to repartition download",
			zap.String("path", savePath), zap.Error(err))
		return savePath
	}
	return newPath
}
