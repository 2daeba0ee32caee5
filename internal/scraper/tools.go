package scraper

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/pagescout/pagescout/internal/tool"
	"github.com/pagescout/pagescout/internal/types"
)

// urlsParam is the parameter every scraping tool shares.
var urlsParam = types.Parameter{
	Name:        "urls",
	Type:        "array",
	Description: "List of target URLs",
	Required:    true,
}

// Registrations returns the fixed tool catalog exposed to the model.
func Registrations(s *Scraper) []tool.Registration {
	return []tool.Registration{
		{
			Tool: types.Tool{
				Name:        "get_page_metadata",
				Description: "Extract metadata (title and description) from a list of web pages",
				Parameters:  []types.Parameter{urlsParam},
				Returns:     "array",
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				urls, err := requireURLs(args)
				if err != nil {
					return nil, err
				}
				return s.Metadata(ctx, urls), nil
			},
		},
		{
			Tool: types.Tool{
				Name:        "get_structured_snapshots",
				Description: "Retrieve a structured snapshot (title, headings, links, text snippet, JSON-LD) from each web page",
				Parameters:  []types.Parameter{urlsParam},
				Returns:     "array",
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				urls, err := requireURLs(args)
				if err != nil {
					return nil, err
				}
				return s.Snapshots(ctx, urls), nil
			},
		},
		{
			Tool: types.Tool{
				Name:        "download_files_by_type",
				Description: "Download files matching the given file extensions from the specified URLs",
				Parameters: []types.Parameter{
					urlsParam,
					{Name: "file_extensions", Type: "array", Description: "File extensions to download (e.g. ['.pdf', '.csv'])", Required: false},
					{Name: "output_dir", Type: "string", Description: "Directory to save files into", Required: false, Default: "downloads"},
				},
				Returns: "array",
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				urls, err := requireURLs(args)
				if err != nil {
					return nil, err
				}
				exts, _ := tool.StringSliceArg(args, "file_extensions")
				outputDir, _ := tool.StringArg(args, "output_dir")

				links := s.FetchLinks(ctx, urls)
				filtered := s.FilterLinksByType(links, exts)
				return s.DownloadFiles(ctx, filtered, outputDir), nil
			},
		},
		{
			Tool: types.Tool{
				Name:        "search_keywords_in_page",
				Description: "Search for specific keywords on each page, matching against visible text",
				Parameters: []types.Parameter{
					urlsParam,
					{Name: "keywords", Type: "array", Description: "Keywords to search for", Required: false},
				},
				Returns: "object",
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				urls, err := requireURLs(args)
				if err != nil {
					return nil, err
				}
				keywords, _ := tool.StringSliceArg(args, "keywords")
				return s.SearchKeywords(ctx, urls, keywords), nil
			},
		},
		{
			Tool: types.Tool{
				Name:        "extract_tables_from_page",
				Description: "Extract HTML tables from each URL (page -> tables -> rows -> cells)",
				Parameters:  []types.Parameter{urlsParam},
				Returns:     "object",
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				urls, err := requireURLs(args)
				if err != nil {
					return nil, err
				}
				return s.Tables(ctx, urls), nil
			},
		},
		{
			Tool: types.Tool{
				Name:        "fetch_links",
				Description: "Fetch all hyperlinks from the given URLs as absolute URLs",
				Parameters:  []types.Parameter{urlsParam},
				Returns:     "array",
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				urls, err := requireURLs(args)
				if err != nil {
					return nil, err
				}
				return s.FetchLinks(ctx, urls), nil
			},
		},
		{
			Tool: types.Tool{
				Name:        "extract_links_with_text",
				Description: "Extract all links along with their anchor text, keyed by page URL",
				Parameters:  []types.Parameter{urlsParam},
				Returns:     "object",
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				urls, err := requireURLs(args)
				if err != nil {
					return nil, err
				}
				return s.LinksWithText(ctx, urls), nil
			},
		},
		{
			Tool: types.Tool{
				Name:        "get_image_urls",
				Description: "Fetch all image URLs from the given pages",
				Parameters:  []types.Parameter{urlsParam},
				Returns:     "array",
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				urls, err := requireURLs(args)
				if err != nil {
					return nil, err
				}
				return s.ImageURLs(ctx, urls), nil
			},
		},
		{
			Tool: types.Tool{
				Name:        "extract_headings",
				Description: "Extract heading texts (h1-h6) aggregated across the given pages",
				Parameters:  []types.Parameter{urlsParam},
				Returns:     "object",
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				urls, err := requireURLs(args)
				if err != nil {
					return nil, err
				}
				return s.Headings(ctx, urls), nil
			},
		},
		{
			Tool: types.Tool{
				Name:        "extract_json_ld",
				Description: "Extract JSON-LD structured data blocks from each page",
				Parameters:  []types.Parameter{urlsParam},
				Returns:     "object",
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				urls, err := requireURLs(args)
				if err != nil {
					return nil, err
				}
				return s.JSONLD(ctx, urls), nil
			},
		},
		{
			Tool: types.Tool{
				Name:        "extract_main_text",
				Description: "Extract the visible text of each page, keyed by URL",
				Parameters:  []types.Parameter{urlsParam},
				Returns:     "object",
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				urls, err := requireURLs(args)
				if err != nil {
					return nil, err
				}
				return s.MainText(ctx, urls), nil
			},
		},
		{
			Tool: types.Tool{
				Name:        "export_snapshots",
				Description: "Snapshot the given pages and export them to a JSON or CSV file in the output directory",
				Parameters: []types.Parameter{
					urlsParam,
					{Name: "format", Type: "string", Description: "Export format: json or csv (default json)", Required: false, Default: "json"},
					{Name: "output_dir", Type: "string", Description: "Directory to write the export into", Required: false, Default: "downloads"},
				},
				Returns: "object",
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				urls, err := requireURLs(args)
				if err != nil {
					return nil, err
				}

				format, _ := tool.StringArg(args, "format")
				if format == "" {
					format = "json"
				}
				outputDir, _ := tool.StringArg(args, "output_dir")
				if outputDir == "" {
					outputDir = s.cfg.OutputDir
				}

				snapshots := s.Snapshots(ctx, urls)

				var path string
				switch format {
				case "json":
					path = filepath.Join(outputDir, "snapshots.json")
					err = ExportSnapshotsJSON(path, snapshots)
				case "csv":
					path = filepath.Join(outputDir, "snapshots.csv")
					err = ExportSnapshotsCSV(path, snapshots)
				default:
					return nil, fmt.Errorf("unsupported export format %q", format)
				}
				if err != nil {
					return nil, err
				}

				return map[string]any{"path": path, "count": len(snapshots)}, nil
			},
		},
	}
}

func requireURLs(args map[string]any) ([]string, error) {
	urls, ok := tool.StringSliceArg(args, "urls")
	if !ok || len(urls) == 0 {
		return nil, fmt.Errorf("urls parameter required")
	}
	return urls, nil
}
