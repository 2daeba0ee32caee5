package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/pagescout/pagescout/internal/chat"
	"github.com/pagescout/pagescout/internal/config"
	"github.com/pagescout/pagescout/internal/fetch"
	"github.com/pagescout/pagescout/internal/logging"
	"github.com/pagescout/pagescout/internal/monitoring"
	"github.com/pagescout/pagescout/internal/scraper"
	"github.com/pagescout/pagescout/internal/tool"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "Optional YAML config file")
	outputDir := flag.String("output-dir", "", "Override download output directory")
	modelName := flag.String("model", "", "Override chat model name")
	metricsAddr := flag.String("metrics", "", "Prometheus listen address (e.g. :9090)")
	flag.Parse()

	// Env vars from .env, if present
	_ = godotenv.Load()

	cfg := config.LoadOrDefault()
	if *configPath != "" {
		if err := config.ApplyFile(cfg, *configPath); err != nil {
			log.Fatalf("Failed to apply config file: %v", err)
		}
	}
	if *outputDir != "" {
		cfg.Scraper.OutputDir = *outputDir
	}
	if *modelName != "" {
		cfg.Model.Name = *modelName
	}
	if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
		cfg.Metrics.Enabled = true
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	metrics := monitoring.NewMetrics()

	client := fetch.NewClient(fetch.Options{
		Timeout:   cfg.Scraper.FetchTimeout,
		UserAgent: cfg.Scraper.UserAgent,
	}, logger.Named("fetch"), metrics)

	s, err := scraper.New(scraper.Config{
		SearchTerms: cfg.Scraper.SearchTerms,
		FileTypes:   cfg.Scraper.FileTypes,
		OutputDir:   cfg.Scraper.OutputDir,
		MaxDepth:    cfg.Scraper.MaxDepth,
	}, client, logger.Named("scraper"))
	if err != nil {
		log.Fatalf("Failed to create scraper: %v", err)
	}

	catalog := tool.NewCatalog(scraper.Registrations(s), logger.Named("catalog"))
	dispatcher := tool.NewDispatcher(catalog, logger.Named("dispatcher"), metrics)

	model, err := chat.NewOpenAIModel(chat.OpenAIConfig{
		Model:   cfg.Model.Name,
		BaseURL: cfg.Model.BaseURL,
		APIKey:  cfg.Model.APIKey,
		Timeout: cfg.Model.Timeout,
	})
	if err != nil {
		log.Fatalf("Failed to create model client: %v", err)
	}

	bot := chat.NewBot(model, dispatcher, chat.Options{
		OutputDir: cfg.Scraper.OutputDir,
		Progress: func(note string) {
			fmt.Println(note)
		},
	}, logger.Named("bot"), metrics)

	if cfg.Metrics.Enabled && cfg.Metrics.Addr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			logger.Info("metrics listener started", zap.String("addr", cfg.Metrics.Addr))
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
				logger.Error("metrics listener failed", zap.Error(err))
			}
		}()
	}

	// Cancel in-flight work on SIGINT/SIGTERM; a second signal kills the
	// process via the default handler.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("scrapebot ready",
		zap.String("model", cfg.Model.Name),
		zap.String("base_url", cfg.Model.BaseURL),
		zap.Strings("tools", catalog.Names()))

	fmt.Println("Web scraping assistant. Type 'quit' to exit.")
	repl(ctx, bot)
}

// repl reads user lines until EOF or "quit". A failed turn is reported and
// the loop continues; the bot has already rolled its history back.
func repl(ctx context.Context, bot *chat.Bot) {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			fmt.Println()
			return
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if strings.EqualFold(input, "quit") {
			return
		}

		reply, err := bot.Send(ctx, input)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			if ctx.Err() != nil {
				return
			}
			continue
		}
		fmt.Printf("Bot: %s\n", reply)
	}
}
