package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"PriceTracker/internal/assembler"
	"PriceTracker/internal/collector"
	"PriceTracker/internal/config"
	"PriceTracker/internal/model"
	"PriceTracker/internal/pipeline"
	"PriceTracker/internal/recorder"
	"PriceTracker/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	symbols := flag.String("symbols", "", "comma-separated ticker symbols")
	symbolFile := flag.String("symbol-file", "", "file with comma-separated ticker symbols (overrides --symbols)")
	from := flag.String("from", "", "window start, e.g. 2024-01-01T00:00:00Z")
	outFile := flag.String("out-file", "", "CSV output path")
	flag.Parse()

	log.Println("[INFO] PriceTracker starting...")

	if err := config.LoadEnvFile(".env"); err != nil {
		log.Fatalf("[FATAL] %v", err)
	}

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}

	// Flags win over file and environment
	if *symbols != "" {
		cfg.Symbols = config.SplitSymbols(*symbols)
	}
	if *symbolFile != "" {
		cfg.SymbolFile = *symbolFile
	}
	if *from != "" {
		cfg.From = *from
	}
	if *outFile != "" {
		cfg.OutFile = *outFile
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}
	tickers, err := cfg.ResolveSymbols()
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
	begin, err := cfg.Start()
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init fetcher
	fetcher := newFetcher(cfg, tickers)
	log.Printf("[INFO] data source: %s, %d symbols", fetcher.Name(), len(tickers))

	col := collector.NewCollector(fetcher,
		collector.WithMaxConcurrency(cfg.Fetch.MaxConcurrency),
		collector.WithRetry(cfg.Fetch.Retries, cfg.Fetch.RetryBackoff),
	)
	asm := assembler.New(cfg.Analytics.SMAWindow)

	// Init recorder
	rec, err := newRecorder(ctx, cfg)
	if err != nil {
		log.Fatalf("[FATAL] init recorder: %v", err)
	}

	p := pipeline.New(col, asm, rec, cfg.Pipeline.QueueSize)
	p.Start(ctx)

	sched := scheduler.NewScheduler(p, tickers, begin, cfg.PollInterval)
	if err := sched.Register(); err != nil {
		log.Fatalf("[FATAL] register schedule: %v", err)
	}
	sched.Start()

	log.Printf("[INFO] PriceTracker is running every %v, writing %s. Press Ctrl+C to stop.", cfg.PollInterval, cfg.OutFile)

	// Wait for shutdown signal or a sink failure
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Println("[INFO] shutdown signal received, stopping...")
	case err := <-p.Errors():
		sched.Stop()
		cancel()
		_ = p.Stop()
		log.Fatalf("[FATAL] %v", err)
	}

	sched.Stop()
	if err := p.Stop(); err != nil {
		log.Printf("[ERROR] close recorder: %v", err)
	}
	log.Println("[INFO] PriceTracker stopped")
}

func newFetcher(cfg *config.Config, symbols []string) collector.Fetcher {
	switch cfg.DataSource.Provider {
	case "vstrader":
		return collector.NewVsTraderFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	case "static":
		points := make(map[string][]model.PricePoint, len(symbols))
		for i, s := range symbols {
			points[s] = collector.GeneratePoints(100+float64(i)*10, 60)
		}
		return &collector.StaticFetcher{Points: points}
	default:
		return collector.NewYahooFetcher(cfg.Proxy)
	}
}

// newRecorder opens the CSV file, which must succeed, and attaches optional
// stores whose failures are only logged.
func newRecorder(ctx context.Context, cfg *config.Config) (recorder.Recorder, error) {
	csv, err := recorder.NewCSVRecorder(cfg.OutFile)
	if err != nil {
		return nil, err
	}
	recs := recorder.Multi{csv}

	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, skipping: %v", err)
		} else {
			recs = append(recs, recorder.BestEffort{Name: "sqlite", R: sr})
		}
	}
	if cfg.Database.PostgresDSN != "" {
		pr, err := recorder.NewPostgresRecorder(ctx, cfg.Database.PostgresDSN)
		if err != nil {
			log.Printf("[WARN] init postgres recorder failed, skipping: %v", err)
		} else {
			recs = append(recs, recorder.BestEffort{Name: "postgres", R: pr})
		}
	}
	if cfg.Redis.Addr != "" {
		rr, err := recorder.NewRedisRecorder(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
		if err != nil {
			log.Printf("[WARN] init redis recorder failed, skipping: %v", err)
		} else {
			recs = append(recs, recorder.BestEffort{Name: "redis", R: rr})
		}
	}
	return recs, nil
}
