package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/carrickvaughan/dropship-trends-app/internal/ads"
	"github.com/carrickvaughan/dropship-trends-app/internal/config"
	"github.com/carrickvaughan/dropship-trends-app/internal/pipeline"
	"github.com/carrickvaughan/dropship-trends-app/internal/scheduler"
	"github.com/carrickvaughan/dropship-trends-app/internal/server"
	"github.com/carrickvaughan/dropship-trends-app/internal/source"
	"github.com/carrickvaughan/dropship-trends-app/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] dropship-trends starting...")

	if err := godotenv.Load(); err == nil {
		log.Println("[INFO] loaded .env file")
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
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}
	log.Printf("[INFO] tracking %d products", len(cfg.Products))

	// Init signal sources
	timeout := cfg.SourceTimeout()
	search := source.NewSearchTrendSource(cfg.Sources.TrendsBaseURL, timeout)
	market := source.NewMarketplaceSource(cfg.Sources.MarketplaceBaseURL, timeout)

	var buzz source.Source
	if cfg.Sources.BuzzBaseURL != "" {
		buzz = source.NewBuzzSource(cfg.Sources.BuzzBaseURL, timeout)
	} else {
		buzz = source.NewRandomBuzzSource()
	}
	log.Printf("[INFO] buzz source: %s", buzz.Name())

	// Init snapshot store
	var st store.Store
	if cfg.Database.SQLitePath != "" {
		ss, err := store.NewSQLiteStore(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite store failed, using noop: %v", err)
			st = store.NewNoopStore()
		} else {
			st = ss
			defer ss.Close()
		}
	} else {
		st = store.NewNoopStore()
	}

	// Init pipeline
	pipe := pipeline.New(search, market, buzz, st, cfg.Products)

	// Init ad-creative cache
	var adFetcher ads.Fetcher
	if cfg.Sources.AdsBaseURL != "" {
		adFetcher = ads.NewHTTPFetcher(cfg.Sources.AdsBaseURL, timeout)
	} else {
		adFetcher = ads.PlaceholderFetcher{}
	}
	adCache := ads.NewCache(adFetcher, cfg.AdsCacheTTL())

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, pipe, cfg.Pricing.MarkupMultiplier, cfg.Pricing.ShippingCost)
	if err := sched.Register(cfg.Schedule.RefreshCron); err != nil {
		log.Fatalf("[FATAL] register refresh task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing refresh cycle now")
		go sched.RunNow()
	}

	// Start HTTP server
	handler := server.NewHandler(pipe, st, adCache)
	router := server.SetupRouter(handler, cfg.Server.ReleaseMode)
	go func() {
		if err := server.Run(router, cfg.Server.ListenAddr); err != nil {
			log.Fatalf("[FATAL] %v", err)
		}
	}()

	log.Println("[INFO] dropship-trends is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] dropship-trends stopped")
}
