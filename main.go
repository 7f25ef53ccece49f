package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"gocinema/adapters/csvsource"
	"gocinema/adapters/excel"
	"gocinema/adapters/filesystem"
	"gocinema/adapters/httpfetch"
	"gocinema/internal"
	"gocinema/internal/catalog"
	"gocinema/internal/config"
	"gocinema/internal/hittest"
	"gocinema/internal/metrics"
	"gocinema/internal/session"
	"gocinema/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	if level, ok := internal.ParseLogLevel(os.Getenv("LOG_LEVEL")); ok {
		internal.DefaultLogger.SetLevel(level)
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	cat, err := catalog.Load(appConfig.Catalog.Path)
	if err != nil {
		log.Fatalf("Failed to load database catalog: %v", err)
	}
	log.Printf("Catalog %s lists %d databases", appConfig.Catalog.Path, len(cat.Entries))

	// xlsx workbooks win over csv files; urls are fetched over http
	fetcher := httpfetch.New(appConfig.Catalog.FetchTimeout, filesystem.NewFetcher())
	source := excel.NewSource(csvsource.New(fetcher))

	var gatherer prometheus.Gatherer
	opts := sessionOptions(appConfig)
	if appConfig.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m, err := metrics.New(reg)
		if err != nil {
			log.Fatalf("Failed to register metrics: %v", err)
		}
		opts.Metrics = m
		gatherer = reg
	}

	sess := session.New(source, cat, opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go sess.Run(ctx)

	// Load the first database so the explorer opens on data
	go func(first catalog.Entry) {
		if err := sess.Load(ctx, first); err != nil {
			log.Printf("Initial load of %s failed: %v", first.Label(), err)
		}
	}(cat.Entries[0])

	gin.SetMode(appConfig.Server.GinMode)
	server := ui.NewServer(sess, cat, gatherer)

	errc := make(chan error, 1)
	go func() { errc <- server.Start(":" + appConfig.Server.Port) }()
	select {
	case err := <-errc:
		log.Fatalf("Server failed: %v", err)
	case <-ctx.Done():
		log.Println("Shutting down")
	}
}

func sessionOptions(cfg *config.Config) session.Options {
	c := cfg.Charts
	decoder := hittest.Decoder{Quorum: c.HitQuorum}

	opts := session.DefaultOptions()
	opts.DataRoot = cfg.Catalog.DataRoot
	opts.MaxSize = c.MaxSize
	opts.Chart.Width, opts.Chart.Height = c.Width, c.Height
	opts.Chart.BrushPadding = c.BrushPadding
	opts.Chart.Decoder, opts.Chart.Window = decoder, c.HitWindow
	opts.Chart.DrawBatch, opts.Chart.DrawTick = c.DrawBatch, c.DrawTick

	opts.Scatter.Width, opts.Scatter.Height = c.Width, c.Height
	opts.Scatter.Decoder, opts.Scatter.Window = decoder, c.HitWindow
	opts.Scatter.DrawBatch, opts.Scatter.DrawTick = c.DrawBatch, c.DrawTick
	return opts
}
