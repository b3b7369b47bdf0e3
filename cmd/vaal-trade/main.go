package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/estopassoli/vaal-trade-assistant/internal/app"
	"github.com/estopassoli/vaal-trade-assistant/internal/batch"
	"github.com/estopassoli/vaal-trade-assistant/internal/equipment"
	"github.com/estopassoli/vaal-trade-assistant/pkg/config"
	"github.com/estopassoli/vaal-trade-assistant/pkg/global"
	"github.com/estopassoli/vaal-trade-assistant/pkg/logger"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "path to config file")
	debug := flag.Bool("debug", false, "enable debug logging")
	equipmentPath := flag.String("equipment", "", "path to a saved character equipment JSON")
	showHistory := flag.Bool("history", false, "print recent searches and exit")
	showStats := flag.Bool("stats", false, "print usage statistics and exit")
	flag.Parse()

	// Setup logging level
	logLevel := zerolog.InfoLevel
	if *debug {
		logLevel = zerolog.DebugLevel
	}

	// Initialize logger first for early logging
	log, err := logger.NewLogger(
		logger.WithConsole(),
		logger.WithLevel(logLevel),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting Vaal Trade Assistant",
		"version", "1.0.0",
		"pid", os.Getpid(),
		"os", runtime.GOOS,
		"arch", runtime.GOARCH,
		"debug", *debug)

	// Load configuration
	log.Debug("Loading configuration", "provided_path", *configPath)
	cfg, err := config.FindConfig(*configPath, log)
	if err != nil {
		log.Error("Failed to load configuration", err,
			"provided_path", *configPath)
		os.Exit(1)
	}
	log.Info("Configuration loaded successfully",
		"league", cfg.GetLeague(),
		"similar_percent", cfg.GetSimilarPercent())

	// Initialize globals
	global.InitGlobals(cfg, log)

	application, err := app.New()
	if err != nil {
		log.Fatal("Failed to create application", err)
	}
	defer application.Close()

	if *showHistory {
		printHistory(application)
		return
	}
	if *showStats {
		printStats(application)
		return
	}

	if *equipmentPath == "" {
		fmt.Fprintln(os.Stderr, "no equipment file given, use -equipment <path>")
		flag.Usage()
		os.Exit(2)
	}

	if err := runBatch(application, *equipmentPath, log); err != nil {
		log.Fatal("Batch failed", err)
	}
}

// runBatch dispatches one search per equipped item, printing progress
// lines and cancelling cleanly on SIGINT.
func runBatch(application *app.App, equipmentPath string, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider := equipment.NewFileProvider(equipmentPath, log)
	done := make(chan struct{})
	hooks := batch.Hooks{
		OnProgress: func(current, total int, name string) {
			fmt.Printf("[%d/%d] %s\n", current, total, name)
		},
		OnStatus: func(status string) {
			fmt.Printf("  %s\n", status)
		},
		OnComplete: func(succeeded, failed int) {
			fmt.Printf("Done: %d opened, %d failed\n", succeeded, failed)
			close(done)
		},
	}

	_, token, err := application.RunBatch(ctx, provider, hooks)
	if err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		log.Info("Interrupt received, cancelling batch")
		token.Cancel()
		<-done
	case <-done:
	}
	return nil
}

func printHistory(application *app.App) {
	entries, err := application.History()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read history: %v\n", err)
		os.Exit(1)
	}
	if len(entries) == 0 {
		fmt.Println("No searches recorded yet.")
		return
	}
	for _, e := range entries {
		fmt.Printf("%s  %-30s %s\n", e.CreatedAt.Format("2006-01-02 15:04"), e.ItemName, e.TradeURL)
	}
}

func printStats(application *app.App) {
	stats, err := application.Stats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read stats: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Searches: %d\nItems:    %d\nSaved:    %s\n", stats.Searches, stats.Items, stats.TimeSaved)
	for name, count := range stats.ItemCounts {
		fmt.Printf("  %3dx %s\n", count, name)
	}
}
