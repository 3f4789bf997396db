package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"FuturesSentinel/internal/config"
	"FuturesSentinel/internal/market"
	"FuturesSentinel/internal/monitor"
	"FuturesSentinel/internal/notifier"
	"FuturesSentinel/internal/recorder"
	"FuturesSentinel/internal/scheduler"
	"FuturesSentinel/internal/sheet"
	"FuturesSentinel/internal/taifex"
	"FuturesSentinel/internal/twse"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] FuturesSentinel starting...")

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

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatalf("[FATAL] load timezone %q: %v", cfg.Timezone, err)
	}

	// Init calendar and margin sources
	holidays := twse.NewHolidaySource(cfg.Proxy)
	if cfg.Sources.HolidayURL != "" {
		holidays.URL = cfg.Sources.HolidayURL
	}
	margin := taifex.NewMarginSource(cfg.Proxy)
	if cfg.Sources.MarginURL != "" {
		margin.URL = cfg.Sources.MarginURL
	}
	position := sheet.NewPositionSource(cfg.Sources.SheetCSVURL, cfg.Proxy)

	// Price chains: futures quote first, spot index as fallback
	futures := market.NewTradingViewSource("TAIFEX", "TXF1!", "taiwan", cfg.Proxy)
	spot := market.NewYahooSource("^TWII", cfg.Proxy)

	// Init LINE notifier
	ln := notifier.NewLineNotifier(cfg.Line.Token, cfg.Line.UserID, cfg.Proxy)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	mon := &monitor.Monitor{
		Cfg:          cfg,
		Loc:          loc,
		Holidays:     holidays,
		Margin:       margin,
		Position:     position,
		DaySources:   []market.QuoteSource{futures, spot},
		NightSources: []market.QuoteSource{futures, spot},
		Nasdaq:       market.NewYahooSource("^IXIC", cfg.Proxy),
		VIX:          market.NewYahooSource("^VIX", cfg.Proxy),
		Sink:         ln,
		Recorder:     rec,
	}

	// One-shot by default; WATCH_MODE keeps the process alive on cron.
	if os.Getenv("WATCH_MODE") != "true" {
		if err := mon.Run(time.Now().In(loc)); err != nil {
			log.Fatalf("[FATAL] evaluation: %v", err)
		}
		log.Println("[INFO] FuturesSentinel done")
		return
	}

	sched := scheduler.NewScheduler(loc, mon)
	if err := sched.RegisterAll(cfg.Schedule.DayCron, cfg.Schedule.NightCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing evaluation now")
		go sched.RunNow()
	}

	log.Println("[INFO] FuturesSentinel is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	log.Println("[INFO] FuturesSentinel stopped")
}
