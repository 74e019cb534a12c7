// Command client runs the offline-first sync client.
//
//	client [config flags]          terminal UI
//	client headless                keep the queue draining without a UI
//	client sync                    probe, drain and refresh once, then exit
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/neuroplan-sync/internal/client"
	"github.com/MKhiriev/neuroplan-sync/internal/config"
	"github.com/MKhiriev/neuroplan-sync/internal/logger"
	"github.com/MKhiriev/neuroplan-sync/internal/tui"
	"github.com/MKhiriev/neuroplan-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	// config flags stop at the first positional argument, so the mode
	// never reaches the config parser
	cfg, err := config.GetClientConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error getting configs: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewClientLogger("neuroplan-client", cfg.App.LogFile)
	logger.SetLevel(cfg.App.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	app, err := client.NewApp(ctx, cfg, buildInfo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}
	defer app.Close()

	mode := ""
	if len(os.Args) > 1 {
		mode = os.Args[len(os.Args)-1]
	}

	switch mode {
	case "sync":
		report, err := app.SyncOnce(ctx)
		if err != nil {
			log.Err(err).Msg("sync failed")
			app.Close()
			os.Exit(1)
		}
		_ = json.NewEncoder(os.Stdout).Encode(report)
		return
	case "headless":
	default:
		ui, err := tui.New(app.Services(), buildInfo, log)
		if err != nil {
			log.Fatal().Err(err).Msg("error creating ui")
		}
		app.SetFrontend(ui)
	}

	if err = app.Run(ctx); err != nil {
		log.Err(err).Msg("client run error")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
