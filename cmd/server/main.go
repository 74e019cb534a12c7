// Command server runs the reference remote authority the sync client talks
// to.
//
//	server [config flags]          serve the HTTP API
//	server token -owner N          print a device token for owner N
//
// Configuration comes from the environment, the JSON file named by CONFIG
// and the flags accepted by the config package.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/MKhiriev/neuroplan-sync/internal/config"
	"github.com/MKhiriev/neuroplan-sync/internal/handler"
	"github.com/MKhiriev/neuroplan-sync/internal/logger"
	"github.com/MKhiriev/neuroplan-sync/internal/server"
	"github.com/MKhiriev/neuroplan-sync/internal/service"
	"github.com/MKhiriev/neuroplan-sync/internal/store"
	"github.com/MKhiriev/neuroplan-sync/internal/tracing"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("neuroplan-server")

	// config flags stop at the first positional argument, so the
	// subcommand's own flags never reach the config parser
	cfg, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	logger.SetLevel(cfg.LogLevel)

	if len(os.Args) > 1 && os.Args[1] == "token" {
		if err := issueToken(cfg, os.Args[2:], log); err != nil {
			log.Fatal().Err(err).Msg("error issuing token")
		}
		return
	}

	if err := serve(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func serve(cfg *config.ServerConfig, log *logger.Logger) error {
	ctx := context.Background()

	tracer, err := tracing.New(ctx, cfg.Tracing, "neuroplan-server", tracing.WithVersion(buildVersion))
	if err != nil {
		return fmt.Errorf("error creating tracer: %w", err)
	}
	defer func() {
		if err := tracer.Shutdown(context.Background()); err != nil {
			log.Err(err).Msg("error shutting down tracer")
		}
	}()

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("error creating storages: %w", err)
	}
	defer func() {
		if err := storages.Close(); err != nil {
			log.Err(err).Msg("error closing storages")
		}
	}()

	services, err := service.NewServices(storages, cfg, buildVersion, log)
	if err != nil {
		return fmt.Errorf("error creating services: %w", err)
	}

	handlers, err := handler.NewHandlers(services, cfg.Server, tracer, log)
	if err != nil {
		return fmt.Errorf("error creating handlers: %w", err)
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		return fmt.Errorf("error creating server: %w", err)
	}

	srv.RunServer()
	return nil
}

func issueToken(cfg *config.ServerConfig, args []string, log *logger.Logger) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	ownerID := fs.Int64("owner", 0, "owner id the token is issued for")
	if err := fs.Parse(args); err != nil {
		return err
	}

	token, err := service.NewAuthService(cfg.Auth, log).CreateToken(context.Background(), *ownerID)
	if err != nil {
		return err
	}

	fmt.Println(token.Token)
	return nil
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
