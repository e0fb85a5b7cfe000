package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/secureCryptoConfig/stockserver/params"
	"github.com/secureCryptoConfig/stockserver/pkg/api"
	"github.com/secureCryptoConfig/stockserver/pkg/client"
	"github.com/secureCryptoConfig/stockserver/pkg/server"
	"github.com/secureCryptoConfig/stockserver/pkg/storage"
	"github.com/secureCryptoConfig/stockserver/pkg/util"
)

func main() {
	// Load config from .env file and environment variables
	cfg := params.LoadFromEnv("")

	logger, err := util.NewLoggerWithFile(cfg.Server.LogFile)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()
	sugar.Infow("logger_initialized", "log_file", cfg.Server.LogFile)

	// ---- Server context ----
	// Master key is generated here, once for the process lifetime.
	srv, err := server.New(sugar)
	if err != nil {
		sugar.Fatalw("server_init_failed", "err", err)
	}

	if cfg.Server.ArchivePath != "" {
		archive, err := storage.OpenArchive(cfg.Server.ArchivePath)
		if err != nil {
			sugar.Fatalw("archive_open_failed", "path", cfg.Server.ArchivePath, "err", err)
		}
		defer archive.Close()
		srv.Archive = archive
		sugar.Infow("archive_enabled", "path", cfg.Server.ArchivePath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- API server ----
	apiServer := api.NewServer(srv, sugar)
	srv.OnOrderAccepted = apiServer.BroadcastOrderAccepted

	go func() {
		if err := apiServer.Start(cfg.Server.APIAddr); err != nil {
			sugar.Fatalw("api_server_failed", "err", err)
		}
	}()

	// ---- Simulated client fleet (optional) ----
	if cfg.Traffic.Enabled {
		trafficCfg := client.TrafficConfig{
			NumClients:    cfg.Traffic.NumClients,
			SendFrequency: cfg.Traffic.SendFrequency,
			KeyBits:       cfg.Server.RSAKeyBits,
		}
		cancelTraffic, err := client.StartTraffic(ctx, srv, trafficCfg, sugar)
		if err != nil {
			sugar.Fatalw("traffic_start_failed", "err", err)
		}
		defer cancelTraffic()
	} else {
		sugar.Info("traffic_disabled - accepting API orders only")
	}

	sugar.Infow("node_started",
		"api_addr", cfg.Server.APIAddr,
		"clients", cfg.Traffic.NumClients,
		"rsa_key_bits", cfg.Server.RSAKeyBits)

	<-ctx.Done()
	sugar.Info("node_stopping")
}
