package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/XpoolX/vitalgym-sub000/internal/config"
	"github.com/XpoolX/vitalgym-sub000/internal/mcp"
	"github.com/XpoolX/vitalgym-sub000/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	serverURL := flag.String("server", "", "VitalGym server URL; when set, data is fetched over HTTP instead of the database")
	flag.Parse()

	// Logs go to stderr: stdout is the MCP transport.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("VitalGym MCP starting", "version", Version)

	var ds mcp.DataSource

	if *serverURL != "" {
		ds = mcp.NewHTTPClient(*serverURL)
		log.Info("using remote data source", "server", *serverURL)
	} else {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}

		db, err := storage.New(context.Background(), cfg.Database.DSN())
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		log.Info("using local data source")

		ds = mcp.NewLocalSource(db)
	}

	s := mcp.New(ds, Version, log)

	if err := server.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
