package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-forts/internal/api"
	"github.com/vovakirdan/tui-forts/internal/storage"
)

var flagAPIAddr string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Serve saved forts over HTTP",
	Long: `Start a read-only HTTP API over the fort database.

Endpoints:
  GET /api/health
  GET /api/forts?sort=recent|defense&limit=N
  GET /api/forts/{id}
  GET /api/forts/{id}/rounds
  GET /api/forts/{id}/map?underground=true
  GET /api/forts/{id}/view?width=&height=&zoom=&panX=&panY=&dpr=
  GET /api/forts/{id}/pick?sx=&sy=&width=&height=&zoom=&panX=&panY=&dpr=

Examples:
  forts api
  forts api --addr :9090
  curl localhost:8080/api/forts`,
	Args: cobra.NoArgs,
	Run:  runAPI,
}

func init() {
	apiCmd.Flags().StringVar(&flagAPIAddr, "addr", api.DefaultServerConfig().Address, "HTTP listen address (host:port)")
}

func runAPI(_ *cobra.Command, _ []string) {
	fortsCfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening fort database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	cfg := api.DefaultServerConfig()
	cfg.Address = flagAPIAddr

	server := api.NewServer(cfg, store, fortsCfg, newLogger("forts-api"))
	if err := server.ListenAndServe(); err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
