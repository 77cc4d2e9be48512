package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"gyaanseek_cli/pkg/api"
	"gyaanseek_cli/pkg/auth"
	"gyaanseek_cli/pkg/chat"
	"gyaanseek_cli/pkg/config"
	"gyaanseek_cli/pkg/logging"
	"gyaanseek_cli/pkg/store"
	"gyaanseek_cli/pkg/ui"
	"gyaanseek_cli/pkg/version"

	tea "charm.land/bubbletea/v2"
	"github.com/joho/godotenv"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", config.GetConfigPath(), "path to config file")
	flag.Parse()

	if *showVersion {
		fmt.Printf("gyaanseek %s %s\n", version.Full(), version.Platform())
		return
	}

	// Optional .env for local development overrides.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.Init(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	logger.Info("starting", "version", version.Summary(), "base_url", cfg.API.BaseURL)

	local := store.NewFileStore(store.DefaultStatePath())

	client := api.NewClient(cfg.API.BaseURL, func() string {
		return store.Token(local)
	})
	client.SetTimeout(time.Duration(cfg.API.TimeoutSeconds) * time.Second)

	syncer := chat.NewSyncer(client, local, cfg.API.PageSize)
	authSvc := auth.NewService(client, local)

	model := ui.NewModel(syncer, authSvc, local, cfg.API.BaseURL)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		logger.Error("program exited with error", "error", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
