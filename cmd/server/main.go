package main

import (
	"fmt"
	"log/slog"
	"os"

	"loanflow/internal/config"
	"loanflow/internal/database"
	"loanflow/internal/server"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()
	database.Init(cfg.DBDSN, cfg.ColdThresholdHours)

	r := server.NewRouter(cfg)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	slog.Info("starting server", "addr", addr)
	if err := r.Run(addr); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
