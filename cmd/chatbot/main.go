package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SatyaDevireddy/dental-insurance-chatbot/config"
	srv "github.com/SatyaDevireddy/dental-insurance-chatbot/internal/server"
)

func main() {
	var root = &cobra.Command{Use: "chatbot"}

	var configPath string
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config.json")

	var serveAddr string
	var serve = &cobra.Command{
		Use:   "serve",
		Short: "Run HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(configPath)
			if serveAddr != "" {
				cfg.Server.Address = serveAddr
			}
			return srv.Run(cfg)
		},
	}
	serve.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")

	var migDir string
	var direction string
	var steps int
	var migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(configPath)
			if !cfg.Storage.Postgres.Configured() {
				return fmt.Errorf("postgres not configured (storage.postgres)")
			}
			return srv.Migrate(migDir, cfg.Storage.Postgres, direction, steps)
		},
	}
	migrateCmd.Flags().StringVar(&migDir, "dir", "file://migrations", "migrations source (file://migrations)")
	migrateCmd.Flags().StringVar(&direction, "direction", "up", "up or down")
	migrateCmd.Flags().IntVar(&steps, "steps", 0, "number of steps (0 = all)")

	root.AddCommand(serve, migrateCmd, chatCommand(&configPath))
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
