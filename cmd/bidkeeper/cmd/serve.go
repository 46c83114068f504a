package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/adfuel/bidkeeper/internal/core/server"
	"github.com/adfuel/bidkeeper/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API service",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("host", "", "HTTP server host")
	serveCmd.Flags().Int("port", 0, "HTTP server port")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("host") {
		host, _ := cmd.Flags().GetString("host")
		cfg.Host = host
	}
	if cmd.Flags().Changed("port") {
		port, _ := cmd.Flags().GetInt("port")
		cfg.Port = port
	}

	log := logger.New(cfg.LogLevel)

	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	service, m, err := buildService(cfg, database, log)
	if err != nil {
		return err
	}

	httpServer, err := server.NewHTTPServer(cfg, service, log, m)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	log.WithField("version", Version).Infof("Starting BidKeeper API on %s:%d", cfg.Host, cfg.Port)

	errChan := make(chan error, 1)
	go func() {
		errChan <- httpServer.Start(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case <-sigChan:
		log.Info("Shutting down gracefully...")
		return httpServer.Shutdown(ctx)
	}
}
