package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Aidin1998/algohost/api"
	"github.com/Aidin1998/algohost/internal/config"
	"github.com/Aidin1998/algohost/internal/invoke"
	"github.com/Aidin1998/algohost/internal/manifest"
	"github.com/Aidin1998/algohost/internal/telemetry"
	"github.com/Aidin1998/algohost/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	serveConfigPath   string
	serveManifestPath string
	serveAddr         string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadServeConfig()
		if err != nil {
			return err
		}
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)
		return runServe(cmd.Context(), cfg, quit)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "", "config file (default algohost.yaml in . or /etc/algohost)")
	serveCmd.Flags().StringVarP(&serveManifestPath, "manifest", "m", "", "service manifest, overrides manifest.path")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address, overrides server.addr")
	rootCmd.AddCommand(serveCmd)
}

func loadServeConfig() (*config.Config, error) {
	cfg, err := config.Load(serveConfigPath)
	if err != nil {
		return nil, err
	}
	if serveManifestPath != "" {
		cfg.Manifest.Path = serveManifestPath
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	return cfg, nil
}

// runServe blocks until the server fails or a value arrives on quit.
func runServe(ctx context.Context, cfg *config.Config, quit <-chan os.Signal) error {
	zapLogger, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer zapLogger.Sync()

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	m, err := manifest.Load(cfg.Manifest.Path)
	if err != nil {
		zapLogger.Error("Failed to load manifest", zap.String("path", cfg.Manifest.Path), zap.Error(err))
		return err
	}

	shutdownTelemetry, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName: m.ServiceName,
		Tracing:     cfg.Telemetry.Tracing,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			zapLogger.Error("Failed to flush telemetry", zap.Error(err))
		}
	}()

	dispatcher := invoke.NewDispatcher(zapLogger, m, invoke.Default)
	apiServer, err := api.NewServer(zapLogger, m, dispatcher, api.Options{
		CORSOrigins: cfg.Server.CORSOrigins,
		RateLimit:   cfg.Server.RateLimit,
		Version:     version,
	})
	if err != nil {
		return err
	}

	// Start server in a goroutine
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- apiServer.Start(cfg.Server.Addr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			zapLogger.Error("API server failed", zap.Error(err))
		}
		return err
	case <-quit:
	}
	zapLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Graceful shutdown failed", zap.Error(err))
		return err
	}
	if err := <-serveErr; err != nil {
		return err
	}

	zapLogger.Info("Server exited properly")
	return nil
}
