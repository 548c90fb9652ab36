package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quantumconnections/internal/cache"
	"quantumconnections/internal/config"
	"quantumconnections/internal/service"
	"quantumconnections/internal/transport/rest"
	"quantumconnections/internal/transport/ws"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	port     string
	logLevel string
	logger   *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "Serve the Quantum Connections API",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := logLevel
		if level == "" {
			level = config.Load().LogLevel
		}
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", level, err)
		}

		zc := zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(lvl)
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func init() {
	rootCmd.Flags().StringVarP(&port, "port", "p", "", "Listen port (default: $PORT or 8080)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (default: $LOG_LEVEL or info)")
}

// @title Quantum Connections API
// @version 1.0
// @description Relationship resonance wizard: questions, AI reading and share card.
// @BasePath /v1
func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve() error {
	ctx := context.Background()
	cfg := config.Load()
	if port != "" {
		cfg.Port = port
	}

	// Load AI config and log model settings
	aiConfig := config.DefaultAIConfig()
	logger.Info("AI config",
		zap.String("model", aiConfig.Model),
		zap.String("base_url", aiConfig.BaseURL),
		zap.Int("timeout_ms", aiConfig.TimeoutMS),
		zap.Bool("api_key_configured", aiConfig.IsEnabled()))
	if !aiConfig.IsEnabled() {
		logger.Warn("API key not set, readings use the fallback result")
	}

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := rdb.Ping(pingCtx).Result(); err != nil {
		return fmt.Errorf("failed to ping redis at %s: %w", cfg.RedisAddr, err)
	}
	logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))

	// Initialize WebSocket hub
	wsHub := ws.NewHub(logger.Named("ws"))
	defer wsHub.Close()

	// Initialize services
	var generator service.Generator
	if aiConfig.IsEnabled() {
		gemini, err := service.NewGeminiClient(ctx, aiConfig)
		if err != nil {
			return err
		}
		generator = gemini
	}

	authSvc := service.NewAuthService(cfg.JWTSecret, cfg.SessionTTL)
	resonanceSvc := service.NewResonanceService(aiConfig, generator, logger.Named("resonance"))
	sessionSvc := service.NewSessionService(
		cache.NewSessionCache(rdb, cfg.SessionTTL),
		authSvc,
		resonanceSvc,
		cfg.MinDisplay,
		logger.Named("session"),
	)
	cardSvc := service.NewCardService(cfg.ParticleCount, cfg.PublicOrigin, logger.Named("card"))

	// Inject broadcaster (wsHub implements service.Broadcaster)
	sessionSvc.SetBroadcaster(wsHub)

	router := rest.NewRouter(&rest.Container{
		AuthService:    authSvc,
		SessionService: sessionSvc,
		CardService:    cardSvc,
		WSHandler:      ws.NewHandler(wsHub, authSvc, sessionSvc, cfg.MessageEvery, logger.Named("loader")),
		CORSOrigins:    cfg.CORSOrigins,
		Logger:         logger.Named("http"),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.Duration("min_display", cfg.MinDisplay),
			zap.Duration("session_ttl", cfg.SessionTTL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		logger.Info("shutting down server", zap.String("signal", sig.String()))
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	wsHub.Close()

	drained := make(chan struct{})
	go func() {
		sessionSvc.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-shutdownCtx.Done():
		logger.Warn("resonance requests still in flight at exit")
	}

	logger.Info("server exited")
	return nil
}
