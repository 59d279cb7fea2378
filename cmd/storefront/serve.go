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

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	httpapi "github.com/andreasstove999/ecommerce-system/storefront-go/internal/http"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/logging"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/metrics"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the storefront HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (overrides config)")
	serveCmd.Flags().Bool("dev", false, "Human-readable development logging")
}

func runServe(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	port, _ := cmd.Flags().GetString("port")
	dev, _ := cmd.Flags().GetBool("dev")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if port != "" {
		cfg.Port = port
	}

	logger, err := logging.New(logging.Options{Service: "storefront", Level: cfg.LogLevel, Development: dev})
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	m := metrics.New()

	// shared upstream client
	sharedHTTP := &http.Client{Timeout: cfg.UpstreamTimeout}
	base, err := catalog.NewClient("catalog", cfg.CatalogURL, sharedHTTP)
	if err != nil {
		return err
	}
	loader := catalog.NewLoader(catalog.NewProductsClient(base, cfg.CatalogPath), fetchObserver(logger, m))

	opts := []session.Option{
		session.WithUndoDepth(cfg.UndoDepth),
		session.WithListener(m),
	}
	if cfg.EventsEnabled() {
		pub, closeEvents, err := openPublisher(cfg.RabbitMQURL, logger)
		if err != nil {
			logger.Warn("cart events disabled", zap.Error(err))
		} else {
			defer closeEvents()
			opts = append(opts, session.WithListener(pub))
		}
	}
	store := session.NewStore(opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader.Start(ctx)

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: httpapi.NewRouter(httpapi.Deps{
			Logger:  logger,
			Cfg:     cfg,
			Catalog: loader,
			Session: store,
			Metrics: m.Handler(),
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("addr", srv.Addr),
			zap.String("session_id", store.ID()),
			zap.String("catalog", cfg.CatalogURL))
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("shutdown requested")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
		_ = srv.Close()
	}
	logger.Info("shutdown complete")
	return nil
}

func fetchObserver(logger *zap.Logger, m *metrics.Metrics) catalog.FetchObserver {
	return func(d time.Duration, err error) {
		m.ObserveFetch(d, err)
		if err != nil {
			logger.Error("catalog fetch failed", zap.Duration("took", d), zap.Error(err))
			return
		}
		logger.Info("catalog loaded", zap.Duration("took", d))
	}
}

func openPublisher(url string, logger *zap.Logger) (*events.Publisher, func(), error) {
	conn, err := events.Dial(url)
	if err != nil {
		return nil, nil, err
	}
	pub, err := events.NewPublisher(conn, logger)
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	logger.Info("publishing cart events", zap.String("exchange", events.EventsExchange))

	return pub, func() {
		_ = pub.Close()
		_ = conn.Close()
	}, nil
}
