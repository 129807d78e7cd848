// Package api implements the control-plane server process: it wires the
// pool and chain-data providers, the confirmation tracker, the status
// aggregator and the trading service behind a chi router.
package api

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apphttp "github.com/mmchougule/private-position-ee/pkg/app/http"
	"github.com/mmchougule/private-position-ee/pkg/chaindata"
	"github.com/mmchougule/private-position-ee/pkg/config"
	"github.com/mmchougule/private-position-ee/pkg/journal"
	"github.com/mmchougule/private-position-ee/pkg/pgutil"
	"github.com/mmchougule/private-position-ee/pkg/pool"
	"github.com/mmchougule/private-position-ee/pkg/privacy"
	"github.com/mmchougule/private-position-ee/pkg/status"
	"github.com/mmchougule/private-position-ee/pkg/tracker"
	"github.com/mmchougule/private-position-ee/pkg/trading"
)

// Server holds cfg to init the control-plane server.
type Server struct {
	cfg *config.Config
}

// NewServer initializes a new control-plane server.
func NewServer(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

// Run wires dependencies and serves until interrupted.
func (s *Server) Run() error {
	if s.cfg == nil {
		return fmt.Errorf("server config is nil")
	}
	cfg := s.cfg

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting trader daemon",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.Uint64("network_id", cfg.Pool.NetworkID))

	poolClient, err := pool.NewClient(pool.Config{
		BaseURL:        cfg.Pool.BaseURL,
		RequestTimeout: cfg.Pool.RequestTimeout,
	}, pool.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("pool client: %w", err)
	}
	logger.Info("Pool provider configured", zap.String("base_url", cfg.Pool.BaseURL))

	var chain privacy.ChainDataProvider
	if cfg.ChainData.RPCURL != "" {
		chainClient, err := chaindata.Dial(cfg.ChainData.RPCURL, logger)
		if err != nil {
			return fmt.Errorf("chain data client: %w", err)
		}
		defer chainClient.Close()
		chain = chainClient
	} else {
		logger.Info("Chain data RPC not configured, wallet balances served from pool view")
	}

	var opts []trading.Option
	if cfg.Pool.LocalDerivation {
		opts = append(opts, trading.WithDeriver(pool.NewLocalDeriver()))
		logger.Info("Using in-process address derivation")
	}

	if cfg.Database.Enabled() {
		db, err := pgutil.ConnectDB(&cfg.Database)
		if err != nil {
			return fmt.Errorf("journal db: %w", err)
		}
		defer func() { _ = db.Close() }()
		opts = append(opts, trading.WithJournal(journal.NewStore(db)))
		logger.Info("Operation journal enabled",
			zap.String("host", cfg.Database.Host),
			zap.String("database", cfg.Database.Database))
	}

	confirmations := tracker.New(poolClient, cfg.Confirmation.PollInterval, cfg.Confirmation.MaxWait, logger)
	aggregator := status.New(poolClient, chain, cfg.Pool.NetworkID, logger)

	svc := trading.NewService(trading.Config{
		NetworkID:           cfg.Pool.NetworkID,
		ConfirmationMaxWait: cfg.Confirmation.MaxWait,
		PollInterval:        cfg.Confirmation.PollInterval,
	}, poolClient, confirmations, aggregator, logger, opts...)

	router := s.setupRouter(svc, logger)

	return apphttp.ServeAndWait(ctx, router, logger, &cfg.Server)
}

func (s *Server) setupRouter(svc *trading.Service, logger *zap.Logger) chi.Router {
	h := NewHandler(svc, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", apphttp.HandleError(h.health))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/wallets/derive", apphttp.HandleError(h.deriveWallet))
		r.Post("/funds/prepare", apphttp.HandleError(h.prepareFunds))
		r.Post("/funds/unshield", apphttp.HandleError(h.unshieldForTrading))
		r.Post("/funds/exit", apphttp.HandleError(h.exitPosition))
		r.Get("/funds/status", apphttp.HandleError(h.fundsStatus))
		r.Post("/operations/{ref}/wait", apphttp.HandleError(h.waitConfirmation))
	})

	return r
}
