package main

import (
	"fmt"
	"os"

	"github.com/nurpe/agency-finance/internal/auth"
	"github.com/nurpe/agency-finance/internal/config"
	"github.com/nurpe/agency-finance/internal/db"
	"github.com/nurpe/agency-finance/internal/excel"
	httphandler "github.com/nurpe/agency-finance/internal/http"
	"github.com/nurpe/agency-finance/internal/http/middleware"
	"github.com/nurpe/agency-finance/internal/logger"
	"github.com/nurpe/agency-finance/internal/pdf"
	"github.com/nurpe/agency-finance/internal/repository"
	"github.com/nurpe/agency-finance/internal/repository/memory"
	"github.com/nurpe/agency-finance/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	var repo service.Repository
	switch cfg.Backend {
	case config.BackendMemory:
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		repo = memory.New()
	default:
		database, err := db.New(cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect database")
		}
		repo = repository.NewLedgerRepository(database)
	}

	env := service.NewEnv(cfg)
	reconciler := service.NewStatusReconciler(repo, env, log)
	metricsService := service.NewMetricsService(repo, reconciler, env, log)
	dreService := service.NewDREService(repo, reconciler, env, log)

	handler := httphandler.NewHandler(httphandler.Services{
		Env:     env,
		Ledger:  service.NewLedgerService(repo, env, log),
		Metrics: metricsService,
		DRE:     dreService,
		Billing: service.NewBillingService(repo, env, log),
		Export:  service.NewExportService(dreService, metricsService, excel.NewGenerator(), pdf.NewGenerator()),
	}, log)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment, cfg.HTTP.AllowedOrigins, log)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().
		Str("addr", addr).
		Str("backend", cfg.Backend).
		Str("timezone", cfg.Finance.Timezone).
		Msg("starting finance service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
