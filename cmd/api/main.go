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

	"bess-screening/internal/api"
	"bess-screening/internal/config"
	"bess-screening/internal/curtailment"
	"bess-screening/internal/data"
	"bess-screening/internal/logging"
	"bess-screening/internal/metrics"
	"bess-screening/internal/screening"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Error().Err(err).Msg("api server exited")
		os.Exit(1)
	}
}

func run() error {
	sc, err := config.LoadServer()
	if err != nil {
		return err
	}
	logging.Init(sc.LogLevel, sc.LogFormat, os.Stderr)

	if wd, err := os.Getwd(); err == nil {
		log.Info().Str("dir", wd).Msg("working directory")
	}

	opts := api.Options{
		CandidatesDir:  sc.CandidatesDir,
		AllowedOrigins: sc.AllowedOrigins,
		StaticDir:      sc.StaticDir,
		MaxReports:     sc.MaxReports,
		Metrics:        metrics.New(),
		Catalog:        data.NewDatapackageClient(sc.CatalogURL, data.NewCatalogCache(sc.CatalogTTL)),
	}

	workers := 0
	sitesFile := sc.SitesFile
	// An optional screening config supplies the policy, worker count and
	// sites file; simulation sizes still come from each request.
	if sc.ConfigPath != "" {
		cfg, err := config.Load(sc.ConfigPath)
		if err != nil {
			return fmt.Errorf("loading %s: %w", sc.ConfigPath, err)
		}
		workers = cfg.Workers
		policy := cfg.ReinforcementPolicy()
		opts.Policy = &policy
		opts.EnergyFullMWh = cfg.EnergyFullMWh
		if sitesFile == "" {
			sitesFile = cfg.Inputs.Sites
		}
		log.Info().Str("file", sc.ConfigPath).Int("bands", len(policy.Bands)).Msg("screening config loaded")
	}
	if opts.Policy == nil {
		policy := curtailment.DefaultPolicy()
		opts.Policy = &policy
	}
	opts.Engine = screening.New(workers)

	if sitesFile != "" {
		sites, err := data.LoadSitesCSV(sitesFile)
		if err != nil {
			return fmt.Errorf("loading sites: %w", err)
		}
		opts.Sites = sites
		log.Info().Str("file", sitesFile).Int("sites", len(sites)).Msg("site metadata loaded")
	}

	if sc.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(opts)

	srv := &http.Server{
		Addr:              ":" + sc.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", sc.Env).Msg("starting API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
