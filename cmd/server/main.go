package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Pipillas/musa/internal/afip"
	"github.com/Pipillas/musa/internal/config"
	"github.com/Pipillas/musa/internal/infra"
	"github.com/Pipillas/musa/internal/router"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Certificado fiscal: bundle .p12 o par PEM, según configuración.
	var cred *afip.Credencial
	switch {
	case cfg.CertP12Path != "":
		cred, err = afip.LoadCredencialP12(cfg.CertP12Path, cfg.CertP12Password)
	case cfg.CertPath != "" && cfg.KeyPath != "":
		cred, err = afip.LoadCredencialPEM(cfg.CertPath, cfg.KeyPath)
	default:
		log.Fatal().Msg("no fiscal certificate configured (AFIP_CERT_P12 or AFIP_CERT/AFIP_KEY)")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load fiscal certificate")
	}

	wsaa := afip.NewWSAAClient(cfg.WSAAURL, cred)
	tokens := afip.NewTokenCache(cfg.TAStoragePath, wsaa)
	cb := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	invoicer := afip.NewClient(cfg.CUIT, tokens, cb, cfg.WSFEURL, cfg.PadronURL)

	r := router.New(cfg, db, rdb, invoicer)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("Musa backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
