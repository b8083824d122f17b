package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/scamadvisory/verify-api/internal/business/diagnostics"
	"github.com/scamadvisory/verify-api/internal/business/directory"
	"github.com/scamadvisory/verify-api/internal/business/enrich"
	"github.com/scamadvisory/verify-api/internal/platform/abuseipdb"
	"github.com/scamadvisory/verify-api/internal/platform/config"
	"github.com/scamadvisory/verify-api/internal/platform/emailcheck"
	"github.com/scamadvisory/verify-api/internal/platform/geoip"
	apirouter "github.com/scamadvisory/verify-api/internal/platform/http"
	"github.com/scamadvisory/verify-api/internal/platform/ipapi"
	"github.com/scamadvisory/verify-api/internal/platform/ipqs"
	"github.com/scamadvisory/verify-api/internal/platform/numverify"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	_ = godotenv.Load(".env.local", ".env")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config load")
	}

	gin.SetMode(cfg.GinMode)

	emailClient := emailcheck.New(nil, emailcheck.Config{
		APIKey:  cfg.EmailCheckAPIKey,
		BaseURL: cfg.EmailCheckBaseURL,
		Timeout: cfg.HTTPTimeout,
	})
	phoneClient := numverify.New(nil, numverify.Config{
		AccessKey: cfg.NumverifyAccessKey,
		APIKey:    cfg.NumverifyAPIKey,
		Timeout:   cfg.HTTPTimeout,
	})
	ipqsClient := ipqs.New(nil, ipqs.Config{
		APIKey:  cfg.IPQSAPIKey,
		Timeout: cfg.HTTPTimeout,
	})
	abuseClient := abuseipdb.New(nil, abuseipdb.Config{
		APIKey:  cfg.AbuseIPDBKey,
		Timeout: cfg.HTTPTimeout,
	})
	geoClient := ipapi.New(nil, ipapi.Config{Timeout: cfg.HTTPTimeout})
	whoisxmlClient := geoip.New(nil, geoip.Config{
		APIKey:  cfg.WhoisXMLAPIKey,
		Timeout: cfg.HTTPTimeout,
	})

	router := apirouter.NewRouter(apirouter.Deps{
		Email:     emailClient,
		Phone:     phoneClient,
		IPQS:      ipqsClient,
		Enrich:    enrich.NewService(whoisxmlClient),
		Diags:     diagnostics.NewService(geoClient, abuseClient, ipqsClient),
		Directory: directory.NewService(cfg.CountryCSVPath, cfg.NumCSVPath),
	}, cfg.AllowedOrigins)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()
	logger.Info().Str("port", cfg.Port).Msg("server listening")

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown")
	}
	logger.Info().Msg("server exited")
}
