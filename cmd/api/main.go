package main

import (
	"database/sql"
	"net/http"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "azurea_hotel/internal/adapters/http_server"
	"azurea_hotel/internal/adapters/mailer"
	"azurea_hotel/internal/adapters/observability"
	redisad "azurea_hotel/internal/adapters/redis"
	"azurea_hotel/internal/app"
	"azurea_hotel/internal/domain"
	"azurea_hotel/internal/shared"
	mysqlrepo "azurea_hotel/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Without a relay URL booking mail is disabled, not a boot failure.
	var notifier domain.Notifier = mailer.Disabled{}
	if cfg.MailerBase != "" {
		m, err := mailer.New(cfg.MailerBase, cfg.MailerKey, cfg.MailerFrom, cfg.MailerRPS)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize mail relay client")
		}
		notifier = m
	} else {
		log.Warn().Msg("MAILER_BASE_URL not set, booking mail disabled")
	}

	cacheTTL := time.Duration(cfg.CacheTTLSec) * time.Second
	bookings := app.NewBookingService(repo, repo, repo, repo, notifier, cache)
	payments := app.NewPaymentService(repo, repo)
	queries := app.NewQueryService(repo, repo, repo, cache, cacheTTL)
	resources := app.NewResourceService(repo, repo, cache)
	users := app.NewUserService(repo)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Bookings:  bookings,
		Payments:  payments,
		Queries:   queries,
		Resources: resources,
		Users:     users,
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  time.Duration(cfg.TokenTTLMin) * time.Minute,
	})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
