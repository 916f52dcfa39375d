// Command server runs the land surveyor directory API.
//
// @title                       Land Surveyor Directory API
// @version                     1.0
// @description                 Registration, authentication and profile management for a directory of land surveyors.
// @BasePath                    /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/landsurveyors/directory-api/internal/api"
	"github.com/landsurveyors/directory-api/internal/api/middleware"
	"github.com/landsurveyors/directory-api/internal/core/ports"
	"github.com/landsurveyors/directory-api/internal/core/service"
	"github.com/landsurveyors/directory-api/internal/infrastructure/config"
	mongostore "github.com/landsurveyors/directory-api/internal/infrastructure/db/mongo"
	"github.com/landsurveyors/directory-api/internal/infrastructure/db/postgres"
	redisstore "github.com/landsurveyors/directory-api/internal/infrastructure/db/redis"
	"github.com/landsurveyors/directory-api/internal/infrastructure/http/handlers"
	"github.com/landsurveyors/directory-api/internal/infrastructure/mail"
	"github.com/landsurveyors/directory-api/internal/infrastructure/queue"
	"github.com/landsurveyors/directory-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.New(logger.Options{})
		boot.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Env:     cfg.Env,
		Service: "directory-api",
	})

	// --- Stores ---
	pool, err := postgres.Connect(ctx, postgres.Config{
		DSN:      cfg.Postgres.DSN,
		MaxConns: cfg.Postgres.MaxConns,
		MinConns: cfg.Postgres.MinConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	if cfg.Postgres.Migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migrate postgres")
		}
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
		Timeout:  cfg.Redis.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect redis")
	}
	defer rdb.Close()

	mongoClient, mongoDB, err := mongostore.Connect(ctx, mongostore.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		AppName:     cfg.Mongo.AppName,
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
		Timeout:     cfg.Mongo.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect mongo")
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()

	activity := mongostore.NewActivityRepository(mongoDB)
	if err := activity.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("ensure activity indexes")
	}

	// --- Mail ---
	var sender ports.EmailSender = mail.NewLogSender(log)
	if cfg.SMTP.Host != "" {
		sender = mail.NewSMTPSender(mail.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			Timeout:  cfg.SMTP.Timeout,
		})
	}
	dispatcher := queue.NewDispatcher(cfg.Mail.Workers, cfg.Mail.QueueSize, service.NewEmailService(sender, activity, log), log)
	dispatcher.Start(context.WithoutCancel(ctx))

	// --- Services ---
	creds := service.NewCredentialService(service.CredentialConfig{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
		TTL:      cfg.JWT.TTL,
	})
	surveyors := postgres.NewSurveyorRepository(pool, log)
	authService := service.NewAuthService(surveyors, creds, activity, dispatcher, cfg.Registration.DefaultCounties, log)
	profileService := service.NewProfileService(surveyors, creds, activity, log)
	referenceService := service.NewReferenceService(
		postgres.NewReferenceRepository(pool),
		redisstore.NewJSONCache(rdb, "directory:"),
		cfg.Reference.CacheTTL,
		log,
	)

	var limiter middleware.WindowCounter
	if cfg.RateLimit.Enabled {
		limiter = redisstore.NewWindowCounter(rdb)
	}

	e := api.NewRouter(api.Deps{
		Auth:      authService,
		Profiles:  profileService,
		Reference: referenceService,
		Mail:      dispatcher,
		Tokens:    creds,
		Limiter:   limiter,
		Checks: map[string]handlers.Check{
			"postgres": handlers.PostgresCheck(pool),
			"redis":    handlers.RedisCheck(rdb),
			"mongodb":  handlers.MongoCheck(mongoDB),
		},
		Log: log,
		Options: api.Options{
			Env:            cfg.Env,
			RequestTimeout: cfg.RequestTimeout,
			CORSOrigins:    cfg.CORSOrigins,
			GeneralLimit: middleware.RateLimitConfig{
				Scope:  "general",
				Limit:  cfg.RateLimit.GeneralLimit,
				Window: cfg.RateLimit.Window,
			},
			AuthLimit: middleware.RateLimitConfig{
				Scope:  "auth",
				Limit:  cfg.RateLimit.AuthLimit,
				Window: cfg.RateLimit.Window,
			},
		},
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := dispatcher.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("mail dispatcher shutdown")
	}
	log.Info().Msg("shutdown complete")
}
