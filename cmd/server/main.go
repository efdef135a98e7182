package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/blog-system/internal/config"
	"github.com/iliyamo/blog-system/internal/database"
	"github.com/iliyamo/blog-system/internal/handler"
	"github.com/iliyamo/blog-system/internal/logging"
	"github.com/iliyamo/blog-system/internal/mail"
	"github.com/iliyamo/blog-system/internal/middleware"
	"github.com/iliyamo/blog-system/internal/queue"
	"github.com/iliyamo/blog-system/internal/repository"
	"github.com/iliyamo/blog-system/internal/router"
	"github.com/iliyamo/blog-system/internal/service"
	"github.com/iliyamo/blog-system/internal/session"
	"github.com/iliyamo/blog-system/internal/utils"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DSN())
	if err != nil {
		log.Error("database connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		log.Error("database migrate failed", "err", err)
		os.Exit(1)
	}

	// Redis is optional: sessions fall back to memory and caching is off.
	rdb := config.NewRedisClient(ctx)
	var store session.Store
	if rdb != nil {
		defer rdb.Close()
		store = session.NewRedisStore(rdb, cfg.SessionIdleTimeout)
	} else {
		log.Warn("redis unavailable, using in-memory sessions and no page cache")
		store = session.NewMemoryStore(cfg.SessionIdleTimeout)
	}
	sessions := session.NewManager(store, cfg.SessionCookieName)

	smtp := mail.NewSMTPSender(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
	})
	var mailer mail.Sender = smtp
	if cfg.MailTransport == config.MailTransportQueue {
		mailer = queue.NewPublisher(cfg.AMQPURL, log)
		go func() {
			if err := queue.StartMailConsumer(ctx, cfg.AMQPURL, smtp, log); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("mail consumer stopped", "err", err)
			}
		}()
	}

	hasher := utils.NewPasswordHasher(cfg.BcryptCost)
	users := repository.NewUserRepo(db)
	entries := repository.NewEntryRepo(db)
	comments := repository.NewCommentRepo(db)
	categories := repository.NewCategoryRepo(db)
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.ResetTokenTTL, nil)

	h := router.Handlers{
		Health: &handler.HealthHandler{DB: db, Redis: rdb},
		Home:   &handler.HomeHandler{Entries: entries, Comments: comments, Log: log},
		Account: &handler.AccountHandler{
			Auth: service.NewAuthService(users, hasher, log),
			Reset: service.NewResetService(users, tokens, hasher, mailer, service.ResetOptions{
				From:             cfg.MailFrom,
				FromName:         cfg.MailFromName,
				HideUnknownEmail: cfg.HideUnknownResetEmail,
			}, log),
			Profile:  service.NewProfileService(users, hasher),
			Sessions: sessions,
			Log:      log,
			BaseURL:  cfg.BaseURL,
		},
		Entries:    &handler.EntryHandler{Entries: entries, Categories: categories, Log: log},
		Comments:   &handler.CommentHandler{Comments: comments, Log: log},
		Categories: &handler.CategoryHandler{Categories: categories, Log: log},
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Pre(
		echomw.RequestID(),
		middleware.RequestLogger(log),
		echomw.Recover(),
		middleware.AccessGate(cfg.ProtectedPrefixes, sessions, log),
	)

	cacheCfg := config.LoadCacheConfig()
	e.Use(middleware.PurgeOnWrite(cacheCfg, rdb, log))
	cache := middleware.NewRedisCache(cacheCfg, rdb, func(c echo.Context) bool {
		ok, err := sessions.IsLoggedIn(c)
		return ok || err != nil
	}, log)

	router.RegisterRoutes(e, h)
	router.RegisterPublic(e, h, cache)
	router.RegisterAdmin(e, h)

	addr := ":" + cfg.Port
	go func() {
		log.Info("listening", "addr", addr, "env", cfg.Env, "mail_transport", cfg.MailTransport)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", "err", err)
	}
	log.Info("stopped")
}
