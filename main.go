package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	config "github.com/Keoroanthony/go-comic-rental/configs"
	"github.com/Keoroanthony/go-comic-rental/internal/auth"
	"github.com/Keoroanthony/go-comic-rental/internal/db"
	"github.com/Keoroanthony/go-comic-rental/internal/events"
	"github.com/Keoroanthony/go-comic-rental/internal/handlers"
	"github.com/Keoroanthony/go-comic-rental/internal/logging"
	"github.com/Keoroanthony/go-comic-rental/internal/notifier"
	"github.com/Keoroanthony/go-comic-rental/internal/rentals"
	"github.com/Keoroanthony/go-comic-rental/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logging.New(logging.Options{})
		boot.Fatal().Err(err).Msg("load config")
	}
	log := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, File: cfg.Log.File})

	gdb, err := db.Open(cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}

	ctx := context.Background()
	notify, err := notifier.FromConfig(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("configure notifiers")
	}
	publisher := newPublisher(cfg.RabbitMQ, log)
	defer publisher.Close()

	if err := handlers.RegisterValidators(); err != nil {
		log.Fatal().Err(err).Msg("register validators")
	}

	svc := rentals.NewService()
	svc.Log = log
	h := handlers.New(gdb, svc, notify, publisher, log)
	h.NotifyTimeout = time.Duration(cfg.NotifyTimeout) * time.Second

	if log.GetLevel() > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(logging.RequestID(), logging.RequestLogger(log), gin.Recovery())
	r.SetHTMLTemplate(web.Templates())

	// ── session store ──
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
	r.Use(sessions.Sessions(auth.SessionName, store))

	h.Register(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown")
	}
	if sqlDB, err := gdb.DB(); err == nil {
		sqlDB.Close()
	}
	log.Info().Msg("stopped")
}

// newPublisher falls back to a no-op publisher when RabbitMQ is not
// configured or unreachable; events are optional.
func newPublisher(cfg config.RabbitMQConfig, log zerolog.Logger) events.Publisher {
	if !cfg.Enabled() {
		return events.Noop{}
	}
	p, err := events.NewRabbit(cfg.URL, cfg.Exchange)
	if err != nil {
		log.Warn().Err(err).Msg("rabbitmq unavailable, domain events disabled")
		return events.Noop{}
	}
	log.Info().Str("exchange", cfg.Exchange).Msg("publishing domain events")
	return p
}
