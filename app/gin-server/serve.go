package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/interviewiq/config"
	"github.com/yoockh/interviewiq/internal/api/handlers"
	"github.com/yoockh/interviewiq/internal/api/middleware"
	"github.com/yoockh/interviewiq/internal/api/routes"
	"github.com/yoockh/interviewiq/internal/logger"
	"github.com/yoockh/interviewiq/internal/services"
)

func runServe(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Server.LogLevel)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close(log)

	if err := st.ensureSchema(ctx); err != nil {
		return err
	}

	sessions, err := withCache(ctx, cfg, st.sessions, log, &st.closers)
	if err != nil {
		return err
	}

	p, err := openProviders(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer p.close(log)

	gin.SetMode(cfg.Server.GinMode)
	r := gin.New()
	r.Use(middleware.RequestLogger(log), middleware.Recovery(log))

	routes.RegisterRoutes(r, routes.Deps{
		Interview: handlers.NewInterviewHandler(services.NewInterviewService(sessions)),
		AI: handlers.NewAIHandler(
			services.NewQuestionService(p.llm, sessions, log),
			services.NewFeedbackService(p.llm, sessions, log),
			services.NewSpeechService(p.tts, p.uploader, sessions, log),
			services.NewTranscriptionService(p.stt, log),
			handlers.AudioMode(cfg.Audio.Response),
		),
		Auth: middleware.JWTAuth(middleware.JWTConfig{
			Secret:   cfg.Auth.JWTSecret,
			Issuer:   cfg.Auth.JWTIssuer,
			Audience: cfg.Auth.JWTAudience,
		}),
		Health: st.health,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("http server listening")
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

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runEnsureIndexes(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Server.LogLevel)

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close(log)

	if err := st.ensureSchema(ctx); err != nil {
		return err
	}
	log.WithField("driver", cfg.Store.Driver).Info("store schema ready")
	return nil
}
