package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/interview-assistant/internal/bank"
	"github.com/stemsi/interview-assistant/internal/config"
	"github.com/stemsi/interview-assistant/internal/database"
	"github.com/stemsi/interview-assistant/internal/handler"
	"github.com/stemsi/interview-assistant/internal/logger"
	"github.com/stemsi/interview-assistant/internal/report"
	"github.com/stemsi/interview-assistant/internal/router"
	"github.com/stemsi/interview-assistant/internal/scoring"
	"github.com/stemsi/interview-assistant/internal/service"
	"github.com/stemsi/interview-assistant/internal/validator"
	"github.com/stemsi/interview-assistant/internal/websocket"
	"github.com/stemsi/interview-assistant/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Str("store", cfg.StoreDriver).
		Msg("Starting Interview Assistant")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Snapshot Store & Redis ────────────────────────────────────────
	// An unreachable Redis or PostgreSQL falls back to the file store;
	// Redis additionally powers the live monitor when it is up.
	stores, err := database.OpenStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("Invalid STORE_DRIVER")
	}
	defer stores.Close()
	rdb := stores.Redis

	// ─── Question Bank ─────────────────────────────────────────────────
	questions := bank.Default()
	if cfg.QuestionBankPath != "" {
		questions, err = bank.Load(cfg.QuestionBankPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.QuestionBankPath).Msg("Failed to load question bank")
		}
	}

	// ─── Initialize Services ──────────────────────────────────────────
	interviewService := service.NewInterviewService(questions, scoring.NewRandomScorer(nil), stores.Snapshot, log)
	interviewService.Load(ctx)

	var mailer report.Mailer = report.NewLogMailer(log)
	if cfg.SMTPHost != "" {
		mailer = report.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)
	}

	tokenService := service.NewTokenService(cfg)
	dashboardService := service.NewDashboardService(interviewService)
	reportService := service.NewReportService(interviewService, mailer, log)
	resumeService := service.NewResumeService(cfg, log)

	// ─── Countdown & Event Fan-out ─────────────────────────────────────
	submitDelay := cfg.SubmitDelay
	if submitDelay == 0 {
		submitDelay = -1 // SUBMIT_DELAY_MS=0 disables the delay
	}
	countdown := worker.NewCountdownWorker(interviewService, cfg.TickInterval, submitDelay, log)
	hub := websocket.NewHub(log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	wsHandler := handler.NewWSHandler(interviewService, countdown, hub, log, cfg.AllowedOrigins)
	countdown.Subscribe(wsHandler.Relay)

	handlers := &router.Handlers{
		App:       handler.NewAppHandler(interviewService),
		Candidate: handler.NewCandidateHandler(interviewService, dashboardService, tokenService),
		Interview: handler.NewInterviewHandler(interviewService, countdown, log),
		Report:    handler.NewReportHandler(reportService),
		Resume:    handler.NewResumeHandler(resumeService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		System:    handler.NewSystemHandler(rdb, hub, stores.Driver, log),
		WS:        wsHandler,
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	workersDone := make(chan struct{}, 2)
	workers := 1

	go func() {
		countdown.Start(workerCtx)
		workersDone <- struct{}{}
	}()

	if rdb != nil {
		publisher := worker.NewEventPublisher(rdb, log)
		countdown.Subscribe(publisher.Enqueue)
		handlers.Monitor = handler.NewMonitorHandler(rdb, interviewService, log)
		workers++
		go func() {
			publisher.Start(workerCtx)
			workersDone <- struct{}{}
		}()
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(ctx, tokenService, handlers, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the countdown and drain queued events.
	workerCancel()
drain:
	for i := 0; i < workers; i++ {
		select {
		case <-workersDone:
		case <-time.After(2 * time.Second):
			log.Warn().Msg("Workers did not stop in time")
			break drain
		}
	}

	// 3. Flush the final state.
	if err := interviewService.Flush(context.Background()); err != nil {
		log.Error().Err(err).Msg("Final snapshot flush failed")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
