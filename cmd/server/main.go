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

	"github.com/joho/godotenv"

	"github.com/docsmith/docchat/internal/api"
	"github.com/docsmith/docchat/internal/config"
	"github.com/docsmith/docchat/internal/extraction"
	"github.com/docsmith/docchat/internal/gcp"
	"github.com/docsmith/docchat/internal/pdftext"
	"github.com/docsmith/docchat/internal/services"
	"github.com/docsmith/docchat/internal/store"
)

func main() {
	// --- Set up structured logging ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found; using process environment.")
	}

	if err := run(logger); err != nil {
		slog.Error("Server exited with error.", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// --- External clients ---
	objects, err := gcp.NewObjectStore(ctx, cfg.UploadBucket)
	if err != nil {
		return err
	}
	defer objects.Close()

	firestoreClient, err := gcp.NewFirestoreClient(ctx, cfg.ProjectID)
	if err != nil {
		return err
	}
	defer firestoreClient.Close()

	analyzer, err := gcp.NewDocumentAnalyzer(ctx, gcp.DocumentAnalyzerConfig{
		ProjectID:             cfg.ProjectID,
		Location:              cfg.DocAILocation,
		StructuredProcessorID: cfg.DocAIStructuredProcessor,
		OCRProcessorID:        cfg.DocAIOCRProcessor,
		ProcessorVersion:      cfg.DocAIProcessorVersion,
		Bucket:                cfg.UploadBucket,
	})
	if err != nil {
		return err
	}
	defer analyzer.Close()

	transcriber, err := gcp.NewTranscriptionClient(ctx, objects, cfg.TranscriptPrefix)
	if err != nil {
		return err
	}
	defer transcriber.Close()

	vertex, err := gcp.NewVertexClient(ctx, cfg.ProjectID, cfg.VertexRegion)
	if err != nil {
		return err
	}
	defer vertex.Close()

	sessions := store.NewSessionCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer sessions.Close()
	if err := sessions.Ping(ctx); err != nil {
		return err
	}

	// --- Extraction pipeline ---
	cascade := extraction.NewCascade(objects, analyzer, pdftext.NewParser(), logger)
	transcription := extraction.NewTranscriptionWorkflow(objects, transcriber, logger)
	router := extraction.NewRouter(cascade, vertex, transcription, objects, logger)
	orchestrator := extraction.NewOrchestrator(router, logger)

	// --- Stores and services ---
	users := store.NewUserStore(firestoreClient)
	conversations := store.NewConversationStore(firestoreClient)
	messages := store.NewMessageStore(firestoreClient)
	uploads := store.NewUploadStore(firestoreClient)

	authSvc := services.NewAuthService(users, sessions, logger)
	uploadSvc := services.NewUploadService(objects, uploads, cfg.PresignTTL, logger)
	convSvc := services.NewConversationService(conversations, messages, uploads, logger)
	chatSvc := services.NewChatService(conversations, messages, uploads, orchestrator, vertex, logger)

	server := api.NewServer(authSvc, uploadSvc, convSvc, chatSvc, logger)

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server listening.", "port", cfg.Port)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		slog.Info("Shutdown signal received.")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}

	slog.Info("Server stopped.")
	return nil
}
