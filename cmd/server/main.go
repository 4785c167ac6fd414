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

	"plainlaw-backend/config"
	"plainlaw-backend/handlers"
	"plainlaw-backend/llm"
	"plainlaw-backend/logger"
	"plainlaw-backend/metrics"
	"plainlaw-backend/repository"
	"plainlaw-backend/retrieval"
	"plainlaw-backend/service"
	"plainlaw-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database connection
	db, err := initPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize Postgres: %w", err)
	}
	defer db.Close()
	log.Info("postgres connection established")

	// Initialize storage
	fileStorage, err := storage.New(ctx, storage.Config{
		Type:         storage.Type(cfg.Storage.Type),
		LocalPath:    cfg.Storage.LocalPath,
		S3Bucket:     cfg.Storage.S3Bucket,
		S3Region:     cfg.Storage.S3Region,
		AWSAccessKey: cfg.Storage.AWSAccessKey,
		AWSSecretKey: cfg.Storage.AWSSecretKey,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("storage initialized", zap.String("type", cfg.Storage.Type))

	// Initialize Gemini client
	if cfg.Gemini.APIKey == "" {
		log.Warn("GEMINI_API_KEY not set")
	}
	geminiClient, err := genai.NewClient(ctx, option.WithAPIKey(cfg.Gemini.APIKey))
	if err != nil {
		return fmt.Errorf("failed to initialize Gemini: %w", err)
	}
	defer geminiClient.Close()

	translator := llm.NewGeminiTranslator(geminiClient, cfg.Gemini.Model,
		llm.GeminiWithTemperature(cfg.Gemini.Temperature),
		llm.GeminiWithMaxRetries(cfg.Gemini.MaxRetries),
		llm.GeminiWithLogger(log.Named("gemini")),
	)

	// Initialize retrieval engine
	engine, err := initEngine(cfg.Retrieval, log)
	if err != nil {
		return err
	}

	// Initialize repositories
	translationRepo := repository.NewTranslationRepository(db)
	fileRepo := repository.NewFileRepository(db)

	// Initialize services
	translationService := service.NewTranslationService(
		service.TranslationWithStore(translationRepo),
		service.TranslationWithFileStore(fileRepo),
		service.TranslationWithStorage(fileStorage),
		service.TranslationWithTranslator(translator),
		service.TranslationWithEngine(engine),
		service.TranslationWithMaxTextChars(cfg.Limits.MaxTextChars),
		service.TranslationWithExamples(cfg.Retrieval.Examples),
		service.TranslationWithLogger(log.Named("translation")),
	)
	fileService := service.NewFileService(
		service.FileWithStore(fileRepo),
		service.FileWithStorage(fileStorage),
		service.FileWithMaxUploadBytes(cfg.Limits.MaxUploadBytes),
		service.FileWithLogger(log.Named("files")),
	)

	if cfg.Env == "prod" || cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handlers.NewRouter(
		handlers.NewTranslationHandler(translationService),
		handlers.NewFileHandler(fileService),
		log.Named("http"),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("port", cfg.Port))
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
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func initPostgres(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

func initEngine(cfg config.RetrievalConfig, log *zap.Logger) (*retrieval.Engine, error) {
	metrics.RegisterRetrievalMetrics()

	opts := []retrieval.Option{
		retrieval.WithLogger(log.Named("retrieval")),
		retrieval.WithObserver(metrics.NewRetrievalObserver()),
	}
	if cfg.LexiconPath != "" {
		lex, err := retrieval.LoadLexicon(cfg.LexiconPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load lexicon: %w", err)
		}
		opts = append(opts, retrieval.WithLexicon(lex))
		log.Info("retrieval lexicon loaded", zap.String("path", cfg.LexiconPath))
	}

	return retrieval.NewEngine(opts...), nil
}
