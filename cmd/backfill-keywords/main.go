package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"plainlaw-backend/config"
	"plainlaw-backend/logger"
	"plainlaw-backend/repository"
	"plainlaw-backend/retrieval"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	batchSize := flag.Int("batch-size", 200, "translations tagged per round")
	dryRun := flag.Bool("dry-run", false, "print keywords without writing them")
	flag.Parse()

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

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	opts := []retrieval.Option{retrieval.WithLogger(log)}
	if cfg.Retrieval.LexiconPath != "" {
		lex, err := retrieval.LoadLexicon(cfg.Retrieval.LexiconPath)
		if err != nil {
			log.Fatal("failed to load lexicon", zap.Error(err))
		}
		opts = append(opts, retrieval.WithLexicon(lex))
	}
	engine := retrieval.NewEngine(opts...)
	repo := repository.NewTranslationRepository(pool)

	tagged, untaggable := 0, 0
	for {
		batch, err := repo.ListMissingKeywords(ctx, *batchSize)
		if err != nil {
			log.Fatal("failed to list translations", zap.Error(err))
		}
		if len(batch) == 0 {
			break
		}

		progressed := false
		for _, t := range batch {
			keywords := engine.ExtractKeywords(t.OriginalText)
			if len(keywords) == 0 {
				untaggable++
				continue
			}
			if *dryRun {
				fmt.Printf("%s: %v\n", t.ID, keywords)
				tagged++
				continue
			}
			if err := repo.UpdateKeywords(ctx, t.ID, keywords); err != nil {
				log.Fatal("failed to update keywords", zap.Stringer("id", t.ID), zap.Error(err))
			}
			tagged++
			progressed = true
		}

		// Rows that yield no keywords stay in the result set; stop once a
		// round writes nothing.
		if *dryRun || !progressed {
			break
		}
	}

	log.Info("keyword backfill finished", zap.Int("tagged", tagged), zap.Int("untaggable", untaggable))
}
