package main

import (
	"context"
	"fmt"
	"os"

	"plainlaw-backend/config"
	"plainlaw-backend/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var schema = []struct {
	name string
	sql  string
}{
	{"pgcrypto extension", `CREATE EXTENSION IF NOT EXISTS pgcrypto`},
	{"users table", `
CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    email VARCHAR(255) NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    name VARCHAR(255) NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`},
	{"files table", `
CREATE TABLE IF NOT EXISTS files (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    filename VARCHAR(255) NOT NULL,
    mime_type VARCHAR(100) NOT NULL,
    size BIGINT NOT NULL,
    storage_path TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`},
	{"translations table", `
CREATE TABLE IF NOT EXISTS translations (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    title VARCHAR(200),
    original_text TEXT NOT NULL,
    translated_text TEXT NOT NULL,
    keywords TEXT[] NOT NULL DEFAULT '{}',
    source_file_id UUID REFERENCES files(id) ON DELETE SET NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`},
	{"files user index", `CREATE INDEX IF NOT EXISTS idx_files_user_id ON files(user_id, created_at DESC)`},
	{"translations user index", `CREATE INDEX IF NOT EXISTS idx_translations_user_id ON translations(user_id, created_at DESC)`},
	{"translations recency index", `CREATE INDEX IF NOT EXISTS idx_translations_created_at ON translations(created_at DESC)`},
}

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

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt.sql); err != nil {
			log.Fatal("failed to apply schema", zap.String("step", stmt.name), zap.Error(err))
		}
		log.Info("schema applied", zap.String("step", stmt.name))
	}
}
