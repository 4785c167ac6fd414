package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"plainlaw-backend/config"
	"plainlaw-backend/logger"
	"plainlaw-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	email := flag.String("email", "test@example.com", "user email")
	password := flag.String("password", "testpassword123", "user password")
	name := flag.String("name", "Test User", "display name")
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

	var existingID uuid.UUID
	err = pool.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", *email).Scan(&existingID)
	switch {
	case err == nil:
		log.Info("user already exists", zap.String("email", *email), zap.Stringer("id", existingID))
		return
	case !errors.Is(err, pgx.ErrNoRows):
		log.Fatal("failed to look up user", zap.Error(err))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("failed to hash password", zap.Error(err))
	}

	user := models.User{Email: *email, PasswordHash: string(hashedPassword), Name: *name}
	err = pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, name)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, user.Email, user.PasswordHash, user.Name).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		log.Fatal("failed to create user", zap.Error(err))
	}

	fmt.Printf("Test user created\n")
	fmt.Printf("   ID: %s\n", user.ID)
	fmt.Printf("   Email: %s\n", user.Email)
	fmt.Printf("   Name: %s\n", user.Name)
	fmt.Printf("   Send X-User-ID: %s with API requests\n", user.ID)
}
