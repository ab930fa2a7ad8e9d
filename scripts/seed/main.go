// Command seed bootstraps the first admin account. Every moderation
// action requires an approved admin, so a fresh database needs one
// created out of band.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/learnhub/lms-api/internal/models"
	"github.com/learnhub/lms-api/internal/repository"
	"github.com/learnhub/lms-api/pkg/config"
	"github.com/learnhub/lms-api/pkg/database"
)

func main() {
	var (
		name     string
		email    string
		password string
		timeout  time.Duration
	)

	flag.StringVar(&name, "name", "Administrator", "display name for the admin account")
	flag.StringVar(&email, "email", "", "admin email (required)")
	flag.StringVar(&password, "password", "", "admin password (required, min 6 chars)")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "database operation timeout")
	flag.Parse()

	if email == "" || password == "" {
		log.Fatal("both -email and -password are required")
	}
	if len(password) < 6 {
		log.Fatal("password must be at least 6 characters")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := database.Migrate(cfg.Database); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	users := repository.NewUserRepository(db)

	existing, err := users.FindByEmail(ctx, email)
	if err == nil {
		fmt.Printf("account %s already exists (role %s, status %s), nothing to do\n", existing.Email, existing.Role, existing.Status)
		return
	}
	if !errors.Is(err, sql.ErrNoRows) {
		log.Fatalf("lookup failed: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	admin := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		Status:       models.InitialUserStatus(models.RoleAdmin),
	}
	if err := users.Create(ctx, admin); err != nil {
		log.Fatalf("failed to create admin: %v", err)
	}

	fmt.Printf("admin %s created (id %s)\n", admin.Email, admin.ID)
}
