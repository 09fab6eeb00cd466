// Command seed-admin creates the initial API account so the mutating
// endpoints can be used on a fresh database.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dinacademy/batch-scheduler-api/internal/models"
	"github.com/dinacademy/batch-scheduler-api/internal/repository"
	"github.com/dinacademy/batch-scheduler-api/pkg/config"
	"github.com/dinacademy/batch-scheduler-api/pkg/database"
)

func main() {
	var (
		email    string
		fullName string
		role     string
	)
	flag.StringVar(&email, "email", "admin@example.com", "account email")
	flag.StringVar(&fullName, "name", "Administrator", "account full name")
	flag.StringVar(&role, "role", "admin", "account role")
	flag.Parse()

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		log.Fatal("SEED_ADMIN_PASSWORD must be set")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users := repository.NewUserRepository(db)
	user := &models.User{
		Email:        email,
		FullName:     fullName,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}
	if err := users.Create(ctx, user); err != nil {
		log.Fatalf("failed to create account: %v", err)
	}
	log.Printf("created account %s (id=%d)", user.Email, user.ID)
}
