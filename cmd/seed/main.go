package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/oksasatya/go-accounts-service/config"
	"github.com/oksasatya/go-accounts-service/internal/domain/valueobject"
)

// Seeds an admin account for local development against the postgres backend.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email, err := valueobject.NewEmail("admin@example.com")
	if err != nil {
		log.Fatalf("bad seed email: %v", err)
	}
	plain := "Admin1234"
	password, err := valueobject.NewPassword(plain)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	id := valueobject.GenerateUserID()

	var userID string
	err = db.QueryRow(`
		INSERT INTO users (id, email, name, is_active, is_verified, role, plan)
		VALUES ($1, $2, $3, TRUE, TRUE, 'ADMIN', 'STANDARD')
		ON CONFLICT (email) DO UPDATE SET role = 'ADMIN'
		RETURNING id
	`, id.String(), email.String(), "Admin").Scan(&userID)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}

	if _, err := db.Exec(`
		INSERT INTO user_credentials (email, password_hash, user_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash
	`, email.String(), password.Hash(), userID); err != nil {
		log.Fatalf("failed to seed credentials: %v", err)
	}

	fmt.Printf("seeded admin: id=%s email=%s password=%s\n", userID, email, plain)
}
