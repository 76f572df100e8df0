package config

import (
	"fmt"
	"log"
	"os"

	"ledger-reconciliation-backend/internal/services/matching"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB opens the Postgres connection from environment configuration.
// DATABASE_URL wins when set; otherwise the DSN is assembled from the
// DB_* variables.
func InitDB() *gorm.DB {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			envOr("DB_HOST", "localhost"),
			envOr("DB_PORT", "5432"),
			envOr("DB_USER", "postgres"),
			os.Getenv("DB_PASSWORD"),
			envOr("DB_NAME", "ledger_reconciliation"),
			envOr("DB_SSLMODE", "disable"),
		)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	return db
}

// LoadBankRegistry returns the bank registry, from the YAML file named by
// BANK_CONFIG_PATH when present, otherwise the compiled-in defaults.
func LoadBankRegistry() *matching.BankRegistry {
	path := os.Getenv("BANK_CONFIG_PATH")
	if path == "" {
		return matching.DefaultBankRegistry()
	}
	registry, err := matching.LoadBankRegistry(path)
	if err != nil {
		log.Printf("bank registry %s: %v, using defaults", path, err)
		return matching.DefaultBankRegistry()
	}
	return registry
}

// ListenAddr returns the HTTP listen address.
func ListenAddr() string {
	return envOr("LISTEN_ADDR", ":8080")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
