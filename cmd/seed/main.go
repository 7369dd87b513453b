package main

import (
	"database/sql"
	_ "embed"
	"errors"
	"log"

	"github.com/lib/pq"
	"github.com/mytheresa/go-storefront/config"
)

//go:embed seed.sql
var seedSQL string

const undefinedTable = "42P01"

// seed loads a small demo catalog. Rows that already exist are left alone.
func main() {
	cfg := config.Load()

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to start transaction: %v", err)
	}

	if _, err := tx.Exec(seedSQL); err != nil {
		_ = tx.Rollback()
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == undefinedTable {
			log.Fatalf("Schema missing (%s), start the server once to migrate", pqErr.Message)
		}
		log.Fatalf("Failed to seed catalog: %v", err)
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit seed: %v", err)
	}
	log.Println("Catalog seeded")
}
