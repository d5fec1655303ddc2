package main

import (
	"context"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/primecut-foods/butchery-api/internal/config"
)

// Backfills orders.period_id from the denormalized period name for rows
// written before orders carried a stable period reference. Safe to re-run:
// rows that already have a period_id are left alone.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Use DATABASE_PUBLIC_URL for local runs against a hosted database
	dbURL := cfg.DBURL
	if publicURL := os.Getenv("DATABASE_PUBLIC_URL"); publicURL != "" {
		dbURL = publicURL
		log.Println("Using DATABASE_PUBLIC_URL (external) for local execution")
	}

	ctx := context.Background()
	dbpool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbpool.Close()

	if err := dbpool.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("✓ Database connection established")

	tag, err := dbpool.Exec(ctx, `
		UPDATE orders o
		SET period_id = p.id
		FROM periods p
		WHERE (o.period_id IS NULL OR o.period_id = '')
		  AND o.period_name = p.name
	`)
	if err != nil {
		log.Fatalf("Failed to backfill period references: %v", err)
	}
	log.Printf("Backfilled period_id on %d orders", tag.RowsAffected())

	// Orders whose period name matches nothing need a manual decision
	var orphans int
	err = dbpool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM orders o
		WHERE (o.period_id IS NULL OR o.period_id = '')
		  AND o.period_name IS NOT NULL
		  AND o.period_name <> ''
	`).Scan(&orphans)
	if err != nil {
		log.Fatalf("Failed to count orphaned orders: %v", err)
	}

	if orphans > 0 {
		log.Printf("WARNING: %d orders reference a period name with no matching period", orphans)
		log.Println("Create the missing periods and re-run, or reassign those orders manually")
	} else {
		log.Println("All orders carry a stable period reference")
	}
}
