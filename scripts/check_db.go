//go:build ignore

package main

import (
	"context"
	"fmt"
	"os"

	"mediplus/internal/config"
	"mediplus/internal/database"
)

// check_db connects with the server's DB_* settings and reports row counts.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.Database, config.NewLogger(cfg.Logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	var dbName string
	if err := pool.QueryRow(ctx, "SELECT current_database()").Scan(&dbName); err != nil {
		fmt.Fprintf(os.Stderr, "QueryRow failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Successfully connected to database: %s\n", dbName)

	fmt.Println("\nTables:")
	for _, table := range []string{"medicines", "receipts", "receipt_items"} {
		var count int
		// table names come from the fixed list above
		if err := pool.QueryRow(ctx, "SELECT count(*) FROM "+table).Scan(&count); err != nil {
			fmt.Printf("  - %s: missing (%v)\n", table, err)
			continue
		}
		fmt.Printf("  - %s: %d rows\n", table, count)
	}
}
