//go:build ignore

package main

import (
	"context"
	"fmt"
	"os"

	"mediplus/internal/config"
	"mediplus/internal/database"
	"mediplus/internal/model"
	"mediplus/internal/repository"
)

func price(v float64) *float64 { return &v }

// seed_medicines applies the schema and upserts a starter catalog.
// It reads the same DB_* environment variables as the server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := config.NewLogger(cfg.Logger)
	ctx := context.Background()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
		os.Exit(1)
	}

	medicines := []model.Medicine{
		{ID: "1", Name: "Paracetamol 500mg", Price: 5.99, OriginalPrice: price(7.99), Category: "Pain Relief", ImageURL: "/images/paracetamol.png"},
		{ID: "2", Name: "Amoxicillin 250mg", Price: 12.49, Category: "Antibiotics", Prescription: true, ImageURL: "/images/amoxicillin.png"},
		{ID: "3", Name: "Vitamin D3 1000IU", Price: 8.99, OriginalPrice: price(10.99), Category: "Vitamins", ImageURL: "/images/vitamin-d3.png"},
		{ID: "4", Name: "Cetirizine 10mg", Price: 4.49, Category: "Allergy", ImageURL: "/images/cetirizine.png"},
		{ID: "5", Name: "Omeprazole 20mg", Price: 9.79, Category: "Digestive Health", Prescription: true, ImageURL: "/images/omeprazole.png"},
		{ID: "6", Name: "Ibuprofen 400mg", Price: 6.29, OriginalPrice: price(6.99), Category: "Pain Relief", ImageURL: "/images/ibuprofen.png"},
		{ID: "7", Name: "Metformin 500mg", Price: 7.5, Category: "Diabetes", Prescription: true, ImageURL: "/images/metformin.png"},
		{ID: "8", Name: "Multivitamin Daily", Price: 14.99, OriginalPrice: price(19.99), Category: "Vitamins", ImageURL: "/images/multivitamin.png"},
	}

	repo := repository.NewMedicineRepository(pool, logger)
	if err := repo.Upsert(ctx, medicines); err != nil {
		fmt.Fprintf(os.Stderr, "Seeding failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Seeded %d medicines into %s\n", len(medicines), cfg.Database.Database)
}
