package repository

import (
	"testing"

	"mediplus/internal/database/dbtest"
	"mediplus/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	return dbtest.Postgres(t)
}

func float64Ptr(v float64) *float64 { return &v }

func sampleMedicines() []model.Medicine {
	return []model.Medicine{
		{ID: "med-1", Name: "Paracetamol 500mg", Price: 3.49, OriginalPrice: float64Ptr(4.99), Category: "pain-relief"},
		{ID: "med-2", Name: "Amoxicillin 250mg", Price: 12.5, Category: "antibiotics", Prescription: true},
		{ID: "med-3", Name: "Vitamin D3", Price: 8, Category: "supplements", ImageURL: "https://cdn.example/d3.png"},
		{ID: "med-4", Name: "Ibuprofen 200mg", Price: 5.25, OriginalPrice: float64Ptr(6), Category: "pain-relief"},
	}
}
