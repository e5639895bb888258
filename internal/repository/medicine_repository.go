package repository

import (
	"context"
	"errors"
	"fmt"

	"mediplus/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const medicineColumns = `id, name, price, original_price, category, prescription, image_url, created_at`

// medicineRepository implements MedicineRepository using PostgreSQL.
type medicineRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewMedicineRepository creates a new PostgreSQL-backed medicine repository.
func NewMedicineRepository(pool *pgxpool.Pool, logger zerolog.Logger) MedicineRepository {
	return &medicineRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "medicine").Logger(),
	}
}

func (r *medicineRepository) GetAll(ctx context.Context, category string, limit, offset int) ([]model.Medicine, error) {
	query := `
		SELECT ` + medicineColumns + `
		FROM medicines
		WHERE ($1 = '' OR category = $1)
		ORDER BY name
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, category, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Str("category", category).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query medicines")
		return nil, fmt.Errorf("failed to query medicines: %w", err)
	}

	return r.collect(rows)
}

func (r *medicineRepository) GetByID(ctx context.Context, id string) (*model.Medicine, error) {
	query := `SELECT ` + medicineColumns + ` FROM medicines WHERE id = $1`

	m, err := scanMedicine(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("medicine_id", id).Msg("medicine not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("medicine_id", id).Msg("failed to query medicine")
		return nil, fmt.Errorf("failed to query medicine: %w", err)
	}

	return &m, nil
}

func (r *medicineRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Medicine, error) {
	if len(ids) == 0 {
		return []model.Medicine{}, nil
	}

	query := `
		SELECT ` + medicineColumns + `
		FROM medicines
		WHERE id = ANY($1)
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query medicines by IDs")
		return nil, fmt.Errorf("failed to query medicines by IDs: %w", err)
	}

	return r.collect(rows)
}

func (r *medicineRepository) Upsert(ctx context.Context, medicines []model.Medicine) error {
	if len(medicines) == 0 {
		return nil
	}

	query := `
		INSERT INTO medicines (id, name, price, original_price, category, prescription, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			price = EXCLUDED.price,
			original_price = EXCLUDED.original_price,
			category = EXCLUDED.category,
			prescription = EXCLUDED.prescription,
			image_url = EXCLUDED.image_url
	`

	batch := &pgx.Batch{}
	for _, m := range medicines {
		batch.Queue(query, m.ID, m.Name, m.Price, m.OriginalPrice, m.Category, m.Prescription, m.ImageURL)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := range medicines {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().Err(err).Str("medicine_id", medicines[i].ID).Msg("failed to upsert medicine")
			return fmt.Errorf("failed to upsert medicine %s: %w", medicines[i].ID, err)
		}
	}

	r.logger.Info().Int("count", len(medicines)).Msg("medicines upserted")
	return nil
}

func (r *medicineRepository) collect(rows pgx.Rows) ([]model.Medicine, error) {
	defer rows.Close()

	medicines := []model.Medicine{}
	for rows.Next() {
		m, err := scanMedicine(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan medicine row")
			return nil, fmt.Errorf("failed to scan medicine: %w", err)
		}
		medicines = append(medicines, m)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating medicine rows")
		return nil, fmt.Errorf("error iterating medicines: %w", err)
	}

	return medicines, nil
}

func scanMedicine(row pgx.Row) (model.Medicine, error) {
	var m model.Medicine
	err := row.Scan(&m.ID, &m.Name, &m.Price, &m.OriginalPrice, &m.Category, &m.Prescription, &m.ImageURL, &m.CreatedAt)
	return m, err
}
