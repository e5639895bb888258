package service

import (
	"context"
	"fmt"
	"strings"

	"mediplus/internal/model"
	"mediplus/internal/repository"

	"github.com/rs/zerolog"
)

// medicineService implements MedicineService.
type medicineService struct {
	medicineRepo repository.MedicineRepository
	logger       zerolog.Logger
}

// NewMedicineService creates a new medicine service.
func NewMedicineService(medicineRepo repository.MedicineRepository, logger zerolog.Logger) MedicineService {
	return &medicineService{
		medicineRepo: medicineRepo,
		logger:       logger.With().Str("service", "medicine").Logger(),
	}
}

// GetAll retrieves medicines with pagination.
func (s *medicineService) GetAll(ctx context.Context, category string, limit, offset int) ([]model.Medicine, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	category = strings.TrimSpace(category)

	medicines, err := s.medicineRepo.GetAll(ctx, category, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).
			Str("category", category).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to get medicines")
		return nil, fmt.Errorf("failed to get medicines: %w", err)
	}

	s.logger.Debug().
		Int("count", len(medicines)).
		Int("limit", limit).
		Int("offset", offset).
		Msg("retrieved medicines")

	return medicines, nil
}

// GetByID retrieves a single medicine by ID.
func (s *medicineService) GetByID(ctx context.Context, id string) (*model.Medicine, error) {
	if id == "" {
		s.logger.Warn().Msg("medicine ID is empty")
		return nil, model.ErrMedicineNotFound
	}

	medicine, err := s.medicineRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("medicine_id", id).Msg("failed to get medicine by ID")
		return nil, fmt.Errorf("failed to get medicine: %w", err)
	}

	if medicine == nil {
		s.logger.Debug().Str("medicine_id", id).Msg("medicine not found")
		return nil, model.ErrMedicineNotFound
	}

	return medicine, nil
}
