package coupon

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"mediplus/internal/model"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// catalogFile is the on-disk layout of a coupon catalog.
//
//	coupons:
//	  - code: MED30
//	    discount: 30
//	    type: percentage
//	    description: 30% off on orders above $50
//	    minOrder: 50
type catalogFile struct {
	Coupons []model.Coupon `yaml:"coupons"`
}

// fileLoader implements Loader for reading catalog files from the local file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based coupon loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "coupon-loader").Logger(),
	}
}

// Load reads a coupon catalog file and returns a Catalog.
func (l *fileLoader) Load(ctx context.Context, filePath string) (Catalog, error) {
	l.logger.Info().Str("file", filePath).Msg("loading coupon catalog")

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open coupon catalog")
		return nil, fmt.Errorf("failed to open coupon catalog %s: %w", filePath, err)
	}
	defer file.Close()

	catalog, err := decodeCatalog(ctx, file, filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to decode coupon catalog")
		return nil, err
	}

	l.logger.Info().
		Str("file", filePath).
		Int("coupons_loaded", catalog.Size()).
		Msg("coupon catalog loaded successfully")

	return catalog, nil
}

// decodeCatalog parses a YAML catalog, transparently decompressing .gz names.
func decodeCatalog(ctx context.Context, r io.Reader, name string) (Catalog, error) {
	if strings.HasSuffix(name, ".gz") {
		gzipReader, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader for %s: %w", name, err)
		}
		defer gzipReader.Close()
		r = gzipReader
	}

	var doc catalogFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return NewCatalog(), nil
		}
		return nil, fmt.Errorf("failed to parse coupon catalog %s: %w", name, err)
	}

	catalog := NewCatalog()
	for i, coupon := range doc.Coupons {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := validateEntry(coupon); err != nil {
			return nil, fmt.Errorf("invalid coupon at index %d in %s: %w", i, name, err)
		}
		catalog.Add(coupon)
	}

	return catalog, nil
}
