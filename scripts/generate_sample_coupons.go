//go:build ignore

package main

import (
	"compress/gzip"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"mediplus/internal/model"

	"gopkg.in/yaml.v3"
)

// generateSampleCoupons writes sample coupon catalogs merged over the built-in coupons.
// seasonal.yaml.gz: MONSOON15, WINTER10 and an override for SAVE20 (flat 25)
// partner.yaml:     PHARMA5, CARE100
func main() {
	dataDir := "data/coupons"

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	catalogs := map[string][]model.Coupon{
		"seasonal.yaml.gz": {
			{Code: "MONSOON15", Discount: 15, Type: model.DiscountPercentage, Description: "15% off during monsoon", MinOrder: 30},
			{Code: "WINTER10", Discount: 10, Type: model.DiscountPercentage, Description: "10% off winter essentials"},
			{Code: "SAVE20", Discount: 25, Type: model.DiscountFlat, Description: "$25 flat discount", MinOrder: 60},
		},
		"partner.yaml": {
			{Code: "PHARMA5", Discount: 5, Type: model.DiscountFlat, Description: "$5 off partner pharmacies"},
			{Code: "CARE100", Discount: 100, Type: model.DiscountFlat, Description: "$100 off large orders", MinOrder: 250},
		},
	}

	for filename, coupons := range catalogs {
		filePath := filepath.Join(dataDir, filename)

		if err := writeCatalog(filePath, coupons); err != nil {
			log.Fatalf("Failed to create %s: %v", filename, err)
		}

		fmt.Printf("Created %s with %d coupons\n", filePath, len(coupons))
	}

	fmt.Println("\nSample coupon catalogs created successfully!")
	fmt.Println("Use them with: COUPON_FILES=data/coupons/seasonal.yaml.gz,data/coupons/partner.yaml")
}

func writeCatalog(filePath string, coupons []model.Coupon) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	var w io.Writer = file
	if strings.HasSuffix(filePath, ".gz") {
		gzipWriter := gzip.NewWriter(file)
		defer gzipWriter.Close()
		w = gzipWriter
	}

	enc := yaml.NewEncoder(w)
	defer enc.Close()

	doc := struct {
		Coupons []model.Coupon `yaml:"coupons"`
	}{Coupons: coupons}

	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}

	return nil
}
