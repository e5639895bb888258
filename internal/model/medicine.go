package model

import "time"

// Medicine represents a medicine in the store catalogue.
type Medicine struct {
	ID            string    `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Price         float64   `json:"price" db:"price"`
	OriginalPrice *float64  `json:"originalPrice,omitempty" db:"original_price"`
	Category      string    `json:"category" db:"category"`
	Prescription  bool      `json:"prescription" db:"prescription"`
	ImageURL      string    `json:"imageUrl,omitempty" db:"image_url"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}
