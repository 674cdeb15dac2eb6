package domain

import "github.com/shopspring/decimal"

// Service is a catalog row. Price is kept as a fixed-point decimal with two places.
type Service struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// FeaturedServicesLimit is how many catalog entries the landing page shows.
const FeaturedServicesLimit = 4
