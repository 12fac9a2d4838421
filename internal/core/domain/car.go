package domain

import (
	"time"

	"github.com/google/uuid"
)

type CarStatus string

const (
	CarAvailable   CarStatus = "AVAILABLE"
	CarUnavailable CarStatus = "UNAVAILABLE"
	CarSold        CarStatus = "SOLD"
)

type Car struct {
	ID           uuid.UUID `json:"id"`
	Make         string    `json:"make" validate:"required"`
	Model        string    `json:"model" validate:"required"`
	Year         int       `json:"year" validate:"required,min=1900,max=2100"`
	Price        float64   `json:"price" validate:"required,gt=0"`
	Mileage      int       `json:"mileage" validate:"min=0"`
	Color        string    `json:"color" validate:"required"`
	FuelType     string    `json:"fuel_type" validate:"required"`
	Transmission string    `json:"transmission" validate:"required"`
	BodyType     string    `json:"body_type" validate:"required"`
	Seats        *int      `json:"seats,omitempty"`
	Description  string    `json:"description" validate:"required,min=10"`
	Status       CarStatus `json:"status"`
	Featured     bool      `json:"featured"`
	Images       []string  `json:"images"`
	Wishlisted   bool      `json:"wishlisted"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CarFilters is the full set of optional listing filters. Zero values mean
// "not applied"; MaxPrice <= 0 means no upper bound.
type CarFilters struct {
	Search       string
	Make         string
	BodyType     string
	FuelType     string
	Transmission string
	MinPrice     float64
	MaxPrice     float64
	SortBy       CarSort
	Page         int
	Limit        int
}

type CarSort string

const (
	SortNewest    CarSort = "newest"
	SortPriceAsc  CarSort = "priceAsc"
	SortPriceDesc CarSort = "priceDesc"
)

// Normalize clamps paging and falls back to the default sort for
// unrecognized values.
func (f *CarFilters) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 6
	}
	if f.MinPrice < 0 {
		f.MinPrice = 0
	}
	switch f.SortBy {
	case SortNewest, SortPriceAsc, SortPriceDesc:
	default:
		f.SortBy = SortNewest
	}
}

// CarFacets holds the distinct values available for listing filters plus the
// price range over AVAILABLE inventory.
type CarFacets struct {
	Makes         []string   `json:"makes"`
	BodyTypes     []string   `json:"body_types"`
	FuelTypes     []string   `json:"fuel_types"`
	Transmissions []string   `json:"transmissions"`
	PriceRange    PriceRange `json:"price_range"`
}

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

// TotalPages computes ceil(total/limit).
func TotalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// ImageUpload is one decoded image submitted with a new listing.
type ImageUpload struct {
	Data        []byte
	ContentType string
}

// CarDetail is the car page payload: the listing plus the requesting user's
// latest test drive and the dealership schedule.
type CarDetail struct {
	Car           *Car              `json:"car"`
	UserTestDrive *TestDriveBooking `json:"user_test_drive,omitempty"`
	Dealership    *DealershipInfo   `json:"dealership,omitempty"`
}
