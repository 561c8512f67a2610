package models

import (
	"time"
)

// Product statuses.
const (
	StatusAvailable = "available"
	StatusBooked    = "booked"
	StatusSold      = "sold"
)

// Seller is embedded in every product so listings can be filtered by seller email
// without a join.
type Seller struct {
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
}

// Product is the model for the 'products' collection.
// Category holds the category slug, not its id.
type Product struct {
	ID          string  `json:"_id" bson:"-"`
	Name        string  `json:"name" bson:"name"`
	Image       string  `json:"image,omitempty" bson:"image,omitempty"`
	Location    string  `json:"location,omitempty" bson:"location,omitempty"`
	Condition   string  `json:"condition,omitempty" bson:"condition,omitempty"`
	Description string  `json:"description,omitempty" bson:"description,omitempty"`
	Phone       string  `json:"phone,omitempty" bson:"phone,omitempty"`
	YearsOfUse  float64 `json:"yearsOfUse" bson:"yearsOfUse"`

	// --- Pricing ---
	OriginalPrice float64 `json:"originalPrice" bson:"originalPrice"`
	ResalePrice   float64 `json:"resalePrice" bson:"resalePrice"`

	// --- Listing State ---
	Seller      Seller    `json:"seller" bson:"seller"`
	Category    string    `json:"category" bson:"category"`
	Status      string    `json:"status" bson:"status"`
	Sponsored   bool      `json:"sponsored" bson:"sponsored"`
	PostingDate time.Time `json:"postingDate" bson:"postingDate"`
}
