package models

import (
	"time"

	"github.com/gosimple/slug"
)

// Category defines the struct for the 'categories' collection.
// Slug is derived from Name once, at creation, and is what products reference.
type Category struct {
	ID        string    `json:"_id" bson:"-"`
	Name      string    `json:"name" bson:"name"`
	Slug      string    `json:"slug" bson:"slug"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// NewCategory builds a category for name, deriving its slug with slug.Make.
// Beyond trimming, lowercasing and joining words with "-", slug.Make
// transliterates non-ASCII letters, spells out symbols and drops other
// punctuation, so the slug is always URL-safe:
//
//	"Mobile Phones " -> "mobile-phones"
//	"TV & Audio"     -> "tv-and-audio"
//	"!!!"            -> "" (rejected by the handler)
func NewCategory(name string, now time.Time) *Category {
	return &Category{
		Name:      name,
		Slug:      slug.Make(name),
		CreatedAt: now,
	}
}
