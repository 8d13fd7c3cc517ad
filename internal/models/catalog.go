package models

import "github.com/google/uuid"

type Category struct {
	BaseModel
	BusinessID uuid.UUID `gorm:"type:uuid;index" json:"business_id"`
	Name       string    `json:"name"`
	// Icon is a symbolic glyph name; the storefront resolves it client-side.
	Icon       string `json:"icon"`
	IsFeatured bool   `json:"is_featured"`
	// ProductCount is derived from actual membership. The stored value is
	// advisory only and gets recomputed whenever a snapshot is assembled.
	ProductCount int       `json:"product_count"`
	Products     []Product `json:"products,omitempty"`
}

// Tag is a free-text label scoped to one business. Names are unique per
// business with case-sensitive exact matching.
type Tag struct {
	BaseModel
	BusinessID uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_business_tag_name" json:"business_id"`
	Name       string    `gorm:"uniqueIndex:idx_business_tag_name" json:"name"`
}
