package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Product struct {
	BaseModel
	BusinessID  uuid.UUID `gorm:"type:uuid;index" json:"business_id"`
	CategoryID  uuid.UUID `gorm:"type:uuid;index" json:"category_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	// OriginalPrice, when set and greater than Price, marks the item as
	// discounted on the storefront.
	OriginalPrice *float64       `json:"original_price,omitempty"`
	Image         string         `json:"image"`
	Gallery       pq.StringArray `gorm:"type:text[]" json:"gallery,omitempty"`
	IsFeatured    bool           `json:"is_featured"`
	IsNew         bool           `json:"is_new"`
	Tags          pq.StringArray `gorm:"type:text[]" json:"tags,omitempty"`

	Variations []Variation `gorm:"type:jsonb;serializer:json" json:"variations,omitempty"`
	Extras     []Extra     `gorm:"type:jsonb;serializer:json" json:"extras,omitempty"`

	Allergens       pq.StringArray `gorm:"type:text[]" json:"allergens,omitempty"`
	PreparationTime int            `json:"preparation_time"`
	Calories        int            `json:"calories"`
}

// Variation is one of the mutually exclusive size/type choices of a product.
// Its modifier adds to the base price.
type Variation struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	PriceModifier float64 `json:"price_modifier"`
}

// Extra is an independently toggleable add-on with its own additive price.
type Extra struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Discounted reports whether the product carries a strike-through price.
func (p Product) Discounted() bool {
	return p.OriginalPrice != nil && *p.OriginalPrice > p.Price
}
