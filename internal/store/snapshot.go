package store

import (
	"github.com/example/qrmenu/internal/models"
)

// Snapshot is the merged in-memory view of one tenant: the business record,
// its catalog, the tag vocabulary and the locally held feedback collection.
// It serializes to JSON as the local cache blob.
type Snapshot struct {
	Business   *models.Business  `json:"business"`
	Categories []models.Category `json:"categories"`
	Products   []models.Product  `json:"products"`
	Tags       []string          `json:"tags"`
	Feedback   []models.Feedback `json:"feedback,omitempty"`
}

// Clone returns a deep copy so readers never share backing storage with the
// store's mutable state.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Business:   cloneBusiness(s.Business),
		Categories: make([]models.Category, len(s.Categories)),
		Products:   make([]models.Product, len(s.Products)),
		Tags:       append(make([]string, 0, len(s.Tags)), s.Tags...),
		Feedback:   append(make([]models.Feedback, 0, len(s.Feedback)), s.Feedback...),
	}
	for i, c := range s.Categories {
		c.Products = nil
		out.Categories[i] = c
	}
	for i, p := range s.Products {
		out.Products[i] = cloneProduct(p)
	}
	return out
}

// recount refreshes each category's derived product count from actual
// membership. Stored counts are advisory and never trusted.
func (s *Snapshot) recount() {
	counts := make(map[string]int, len(s.Categories))
	for _, p := range s.Products {
		counts[p.CategoryID.String()]++
	}
	for i := range s.Categories {
		s.Categories[i].ProductCount = counts[s.Categories[i].ID.String()]
	}
}

func cloneBusiness(b *models.Business) *models.Business {
	if b == nil {
		return nil
	}
	out := *b
	if b.SocialMedia != nil {
		out.SocialMedia = make(map[string]string, len(b.SocialMedia))
		for k, v := range b.SocialMedia {
			out.SocialMedia[k] = v
		}
	}
	out.WorkingHours = append([]models.WorkingHour(nil), b.WorkingHours...)
	out.Gallery = append([]string(nil), b.Gallery...)
	if b.WelcomeSettings != nil {
		ws := *b.WelcomeSettings
		out.WelcomeSettings = &ws
	}
	if b.ThemeSettings != nil {
		out.ThemeSettings = make(map[string]interface{}, len(b.ThemeSettings))
		for k, v := range b.ThemeSettings {
			out.ThemeSettings[k] = v
		}
	}
	return &out
}

func cloneProduct(p models.Product) models.Product {
	out := p
	out.Gallery = append([]string(nil), p.Gallery...)
	out.Tags = append([]string(nil), p.Tags...)
	out.Allergens = append([]string(nil), p.Allergens...)
	out.Variations = append([]models.Variation(nil), p.Variations...)
	out.Extras = append([]models.Extra(nil), p.Extras...)
	if p.OriginalPrice != nil {
		op := *p.OriginalPrice
		out.OriginalPrice = &op
	}
	return out
}
