package models

import (
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Business is the tenant record behind one public menu. The slug is the
// public route identifier and never changes an already-rendered route.
type Business struct {
	BaseModel
	Slug        string `gorm:"uniqueIndex" json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	Website     string `json:"website"`
	Logo        string `json:"logo"`
	CoverImage  string `json:"cover_image"`

	SocialMedia     map[string]string `gorm:"type:jsonb;serializer:json" json:"social_media,omitempty"`
	WorkingHours    []WorkingHour     `gorm:"type:jsonb;serializer:json" json:"working_hours"`
	Gallery         pq.StringArray    `gorm:"type:text[]" json:"gallery,omitempty"`
	WelcomeSettings *WelcomeSettings  `gorm:"type:jsonb;serializer:json" json:"welcome_settings,omitempty"`

	// ThemeSettings is an open token-name -> value mapping. The store keeps
	// it opaque; internal/theme projects it onto the typed token table.
	ThemeSettings datatypes.JSONMap `gorm:"type:jsonb" json:"theme_settings,omitempty"`
}

// WorkingHour describes one weekday's opening window.
type WorkingHour struct {
	Day      string `json:"day"`
	Open     string `json:"open"`
	Close    string `json:"close"`
	IsClosed bool   `json:"is_closed"`
}

// WelcomeSettings controls the splash screen shown before the menu.
type WelcomeSettings struct {
	Enabled    bool   `json:"enabled"`
	Title      string `json:"title"`
	Message    string `json:"message"`
	Image      string `json:"image"`
	ButtonText string `json:"button_text"`
}

// DefaultWorkingHours returns the full Monday-Sunday week so a business
// record always carries exactly seven ordered day entries.
func DefaultWorkingHours() []WorkingHour {
	days := []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
	hours := make([]WorkingHour, 0, len(days))
	for _, day := range days {
		hours = append(hours, WorkingHour{Day: day, Open: "09:00", Close: "22:00"})
	}
	return hours
}
