package models

import (
	"time"

	"github.com/google/uuid"
)

// Feedback is a visitor review left on the public menu. It is not a gorm
// model: feedback lives in the per-tenant snapshot and its local cache
// mirror only, and is never written through to the remote store.
type Feedback struct {
	ID             uuid.UUID      `json:"id"`
	Author         string         `json:"author"`
	Phone          string         `json:"phone,omitempty"`
	Rating         int            `json:"rating"`
	Categories     FeedbackScores `json:"categories"`
	Comment        string         `json:"comment"`
	WouldRecommend bool           `json:"would_recommend"`
	CreatedAt      time.Time      `json:"created_at"`
	IsRead         bool           `json:"is_read"`
}

// FeedbackScores are the per-aspect sub-scores of a review.
type FeedbackScores struct {
	Food     int `json:"food"`
	Service  int `json:"service"`
	Ambiance int `json:"ambiance"`
}
