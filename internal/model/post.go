package model

import (
	"time"

	"github.com/google/uuid"
)

// Post is a published article belonging to a user.
//
// Slug is derived from the title once at creation and stays stable afterwards
// so existing links keep working. Excerpt is recomputed from the content on
// every create and update.
type Post struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Excerpt   string    `json:"excerpt"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostRequest is the inbound payload for post create and update.
type PostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}
