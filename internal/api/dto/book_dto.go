package dto

import "time"

// BookRequest payload for book create and update.
type BookRequest struct {
	Title    string  `json:"title" validate:"required"`
	AuthorID string  `json:"author_id" validate:"required"`
	Genre    string  `json:"genre"`
	Price    float64 `json:"price" validate:"gte=0"`
}

// BookResponse response.
type BookResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	AuthorID  string    `json:"author_id"`
	Genre     string    `json:"genre,omitempty"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
