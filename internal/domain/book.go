package domain

import "time"

// Book is the domain model for catalog entries. Each book belongs to one author.
type Book struct {
	ID        string
	Title     string
	AuthorID  string
	Genre     string
	Price     float64
	CreatedAt time.Time
	UpdatedAt time.Time
}
