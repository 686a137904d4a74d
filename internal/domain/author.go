package domain

import "time"

// Author is the domain model for book authors.
type Author struct {
	ID        string
	FirstName string
	LastName  string
	Bio       *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
