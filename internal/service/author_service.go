package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/bookstore-service/internal/domain"
	"github.com/spec-kit/bookstore-service/internal/events"
	"github.com/spec-kit/bookstore-service/internal/repository"
)

// AuthorInput carries author fields for create and update.
type AuthorInput struct {
	FirstName string
	LastName  string
	Bio       *string
}

// AuthorService provides CRUD over authors.
type AuthorService struct {
	authors    repository.AuthorRepository
	dispatcher events.Dispatcher
}

// NewAuthorService builds the service.
func NewAuthorService(authors repository.AuthorRepository, dispatcher events.Dispatcher) *AuthorService {
	return &AuthorService{authors: authors, dispatcher: dispatcher}
}

// Create stores a new author.
func (s *AuthorService) Create(ctx context.Context, actorID string, input AuthorInput) (*domain.Author, error) {
	author := &domain.Author{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
	}
	if err := s.authors.Create(ctx, author); err != nil {
		return nil, err
	}
	s.publish(ctx, events.EventAuthorCreated, actorID, author.ID, author.LastName)
	return author, nil
}

// Update replaces mutable author fields.
func (s *AuthorService) Update(ctx context.Context, actorID, id string, input AuthorInput) (*domain.Author, error) {
	author, err := s.authors.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	author.FirstName = input.FirstName
	author.LastName = input.LastName
	author.Bio = input.Bio
	if err := s.authors.Update(ctx, author); err != nil {
		return nil, err
	}
	s.publish(ctx, events.EventAuthorUpdated, actorID, author.ID, author.LastName)
	return author, nil
}

// Delete removes an author. Authors with books cannot be deleted.
func (s *AuthorService) Delete(ctx context.Context, actorID, id string) error {
	count, err := s.authors.CountBooks(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrAuthorHasBooks
	}
	if err := s.authors.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, events.EventAuthorDeleted, actorID, id, "")
	return nil
}

// Get loads one author.
func (s *AuthorService) Get(ctx context.Context, id string) (*domain.Author, error) {
	return s.authors.GetByID(ctx, id)
}

// List pages through authors.
func (s *AuthorService) List(ctx context.Context, limit, offset int) ([]domain.Author, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.authors.List(ctx, limit, offset)
}

func (s *AuthorService) publish(ctx context.Context, eventType events.EventType, actorID, resourceID, summary string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ActorID:   actorID,
		Timestamp: time.Now(),
		Payload:   events.ResourcePayload{ResourceID: resourceID, Summary: summary},
	})
}
