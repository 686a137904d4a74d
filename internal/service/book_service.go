package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/bookstore-service/internal/domain"
	"github.com/spec-kit/bookstore-service/internal/events"
	"github.com/spec-kit/bookstore-service/internal/repository"
)

// BookInput carries book fields for create and update.
type BookInput struct {
	Title    string
	AuthorID string
	Genre    string
	Price    float64
}

// BookService provides CRUD over the book catalog.
type BookService struct {
	books      repository.BookRepository
	authors    repository.AuthorRepository
	dispatcher events.Dispatcher
}

// NewBookService builds the service.
func NewBookService(books repository.BookRepository, authors repository.AuthorRepository, dispatcher events.Dispatcher) *BookService {
	return &BookService{books: books, authors: authors, dispatcher: dispatcher}
}

// Create stores a new book after checking the author exists.
func (s *BookService) Create(ctx context.Context, actorID string, input BookInput) (*domain.Book, error) {
	if _, err := s.authors.GetByID(ctx, input.AuthorID); err != nil {
		return nil, err
	}
	book := &domain.Book{
		Title:    input.Title,
		AuthorID: input.AuthorID,
		Genre:    input.Genre,
		Price:    input.Price,
	}
	if err := s.books.Create(ctx, book); err != nil {
		return nil, err
	}
	s.publish(ctx, events.EventBookCreated, actorID, book.ID, book.Title)
	return book, nil
}

// Update replaces mutable book fields.
func (s *BookService) Update(ctx context.Context, actorID, id string, input BookInput) (*domain.Book, error) {
	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.AuthorID != book.AuthorID {
		if _, err := s.authors.GetByID(ctx, input.AuthorID); err != nil {
			return nil, err
		}
	}
	book.Title = input.Title
	book.AuthorID = input.AuthorID
	book.Genre = input.Genre
	book.Price = input.Price
	if err := s.books.Update(ctx, book); err != nil {
		return nil, err
	}
	s.publish(ctx, events.EventBookUpdated, actorID, book.ID, book.Title)
	return book, nil
}

// Delete removes a book.
func (s *BookService) Delete(ctx context.Context, actorID, id string) error {
	if err := s.books.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, events.EventBookDeleted, actorID, id, "")
	return nil
}

// Get loads one book.
func (s *BookService) Get(ctx context.Context, id string) (*domain.Book, error) {
	return s.books.GetByID(ctx, id)
}

// List pages through the catalog with optional author/genre filters.
func (s *BookService) List(ctx context.Context, filter repository.BookFilter) ([]domain.Book, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.books.List(ctx, filter)
}

func (s *BookService) publish(ctx context.Context, eventType events.EventType, actorID, resourceID, summary string) {
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
