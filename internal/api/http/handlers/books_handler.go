package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bookstore-service/internal/api/dto"
	"github.com/spec-kit/bookstore-service/internal/domain"
	"github.com/spec-kit/bookstore-service/internal/repository"
	"github.com/spec-kit/bookstore-service/internal/service"
	apperrors "github.com/spec-kit/bookstore-service/pkg/util"
)

// BooksHandler manages catalog CRUD endpoints.
type BooksHandler struct {
	service *service.BookService
}

// NewBooksHandler constructs handler.
func NewBooksHandler(bookService *service.BookService) *BooksHandler {
	return &BooksHandler{service: bookService}
}

// Create POST /api/books.
func (h *BooksHandler) Create(c *fiber.Ctx) error {
	var req dto.BookRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(&req); err != nil {
		return err
	}

	book, err := h.service.Create(c.Context(), actorID(c), service.BookInput{
		Title:    req.Title,
		AuthorID: req.AuthorID,
		Genre:    req.Genre,
		Price:    req.Price,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": bookResponse(book)})
}

// Update PUT /api/books/:id.
func (h *BooksHandler) Update(c *fiber.Ctx) error {
	var req dto.BookRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(&req); err != nil {
		return err
	}

	book, err := h.service.Update(c.Context(), actorID(c), c.Params("id"), service.BookInput{
		Title:    req.Title,
		AuthorID: req.AuthorID,
		Genre:    req.Genre,
		Price:    req.Price,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": bookResponse(book)})
}

// Delete DELETE /api/books/:id.
func (h *BooksHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), actorID(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Get GET /api/books/:id.
func (h *BooksHandler) Get(c *fiber.Ctx) error {
	book, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": bookResponse(book)})
}

// List GET /api/books.
func (h *BooksHandler) List(c *fiber.Ctx) error {
	filter := repository.BookFilter{
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	if authorID := c.Query("author_id"); authorID != "" {
		filter.AuthorID = &authorID
	}
	if genre := c.Query("genre"); genre != "" {
		filter.Genre = &genre
	}

	books, err := h.service.List(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.BookResponse, 0, len(books))
	for i := range books {
		items = append(items, bookResponse(&books[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func bookResponse(book *domain.Book) dto.BookResponse {
	return dto.BookResponse{
		ID:        book.ID,
		Title:     book.Title,
		AuthorID:  book.AuthorID,
		Genre:     book.Genre,
		Price:     book.Price,
		CreatedAt: book.CreatedAt,
		UpdatedAt: book.UpdatedAt,
	}
}
