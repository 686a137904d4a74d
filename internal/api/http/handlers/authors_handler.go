package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bookstore-service/internal/api/dto"
	"github.com/spec-kit/bookstore-service/internal/auth"
	"github.com/spec-kit/bookstore-service/internal/domain"
	"github.com/spec-kit/bookstore-service/internal/service"
	apperrors "github.com/spec-kit/bookstore-service/pkg/util"
)

// AuthorsHandler manages author CRUD endpoints.
type AuthorsHandler struct {
	service *service.AuthorService
}

// NewAuthorsHandler constructs handler.
func NewAuthorsHandler(authorService *service.AuthorService) *AuthorsHandler {
	return &AuthorsHandler{service: authorService}
}

// Create POST /api/authors.
func (h *AuthorsHandler) Create(c *fiber.Ctx) error {
	var req dto.AuthorRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(&req); err != nil {
		return err
	}

	author, err := h.service.Create(c.Context(), actorID(c), service.AuthorInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": authorResponse(author)})
}

// Update PUT /api/authors/:id.
func (h *AuthorsHandler) Update(c *fiber.Ctx) error {
	var req dto.AuthorRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(&req); err != nil {
		return err
	}

	author, err := h.service.Update(c.Context(), actorID(c), c.Params("id"), service.AuthorInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": authorResponse(author)})
}

// Delete DELETE /api/authors/:id.
func (h *AuthorsHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), actorID(c), c.Params("id")); err != nil {
		if errors.Is(err, domain.ErrAuthorHasBooks) {
			return apperrors.NewConflict("author still has books", nil)
		}
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Get GET /api/authors/:id.
func (h *AuthorsHandler) Get(c *fiber.Ctx) error {
	author, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": authorResponse(author)})
}

// List GET /api/authors.
func (h *AuthorsHandler) List(c *fiber.Ctx) error {
	authors, err := h.service.List(c.Context(), c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return err
	}
	items := make([]dto.AuthorResponse, 0, len(authors))
	for i := range authors {
		items = append(items, authorResponse(&authors[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func authorResponse(author *domain.Author) dto.AuthorResponse {
	return dto.AuthorResponse{
		ID:        author.ID,
		FirstName: author.FirstName,
		LastName:  author.LastName,
		Bio:       author.Bio,
		CreatedAt: author.CreatedAt,
		UpdatedAt: author.UpdatedAt,
	}
}

// actorID returns the caller's user id when authenticated, empty otherwise.
func actorID(c *fiber.Ctx) string {
	if principal, ok := auth.PrincipalFromContext(c); ok {
		return principal.UserID
	}
	return ""
}
