package repository

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/bookstore-service/internal/domain"
)

// BookFilter captures list parameters for the catalog.
type BookFilter struct {
	AuthorID *string
	Genre    *string
	Limit    int
	Offset   int
}

// BookRepository encapsulates book persistence.
type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) error
	Update(ctx context.Context, book *domain.Book) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Book, error)
	List(ctx context.Context, filter BookFilter) ([]domain.Book, error)
}

type bookRepository struct {
	pool *pgxpool.Pool
}

// NewBookRepository instantiates repository.
func NewBookRepository(pool *pgxpool.Pool) BookRepository {
	return &bookRepository{pool: pool}
}

func (r *bookRepository) Create(ctx context.Context, book *domain.Book) error {
	const query = `
        INSERT INTO books (title, author_id, genre, price)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		book.Title,
		book.AuthorID,
		book.Genre,
		book.Price,
	).Scan(&book.ID, &book.CreatedAt, &book.UpdatedAt)
}

func (r *bookRepository) Update(ctx context.Context, book *domain.Book) error {
	const query = `
        UPDATE books SET title=$1, author_id=$2, genre=$3, price=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		book.Title,
		book.AuthorID,
		book.Genre,
		book.Price,
		book.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *bookRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *bookRepository) GetByID(ctx context.Context, id string) (*domain.Book, error) {
	const query = `
        SELECT id, title, author_id, genre, price, created_at, updated_at
        FROM books WHERE id=$1`
	var book domain.Book
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&book.ID,
		&book.Title,
		&book.AuthorID,
		&book.Genre,
		&book.Price,
		&book.CreatedAt,
		&book.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepository) List(ctx context.Context, filter BookFilter) ([]domain.Book, error) {
	query := `
        SELECT id, title, author_id, genre, price, created_at, updated_at
        FROM books WHERE 1=1`
	args := []any{}
	idx := 1

	if filter.AuthorID != nil {
		query += ` AND author_id=$` + strconv.Itoa(idx)
		args = append(args, *filter.AuthorID)
		idx++
	}
	if filter.Genre != nil {
		query += ` AND genre=$` + strconv.Itoa(idx)
		args = append(args, *filter.Genre)
		idx++
	}
	query += ` ORDER BY title LIMIT $` + strconv.Itoa(idx) + ` OFFSET $` + strconv.Itoa(idx+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Book
	for rows.Next() {
		var book domain.Book
		if err := rows.Scan(
			&book.ID,
			&book.Title,
			&book.AuthorID,
			&book.Genre,
			&book.Price,
			&book.CreatedAt,
			&book.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, book)
	}
	return result, rows.Err()
}
