package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/bookstore-service/internal/domain"
)

// AuthorRepository encapsulates author persistence.
type AuthorRepository interface {
	Create(ctx context.Context, author *domain.Author) error
	Update(ctx context.Context, author *domain.Author) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Author, error)
	List(ctx context.Context, limit, offset int) ([]domain.Author, error)
	CountBooks(ctx context.Context, id string) (int64, error)
}

type authorRepository struct {
	pool *pgxpool.Pool
}

// NewAuthorRepository instantiates repository.
func NewAuthorRepository(pool *pgxpool.Pool) AuthorRepository {
	return &authorRepository{pool: pool}
}

func (r *authorRepository) Create(ctx context.Context, author *domain.Author) error {
	const query = `
        INSERT INTO authors (first_name, last_name, bio)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		author.FirstName,
		author.LastName,
		author.Bio,
	).Scan(&author.ID, &author.CreatedAt, &author.UpdatedAt)
}

func (r *authorRepository) Update(ctx context.Context, author *domain.Author) error {
	const query = `
        UPDATE authors SET first_name=$1, last_name=$2, bio=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		author.FirstName,
		author.LastName,
		author.Bio,
		author.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *authorRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM authors WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *authorRepository) GetByID(ctx context.Context, id string) (*domain.Author, error) {
	const query = `
        SELECT id, first_name, last_name, bio, created_at, updated_at
        FROM authors WHERE id=$1`
	var author domain.Author
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&author.ID,
		&author.FirstName,
		&author.LastName,
		&author.Bio,
		&author.CreatedAt,
		&author.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &author, nil
}

func (r *authorRepository) List(ctx context.Context, limit, offset int) ([]domain.Author, error) {
	const query = `
        SELECT id, first_name, last_name, bio, created_at, updated_at
        FROM authors
        ORDER BY last_name, first_name
        LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Author
	for rows.Next() {
		var author domain.Author
		if err := rows.Scan(
			&author.ID,
			&author.FirstName,
			&author.LastName,
			&author.Bio,
			&author.CreatedAt,
			&author.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, author)
	}
	return result, rows.Err()
}

func (r *authorRepository) CountBooks(ctx context.Context, id string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM books WHERE author_id=$1`, id).Scan(&count)
	return count, err
}
