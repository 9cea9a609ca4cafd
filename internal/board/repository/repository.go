package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/boardsync/backend/internal/board/domain"
)

var ErrBoardNotFound = pgx.ErrNoRows

type Repository interface {
	ListByOwner(ctx context.Context, owner string) ([]domain.Board, error)
	Create(ctx context.Context, name, owner string, createdAt time.Time) (int64, error)
	Delete(ctx context.Context, id int64, owner string) error
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// EnsureSchema creates the whiteboards table when it does not exist yet.
func (r *PgRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS whiteboards (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			owner TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("failed to ensure whiteboards schema: %w", err)
	}
	return nil
}

func (r *PgRepository) ListByOwner(ctx context.Context, owner string) ([]domain.Board, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, name, owner, created_at FROM whiteboards WHERE owner = $1 ORDER BY id ASC`,
		owner,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	defer rows.Close()

	var boards []domain.Board
	for rows.Next() {
		var b domain.Board
		if err := rows.Scan(&b.ID, &b.Name, &b.Owner, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan board: %w", err)
		}
		boards = append(boards, b)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows iteration error: %w", rows.Err())
	}

	return boards, nil
}

func (r *PgRepository) Create(ctx context.Context, name, owner string, createdAt time.Time) (int64, error) {
	var id int64
	err := r.pool.QueryRow(
		ctx,
		`INSERT INTO whiteboards (name, owner, created_at) VALUES ($1, $2, $3) RETURNING id`,
		name,
		owner,
		createdAt,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			return 0, fmt.Errorf("failed to create board (pg code %s): %w", pgErr.Code, err)
		}
		return 0, fmt.Errorf("failed to create board: %w", err)
	}
	return id, nil
}

func (r *PgRepository) Delete(ctx context.Context, id int64, owner string) error {
	tag, err := r.pool.Exec(
		ctx,
		`DELETE FROM whiteboards WHERE id = $1 AND owner = $2`,
		id,
		owner,
	)
	if err != nil {
		return fmt.Errorf("failed to delete board: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBoardNotFound
	}
	return nil
}
