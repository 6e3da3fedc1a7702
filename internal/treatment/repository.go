package treatment

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*Treatment, error)
	List(ctx context.Context, filter Filter) ([]*Treatment, int, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Treatment, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"id", "name", "description", "duration_minutes", "price_cents", "active", "created_at",
	).
		From("public.treatments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get treatment query failed: %w", err)
	}

	row := r.pool.QueryRow(ctx, query, args...)

	var t Treatment
	if err := row.Scan(&t.ID, &t.Name, &t.Description, &t.DurationMinutes, &t.PriceCents, &t.Active, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get treatment failed: %w", err)
	}
	return &t, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Treatment, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	queryBuilder := psql.Select(
		"id", "name", "description", "duration_minutes", "price_cents", "active", "created_at",
		"count(*) OVER() as total_count",
	).
		From("public.treatments")

	if filter.ActiveOnly {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"active": true})
	}

	// Pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	queryBuilder = queryBuilder.OrderBy("name ASC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset))

	sql, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list treatments query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list treatments failed: %w", err)
	}
	defer rows.Close()

	var result []*Treatment
	var total int

	for rows.Next() {
		var t Treatment
		if err := rows.Scan(
			&t.ID, &t.Name, &t.Description, &t.DurationMinutes, &t.PriceCents, &t.Active, &t.CreatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan treatment failed: %w", err)
		}
		result = append(result, &t)
	}

	return result, total, nil
}
