package stylist

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*Stylist, error)
	List(ctx context.Context, filter Filter) ([]*Stylist, int, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Stylist, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "name", "bio", "active", "created_at").
		From("public.stylists").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get stylist query failed: %w", err)
	}

	var s Stylist
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&s.ID, &s.Name, &s.Bio, &s.Active, &s.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get stylist failed: %w", err)
	}
	return &s, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Stylist, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	queryBuilder := psql.Select(
		"id", "name", "bio", "active", "created_at",
		"count(*) OVER() as total_count",
	).
		From("public.stylists")

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
		return nil, 0, fmt.Errorf("build list stylists query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list stylists failed: %w", err)
	}
	defer rows.Close()

	var result []*Stylist
	var total int

	for rows.Next() {
		var s Stylist
		if err := rows.Scan(&s.ID, &s.Name, &s.Bio, &s.Active, &s.CreatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("scan stylist failed: %w", err)
		}
		result = append(result, &s)
	}

	return result, total, nil
}
