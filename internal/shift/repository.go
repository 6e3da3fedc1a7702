package shift

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines data access methods for shifts.
// Shifts are maintained by scheduling staff; the booking flow only reads them.
type Repository interface {
	// ListByDate returns the shifts of a calendar date, optionally limited to one stylist.
	ListByDate(ctx context.Context, date time.Time, stylistID string) ([]Shift, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) ListByDate(ctx context.Context, date time.Time, stylistID string) ([]Shift, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("id", "stylist_id", "shift_date", "start_time::text", "duration_minutes").
		From("public.shifts").
		Where(squirrel.Eq{"shift_date": date.Format("2006-01-02")})

	if stylistID != "" {
		query = query.Where(squirrel.Eq{"stylist_id": stylistID})
	}

	sql, args, err := query.OrderBy("start_time ASC", "stylist_id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list shifts query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list shifts failed: %w", err)
	}
	defer rows.Close()

	var shifts []Shift
	for rows.Next() {
		var s Shift
		if err := rows.Scan(&s.ID, &s.StylistID, &s.Date, &s.StartTime, &s.DurationMinutes); err != nil {
			return nil, fmt.Errorf("scan shift failed: %w", err)
		}
		shifts = append(shifts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list shifts failed: %w", err)
	}
	return shifts, nil
}
