package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	UpdateStatus(ctx context.Context, id string, status Status) error

	// ListOverlapping returns non-canceled bookings intersecting [from, to).
	// When stylistID is set only that stylist's bookings are returned, otherwise all bookings including unassigned ones.
	ListOverlapping(ctx context.Context, from, to time.Time, stylistID string) ([]*Booking, error)

	// HasOverlap checks if there is any conflicting booking for the stylist in the given time range.
	// excludeBookingID is used to ignore the booking itself.
	HasOverlap(ctx context.Context, stylistID string, start, end time.Time, excludeBookingID string) (bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var bookingColumns = []string{
	"id", "stylist_id", "service_id", "customer_id", "start_at",
	"duration_minutes", "notes", "status", "created_at", "updated_at",
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	if b.DurationMinutes <= 0 {
		return ErrInvalidTimeRange
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.bookings").
		Columns("stylist_id", "service_id", "customer_id", "start_at", "end_at", "duration_minutes", "notes", "status").
		Values(nullable(b.StylistID), b.ServiceID, nullable(b.CustomerID), b.StartAt, b.End(), b.DurationMinutes, b.Notes, b.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.ExclusionViolation, pgerrcode.UniqueViolation:
				return ErrTimeConflict
			case pgerrcode.ForeignKeyViolation, pgerrcode.CheckViolation, pgerrcode.InvalidTextRepresentation:
				return ErrInvalidInput
			}
		}
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var (
		b          Booking
		stylistID  *string
		customerID *string
	)
	if err := row.Scan(
		&b.ID, &stylistID, &b.ServiceID, &customerID, &b.StartAt,
		&b.DurationMinutes, &b.Notes, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if stylistID != nil {
		b.StylistID = *stylistID
	}
	if customerID != nil {
		b.CustomerID = *customerID
	}
	return &b, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(bookingColumns...).
		From("public.bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ExclusionViolation {
			return ErrTimeConflict
		}
		return fmt.Errorf("update booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) ListOverlapping(ctx context.Context, from, to time.Time, stylistID string) ([]*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(bookingColumns...).
		From("public.bookings").
		Where(squirrel.NotEq{"status": StatusCanceled}).
		Where(squirrel.Lt{"start_at": to}).
		Where(squirrel.Gt{"end_at": from})

	if stylistID != "" {
		query = query.Where(squirrel.Eq{"stylist_id": stylistID})
	}

	sql, args, err := query.OrderBy("start_at ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}

	return bookings, nil
}

func (r *pgxRepository) HasOverlap(ctx context.Context, stylistID string, start, end time.Time, excludeBookingID string) (bool, error) {
	// Logic:
	// 1. Stylist matches
	// 2. Status is NOT canceled
	// 3. Time overlaps: (NewStart < ExistingEnd) AND (NewEnd > ExistingStart)
	// 4. Exclude specific ID

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	subQuery := psql.Select("1").
		From("public.bookings").
		Where(squirrel.Eq{"stylist_id": stylistID}).
		Where(squirrel.NotEq{"status": StatusCanceled}).
		Where(squirrel.Lt{"start_at": end}).
		Where(squirrel.Gt{"end_at": start})

	if excludeBookingID != "" {
		subQuery = subQuery.Where(squirrel.NotEq{"id": excludeBookingID})
	}

	sql, args, err := subQuery.ToSql()
	if err != nil {
		return false, fmt.Errorf("build check overlap query failed: %w", err)
	}

	query := "SELECT EXISTS (" + sql + ")"

	var exists bool
	err = r.pool.QueryRow(ctx, query, args...).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check overlap failed: %w", err)
	}
	return exists, nil
}
