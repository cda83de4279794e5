package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pdk-keningau/temujanji-bot/internal/model"
)

// BookingRepository is the Postgres record store backend, for deployments
// that run without Google credentials. It implements RecordStore with the
// same append-only semantics as the sheet.
type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

// ListAll returns every booking record, oldest first.
func (r *BookingRepository) ListAll(ctx context.Context) ([]model.BookingRecord, error) {
	query := `
		SELECT ref, user_id, name, phone, email, officer, purpose, booking_date, booking_time, status
		FROM bookings
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var records []model.BookingRecord
	for rows.Next() {
		var rec model.BookingRecord
		err := rows.Scan(
			&rec.Ref,
			&rec.UserID,
			&rec.Name,
			&rec.Phone,
			&rec.Email,
			&rec.Officer,
			&rec.Purpose,
			&rec.Date,
			&rec.Time,
			&rec.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}
	return records, nil
}

// Append inserts one booking record.
func (r *BookingRepository) Append(ctx context.Context, rec model.BookingRecord) error {
	query := `
		INSERT INTO bookings (ref, user_id, name, phone, email, officer, purpose, booking_date, booking_time, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(
		ctx, query,
		rec.Ref,
		rec.UserID,
		rec.Name,
		rec.Phone,
		rec.Email,
		rec.Officer,
		rec.Purpose,
		rec.Date,
		rec.Time,
		rec.Status,
	)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}
