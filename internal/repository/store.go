package repository

import (
	"context"

	"github.com/pdk-keningau/temujanji-bot/internal/model"
)

// RecordStore is the narrow surface the availability resolver needs from
// the booking record store. A nil RecordStore means the store is not
// configured; callers treat that as "nothing available".
type RecordStore interface {
	// ListAll returns every booking record in the store.
	ListAll(ctx context.Context) ([]model.BookingRecord, error)
	// Append adds one record to the store. Records are never updated
	// or deleted afterwards.
	Append(ctx context.Context, rec model.BookingRecord) error
}
