package repository

import (
	"context"
	"fmt"
	"strconv"

	"google.golang.org/api/sheets/v4"

	"github.com/pdk-keningau/temujanji-bot/internal/model"
)

// Column layout of the bookings sheet. Row 1 is the header.
const (
	sheetReadRange   = "Bookings!A2:J"
	sheetAppendRange = "Bookings!A:J"
)

// SheetStore persists booking records as rows of a Google spreadsheet.
type SheetStore struct {
	svc           *sheets.Service
	spreadsheetID string
}

func NewSheetStore(svc *sheets.Service, spreadsheetID string) *SheetStore {
	return &SheetStore{svc: svc, spreadsheetID: spreadsheetID}
}

// ListAll reads every booking row from the sheet. Rows shorter than the
// full column set (old rows written before the ref column existed) are
// padded rather than rejected.
func (s *SheetStore) ListAll(ctx context.Context) ([]model.BookingRecord, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, sheetReadRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read bookings sheet: %w", err)
	}

	records := make([]model.BookingRecord, 0, len(resp.Values))
	for _, row := range resp.Values {
		records = append(records, recordFromRow(row))
	}
	return records, nil
}

// Append adds one booking as a new row at the bottom of the sheet.
func (s *SheetStore) Append(ctx context.Context, rec model.BookingRecord) error {
	vr := &sheets.ValueRange{
		Values: [][]interface{}{{
			strconv.FormatInt(rec.UserID, 10),
			rec.Name,
			rec.Phone,
			rec.Email,
			rec.Officer,
			rec.Purpose,
			rec.Date,
			rec.Time,
			string(rec.Status),
			rec.Ref,
		}},
	}

	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, sheetAppendRange, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append booking row: %w", err)
	}
	return nil
}

func recordFromRow(row []interface{}) model.BookingRecord {
	cell := func(i int) string {
		if i >= len(row) {
			return ""
		}
		s, _ := row[i].(string)
		return s
	}

	userID, _ := strconv.ParseInt(cell(0), 10, 64)
	return model.BookingRecord{
		UserID:  userID,
		Name:    cell(1),
		Phone:   cell(2),
		Email:   cell(3),
		Officer: cell(4),
		Purpose: cell(5),
		Date:    cell(6),
		Time:    cell(7),
		Status:  model.BookingStatus(cell(8)),
		Ref:     cell(9),
	}
}
