package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"

	"github.com/pdk-keningau/temujanji-bot/internal/gcal"
	"github.com/pdk-keningau/temujanji-bot/internal/model"
	"github.com/pdk-keningau/temujanji-bot/internal/repository"
)

const (
	DateLayout = "02/01/2006"
	TimeLayout = "15:04"

	slotDuration   = 30 * time.Minute
	reminderMinute = 30
)

// appointmentZone is Malaysia time. The office does not observe DST, so a
// fixed offset is correct year-round.
var appointmentZone = time.FixedZone("MYT", 8*60*60)

// Service computes slot availability against the record store and the
// officers' calendars, and commits confirmed bookings.
//
// The two conflict sources are deliberately asymmetric: the record store
// is authoritative, so any failure there fails closed (no availability);
// the calendar is a secondary signal, so failures there fail open and are
// only logged. Keep it that way.
type Service struct {
	store    repository.RecordStore
	cal      gcal.Client
	officers []Officer
	logger   *zap.Logger
	now      func() time.Time
}

// NewService builds the resolver. store and cal may be nil when the
// corresponding collaborator is not configured.
func NewService(store repository.RecordStore, cal gcal.Client, officers []Officer, logger *zap.Logger) *Service {
	if officers == nil {
		officers = DefaultOfficers
	}
	return &Service{
		store:    store,
		cal:      cal,
		officers: officers,
		logger:   logger,
		now:      time.Now,
	}
}

// Officers returns the deployment's officer directory in menu order.
func (s *Service) Officers() []Officer {
	return s.officers
}

// IsValidDate reports whether dateStr is a well-formed DD/MM/YYYY date
// that is today or later (Malaysia time). It never returns an error:
// anything unparseable is simply not a valid date.
func (s *Service) IsValidDate(dateStr string) bool {
	date, err := parseDate(dateStr)
	if err != nil {
		return false
	}
	today := dateOnly(s.now().In(appointmentZone))
	return !date.Before(today)
}

// IsWeekend reports whether dateStr falls on Saturday or Sunday. Parse
// failures return false; callers must check IsValidDate first to tell a
// genuine weekday from garbage.
func (s *Service) IsWeekend(dateStr string) bool {
	date, err := parseDate(dateStr)
	if err != nil {
		return false
	}
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// SlotsForDate returns the full office-hours template for the date's
// weekday, unfiltered by conflicts. Empty for weekends and unparseable
// dates.
func (s *Service) SlotsForDate(dateStr string) []string {
	date, err := parseDate(dateStr)
	if err != nil {
		return nil
	}
	return OfficeHours[date.Weekday()]
}

// AvailableSlots returns the template slots for the date that are free
// for the given officer, in template order. Record-store failures yield
// an empty list.
func (s *Service) AvailableSlots(ctx context.Context, dateStr, officer string) []string {
	template := s.SlotsForDate(dateStr)
	if len(template) == 0 || !s.IsValidDate(dateStr) {
		return nil
	}

	if s.store == nil {
		s.logger.Warn("record store not configured, offering no slots")
		return nil
	}
	records, err := s.store.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to read booking records, offering no slots",
			zap.String("date", dateStr),
			zap.Error(err))
		return nil
	}

	var free []string
	for _, slot := range template {
		if recordConflict(records, dateStr, slot, officer) {
			continue
		}
		if s.calendarBusy(ctx, dateStr, slot, officer) {
			continue
		}
		free = append(free, slot)
	}
	return free
}

// IsSlotAvailable reports whether the exact date/time/officer triple is
// bookable right now. False on invalid or weekend dates, false whenever
// the record store is unreachable.
func (s *Service) IsSlotAvailable(ctx context.Context, dateStr, timeStr, officer string) bool {
	if !s.IsValidDate(dateStr) || s.IsWeekend(dateStr) {
		return false
	}

	if s.store == nil {
		return false
	}
	records, err := s.store.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to read booking records, treating slot as unavailable",
			zap.String("date", dateStr),
			zap.String("time", timeStr),
			zap.Error(err))
		return false
	}
	if recordConflict(records, dateStr, timeStr, officer) {
		return false
	}

	return !s.calendarBusy(ctx, dateStr, timeStr, officer)
}

// BookingRequest carries the session's collected fields into Book.
type BookingRequest struct {
	UserID  int64
	Name    string
	Phone   string
	Email   string
	Officer string
	Purpose string
	Date    string
	Time    string
}

// Book appends the booking record and then tries to put the appointment
// on the officer's calendar. The calendar write is best-effort: its
// failure is logged and does not undo or fail the booking.
func (s *Service) Book(ctx context.Context, req BookingRequest) (*model.BookingRecord, error) {
	if s.store == nil {
		return nil, fmt.Errorf("record store not configured")
	}

	rec := model.BookingRecord{
		Ref:     uuid.NewString(),
		UserID:  req.UserID,
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Officer: req.Officer,
		Purpose: req.Purpose,
		Date:    req.Date,
		Time:    req.Time,
		Status:  model.BookingStatusConfirmed,
	}

	if err := s.store.Append(ctx, rec); err != nil {
		return nil, fmt.Errorf("save booking: %w", err)
	}

	s.logger.Info("booking saved",
		zap.String("ref", rec.Ref),
		zap.Int64("user_id", rec.UserID),
		zap.String("officer", rec.Officer),
		zap.String("date", rec.Date),
		zap.String("time", rec.Time))

	s.createCalendarEvent(ctx, rec)
	return &rec, nil
}

func (s *Service) createCalendarEvent(ctx context.Context, rec model.BookingRecord) {
	if s.cal == nil {
		s.logger.Warn("calendar integration disabled, booking saved without calendar event",
			zap.String("ref", rec.Ref))
		return
	}

	officer, ok := OfficerByCode(s.officers, rec.Officer)
	if !ok {
		s.logger.Warn("no calendar mapped for officer",
			zap.String("officer", rec.Officer))
		return
	}

	start, end, err := slotWindow(rec.Date, rec.Time)
	if err != nil {
		s.logger.Warn("cannot build calendar window for booking",
			zap.String("ref", rec.Ref),
			zap.Error(err))
		return
	}

	event := &calendar.Event{
		Summary:     fmt.Sprintf("Temu Janji: %s", rec.Name),
		Description: fmt.Sprintf("Tujuan: %s\nNo. Telefon: %s", rec.Purpose, rec.Phone),
		Start:       &calendar.EventDateTime{DateTime: start.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: end.Format(time.RFC3339)},
		Reminders: &calendar.EventReminders{
			UseDefault: false,
			Overrides: []*calendar.EventReminder{
				{Method: "popup", Minutes: reminderMinute},
			},
			ForceSendFields: []string{"UseDefault"},
		},
	}

	if _, err := s.cal.InsertEvent(ctx, officer.CalendarID, event); err != nil {
		// Deliberate: the record is already saved and the user will be
		// told the booking succeeded. Losing the calendar artifact is
		// accepted degradation.
		s.logger.Warn("booking saved but calendar event failed",
			zap.String("ref", rec.Ref),
			zap.Error(err))
	}
}

// calendarBusy reports whether the officer's calendar has any event
// overlapping the slot. Fail-open: any calendar error is logged and the
// slot is treated as free, because the record store is the authoritative
// conflict source.
func (s *Service) calendarBusy(ctx context.Context, dateStr, timeStr, officerCode string) bool {
	if s.cal == nil {
		return false
	}
	officer, ok := OfficerByCode(s.officers, officerCode)
	if !ok {
		return false
	}

	start, end, err := slotWindow(dateStr, timeStr)
	if err != nil {
		return false
	}

	events, err := s.cal.EventsInWindow(ctx, officer.CalendarID, start, end)
	if err != nil {
		s.logger.Warn("calendar conflict check failed, relying on record store only",
			zap.String("officer", officerCode),
			zap.String("date", dateStr),
			zap.String("time", timeStr),
			zap.Error(err))
		return false
	}
	return len(events) > 0
}

func recordConflict(records []model.BookingRecord, dateStr, timeStr, officer string) bool {
	for _, rec := range records {
		if rec.Date == dateStr && rec.Time == timeStr && rec.Officer == officer {
			return true
		}
	}
	return false
}

func parseDate(dateStr string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, dateStr, appointmentZone)
}

// slotWindow returns the half-open [start, start+30m) window of a slot in
// Malaysia time.
func slotWindow(dateStr, timeStr string) (time.Time, time.Time, error) {
	date, err := parseDate(dateStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse date %q: %w", dateStr, err)
	}
	tod, err := time.Parse(TimeLayout, timeStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse time %q: %w", timeStr, err)
	}

	start := time.Date(date.Year(), date.Month(), date.Day(), tod.Hour(), tod.Minute(), 0, 0, appointmentZone)
	return start, start.Add(slotDuration), nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
