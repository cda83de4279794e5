package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"

	"github.com/pdk-keningau/temujanji-bot/internal/model"
)

type fakeStore struct {
	records   []model.BookingRecord
	listErr   error
	appendErr error
	appended  []model.BookingRecord
}

func (f *fakeStore) ListAll(ctx context.Context) ([]model.BookingRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.records, nil
}

func (f *fakeStore) Append(ctx context.Context, rec model.BookingRecord) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, rec)
	return nil
}

type fakeCalendar struct {
	events    []*calendar.Event
	listErr   error
	insertErr error

	insertedCalendarID string
	insertedEvent      *calendar.Event
	windowStart        time.Time
	windowEnd          time.Time
}

func (f *fakeCalendar) EventsInWindow(ctx context.Context, calendarID string, start, end time.Time) ([]*calendar.Event, error) {
	f.windowStart = start
	f.windowEnd = end
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.events, nil
}

func (f *fakeCalendar) InsertEvent(ctx context.Context, calendarID string, event *calendar.Event) (*calendar.Event, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	f.insertedCalendarID = calendarID
	f.insertedEvent = event
	return event, nil
}

// fixedNow pins "today" to Tuesday 10/03/2026 Malaysia time.
var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, appointmentZone)

func newTestService(t *testing.T, store *fakeStore, cal *fakeCalendar) *Service {
	t.Helper()
	svc := &Service{
		officers: DefaultOfficers,
		logger:   zap.NewNop(),
		now:      func() time.Time { return fixedNow },
	}
	if store != nil {
		svc.store = store
	}
	if cal != nil {
		svc.cal = cal
	}
	return svc
}

func TestIsValidDate(t *testing.T) {
	svc := newTestService(t, &fakeStore{}, nil)

	tests := []struct {
		name string
		date string
		want bool
	}{
		{name: "future date", date: "25/12/2099", want: true},
		{name: "today", date: "10/03/2026", want: true},
		{name: "tomorrow", date: "11/03/2026", want: true},
		{name: "yesterday", date: "09/03/2026", want: false},
		{name: "far past", date: "01/01/2020", want: false},
		{name: "impossible day", date: "32/01/2026", want: false},
		{name: "impossible month", date: "10/13/2026", want: false},
		{name: "wrong separator", date: "10-03-2026", want: false},
		{name: "not a date", date: "esok", want: false},
		{name: "empty", date: "", want: false},
		{name: "missing year", date: "10/03", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.IsValidDate(tt.date))
		})
	}
}

func TestIsWeekend(t *testing.T) {
	svc := newTestService(t, &fakeStore{}, nil)

	tests := []struct {
		name string
		date string
		want bool
	}{
		{name: "saturday", date: "14/03/2026", want: true},
		{name: "sunday", date: "15/03/2026", want: true},
		{name: "monday", date: "16/03/2026", want: false},
		{name: "friday", date: "13/03/2026", want: false},
		{name: "unparseable", date: "not-a-date", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.IsWeekend(tt.date))
		})
	}
}

func TestSlotsForDate(t *testing.T) {
	svc := newTestService(t, &fakeStore{}, nil)

	t.Run("monday has full template", func(t *testing.T) {
		slots := svc.SlotsForDate("16/03/2026")
		assert.Len(t, slots, 11)
		assert.Equal(t, OfficeHours[time.Monday], slots)
	})

	t.Run("friday is shorter", func(t *testing.T) {
		slots := svc.SlotsForDate("13/03/2026")
		assert.Len(t, slots, 9)
		assert.Equal(t, "09:00", slots[0])
		assert.Equal(t, "16:00", slots[len(slots)-1])
	})

	t.Run("weekend has no template", func(t *testing.T) {
		assert.Empty(t, svc.SlotsForDate("14/03/2026"))
	})

	t.Run("unparseable date", func(t *testing.T) {
		assert.Empty(t, svc.SlotsForDate("garbage"))
	})

	t.Run("idempotent", func(t *testing.T) {
		first := svc.SlotsForDate("16/03/2026")
		second := svc.SlotsForDate("16/03/2026")
		assert.Equal(t, first, second)
	})
}

func TestAvailableSlots(t *testing.T) {
	// 25/12/2099 is a Friday.
	const date = "25/12/2099"

	t.Run("no conflicts returns full friday template", func(t *testing.T) {
		svc := newTestService(t, &fakeStore{}, nil)
		slots := svc.AvailableSlots(context.Background(), date, "DO")
		assert.Equal(t, OfficeHours[time.Friday], slots)
		assert.Len(t, slots, 9)
	})

	t.Run("booked slot is excluded, order preserved", func(t *testing.T) {
		store := &fakeStore{records: []model.BookingRecord{
			{Date: date, Time: "09:00", Officer: "DO"},
		}}
		svc := newTestService(t, store, nil)

		slots := svc.AvailableSlots(context.Background(), date, "DO")
		assert.NotContains(t, slots, "09:00")
		assert.Len(t, slots, 8)
		assert.Equal(t, []string{"09:30", "10:00", "10:30", "14:00", "14:30", "15:00", "15:30", "16:00"}, slots)
	})

	t.Run("other officer's booking does not block", func(t *testing.T) {
		store := &fakeStore{records: []model.BookingRecord{
			{Date: date, Time: "09:00", Officer: "ADO"},
		}}
		svc := newTestService(t, store, nil)
		assert.Contains(t, svc.AvailableSlots(context.Background(), date, "DO"), "09:00")
	})

	t.Run("result is a subsequence of the template", func(t *testing.T) {
		store := &fakeStore{records: []model.BookingRecord{
			{Date: date, Time: "10:00", Officer: "DO"},
			{Date: date, Time: "15:30", Officer: "DO"},
		}}
		svc := newTestService(t, store, nil)

		template := svc.SlotsForDate(date)
		slots := svc.AvailableSlots(context.Background(), date, "DO")

		i := 0
		for _, want := range slots {
			for i < len(template) && template[i] != want {
				i++
			}
			require.Less(t, i, len(template), "slot %s out of template order", want)
			i++
		}
	})

	t.Run("store error yields no slots", func(t *testing.T) {
		svc := newTestService(t, &fakeStore{listErr: errors.New("sheet down")}, nil)
		assert.Empty(t, svc.AvailableSlots(context.Background(), date, "DO"))
	})

	t.Run("no store yields no slots", func(t *testing.T) {
		svc := newTestService(t, nil, nil)
		assert.Empty(t, svc.AvailableSlots(context.Background(), date, "DO"))
	})

	t.Run("past date yields no slots", func(t *testing.T) {
		svc := newTestService(t, &fakeStore{}, nil)
		assert.Empty(t, svc.AvailableSlots(context.Background(), "09/03/2026", "DO"))
	})

	t.Run("calendar busy slot is excluded", func(t *testing.T) {
		cal := &fakeCalendar{events: []*calendar.Event{{Summary: "Mesyuarat"}}}
		svc := newTestService(t, &fakeStore{}, cal)
		// Every window probe reports one event, so nothing is free.
		assert.Empty(t, svc.AvailableSlots(context.Background(), date, "DO"))
	})
}

func TestIsSlotAvailable(t *testing.T) {
	const date = "25/12/2099"

	t.Run("free slot", func(t *testing.T) {
		svc := newTestService(t, &fakeStore{}, nil)
		assert.True(t, svc.IsSlotAvailable(context.Background(), date, "09:00", "DO"))
	})

	t.Run("exact record match blocks", func(t *testing.T) {
		store := &fakeStore{records: []model.BookingRecord{
			{Date: date, Time: "09:00", Officer: "DO"},
		}}
		svc := newTestService(t, store, nil)
		assert.False(t, svc.IsSlotAvailable(context.Background(), date, "09:00", "DO"))
		assert.True(t, svc.IsSlotAvailable(context.Background(), date, "09:30", "DO"))
	})

	t.Run("invalid date", func(t *testing.T) {
		svc := newTestService(t, &fakeStore{}, nil)
		assert.False(t, svc.IsSlotAvailable(context.Background(), "31/02/2099", "09:00", "DO"))
	})

	t.Run("weekend", func(t *testing.T) {
		svc := newTestService(t, &fakeStore{}, nil)
		assert.False(t, svc.IsSlotAvailable(context.Background(), "14/03/2026", "09:00", "DO"))
	})

	t.Run("fail closed when store is unreachable", func(t *testing.T) {
		svc := newTestService(t, &fakeStore{listErr: errors.New("sheet down")}, nil)
		assert.False(t, svc.IsSlotAvailable(context.Background(), date, "09:00", "DO"))
	})

	t.Run("fail closed when store is not configured", func(t *testing.T) {
		svc := newTestService(t, nil, nil)
		assert.False(t, svc.IsSlotAvailable(context.Background(), date, "09:00", "DO"))
	})

	t.Run("calendar conflict blocks", func(t *testing.T) {
		cal := &fakeCalendar{events: []*calendar.Event{{Summary: "Mesyuarat"}}}
		svc := newTestService(t, &fakeStore{}, cal)
		assert.False(t, svc.IsSlotAvailable(context.Background(), date, "09:00", "DO"))
	})

	t.Run("fail open when calendar check fails", func(t *testing.T) {
		cal := &fakeCalendar{listErr: errors.New("calendar down")}
		svc := newTestService(t, &fakeStore{}, cal)
		// The record store said the slot is free, so a broken calendar
		// must not block it.
		assert.True(t, svc.IsSlotAvailable(context.Background(), date, "09:00", "DO"))
	})

	t.Run("calendar window is the half open 30 minute slot", func(t *testing.T) {
		cal := &fakeCalendar{}
		svc := newTestService(t, &fakeStore{}, cal)
		svc.IsSlotAvailable(context.Background(), date, "14:30", "DO")

		want := time.Date(2099, 12, 25, 14, 30, 0, 0, appointmentZone)
		assert.True(t, cal.windowStart.Equal(want))
		assert.True(t, cal.windowEnd.Equal(want.Add(30*time.Minute)))
	})
}

func TestBook(t *testing.T) {
	req := BookingRequest{
		UserID:  421337,
		Name:    "Siti Aminah",
		Phone:   "0134567890",
		Email:   "siti@example.com",
		Officer: "DO",
		Purpose: "Permohonan tanah",
		Date:    "25/12/2099",
		Time:    "09:00",
	}

	t.Run("record fields round trip", func(t *testing.T) {
		store := &fakeStore{}
		svc := newTestService(t, store, nil)

		rec, err := svc.Book(context.Background(), req)
		require.NoError(t, err)
		require.Len(t, store.appended, 1)

		saved := store.appended[0]
		assert.Equal(t, req.UserID, saved.UserID)
		assert.Equal(t, req.Name, saved.Name)
		assert.Equal(t, req.Phone, saved.Phone)
		assert.Equal(t, req.Email, saved.Email)
		assert.Equal(t, req.Officer, saved.Officer)
		assert.Equal(t, req.Purpose, saved.Purpose)
		assert.Equal(t, req.Date, saved.Date)
		assert.Equal(t, req.Time, saved.Time)
		assert.Equal(t, model.BookingStatusConfirmed, saved.Status)
		assert.NotEmpty(t, saved.Ref)
		assert.Equal(t, saved, *rec)
	})

	t.Run("calendar event carries booking details", func(t *testing.T) {
		store := &fakeStore{}
		cal := &fakeCalendar{}
		svc := newTestService(t, store, cal)

		_, err := svc.Book(context.Background(), req)
		require.NoError(t, err)
		require.NotNil(t, cal.insertedEvent)

		assert.Equal(t, "do@keningau.gov.my", cal.insertedCalendarID)
		assert.Equal(t, "Temu Janji: Siti Aminah", cal.insertedEvent.Summary)
		assert.Contains(t, cal.insertedEvent.Description, "Permohonan tanah")
		assert.Contains(t, cal.insertedEvent.Description, "0134567890")
		assert.Equal(t, "2099-12-25T09:00:00+08:00", cal.insertedEvent.Start.DateTime)
		assert.Equal(t, "2099-12-25T09:30:00+08:00", cal.insertedEvent.End.DateTime)

		require.NotNil(t, cal.insertedEvent.Reminders)
		assert.False(t, cal.insertedEvent.Reminders.UseDefault)
		require.Len(t, cal.insertedEvent.Reminders.Overrides, 1)
		assert.Equal(t, int64(30), cal.insertedEvent.Reminders.Overrides[0].Minutes)
	})

	t.Run("calendar failure does not fail the booking", func(t *testing.T) {
		store := &fakeStore{}
		cal := &fakeCalendar{insertErr: errors.New("calendar down")}
		svc := newTestService(t, store, cal)

		_, err := svc.Book(context.Background(), req)
		require.NoError(t, err)
		assert.Len(t, store.appended, 1)
	})

	t.Run("store failure fails the booking", func(t *testing.T) {
		store := &fakeStore{appendErr: errors.New("sheet down")}
		svc := newTestService(t, store, nil)

		_, err := svc.Book(context.Background(), req)
		assert.Error(t, err)
	})

	t.Run("no store fails the booking", func(t *testing.T) {
		svc := newTestService(t, nil, nil)
		_, err := svc.Book(context.Background(), req)
		assert.Error(t, err)
	})
}
