package gcal

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Client is the narrow calendar surface the availability resolver needs.
// A nil Client means the calendar integration is disabled.
type Client interface {
	// EventsInWindow returns the events on calendarID that overlap the
	// half-open window [start, end).
	EventsInWindow(ctx context.Context, calendarID string, start, end time.Time) ([]*calendar.Event, error)
	// InsertEvent creates an event on calendarID.
	InsertEvent(ctx context.Context, calendarID string, event *calendar.Event) (*calendar.Event, error)
}

type googleClient struct {
	svc    *calendar.Service
	logger *zap.Logger
}

// NewClient builds a Client backed by the Google Calendar API.
func NewClient(ctx context.Context, logger *zap.Logger, opts ...option.ClientOption) (Client, error) {
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return &googleClient{svc: svc, logger: logger}, nil
}

func (g *googleClient) EventsInWindow(ctx context.Context, calendarID string, start, end time.Time) ([]*calendar.Event, error) {
	events, err := g.svc.Events.List(calendarID).
		TimeMin(start.Format(time.RFC3339)).
		TimeMax(end.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list events on %s: %w", calendarID, err)
	}

	g.logger.Debug("listed calendar events",
		zap.String("calendar_id", calendarID),
		zap.Time("start", start),
		zap.Time("end", end),
		zap.Int("count", len(events.Items)))

	return events.Items, nil
}

func (g *googleClient) InsertEvent(ctx context.Context, calendarID string, event *calendar.Event) (*calendar.Event, error) {
	created, err := g.svc.Events.Insert(calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("insert event on %s: %w", calendarID, err)
	}

	g.logger.Info("calendar event created",
		zap.String("calendar_id", calendarID),
		zap.String("event_id", created.Id),
		zap.String("summary", created.Summary))

	return created, nil
}
