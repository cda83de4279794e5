package conversation

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/pdk-keningau/temujanji-bot/internal/model"
	"github.com/pdk-keningau/temujanji-bot/internal/schedule"
)

// State is the session's position in the booking dialogue. The flow is
// linear; validation failures stay in place and the only other exits are
// /cancel and a corrupted-session reset.
type State string

const (
	StateIdle              State = ""
	StateChoosingOfficer   State = "choosing_officer"
	StateCollectingName    State = "collecting_name"
	StateCollectingPhone   State = "collecting_phone"
	StateCollectingEmail   State = "collecting_email"
	StateCollectingPurpose State = "collecting_purpose"
	StateChoosingDate      State = "choosing_date"
	StateChoosingTime      State = "choosing_time"
)

// Session is the per-user field bag collected across the dialogue. The
// zero value is an idle session. Sessions live only in memory and only
// until the booking completes or is cancelled.
type Session struct {
	State   State
	Officer string
	Name    string
	Phone   string
	Email   string
	Purpose string
	Date    string
	Slots   []string
}

// Reply is what goes back to the user after one inbound message. Options,
// when present, enumerate the only acceptable next inputs and are shown
// as a quick-choice keyboard.
type Reply struct {
	Text           string
	Options        []string
	RemoveKeyboard bool
}

// Booker is the slice of the availability resolver the machine needs.
type Booker interface {
	Officers() []schedule.Officer
	IsValidDate(dateStr string) bool
	IsWeekend(dateStr string) bool
	AvailableSlots(ctx context.Context, dateStr, officer string) []string
	IsSlotAvailable(ctx context.Context, dateStr, timeStr, officer string) bool
	Book(ctx context.Context, req schedule.BookingRequest) (*model.BookingRecord, error)
}

// Machine is the booking dialogue as a transition function: every call
// takes the current session and one inbound message and returns the next
// session plus the reply. It holds no per-user state itself, so the same
// Machine serves every session; transitions happen only inside Handle,
// Start and Cancel, never spontaneously.
type Machine struct {
	booker Booker
	logger *zap.Logger
}

func NewMachine(booker Booker, logger *zap.Logger) *Machine {
	return &Machine{booker: booker, logger: logger}
}

// Welcome is the /start greeting. It does not touch the session.
func (m *Machine) Welcome() Reply {
	return Reply{Text: msgWelcome}
}

// Start begins a fresh booking dialogue, discarding any session in
// progress.
func (m *Machine) Start(userID int64) (Session, Reply) {
	m.logger.Info("booking dialogue started", zap.Int64("user_id", userID))
	return Session{State: StateChoosingOfficer}, Reply{
		Text:    msgChooseOfficer,
		Options: m.officerMenu(),
	}
}

// Cancel aborts the dialogue from any state and discards the field bag.
func (m *Machine) Cancel(userID int64, sess Session) (Session, Reply) {
	if sess.State == StateIdle {
		return Session{}, Reply{Text: msgNothingToCancel}
	}
	m.logger.Info("booking dialogue cancelled",
		zap.Int64("user_id", userID),
		zap.String("state", string(sess.State)))
	return Session{}, Reply{Text: msgCancelled, RemoveKeyboard: true}
}

// Handle processes one inbound text message for the session's current
// state and returns the successor session and reply.
func (m *Machine) Handle(ctx context.Context, userID int64, sess Session, text string) (Session, Reply) {
	text = strings.TrimSpace(text)

	switch sess.State {
	case StateChoosingOfficer:
		return m.handleOfficer(sess, text)
	case StateCollectingName:
		if text == "" {
			return sess, Reply{Text: msgAskName}
		}
		sess.Name = text
		sess.State = StateCollectingPhone
		return sess, Reply{Text: msgAskPhone}
	case StateCollectingPhone:
		if text == "" {
			return sess, Reply{Text: msgAskPhone}
		}
		sess.Phone = text
		sess.State = StateCollectingEmail
		return sess, Reply{Text: msgAskEmail}
	case StateCollectingEmail:
		if text == "" {
			return sess, Reply{Text: msgAskEmail}
		}
		sess.Email = text
		sess.State = StateCollectingPurpose
		return sess, Reply{Text: msgAskPurpose}
	case StateCollectingPurpose:
		if text == "" {
			return sess, Reply{Text: msgAskPurpose}
		}
		sess.Purpose = text
		sess.State = StateChoosingDate
		return sess, Reply{Text: msgAskDate}
	case StateChoosingDate:
		return m.handleDate(ctx, sess, text)
	case StateChoosingTime:
		return m.handleTime(ctx, userID, sess, text)
	default:
		return Session{}, Reply{Text: msgIdleHint}
	}
}

func (m *Machine) handleOfficer(sess Session, text string) (Session, Reply) {
	officers := m.booker.Officers()
	for i, o := range officers {
		if text == strconv.Itoa(i+1) || text == menuItem(i, o) {
			sess.Officer = o.Code
			sess.State = StateCollectingName
			return sess, Reply{Text: msgAskName, RemoveKeyboard: true}
		}
	}
	return sess, Reply{Text: msgInvalidOfficer, Options: m.officerMenu()}
}

func (m *Machine) handleDate(ctx context.Context, sess Session, text string) (Session, Reply) {
	if !m.booker.IsValidDate(text) {
		return sess, Reply{Text: msgInvalidDate}
	}
	if m.booker.IsWeekend(text) {
		return sess, Reply{Text: msgWeekend}
	}

	slots := m.booker.AvailableSlots(ctx, text, sess.Officer)
	if len(slots) == 0 {
		return sess, Reply{Text: msgNoSlots}
	}

	sess.Date = text
	sess.Slots = slots
	sess.State = StateChoosingTime
	return sess, Reply{Text: msgChooseTime, Options: slots}
}

func (m *Machine) handleTime(ctx context.Context, userID int64, sess Session, text string) (Session, Reply) {
	// A session that reached this state without the earlier fields is
	// corrupt; there is nothing sensible to re-prompt for, so reset.
	if sess.Officer == "" || sess.Date == "" || len(sess.Slots) == 0 {
		m.logger.Warn("session missing required fields, resetting",
			zap.Int64("user_id", userID),
			zap.String("officer", sess.Officer),
			zap.String("date", sess.Date),
			zap.Int("slots", len(sess.Slots)))
		return Session{}, Reply{Text: msgSessionCancelled, RemoveKeyboard: true}
	}

	if !contains(sess.Slots, text) {
		return sess, Reply{Text: msgInvalidTime, Options: sess.Slots}
	}

	// Someone else may have taken the slot since the list was shown.
	if !m.booker.IsSlotAvailable(ctx, sess.Date, text, sess.Officer) {
		remaining := m.booker.AvailableSlots(ctx, sess.Date, sess.Officer)
		if len(remaining) == 0 {
			sess.Date = ""
			sess.Slots = nil
			sess.State = StateChoosingDate
			return sess, Reply{Text: msgSlotTaken + "\n" + msgNoSlots, RemoveKeyboard: true}
		}
		sess.Slots = remaining
		return sess, Reply{Text: msgSlotTaken, Options: remaining}
	}

	rec, err := m.booker.Book(ctx, schedule.BookingRequest{
		UserID:  userID,
		Name:    sess.Name,
		Phone:   sess.Phone,
		Email:   sess.Email,
		Officer: sess.Officer,
		Purpose: sess.Purpose,
		Date:    sess.Date,
		Time:    text,
	})
	if err != nil {
		m.logger.Error("failed to commit booking",
			zap.Int64("user_id", userID),
			zap.Error(err))
		return sess, Reply{Text: msgSaveFailed, Options: sess.Slots}
	}

	return Session{}, Reply{
		Text:           fmt.Sprintf(msgConfirmedTemplate, rec.Date, rec.Time, rec.Officer, rec.Ref),
		RemoveKeyboard: true,
	}
}

func (m *Machine) officerMenu() []string {
	officers := m.booker.Officers()
	menu := make([]string, len(officers))
	for i, o := range officers {
		menu[i] = menuItem(i, o)
	}
	return menu
}

func menuItem(i int, o schedule.Officer) string {
	return fmt.Sprintf("%d. %s", i+1, o.Label)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
