package model

// BookingStatus is the lifecycle status of a booking record.
// Records are appended as CONFIRMED and never mutated afterwards;
// no other status is modelled.
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
)

// BookingRecord is one confirmed appointment as persisted in the record
// store. Date is DD/MM/YYYY and Time is HH:MM, kept as the exact strings
// collected during the conversation.
type BookingRecord struct {
	Ref     string
	UserID  int64
	Name    string
	Phone   string
	Email   string
	Officer string
	Purpose string
	Date    string
	Time    string
	Status  BookingStatus
}
