package schedule

import "time"

// OfficeHours maps a weekday to the ordered list of bookable slot start
// times. Every slot is 30 minutes. Friday ends earlier because of the
// midday prayer break, so its list is shorter.
var OfficeHours = map[time.Weekday][]string{
	time.Monday:    {"09:00", "09:30", "10:00", "10:30", "11:00", "11:30", "14:00", "14:30", "15:00", "15:30", "16:00"},
	time.Tuesday:   {"09:00", "09:30", "10:00", "10:30", "11:00", "11:30", "14:00", "14:30", "15:00", "15:30", "16:00"},
	time.Wednesday: {"09:00", "09:30", "10:00", "10:30", "11:00", "11:30", "14:00", "14:30", "15:00", "15:30", "16:00"},
	time.Thursday:  {"09:00", "09:30", "10:00", "10:30", "11:00", "11:30", "14:00", "14:30", "15:00", "15:30", "16:00"},
	time.Friday:    {"09:00", "09:30", "10:00", "10:30", "14:00", "14:30", "15:00", "15:30", "16:00"},
}

// Officer is one bookable staff role with its display label and the
// calendar the appointments land on.
type Officer struct {
	Code       string
	Label      string
	CalendarID string
}

// DefaultOfficers is the standard two-officer deployment. Some district
// offices run a third assistant officer; pass a custom directory to
// NewService for those.
var DefaultOfficers = []Officer{
	{Code: "DO", Label: "Pegawai Daerah (DO)", CalendarID: "do@keningau.gov.my"},
	{Code: "ADO", Label: "Penolong Pegawai Daerah (ADO)", CalendarID: "ado@keningau.gov.my"},
}

// OfficerByCode returns the directory entry for a code, or false when the
// code is not part of the deployment.
func OfficerByCode(directory []Officer, code string) (Officer, bool) {
	for _, o := range directory {
		if o.Code == code {
			return o, true
		}
	}
	return Officer{}, false
}
