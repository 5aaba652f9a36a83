package models

// NoData marks a missing entry or exit time in a daily report row.
const NoData = "---"

// DailyAttendance is one report row: a person's effective entry and exit for
// a calendar date. Derived on demand, never persisted.
type DailyAttendance struct {
	Name      string     `json:"name"`
	Type      PersonType `json:"type"`
	EntryTime string     `json:"entry_time"`
	ExitTime  string     `json:"exit_time"`
}

// DailyReport partitions a date's attendance rows into the two report tables.
type DailyReport struct {
	Date     string            `json:"date"`
	Students []DailyAttendance `json:"students"`
	Teachers []DailyAttendance `json:"teachers"`
}
