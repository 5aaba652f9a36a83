package models

import "time"

// EventKind is one of the two recognized attendance event types. The wire
// values match the scan buttons of the kiosk UI.
type EventKind string

const (
	EventKindEntry EventKind = "entrada"
	EventKindExit  EventKind = "salida"
)

// Valid returns true when the kind is a supported value.
func (k EventKind) Valid() bool {
	return k == EventKindEntry || k == EventKindExit
}

// AttendanceEvent records one scan. Events are append-only: they are never
// updated or deleted once written.
type AttendanceEvent struct {
	ID         string     `db:"id" json:"id"`
	PersonID   string     `db:"person_id" json:"person_id"`
	PersonName string     `db:"person_name" json:"person_name"`
	PersonType PersonType `db:"person_type" json:"person_type"`
	Kind       EventKind  `db:"kind" json:"kind"`
	OccurredAt time.Time  `db:"occurred_at" json:"occurred_at"`

	// CalendarDate is the local wall-clock date (YYYY-MM-DD) at the recording
	// site when the scan happened, not the UTC date of OccurredAt.
	CalendarDate string    `db:"calendar_date" json:"calendar_date"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
