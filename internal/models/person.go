package models

import "time"

// PersonType classifies a registered person.
type PersonType string

const (
	PersonTypeStudent PersonType = "student"
	PersonTypeTeacher PersonType = "teacher"
)

// Valid returns true when the type is a supported value.
func (t PersonType) Valid() bool {
	switch t {
	case PersonTypeStudent, PersonTypeTeacher:
		return true
	default:
		return false
	}
}

// Person is a pre-registered attendee. The roster is owned externally; this
// service only reads it, keyed by the unique name encoded in each QR badge.
type Person struct {
	ID        string     `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	Type      PersonType `db:"type" json:"type"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}
