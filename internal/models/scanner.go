package models

import "time"

// ScanSession is one activation of the kiosk's code reader, bound to a single
// entry or exit intent. At most one session is active per device at a time.
type ScanSession struct {
	ID        string    `json:"id"`
	DeviceID  string    `json:"device_id"`
	Kind      EventKind `json:"kind"`
	StartedAt time.Time `json:"started_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
