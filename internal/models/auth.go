package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DeviceClaims are the JWT claims of an anonymous device session.
type DeviceClaims struct {
	DeviceID string `json:"device_id"`
	jwt.RegisteredClaims
}

// DeviceSession is returned after anonymous bootstrap.
type DeviceSession struct {
	DeviceID    string    `json:"device_id"`
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
}
