package models

import (
	"strings"
	"time"
)

// Story is a geolocated, time-bounded media post. It becomes invisible
// once the current time reaches ExpiresAt; it is never mutated or
// deleted by the read path.
type Story struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"userId"`
	MediaURL  string    `json:"mediaUrl"`
	MediaType string    `json:"mediaType"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// IsVideo reports whether the story holds video media. The upstream
// media pipeline stores free-form resource types, so this is a
// substring match rather than an exact one.
func (s Story) IsVideo() bool {
	return strings.Contains(s.MediaType, "video")
}

// Expired reports whether the story is no longer visible at the given
// instant. Expiry is strict: a story expiring exactly now is expired.
func (s Story) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
