package model

import "time"

// PublicLink allows unauthenticated access to fill in one published form.
// The link is addressed by a signed token; the stored record exists so a
// link can be revoked before its expiry.
type PublicLink struct {
	ID        string
	FormID    string
	Revoked   bool
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Usable reports whether the link still accepts responses at the given time
func (l *PublicLink) Usable(now time.Time) bool {
	if l.Revoked {
		return false
	}
	return now.Before(l.ExpiresAt)
}
