// Package session defines the Session record spec.md §3 names, stored in
// a sessionstore.Store[Session] keyed "session:<uuid>" (spec.md §6).
package session

import "time"

// Session is the session-store record backing refresh and realm-switch
// (spec.md §3). ExpiresAt is unix-seconds, mirroring the JWT claims it is
// stored alongside.
type Session struct {
	SessionID    string    `json:"session_id"`
	UserID       string    `json:"user_id"`
	ExpiresAt    int64     `json:"expires_at"`
	UserAgent    string    `json:"user_agent,omitempty"`
	IPAddress    string    `json:"ip_address,omitempty"`
	LastActivity int64     `json:"last_activity"`
	CreatedAt    time.Time `json:"created_at"`
}

// TTL returns max(0, expires_at - now), spec.md §3's "TTL equal to
// max(0, expires_at - now)".
func (s Session) TTL(now time.Time) time.Duration {
	remaining := time.Unix(s.ExpiresAt, 0).Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// KeyPrefix is the sessionstore key prefix spec.md §6 fixes.
const KeyPrefix = "session:"
