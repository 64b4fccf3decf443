package libpos

import "time"

const (
	// PollInterval is the cadence at which the monitor checks the session status.
	PollInterval = 30 * time.Second
	// ExpiredBuffer pulls the expiry boundary earlier so a token does not
	// expire in the middle of an in-flight request.
	ExpiredBuffer = 60 * time.Second
	// RefreshThreshold is the time-before-expiry window in which a proactive
	// refresh is attempted.
	RefreshThreshold = 300 * time.Second
)

// A Status is the classification of a session at a given point in time.
type Status int

const (
	// StatusValid means the expiry is still beyond the refresh threshold.
	StatusValid Status = iota
	// StatusNearExpiry means the session expires within the refresh threshold.
	StatusNearExpiry
	// StatusExpired means the session is absent or past the buffered expiry boundary.
	StatusExpired
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusNearExpiry:
		return "near-expiry"
	case StatusExpired:
		return "expired"
	}
	return "unknown"
}

// A Session contains the tokens granted by the backend for the current user.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"` // epoch seconds
	UserID       string `json:"user_id,omitempty"`
	Email        string `json:"email,omitempty"`
}

// Defined returns true if session's fields are defined.
func (s Session) Defined() bool {
	return s.AccessToken != "" && s.RefreshToken != "" && s.ExpiresAt > 0
}

// StatusAt classifies the session at the given time. An undefined session
// classifies as expired so callers always fall through to the sign-out path.
//
// The classification only looks at the locally known expiry. A session
// revoked server-side keeps classifying as valid until the clock crosses
// the boundary or a request fails.
func (s Session) StatusAt(t time.Time) Status {
	if !s.Defined() {
		return StatusExpired
	}

	remaining := s.ExpiresAt - t.Unix()
	switch {
	case remaining <= int64(ExpiredBuffer/time.Second):
		return StatusExpired
	case remaining <= int64(RefreshThreshold/time.Second):
		return StatusNearExpiry
	}
	return StatusValid
}

// Status classifies the session against the current time.
func (s Session) Status() Status {
	return s.StatusAt(time.Now())
}

// ExpiresIn returns the duration until the nominal expiry at the given time.
// It is negative once the expiry is past.
func (s Session) ExpiresIn(t time.Time) time.Duration {
	return time.Duration(s.ExpiresAt-t.Unix()) * time.Second
}
