package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Session is a refresh-token session. The refresh token itself is opaque and
// only its hash is stored.
type Session struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	TokenHash  string
	Metadata   json.RawMessage
	CreatedAt  time.Time
	ExpiresAt  time.Time
	LastSeenAt *time.Time
	RevokedAt  *time.Time
}

// IsValid returns true if the session is neither revoked nor expired.
func (s *Session) IsValid() bool {
	if s.RevokedAt != nil {
		return false
	}
	return time.Now().Before(s.ExpiresAt)
}

// SessionMetadata captures client details at session creation.
type SessionMetadata struct {
	IP        string `json:"ip,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// TokenPair is the result of issuing or refreshing a session. It is returned
// to API clients as-is.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// MFASecret stores an encrypted TOTP secret for a user.
type MFASecret struct {
	UserID          uuid.UUID
	EncryptedSecret []byte
	Confirmed       bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
