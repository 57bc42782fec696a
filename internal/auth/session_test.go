package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rentora/rentora/internal/domain"
)

func newTestSessionService() *SessionService {
	return NewSessionService(SessionConfig{
		JWTSecret: []byte("test-secret-at-least-32-characters!!"),
		Issuer:    "rentora-test",
	}, nil, nil)
}

func TestAccessToken_RoundTrip(t *testing.T) {
	svc := newTestSessionService()
	user := &domain.User{
		ID:    uuid.New(),
		Email: "landlord@example.com",
		Name:  "Pat",
		Role:  domain.RoleLandlord,
	}
	sessionID := uuid.New()

	token, expiresAt, err := svc.signAccessToken(user, sessionID, time.Now())
	if err != nil {
		t.Fatalf("signAccessToken failed: %v", err)
	}
	if !expiresAt.After(time.Now()) {
		t.Error("token should expire in the future")
	}

	claims, err := svc.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken failed: %v", err)
	}

	if claims.Subject != user.ID.String() {
		t.Errorf("Subject = %q, want %q", claims.Subject, user.ID)
	}
	if claims.Role != string(domain.RoleLandlord) {
		t.Errorf("Role = %q, want LANDLORD", claims.Role)
	}
	if claims.Email != user.Email {
		t.Errorf("Email = %q, want %q", claims.Email, user.Email)
	}
	if claims.ID != sessionID.String() {
		t.Errorf("token ID = %q, want session id %q", claims.ID, sessionID)
	}
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	svc := newTestSessionService()
	user := &domain.User{ID: uuid.New(), Role: domain.RoleTenant}

	token, _, err := svc.signAccessToken(user, uuid.New(), time.Now())
	if err != nil {
		t.Fatal(err)
	}

	other := NewSessionService(SessionConfig{
		JWTSecret: []byte("a-completely-different-secret-key!!!"),
		Issuer:    "rentora-test",
	}, nil, nil)

	if _, err := other.ValidateAccessToken(token); err != domain.ErrInvalidToken {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestValidateAccessToken_Expired(t *testing.T) {
	svc := newTestSessionService()
	user := &domain.User{ID: uuid.New(), Role: domain.RoleTenant}

	// Issued far enough in the past that the TTL has elapsed.
	issued := time.Now().Add(-2 * DefaultAccessTokenTTL)
	token, _, err := svc.signAccessToken(user, uuid.New(), issued)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.ValidateAccessToken(token); err != domain.ErrInvalidToken {
		t.Errorf("err = %v, want ErrInvalidToken for expired token", err)
	}
}

func TestValidateAccessToken_Garbage(t *testing.T) {
	svc := newTestSessionService()

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := svc.ValidateAccessToken(token); err != domain.ErrInvalidToken {
			t.Errorf("ValidateAccessToken(%q) err = %v, want ErrInvalidToken", token, err)
		}
	}
}

func TestSessionDefaults(t *testing.T) {
	svc := newTestSessionService()

	if svc.AccessTokenTTL() != DefaultAccessTokenTTL {
		t.Errorf("AccessTokenTTL = %v, want default", svc.AccessTokenTTL())
	}
	if svc.RefreshTokenTTL() != DefaultRefreshTokenTTL {
		t.Errorf("RefreshTokenTTL = %v, want default", svc.RefreshTokenTTL())
	}
}
