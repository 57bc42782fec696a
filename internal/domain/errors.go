package domain

import "errors"

// Lookup and conflict errors
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrPropertyNotFound     = errors.New("property not found")
	ErrApplicationNotFound  = errors.New("application not found")
	ErrDuplicateApplication = errors.New("you have already applied to this property")
	ErrNotPropertyOwner     = errors.New("property belongs to another landlord")
)

// Authentication errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account temporarily locked")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrSessionRevoked     = errors.New("session revoked")
	ErrInvalidToken       = errors.New("invalid token")
	ErrMFANotEnrolled     = errors.New("mfa not enrolled")
	ErrMFACodeInvalid     = errors.New("invalid mfa code")
)

// Validation errors
var (
	ErrMissingPropertyID = errors.New("property id is required")
	ErrMissingTenantID   = errors.New("tenant id is required")
	ErrMissingStatus     = errors.New("status is required")
	ErrMissingTitle      = errors.New("title is required")
	ErrInvalidRole       = errors.New("invalid role")
	ErrInvalidEmail      = errors.New("invalid email address")
	ErrWeakPassword      = errors.New("password does not meet requirements")
)
