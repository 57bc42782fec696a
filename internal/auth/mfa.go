package auth

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"

	"github.com/rentora/rentora/internal/domain"
	"github.com/rentora/rentora/internal/repository"
)

// MFAConfig holds MFA configuration.
type MFAConfig struct {
	Issuer        string
	EncryptionKey []byte // 32 bytes, AES-256-GCM
}

// MFAService manages TOTP enrolment and verification. Secrets are stored
// encrypted at rest.
type MFAService struct {
	config  MFAConfig
	secrets *repository.MFASecretsRepository
	users   *repository.UsersRepository
}

// NewMFAService creates a new MFA service.
func NewMFAService(config MFAConfig, secrets *repository.MFASecretsRepository, users *repository.UsersRepository) *MFAService {
	return &MFAService{
		config:  config,
		secrets: secrets,
		users:   users,
	}
}

// Setup generates a new TOTP secret for the user and stores it unconfirmed.
// Returns the otpauth:// provisioning URL for the authenticator app.
func (s *MFAService) Setup(ctx context.Context, userID uuid.UUID) (string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.config.Issuer,
		AccountName: user.Email,
	})
	if err != nil {
		return "", err
	}

	encrypted, err := s.encrypt([]byte(key.Secret()))
	if err != nil {
		return "", err
	}

	now := time.Now()
	err = s.secrets.Upsert(ctx, &domain.MFASecret{
		UserID:          userID,
		EncryptedSecret: encrypted,
		Confirmed:       false,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return "", err
	}

	return key.URL(), nil
}

// Enable confirms enrolment with a code from the authenticator app and turns
// MFA on for the account.
func (s *MFAService) Enable(ctx context.Context, userID uuid.UUID, code string) error {
	if err := s.verifyCode(ctx, userID, code); err != nil {
		return err
	}

	if err := s.secrets.Confirm(ctx, userID); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	user.MFAEnabled = true
	return s.users.Update(ctx, user)
}

// Verify checks a TOTP code at login time. The secret must be confirmed.
func (s *MFAService) Verify(ctx context.Context, userID uuid.UUID, code string) error {
	secret, err := s.secrets.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if !secret.Confirmed {
		return domain.ErrMFANotEnrolled
	}
	return s.validate(secret, code)
}

// Disable removes the secret and turns MFA off for the account.
func (s *MFAService) Disable(ctx context.Context, userID uuid.UUID, code string) error {
	if err := s.Verify(ctx, userID, code); err != nil {
		return err
	}

	if err := s.secrets.Delete(ctx, userID); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	user.MFAEnabled = false
	return s.users.Update(ctx, user)
}

func (s *MFAService) verifyCode(ctx context.Context, userID uuid.UUID, code string) error {
	secret, err := s.secrets.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	return s.validate(secret, code)
}

func (s *MFAService) validate(secret *domain.MFASecret, code string) error {
	plaintext, err := s.decrypt(secret.EncryptedSecret)
	if err != nil {
		return err
	}
	if !totp.Validate(code, string(plaintext)) {
		return domain.ErrMFACodeInvalid
	}
	return nil
}

func (s *MFAService) encrypt(plaintext []byte) ([]byte, error) {
	gcm, err := s.gcm()
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func (s *MFAService) decrypt(ciphertext []byte) ([]byte, error) {
	gcm, err := s.gcm()
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	nonce, sealed := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, sealed, nil)
}

func (s *MFAService) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(s.config.EncryptionKey)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
