package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/jasleenkaur1801/leeyaherbals-server/internal/config"
	"github.com/jasleenkaur1801/leeyaherbals-server/internal/models"
	"github.com/jasleenkaur1801/leeyaherbals-server/internal/repositories"
	"github.com/jasleenkaur1801/leeyaherbals-server/internal/utils"
)

// OTPService gates password login behind a one-time code delivered by
// email. Per email there is at most one pending code; a fresh start or
// resend replaces it, and the record is purged on success, on expiry,
// or once the attempt ceiling is reached.
type OTPService struct {
	users  repositories.UserRepository
	otps   repositories.OTPRepository
	mailer Mailer
	cfg    *config.Config
}

// NewOTPService creates a new OTPService.
func NewOTPService(users repositories.UserRepository, otps repositories.OTPRepository, mailer Mailer, cfg *config.Config) *OTPService {
	return &OTPService{users: users, otps: otps, mailer: mailer, cfg: cfg}
}

// StartLogin verifies the password and issues a fresh pending code.
// Unknown email and wrong password produce the same error so the
// endpoint cannot be used to enumerate accounts. The code is returned
// so non-production responses can echo it.
func (s *OTPService) StartLogin(email, password string) (string, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if !utils.CheckPassword(user.PasswordHash, password) {
		return "", ErrInvalidCredentials
	}

	return s.issue(email)
}

// Resend issues a fresh code without re-checking the password.
func (s *OTPService) Resend(email string) (string, error) {
	if _, err := s.users.GetByEmail(email); err != nil {
		return "", err
	}
	return s.issue(email)
}

func (s *OTPService) issue(email string) (string, error) {
	if err := s.otps.DeleteByEmail(email); err != nil {
		return "", err
	}

	code, err := generateOTP()
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}

	otp := models.OTPVerification{
		Email:     email,
		Code:      code,
		Attempts:  0,
		Verified:  false,
		ExpiresAt: time.Now().Add(s.cfg.OTPTTL),
	}
	if err := s.otps.Create(&otp); err != nil {
		return "", err
	}

	if err := s.mailer.SendOTP(email, code); err != nil {
		log.Printf("[OTP] Code delivery failed for %s: %v", email, err)
		if s.cfg.Production() {
			return "", err
		}
	}

	return code, nil
}

// VerifyLogin checks the submitted code against the pending record.
// On success it issues a session token and purges the record; the code
// is single-use.
func (s *OTPService) VerifyLogin(email, code string) (string, *models.User, error) {
	otp, err := s.otps.LatestPending(email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", nil, ErrOtpNotFound
		}
		return "", nil, err
	}

	if otp.ExpiresAt.Before(time.Now()) {
		if err := s.otps.Delete(otp.ID); err != nil {
			return "", nil, err
		}
		return "", nil, ErrOtpNotFound
	}

	if otp.Attempts >= s.cfg.OTPMaxAttempts {
		if err := s.otps.Delete(otp.ID); err != nil {
			return "", nil, err
		}
		return "", nil, ErrTooManyAttempts
	}

	if otp.Code != code {
		otp.Attempts++
		if err := s.otps.Save(otp); err != nil {
			return "", nil, err
		}
		return "", nil, &InvalidOtpError{Remaining: s.cfg.OTPMaxAttempts - otp.Attempts}
	}

	otp.Verified = true
	if err := s.otps.Save(otp); err != nil {
		return "", nil, err
	}

	user, err := s.users.GetByEmail(email)
	if err != nil {
		return "", nil, err
	}

	token, err := utils.GenerateToken(s.cfg.JWTSecret, user.ID, user.Email, user.Role, s.cfg.TokenExpires)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if err := s.otps.Delete(otp.ID); err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// generateOTP returns a uniformly random 6-digit code in [100000, 999999].
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
