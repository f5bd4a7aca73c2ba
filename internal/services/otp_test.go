package services_test

import (
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jasleenkaur1801/leeyaherbals-server/internal/config"
	"github.com/jasleenkaur1801/leeyaherbals-server/internal/models"
	"github.com/jasleenkaur1801/leeyaherbals-server/internal/repositories"
	"github.com/jasleenkaur1801/leeyaherbals-server/internal/services"
	"github.com/jasleenkaur1801/leeyaherbals-server/internal/utils"
)

// MockUserRepository is a mock implementation of repositories.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id uuid.UUID) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Save(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

// recordingMailer captures sent codes; Fail makes every send error.
type recordingMailer struct {
	sent []string
	Fail bool
}

func (m *recordingMailer) SendOTP(email, code string) error {
	if m.Fail {
		return &services.GatewayError{Provider: "smtp", Err: errors.New("relay refused")}
	}
	m.sent = append(m.sent, code)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:         "test",
		JWTSecret:      "test_jwt_secret",
		TokenExpires:   time.Hour,
		OTPTTL:         10 * time.Minute,
		OTPMaxAttempts: 3,
	}
}

func newTestUser(email, password string) *models.User {
	hash, _ := utils.HashPassword(password)
	user := &models.User{Email: email, Name: "Test User", PasswordHash: hash, Role: models.RoleUser}
	user.ID = uuid.New()
	return user
}

func notFoundErr(email string) error {
	return fmt.Errorf("user %s: %w", email, repositories.ErrNotFound)
}

func TestOTPService_StartLogin(t *testing.T) {
	users := new(MockUserRepository)
	otps := repositories.NewMockOTPRepository()
	mailer := &recordingMailer{}
	svc := services.NewOTPService(users, otps, mailer, testConfig())

	user := newTestUser("a@b.com", "Secret1!")
	users.On("GetByEmail", "a@b.com").Return(user, nil)

	code, err := svc.StartLogin("a@b.com", "Secret1!")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), code)
	assert.Equal(t, []string{code}, mailer.sent)

	rec, err := otps.LatestPending("a@b.com")
	require.NoError(t, err)
	assert.Equal(t, code, rec.Code)
	assert.Equal(t, 0, rec.Attempts)
	assert.False(t, rec.Verified)
	assert.Equal(t, 1, otps.Count("a@b.com"))
}

func TestOTPService_StartLoginReplacesPriorCode(t *testing.T) {
	users := new(MockUserRepository)
	otps := repositories.NewMockOTPRepository()
	svc := services.NewOTPService(users, otps, &recordingMailer{}, testConfig())

	user := newTestUser("a@b.com", "Secret1!")
	users.On("GetByEmail", "a@b.com").Return(user, nil)

	_, err := svc.StartLogin("a@b.com", "Secret1!")
	require.NoError(t, err)
	second, err := svc.StartLogin("a@b.com", "Secret1!")
	require.NoError(t, err)

	// Exactly one pending record, holding the newest code.
	assert.Equal(t, 1, otps.Count("a@b.com"))
	rec, err := otps.LatestPending("a@b.com")
	require.NoError(t, err)
	assert.Equal(t, second, rec.Code)
}

func TestOTPService_StartLoginInvalidCredentials(t *testing.T) {
	users := new(MockUserRepository)
	otps := repositories.NewMockOTPRepository()
	svc := services.NewOTPService(users, otps, &recordingMailer{}, testConfig())

	user := newTestUser("a@b.com", "Secret1!")
	users.On("GetByEmail", "a@b.com").Return(user, nil)
	users.On("GetByEmail", "ghost@b.com").Return(nil, notFoundErr("ghost@b.com"))

	_, wrongPassword := svc.StartLogin("a@b.com", "nope")
	_, unknownUser := svc.StartLogin("ghost@b.com", "whatever")

	// Same error for both, so accounts cannot be enumerated.
	assert.ErrorIs(t, wrongPassword, services.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, services.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
	assert.Equal(t, 0, otps.Count("a@b.com"))
}

func TestOTPService_StartLoginMailFailure(t *testing.T) {
	users := new(MockUserRepository)
	user := newTestUser("a@b.com", "Secret1!")
	users.On("GetByEmail", "a@b.com").Return(user, nil)

	// Outside production a failed delivery does not fail the call.
	devCfg := testConfig()
	svc := services.NewOTPService(users, repositories.NewMockOTPRepository(), &recordingMailer{Fail: true}, devCfg)
	_, err := svc.StartLogin("a@b.com", "Secret1!")
	assert.NoError(t, err)

	prodCfg := testConfig()
	prodCfg.AppEnv = "production"
	svc = services.NewOTPService(users, repositories.NewMockOTPRepository(), &recordingMailer{Fail: true}, prodCfg)
	_, err = svc.StartLogin("a@b.com", "Secret1!")
	var gatewayErr *services.GatewayError
	assert.ErrorAs(t, err, &gatewayErr)
}

func TestOTPService_VerifyLogin(t *testing.T) {
	users := new(MockUserRepository)
	otps := repositories.NewMockOTPRepository()
	cfg := testConfig()
	svc := services.NewOTPService(users, otps, &recordingMailer{}, cfg)

	user := newTestUser("a@b.com", "Secret1!")
	users.On("GetByEmail", "a@b.com").Return(user, nil)

	code, err := svc.StartLogin("a@b.com", "Secret1!")
	require.NoError(t, err)

	token, got, err := svc.VerifyLogin("a@b.com", code)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	claims, err := utils.ParseToken(cfg.JWTSecret, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, models.RoleUser, claims.Role)

	// The code is single-use: the record is gone.
	assert.Equal(t, 0, otps.Count("a@b.com"))
	_, _, err = svc.VerifyLogin("a@b.com", code)
	assert.ErrorIs(t, err, services.ErrOtpNotFound)
}

func TestOTPService_VerifyLoginNoPendingCode(t *testing.T) {
	users := new(MockUserRepository)
	svc := services.NewOTPService(users, repositories.NewMockOTPRepository(), &recordingMailer{}, testConfig())

	_, _, err := svc.VerifyLogin("a@b.com", "123456")
	assert.ErrorIs(t, err, services.ErrOtpNotFound)
}

func TestOTPService_VerifyLoginMismatchCountsAttempts(t *testing.T) {
	users := new(MockUserRepository)
	otps := repositories.NewMockOTPRepository()
	svc := services.NewOTPService(users, otps, &recordingMailer{}, testConfig())

	user := newTestUser("a@b.com", "Secret1!")
	users.On("GetByEmail", "a@b.com").Return(user, nil)

	code, err := svc.StartLogin("a@b.com", "Secret1!")
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	for i, remaining := range []int{2, 1, 0} {
		_, _, err := svc.VerifyLogin("a@b.com", wrong)
		var invalidOtp *services.InvalidOtpError
		require.ErrorAs(t, err, &invalidOtp, "attempt %d", i+1)
		assert.Equal(t, remaining, invalidOtp.Remaining)
	}

	// Fourth call fails even with the correct code, and the record is purged.
	_, _, err = svc.VerifyLogin("a@b.com", code)
	assert.ErrorIs(t, err, services.ErrTooManyAttempts)
	assert.Equal(t, 0, otps.Count("a@b.com"))

	_, _, err = svc.VerifyLogin("a@b.com", code)
	assert.ErrorIs(t, err, services.ErrOtpNotFound)
}

func TestOTPService_VerifyLoginExpiredCode(t *testing.T) {
	users := new(MockUserRepository)
	otps := repositories.NewMockOTPRepository()
	svc := services.NewOTPService(users, otps, &recordingMailer{}, testConfig())

	expired := &models.OTPVerification{
		Email:     "a@b.com",
		Code:      "482913",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, otps.Create(expired))

	_, _, err := svc.VerifyLogin("a@b.com", "482913")
	assert.ErrorIs(t, err, services.ErrOtpNotFound)
	assert.Equal(t, 0, otps.Count("a@b.com"))
}

func TestOTPService_Resend(t *testing.T) {
	users := new(MockUserRepository)
	otps := repositories.NewMockOTPRepository()
	mailer := &recordingMailer{}
	svc := services.NewOTPService(users, otps, mailer, testConfig())

	user := newTestUser("a@b.com", "Secret1!")
	users.On("GetByEmail", "a@b.com").Return(user, nil)
	users.On("GetByEmail", "ghost@b.com").Return(nil, notFoundErr("ghost@b.com"))

	_, err := svc.Resend("ghost@b.com")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	// No password needed for a resend, and it replaces the pending code.
	first, err := svc.StartLogin("a@b.com", "Secret1!")
	require.NoError(t, err)
	second, err := svc.Resend("a@b.com")
	require.NoError(t, err)

	assert.Equal(t, 1, otps.Count("a@b.com"))
	rec, err := otps.LatestPending("a@b.com")
	require.NoError(t, err)
	assert.Equal(t, second, rec.Code)
	assert.Equal(t, []string{first, second}, mailer.sent)
}
