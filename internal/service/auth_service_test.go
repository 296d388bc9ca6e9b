package service

import (
	"context"
	"testing"
	"time"

	"investchat-be/internal/dto"
	"investchat-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// A structurally valid CPF (passes the mod-11 check digits).
const testCPF = "529.982.247-25"

func validRegisterRequest() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		FullName:  "Maria da Silva",
		Email:     "maria@example.com",
		Password:  "s3nha-forte",
		CPF:       testCPF,
		Phone:     "(11) 98765-4321",
		BirthDate: "1990-05-20",
		Address: dto.AddressDTO{
			CEP:      "01310-100",
			Street:   "Avenida Paulista",
			Number:   "1000",
			District: "Bela Vista",
			City:     "São Paulo",
			State:    "SP",
		},
	}
}

func newAuthFixture() (*fakeUnitOfWork, *fakeEmailService, IAuthService) {
	uow := newFakeUnitOfWork()
	emails := &fakeEmailService{}
	svc := NewAuthService(&fakeUowFactory{uow: uow}, emails, nil, &fakeLoginPublisher{})
	return uow, emails, svc
}

func registerActiveUser(t *testing.T, uow *fakeUnitOfWork, svc IAuthService) *entity.User {
	t.Helper()
	resp, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)
	require.NoError(t, uow.users.ActivateUser(context.Background(), resp.Id))
	user, err := uow.users.FindOne(context.Background())
	require.NoError(t, err)
	return user
}

func TestRegister(t *testing.T) {
	uow, _, svc := newAuthFixture()

	resp, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)
	assert.Equal(t, "maria@example.com", resp.Email)

	require.Len(t, uow.users.users, 1)
	user := uow.users.users[0]

	// Documents are stored digits-only
	assert.Equal(t, "52998224725", user.CPF)
	assert.Equal(t, "11987654321", user.Phone)
	assert.Equal(t, "01310100", user.Address.CEP)

	// New accounts wait for OTP verification
	assert.Equal(t, entity.UserStatusPending, user.Status)
	assert.False(t, user.EmailVerified)

	// Password never stored in clear
	require.NotNil(t, user.PasswordHash)
	assert.NotEqual(t, "s3nha-forte", *user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte("s3nha-forte")))

	// A 6-digit OTP token was issued
	require.Len(t, uow.users.otpTokens, 1)
	assert.Len(t, uow.users.otpTokens[0].Token, 6)
}

func TestRegisterRejectsInvalidDocuments(t *testing.T) {
	_, _, svc := newAuthFixture()

	badCPF := validRegisterRequest()
	badCPF.CPF = "111.111.111-11"
	_, err := svc.Register(context.Background(), badCPF)
	assert.EqualError(t, err, "invalid cpf")

	badCEP := validRegisterRequest()
	badCEP.Address.CEP = "1234"
	_, err = svc.Register(context.Background(), badCEP)
	assert.EqualError(t, err, "invalid cep")

	badDate := validRegisterRequest()
	badDate.BirthDate = "20/05/1990"
	_, err = svc.Register(context.Background(), badDate)
	assert.EqualError(t, err, "invalid birth date")
}

func TestRegisterDuplicateEmailAndCPF(t *testing.T) {
	_, _, svc := newAuthFixture()

	_, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)

	dup := validRegisterRequest()
	_, err = svc.Register(context.Background(), dup)
	assert.EqualError(t, err, "email already registered")

	// Same CPF under a different email is still rejected
	dupCPF := validRegisterRequest()
	dupCPF.Email = "other@example.com"
	_, err = svc.Register(context.Background(), dupCPF)
	assert.EqualError(t, err, "cpf already registered")
}

func TestVerifyEmail(t *testing.T) {
	uow, _, svc := newAuthFixture()

	resp, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)
	otp := uow.users.otpTokens[0].Token

	// Wrong code first
	err = svc.VerifyEmail(context.Background(), &dto.VerifyEmailRequest{Email: resp.Email, Token: "000000"})
	require.Error(t, err)

	err = svc.VerifyEmail(context.Background(), &dto.VerifyEmailRequest{Email: resp.Email, Token: otp})
	require.NoError(t, err)

	user, err := uow.users.FindOne(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entity.UserStatusActive, user.Status)
	assert.True(t, user.EmailVerified)

	// Token is single use
	assert.Empty(t, uow.users.otpTokens)
}

func TestVerifyEmailExpiredOTP(t *testing.T) {
	uow, _, svc := newAuthFixture()

	resp, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)

	uow.users.otpTokens[0].ExpiresAt = time.Now().Add(-time.Minute)
	err = svc.VerifyEmail(context.Background(), &dto.VerifyEmailRequest{Email: resp.Email, Token: uow.users.otpTokens[0].Token})
	assert.EqualError(t, err, "otp code expired")
}

func TestLogin(t *testing.T) {
	uow, _, svc := newAuthFixture()
	registerActiveUser(t, uow, svc)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "maria@example.com",
		Password: "s3nha-forte",
	}, "203.0.113.7", "Mozilla/5.0")
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "maria@example.com", resp.User.Email)
	// Without remember-me no refresh token is issued
	assert.Empty(t, resp.RefreshToken)
	assert.Empty(t, uow.users.refreshToks)
}

func TestLoginRememberMe(t *testing.T) {
	uow, _, svc := newAuthFixture()
	registerActiveUser(t, uow, svc)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:      "maria@example.com",
		Password:   "s3nha-forte",
		RememberMe: true,
	}, "203.0.113.7", "Mozilla/5.0")
	require.NoError(t, err)

	assert.NotEmpty(t, resp.RefreshToken)
	require.Len(t, uow.users.refreshToks, 1)
	// Only the hash hits storage, never the raw token
	assert.NotEqual(t, resp.RefreshToken, uow.users.refreshToks[0].TokenHash)
	assert.Equal(t, "203.0.113.7", uow.users.refreshToks[0].IpAddress)

	// Logout revokes by the raw token
	require.NoError(t, svc.Logout(context.Background(), resp.RefreshToken))
	assert.True(t, uow.users.refreshToks[0].Revoked)
}

func TestLoginQueuesAccessLogRecord(t *testing.T) {
	uow := newFakeUnitOfWork()
	loginPub := &fakeLoginPublisher{}
	svc := NewAuthService(&fakeUowFactory{uow: uow}, &fakeEmailService{}, nil, loginPub)
	user := registerActiveUser(t, uow, svc)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "maria@example.com",
		Password: "s3nha-forte",
	}, "198.51.100.4", "TestAgent/1.0")
	require.NoError(t, err)

	require.Len(t, loginPub.records, 1)
	assert.Equal(t, user.Id, loginPub.records[0].UserId)
	assert.Equal(t, "198.51.100.4", loginPub.records[0].IpAddress)
	assert.Equal(t, "TestAgent/1.0", loginPub.records[0].UserAgent)
}

func TestLoginFailures(t *testing.T) {
	uow, _, svc := newAuthFixture()

	// Unknown email
	_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "nobody@example.com", Password: "x"}, "", "")
	assert.EqualError(t, err, "invalid credentials")

	resp, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)

	// Unverified account
	_, err = svc.Login(context.Background(), &dto.LoginRequest{Email: "maria@example.com", Password: "s3nha-forte"}, "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email not verified")

	require.NoError(t, uow.users.ActivateUser(context.Background(), resp.Id))

	// Wrong password
	_, err = svc.Login(context.Background(), &dto.LoginRequest{Email: "maria@example.com", Password: "wrong"}, "", "")
	assert.EqualError(t, err, "invalid credentials")

	// Blocked account
	require.NoError(t, uow.users.UpdateStatus(context.Background(), resp.Id, string(entity.UserStatusBlocked)))
	_, err = svc.Login(context.Background(), &dto.LoginRequest{Email: "maria@example.com", Password: "s3nha-forte"}, "", "")
	assert.EqualError(t, err, "user account is blocked")
}

func TestLoginOAuthOnlyAccount(t *testing.T) {
	uow, _, svc := newAuthFixture()
	uow.users.users = []*entity.User{{
		Id:            uuid.New(),
		Email:         "oauth@example.com",
		FullName:      "OAuth User",
		Role:          entity.UserRoleUser,
		Status:        entity.UserStatusActive,
		EmailVerified: true,
		// No password hash: account created through Google
	}}

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "oauth@example.com", Password: "anything"}, "", "")
	assert.EqualError(t, err, "user registered via OAuth")
}

func TestForgotPasswordDoesNotLeakExistence(t *testing.T) {
	uow, _, svc := newAuthFixture()

	// Unknown email still succeeds silently and issues nothing
	require.NoError(t, svc.ForgotPassword(context.Background(), &dto.ForgotPasswordRequest{Email: "ghost@example.com"}))
	assert.Empty(t, uow.users.resetTokens)

	registerActiveUser(t, uow, svc)
	require.NoError(t, svc.ForgotPassword(context.Background(), &dto.ForgotPasswordRequest{Email: "maria@example.com"}))
	require.Len(t, uow.users.resetTokens, 1)
}

func TestResetPassword(t *testing.T) {
	uow, _, svc := newAuthFixture()
	user := registerActiveUser(t, uow, svc)

	require.NoError(t, svc.ForgotPassword(context.Background(), &dto.ForgotPasswordRequest{Email: user.Email}))
	token := uow.users.resetTokens[0].Token

	err := svc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{
		Token:           token,
		NewPassword:     "nova-senha-123",
		ConfirmPassword: "nova-senha-123",
	})
	require.NoError(t, err)

	updated, err := uow.users.FindOne(context.Background())
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*updated.PasswordHash), []byte("nova-senha-123")))

	// The link is single use
	err = svc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{
		Token:           token,
		NewPassword:     "outra-senha",
		ConfirmPassword: "outra-senha",
	})
	assert.EqualError(t, err, "this password reset link has already been used")
}

func TestResetPasswordExpiredToken(t *testing.T) {
	uow, _, svc := newAuthFixture()
	user := registerActiveUser(t, uow, svc)

	require.NoError(t, svc.ForgotPassword(context.Background(), &dto.ForgotPasswordRequest{Email: user.Email}))
	uow.users.resetTokens[0].ExpiresAt = time.Now().Add(-time.Minute)

	err := svc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{
		Token:           uow.users.resetTokens[0].Token,
		NewPassword:     "nova-senha-123",
		ConfirmPassword: "nova-senha-123",
	})
	assert.EqualError(t, err, "this password reset link has expired")
}

func TestResendVerification(t *testing.T) {
	uow, _, svc := newAuthFixture()

	// Unknown email is silently ignored
	require.NoError(t, svc.ResendVerification(context.Background(), &dto.ResendVerificationRequest{Email: "ghost@example.com"}))

	_, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)
	require.Len(t, uow.users.otpTokens, 1)

	require.NoError(t, svc.ResendVerification(context.Background(), &dto.ResendVerificationRequest{Email: "maria@example.com"}))
	assert.Len(t, uow.users.otpTokens, 2)
}
