// Copyright (c) 2026 Planora. All rights reserved.
// Author: duc.nguyenvan.it@gmail.com

package auth_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducnv-dev/planora/internal/platform/apperr"
	"github.com/ducnv-dev/planora/internal/platform/sec"
	"github.com/ducnv-dev/planora/internal/users/auth"
)

// # Test Fixtures

// fakeUserRepository is an in-memory UserRepository double.
type fakeUserRepository struct {
	usersByID map[string]*auth.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{usersByID: make(map[string]*auth.User)}
}

func (repo *fakeUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	user, found := repo.usersByID[id]
	if !found {
		return nil, apperr.NotFound("User")
	}
	clone := *user
	return &clone, nil
}

func (repo *fakeUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	for _, user := range repo.usersByID {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUserRepository) Create(_ context.Context, user *auth.User) error {
	clone := *user
	repo.usersByID[user.ID] = &clone
	return nil
}

func (repo *fakeUserRepository) UpdatePassword(_ context.Context, userID, newHash string) error {
	user, found := repo.usersByID[userID]
	if !found {
		return apperr.NotFound("User")
	}
	user.PasswordHash = newHash
	return nil
}

func (repo *fakeUserRepository) SetRefreshTokenHash(_ context.Context, userID string, tokenHash *string) error {
	user, found := repo.usersByID[userID]
	if !found {
		return apperr.NotFound("User")
	}
	user.RefreshTokenHash = tokenHash
	return nil
}

// fakeResetTokenRepository is an in-memory ResetTokenRepository double.
type fakeResetTokenRepository struct {
	tokens map[string]string
}

func newFakeResetTokenRepository() *fakeResetTokenRepository {
	return &fakeResetTokenRepository{tokens: make(map[string]string)}
}

func (repo *fakeResetTokenRepository) Set(_ context.Context, token, userID string, _ time.Duration) error {
	repo.tokens[token] = userID
	return nil
}

func (repo *fakeResetTokenRepository) Get(_ context.Context, token string) (string, error) {
	userID, found := repo.tokens[token]
	if !found {
		return "", apperr.NotFound("Reset token")
	}
	return userID, nil
}

func (repo *fakeResetTokenRepository) Delete(_ context.Context, token string) error {
	delete(repo.tokens, token)
	return nil
}

type testHarness struct {
	service    *auth.Service
	userRepo   *fakeUserRepository
	resetRepo  *fakeResetTokenRepository
	tokenIssue *sec.TokenIssuer
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	issuer, err := sec.NewTokenIssuer(sec.TokenConfig{
		AccessSecret:  []byte("test-access-secret-for-auth-tests"),
		RefreshSecret: []byte("test-refresh-secret-for-auth-tests"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    time.Hour,
		Issuer:        "planora.app",
	})
	require.NoError(t, err)

	userRepo := newFakeUserRepository()
	resetRepo := newFakeResetTokenRepository()

	return &testHarness{
		service:    auth.NewService(userRepo, resetRepo, issuer, slog.New(slog.DiscardHandler)),
		userRepo:   userRepo,
		resetRepo:  resetRepo,
		tokenIssue: issuer,
	}
}

func (harness *testHarness) register(t *testing.T, email, password string) *auth.User {
	t.Helper()

	user, err := harness.service.Register(context.Background(), auth.RegisterInput{
		Name:     "Test User",
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)

	return user
}

// # Registration

/*
TestService_Register verifies account creation and the email uniqueness rule.
*/
func TestService_Register(t *testing.T) {
	harness := newTestHarness(t)

	user, err := harness.service.Register(context.Background(), auth.RegisterInput{
		Name:     "  Nguyen Van A  ",
		Email:    "A@Planora.APP",
		Password: "super-secret",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Nguyen Van A", user.Name)

	// Email is normalized to lowercase.
	assert.Equal(t, "a@planora.app", user.Email)

	// The password is stored only as a hash.
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "super-secret", user.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("super-secret", user.PasswordHash))

	// No session exists after registration.
	assert.Nil(t, user.RefreshTokenHash)
}

/*
TestService_Register_DuplicateEmail verifies that re-registering an email
fails with EMAIL_EXISTS, regardless of case.
*/
func TestService_Register_DuplicateEmail(t *testing.T) {
	harness := newTestHarness(t)
	harness.register(t, "taken@planora.app", "password-one")

	_, err := harness.service.Register(context.Background(), auth.RegisterInput{
		Name:     "Someone Else",
		Email:    "TAKEN@planora.app",
		Password: "password-two",
	})

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "EMAIL_EXISTS", appError.Code)
	assert.Equal(t, 400, appError.HTTPStatus)
}

// # Login

/*
TestService_Login verifies credential checking and session establishment.
*/
func TestService_Login(t *testing.T) {
	harness := newTestHarness(t)
	registered := harness.register(t, "user@planora.app", "correct-password")

	session, err := harness.service.Login(context.Background(), auth.LoginInput{
		Email:    "User@Planora.app",
		Password: "correct-password",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)
	assert.NotEqual(t, session.AccessToken, session.RefreshToken)
	assert.Equal(t, registered.ID, session.User.ID)

	// The stored digest matches the issued refresh token.
	stored := harness.userRepo.usersByID[registered.ID]
	require.NotNil(t, stored.RefreshTokenHash)
	assert.Equal(t, sec.HashToken(session.RefreshToken), *stored.RefreshTokenHash)

	// The access token verifies and carries the identity.
	claims, err := harness.tokenIssue.Verify(session.AccessToken, sec.TokenKindAccess)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
	assert.Equal(t, registered.Email, claims.Email)
}

/*
TestService_Login_IndistinguishableFailures verifies that an unknown email and
a wrong password produce byte-identical errors, preventing enumeration.
*/
func TestService_Login_IndistinguishableFailures(t *testing.T) {
	harness := newTestHarness(t)
	harness.register(t, "known@planora.app", "correct-password")

	_, unknownEmailErr := harness.service.Login(context.Background(), auth.LoginInput{
		Email:    "unknown@planora.app",
		Password: "whatever",
	})
	require.Error(t, unknownEmailErr)

	_, wrongPasswordErr := harness.service.Login(context.Background(), auth.LoginInput{
		Email:    "known@planora.app",
		Password: "incorrect",
	})
	require.Error(t, wrongPasswordErr)

	unknownAppError := apperr.As(unknownEmailErr)
	wrongAppError := apperr.As(wrongPasswordErr)
	require.NotNil(t, unknownAppError)
	require.NotNil(t, wrongAppError)

	assert.Equal(t, "INVALID_CREDENTIALS", unknownAppError.Code)
	assert.Equal(t, unknownAppError.Code, wrongAppError.Code)
	assert.Equal(t, unknownAppError.Message, wrongAppError.Message)
	assert.Equal(t, unknownAppError.HTTPStatus, wrongAppError.HTTPStatus)
}

/*
TestService_Login_SupersedesPreviousSession verifies the single-active-session
policy: a second login invalidates the first session's refresh token.
*/
func TestService_Login_SupersedesPreviousSession(t *testing.T) {
	harness := newTestHarness(t)
	harness.register(t, "user@planora.app", "password-123")

	first, err := harness.service.Login(context.Background(), auth.LoginInput{
		Email: "user@planora.app", Password: "password-123",
	})
	require.NoError(t, err)

	second, err := harness.service.Login(context.Background(), auth.LoginInput{
		Email: "user@planora.app", Password: "password-123",
	})
	require.NoError(t, err)

	// The superseded refresh token no longer refreshes.
	_, err = harness.service.Refresh(context.Background(), first.RefreshToken)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "INVALID_TOKEN", appError.Code)

	// The current one does.
	_, err = harness.service.Refresh(context.Background(), second.RefreshToken)
	assert.NoError(t, err)
}

// # Refresh

/*
TestService_Refresh verifies rotation: a successful refresh issues a new pair
and consumes the presented token.
*/
func TestService_Refresh(t *testing.T) {
	harness := newTestHarness(t)
	registered := harness.register(t, "user@planora.app", "password-123")

	session, err := harness.service.Login(context.Background(), auth.LoginInput{
		Email: "user@planora.app", Password: "password-123",
	})
	require.NoError(t, err)

	refreshed, err := harness.service.Refresh(context.Background(), session.RefreshToken)
	require.NoError(t, err)

	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEqual(t, session.RefreshToken, refreshed.RefreshToken)
	assert.Equal(t, registered.ID, refreshed.User.ID)

	// The old token was consumed by rotation.
	_, err = harness.service.Refresh(context.Background(), session.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, "INVALID_TOKEN", apperr.As(err).Code)

	// The rotated token works.
	_, err = harness.service.Refresh(context.Background(), refreshed.RefreshToken)
	assert.NoError(t, err)
}

/*
TestService_Refresh_RejectsAccessToken verifies kind isolation at the service
boundary: an access token presented as a refresh token is rejected.
*/
func TestService_Refresh_RejectsAccessToken(t *testing.T) {
	harness := newTestHarness(t)
	harness.register(t, "user@planora.app", "password-123")

	session, err := harness.service.Login(context.Background(), auth.LoginInput{
		Email: "user@planora.app", Password: "password-123",
	})
	require.NoError(t, err)

	_, err = harness.service.Refresh(context.Background(), session.AccessToken)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "INVALID_TOKEN", appError.Code)
}

/*
TestService_Refresh_Garbage verifies malformed input fails with INVALID_TOKEN.
*/
func TestService_Refresh_Garbage(t *testing.T) {
	harness := newTestHarness(t)

	_, err := harness.service.Refresh(context.Background(), "not-a-jwt")
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "INVALID_TOKEN", appError.Code)
	assert.Equal(t, 401, appError.HTTPStatus)
}

// # Logout

/*
TestService_Logout verifies revocation and idempotency.
*/
func TestService_Logout(t *testing.T) {
	harness := newTestHarness(t)
	registered := harness.register(t, "user@planora.app", "password-123")

	session, err := harness.service.Login(context.Background(), auth.LoginInput{
		Email: "user@planora.app", Password: "password-123",
	})
	require.NoError(t, err)

	require.NoError(t, harness.service.Logout(context.Background(), registered.ID))

	// The digest is cleared.
	assert.Nil(t, harness.userRepo.usersByID[registered.ID].RefreshTokenHash)

	// The old refresh token is dead even though its signature is still valid.
	_, err = harness.service.Refresh(context.Background(), session.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, "INVALID_TOKEN", apperr.As(err).Code)

	// Logout is idempotent: a second call, and one for an unknown user, succeed.
	assert.NoError(t, harness.service.Logout(context.Background(), registered.ID))
	assert.NoError(t, harness.service.Logout(context.Background(), "missing-user"))
}

// # Current User

/*
TestService_CurrentUser verifies the pure claims projection.
*/
func TestService_CurrentUser(t *testing.T) {
	harness := newTestHarness(t)

	identity := harness.service.CurrentUser(&sec.AuthClaims{
		UserID: "user-1",
		Name:   "Nguyen Van A",
		Email:  "a@planora.app",
	})

	assert.Equal(t, "user-1", identity.ID)
	assert.Equal(t, "Nguyen Van A", identity.Name)
	assert.Equal(t, "a@planora.app", identity.Email)
}

// # Password Recovery

/*
TestService_PasswordReset covers the full forgot/reset cycle, including the
global sign-out that accompanies a password change.
*/
func TestService_PasswordReset(t *testing.T) {
	harness := newTestHarness(t)
	registered := harness.register(t, "user@planora.app", "old-password")

	session, err := harness.service.Login(context.Background(), auth.LoginInput{
		Email: "user@planora.app", Password: "old-password",
	})
	require.NoError(t, err)

	token, err := harness.service.RequestPasswordReset(context.Background(), "user@planora.app")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, harness.service.ResetPassword(context.Background(), token, "new-password"))

	// Old credentials no longer work; new ones do.
	_, err = harness.service.Login(context.Background(), auth.LoginInput{
		Email: "user@planora.app", Password: "old-password",
	})
	assert.Error(t, err)

	_, err = harness.service.Login(context.Background(), auth.LoginInput{
		Email: "user@planora.app", Password: "new-password",
	})
	assert.NoError(t, err)

	// The pre-reset session is revoked.
	_, err = harness.service.Refresh(context.Background(), session.RefreshToken)
	assert.Error(t, err)

	// The reset token is single-use.
	err = harness.service.ResetPassword(context.Background(), token, "another-password")
	assert.Error(t, err)

	_ = registered
}

/*
TestService_RequestPasswordReset_UnknownEmail verifies the silent success path
that hides whether an email is registered.
*/
func TestService_RequestPasswordReset_UnknownEmail(t *testing.T) {
	harness := newTestHarness(t)

	token, err := harness.service.RequestPasswordReset(context.Background(), "nobody@planora.app")
	assert.NoError(t, err)
	assert.Empty(t, token)
	assert.Empty(t, harness.resetRepo.tokens)
}
