// Copyright (c) 2026 Planora. All rights reserved.
// Author: duc.nguyenvan.it@gmail.com

/*
Package auth implements the core identity and access management system.

It handles everything from user registration and secure password hashing to
session lifecycle management via paired JWT access and refresh tokens.

Architecture:

  - Service: Orchestrates business logic (Register, Login, Refresh, Logout).
  - Repository: Abstracted interfaces for Postgres (Users) and Redis (reset tokens).
  - Security: Leverages bcrypt hashing and HMAC-signed JWTs with a distinct
    secret per token kind.

The package ensures that identity data remains consistent and secure throughout
the platform's lifecycle.
*/
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ducnv-dev/planora/internal/platform/apperr"
	"github.com/ducnv-dev/planora/internal/platform/dberr"
	"github.com/ducnv-dev/planora/internal/platform/sec"
	"github.com/ducnv-dev/planora/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for generating and verifying security tokens.
type TokenProvider interface {
	// IssueAccessToken creates a signed, short-lived access token. Name and
	// email are embedded so /me needs no storage access.
	IssueAccessToken(userID, name, email string) (string, error)

	// IssueRefreshToken creates a signed, long-lived refresh token carrying
	// only the subject.
	IssueRefreshToken(userID string) (string, error)

	// Verify checks signature, expiry, and kind. All failures collapse into
	// sec.ErrInvalidToken.
	Verify(signedToken string, expectedKind sec.TokenKind) (*sec.AuthClaims, error)

	// AccessTTL reports the configured access token lifetime.
	AccessTTL() time.Duration

	// RefreshTTL reports the configured refresh token lifetime.
	RefreshTTL() time.Duration
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed carefully.
type Service struct {
	userRepository       UserRepository
	resetTokenRepository ResetTokenRepository
	tokenProvider        TokenProvider
	logger               *slog.Logger
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	resetRepo ResetTokenRepository,
	tokenProv TokenProvider,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepository:       userRepo,
		resetTokenRepository: resetRepo,
		tokenProvider:        tokenProv,
		logger:               logger,
	}
}

// NormalizeEmail lowercases and trims an email for case-insensitive matching.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Account creation only. Registration deliberately issues no
tokens; obtaining a session is the job of Login, so the two steps stay
independently auditable.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity (public projection, hash never serialized)
  - err: apperr.EmailExists or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	email := NormalizeEmail(input.Email)

	// Verify email uniqueness. Return a client-safe err.
	if _, err := service.userRepository.FindByEmail(context, email); err == nil {
		return nil, apperr.EmailExists()
	}

	// Prevent storing plain-text passwords. Hashing happens here, explicitly,
	// before the repository call. No persistence hook ever touches passwords.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hashedPassword,
	}

	// Persist the user to the database. Two racing registrations can both
	// pass the lookup above; the unique index on email settles it.
	if err := service.userRepository.Create(context, user); err != nil {
		if dberr.IsUniqueViolation(err) {
			return nil, apperr.EmailExists()
		}
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	service.logger.Info("user_registered", slog.String("user_id", user.ID))

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *User
}

/*
Login validates user credentials and issues security tokens.

Description: Verifies identity, performs constant-time password comparison,
and establishes the user's single active session. The stored refresh token
digest is overwritten, so any previously issued refresh token stops working.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready session credentials
  - err: apperr.InvalidCredentials or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	user, err := service.userRepository.FindByEmail(context, NormalizeEmail(input.Email))

	// If (err != nil) the user does not exist. Identical error to the
	// wrong-password case below, to prevent email enumeration.
	if err != nil {
		return nil, apperr.InvalidCredentials()
	}

	// Verify password hash using bcrypt's constant-time comparison.
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.InvalidCredentials()
	}

	// Generate short-lived Access Token
	accessToken, err := service.tokenProvider.IssueAccessToken(user.ID, user.Name, user.Email)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	// Generate long-lived Refresh Token
	refreshToken, err := service.tokenProvider.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	// Persist only the digest. Overwriting enforces the single-active-session
	// policy: one stored refresh token per user.
	tokenHash := sec.HashToken(refreshToken)
	if err := service.userRepository.SetRefreshTokenHash(context, user.ID, &tokenHash); err != nil {
		return nil, fmt.Errorf("auth_service_session_persist_failed: %w", err)
	}

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: time.Now().Add(service.tokenProvider.RefreshTTL()),
		User:                  user,
	}, nil
}

// # Session Management

/*
Refresh implements the refresh-token rotation mechanism.

Description: Verifies the presented refresh token cryptographically AND
against the stored digest, so a superseded or revoked token is rejected even
while its signature and expiry are still valid. On success the refresh token
is rotated and the new digest persisted.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - *LoginSession: Fresh access token plus rotated refresh token
  - err: apperr.InvalidToken or storage failures
*/
func (service *Service) Refresh(context context.Context, refreshToken string) (*LoginSession, error) {

	// Cryptographic check: signature against the refresh secret, expiry, and
	// kind. An access token can never pass here.
	claims, err := service.tokenProvider.Verify(refreshToken, sec.TokenKindRefresh)
	if err != nil {
		return nil, apperr.InvalidToken(err)
	}

	// Resolve the subject. A deleted user cannot refresh.
	user, err := service.userRepository.FindByID(context, claims.UserID)
	if err != nil {
		return nil, apperr.InvalidToken(err)
	}

	// Supersession check: the presented token must be the one currently on
	// record. Replay of a rotated or logged-out token stops here.
	if user.RefreshTokenHash == nil || *user.RefreshTokenHash != sec.HashToken(refreshToken) {
		return nil, apperr.InvalidToken(nil)
	}

	// Generate a fresh Access Token
	accessToken, err := service.tokenProvider.IssueAccessToken(user.ID, user.Name, user.Email)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_access_token_failed: %w", err)
	}

	// Rotation: issue a new refresh token and persist its digest, consuming
	// the presented one.
	newRefreshToken, err := service.tokenProvider.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_rotate_failed: %w", err)
	}

	newHash := sec.HashToken(newRefreshToken)
	if err := service.userRepository.SetRefreshTokenHash(context, user.ID, &newHash); err != nil {
		return nil, fmt.Errorf("auth_service_refresh_persist_failed: %w", err)
	}

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          newRefreshToken,
		RefreshTokenExpiresAt: time.Now().Add(service.tokenProvider.RefreshTTL()),
		User:                  user,
	}, nil
}

/*
Logout permanently invalidates the user's active session.

Description: Clears the stored refresh token digest, so any previously issued
refresh token fails the supersession check in Refresh. Idempotent: logging
out twice, or with no active session, succeeds silently.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - err: Revocation failures
*/
func (service *Service) Logout(context context.Context, userID string) error {
	if err := service.userRepository.SetRefreshTokenHash(context, userID, nil); err != nil {

		// An already-gone user means there is no session left to revoke.
		if apperr.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	return nil
}

/*
CurrentUser projects the middleware-resolved identity.

Description: Pure function of the verified access token claims; performs no
repository access beyond what authentication already did.

Parameters:
  - claims: *sec.AuthClaims

Returns:
  - *Identity: Claims-derived public identity
*/
func (service *Service) CurrentUser(claims *sec.AuthClaims) *Identity {
	return &Identity{
		ID:    claims.UserID,
		Name:  claims.Name,
		Email: claims.Email,
	}
}

// # Password Recovery

/*
RequestPasswordReset initiates the forgot-password flow.

Description: Generates a secure token and saves it to Redis with a short TTL.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - string: Reset token (empty when the email is unknown)
  - err: Generation errors
*/
func (service *Service) RequestPasswordReset(context context.Context, email string) (string, error) {
	// NOTE: We don't return NOT_FOUND if the email doesn't exist to prevent user enumeration.
	user, err := service.userRepository.FindByEmail(context, NormalizeEmail(email))
	if err != nil {
		return "", nil
	}

	// Generate reset token
	token, err := sec.GenerateSecureToken(ResetTokenLength)
	if err != nil {
		return "", fmt.Errorf("auth_service_generate_reset_token_failed: %w", err)
	}

	// Save to Redis
	if err := service.resetTokenRepository.Set(context, token, user.ID, ResetTokenTTL); err != nil {
		return "", fmt.Errorf("auth_service_save_reset_token_failed: %w", err)
	}

	return token, nil
}

/*
ResetPassword completes the forgot-password flow.

Description: Verifies the token, hashes the new password, updates storage,
and revokes the active session for security cleanup.

Parameters:
  - context: context.Context
  - token: string
  - newPassword: string

Returns:
  - err: Validation or update failures
*/
func (service *Service) ResetPassword(context context.Context, token, newPassword string) error {

	// Retrieve the userID associated with the reset token from Redis
	userID, err := service.resetTokenRepository.Get(context, token)
	if err != nil {
		return err
	}

	// Hash the new password securely
	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_reset_password_hash_failed: %w", err)
	}

	// Update the user's password in persistent storage
	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_reset_password_update_failed: %w", err)
	}

	// Security Cleanup: force a fresh login everywhere
	_ = service.userRepository.SetRefreshTokenHash(context, userID, nil)

	// Delete the used token from Redis
	_ = service.resetTokenRepository.Delete(context, token)

	return nil
}
