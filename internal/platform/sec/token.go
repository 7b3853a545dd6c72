// Copyright (c) 2026 Planora. All rights reserved.
// Author: duc.nguyenvan.it@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via interfaces.
package sec

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ducnv-dev/planora/pkg/uuid"
)

// TokenKind discriminates the two credential classes issued by the platform.
type TokenKind string

const (
	// TokenKindAccess is the short-lived credential authorizing API requests.
	TokenKindAccess TokenKind = "access"

	// TokenKindRefresh is the long-lived credential used solely to obtain a
	// new access token.
	TokenKindRefresh TokenKind = "refresh"
)

// ErrInvalidToken is the single verification failure category.
//
// # Security
//
// Expiry, signature mismatch, malformed input, and kind mismatch all collapse
// into this one error. Callers can distinguish "unauthenticated" from system
// errors and nothing more, so a probing client learns nothing about why a
// forged token was rejected.
var ErrInvalidToken = errors.New("sec: invalid token")

// AuthClaims represents the payload embedded inside a Planora JWT.
//
// # Why custom claims?
//
// By embedding the UserID, Name, and Email directly inside the access token,
// the authentication middleware can reconstruct the active user context
// WITHOUT querying the database on every single API request.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Kind distinguishes access tokens from refresh tokens. A token of one
	// kind must never pass verification as the other.
	Kind TokenKind `json:"knd"`

	// Custom application claims are abbreviated to keep the JWT payload small.
	UserID string `json:"uid"`
	Name   string `json:"unm,omitempty"`
	Email  string `json:"eml,omitempty"`
}

// TokenConfig holds the explicit signing configuration for the [TokenIssuer].
//
// Secrets and lifetimes are injected at construction time. No field is read
// from ambient process state.
type TokenConfig struct {
	// AccessSecret signs access tokens. Must differ from RefreshSecret.
	AccessSecret []byte

	// RefreshSecret signs refresh tokens.
	RefreshSecret []byte

	// AccessTTL is the access token lifetime.
	AccessTTL time.Duration

	// RefreshTTL is the refresh token lifetime.
	RefreshTTL time.Duration

	// Issuer is the standard 'iss' claim.
	Issuer string
}

// TokenIssuer creates and verifies signed, time-bound access and refresh
// tokens using HS256 with a distinct secret per token kind.
type TokenIssuer struct {
	config TokenConfig
}

// NewTokenIssuer validates the configuration and constructs a [TokenIssuer].
//
// Construction fails when either secret is empty or when both kinds share the
// same secret, since shared secrets would let a refresh token masquerade as
// an access token.
func NewTokenIssuer(config TokenConfig) (*TokenIssuer, error) {
	if len(config.AccessSecret) == 0 || len(config.RefreshSecret) == 0 {
		return nil, errors.New("sec: token secrets must not be empty")
	}

	if bytes.Equal(config.AccessSecret, config.RefreshSecret) {
		return nil, errors.New("sec: access and refresh secrets must differ")
	}

	if config.AccessTTL <= 0 || config.RefreshTTL <= 0 {
		return nil, errors.New("sec: token lifetimes must be positive")
	}

	return &TokenIssuer{config: config}, nil
}

// IssueAccessToken creates a signed access token for the given user.
//
// Name and email ride along in the claims so /me never touches storage.
func (issuer *TokenIssuer) IssueAccessToken(userID, name, email string) (string, error) {
	return issuer.sign(AuthClaims{
		RegisteredClaims: issuer.registered(userID, issuer.config.AccessTTL),
		Kind:             TokenKindAccess,
		UserID:           userID,
		Name:             name,
		Email:            email,
	}, issuer.config.AccessSecret)
}

// IssueRefreshToken creates a signed refresh token for the given user.
//
// Refresh tokens intentionally carry only the subject. They authorize exactly
// one operation (token refresh), so profile claims have no business here.
func (issuer *TokenIssuer) IssueRefreshToken(userID string) (string, error) {
	return issuer.sign(AuthClaims{
		RegisteredClaims: issuer.registered(userID, issuer.config.RefreshTTL),
		Kind:             TokenKindRefresh,
		UserID:           userID,
	}, issuer.config.RefreshSecret)
}

// Verify checks the signature, expiry, and kind of a signed token string.
//
// The token is verified against the secret belonging to expectedKind, and the
// embedded kind claim must match as well. Every failure mode returns
// [ErrInvalidToken].
func (issuer *TokenIssuer) Verify(signedToken string, expectedKind TokenKind) (*AuthClaims, error) {
	secret := issuer.config.AccessSecret
	if expectedKind == TokenKindRefresh {
		secret = issuer.config.RefreshSecret
	}

	token, err := jwt.ParseWithClaims(signedToken, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	// Defense in depth: the two kinds already use distinct secrets, but the
	// kind claim is checked anyway so a secret misconfiguration cannot
	// silently conflate them.
	if claims.Kind != expectedKind {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// VerifyToken verifies an access token.
//
// It exists to satisfy the middleware's TokenVerifier contract, which only
// ever deals with bearer access tokens.
func (issuer *TokenIssuer) VerifyToken(signedToken string) (*AuthClaims, error) {
	return issuer.Verify(signedToken, TokenKindAccess)
}

// AccessTTL exposes the configured access token lifetime for transport
// metadata (the expires_in response field).
func (issuer *TokenIssuer) AccessTTL() time.Duration {
	return issuer.config.AccessTTL
}

// RefreshTTL exposes the configured refresh token lifetime for cookie expiry.
func (issuer *TokenIssuer) RefreshTTL() time.Duration {
	return issuer.config.RefreshTTL
}

// registered builds the standard claim set shared by both token kinds.
//
// The 'jti' claim makes every issued token globally unique. Without it, two
// tokens minted for the same user within the same second would be
// byte-identical, and the refresh digest stored per user could no longer tell
// a rotated token from the one it replaced.
func (issuer *TokenIssuer) registered(userID string, timeToLive time.Duration) jwt.RegisteredClaims {
	currentTime := time.Now()
	return jwt.RegisteredClaims{
		ID:        uuid.New(),
		Subject:   userID,
		Issuer:    issuer.config.Issuer,
		IssuedAt:  jwt.NewNumericDate(currentTime),
		ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
	}
}

// sign serializes and signs the claim set with HS256 under the given secret.
func (issuer *TokenIssuer) sign(claims AuthClaims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}
