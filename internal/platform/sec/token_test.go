// Copyright (c) 2026 Planora. All rights reserved.
// Author: duc.nguyenvan.it@gmail.com

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducnv-dev/planora/internal/platform/sec"
)

func newTestIssuer(t *testing.T) *sec.TokenIssuer {
	t.Helper()

	issuer, err := sec.NewTokenIssuer(sec.TokenConfig{
		AccessSecret:  []byte("test-access-secret-at-least-32-chars"),
		RefreshSecret: []byte("test-refresh-secret-at-least-32-chars"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    30 * 24 * time.Hour,
		Issuer:        "planora.app",
	})
	require.NoError(t, err)

	return issuer
}

/*
TestNewTokenIssuer_Config verifies the constructor rejects unusable configurations.
*/
func TestNewTokenIssuer_Config(t *testing.T) {
	tests := []struct {
		name    string
		config  sec.TokenConfig
		wantErr bool
	}{
		{
			name: "valid",
			config: sec.TokenConfig{
				AccessSecret:  []byte("access-secret"),
				RefreshSecret: []byte("refresh-secret"),
				AccessTTL:     time.Minute,
				RefreshTTL:    time.Hour,
			},
			wantErr: false,
		},
		{
			name: "empty_access_secret",
			config: sec.TokenConfig{
				RefreshSecret: []byte("refresh-secret"),
				AccessTTL:     time.Minute,
				RefreshTTL:    time.Hour,
			},
			wantErr: true,
		},
		{
			name: "identical_secrets",
			config: sec.TokenConfig{
				AccessSecret:  []byte("same-secret"),
				RefreshSecret: []byte("same-secret"),
				AccessTTL:     time.Minute,
				RefreshTTL:    time.Hour,
			},
			wantErr: true,
		},
		{
			name: "zero_ttl",
			config: sec.TokenConfig{
				AccessSecret:  []byte("access-secret"),
				RefreshSecret: []byte("refresh-secret"),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sec.NewTokenIssuer(tt.config)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

/*
TestTokenIssuer_AccessRoundTrip verifies issuing and verifying an access token
preserves the embedded identity claims.
*/
func TestTokenIssuer_AccessRoundTrip(t *testing.T) {
	issuer := newTestIssuer(t)

	token, err := issuer.IssueAccessToken("user-1", "Nguyen Van A", "a@planora.app")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.Verify(token, sec.TokenKindAccess)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "Nguyen Van A", claims.Name)
	assert.Equal(t, "a@planora.app", claims.Email)
	assert.Equal(t, sec.TokenKindAccess, claims.Kind)
}

/*
TestTokenIssuer_KindIsolation verifies that tokens of one kind never verify as
the other. The secrets differ per kind, so the signature check alone fails.
*/
func TestTokenIssuer_KindIsolation(t *testing.T) {
	issuer := newTestIssuer(t)

	accessToken, err := issuer.IssueAccessToken("user-1", "", "")
	require.NoError(t, err)

	refreshToken, err := issuer.IssueRefreshToken("user-1")
	require.NoError(t, err)

	// An access token must not pass as a refresh token.
	_, err = issuer.Verify(accessToken, sec.TokenKindRefresh)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)

	// A refresh token must not pass as an access token.
	_, err = issuer.Verify(refreshToken, sec.TokenKindAccess)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)

	// Each verifies as its own kind.
	_, err = issuer.Verify(accessToken, sec.TokenKindAccess)
	assert.NoError(t, err)

	_, err = issuer.Verify(refreshToken, sec.TokenKindRefresh)
	assert.NoError(t, err)
}

/*
TestTokenIssuer_RefreshOmitsIdentity verifies that refresh tokens carry only
the subject, never the profile claims.
*/
func TestTokenIssuer_RefreshOmitsIdentity(t *testing.T) {
	issuer := newTestIssuer(t)

	refreshToken, err := issuer.IssueRefreshToken("user-1")
	require.NoError(t, err)

	claims, err := issuer.Verify(refreshToken, sec.TokenKindRefresh)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.UserID)
	assert.Empty(t, claims.Name)
	assert.Empty(t, claims.Email)
}

/*
TestTokenIssuer_UniquePerIssuance verifies that back-to-back issuances for the
same user never produce identical tokens. Session supersession compares stored
digests, so a repeated token string would make a rotated credential
indistinguishable from the one it replaced.
*/
func TestTokenIssuer_UniquePerIssuance(t *testing.T) {
	issuer := newTestIssuer(t)

	// Issued within the same second on purpose; iat/exp alone cannot
	// distinguish these.
	first, err := issuer.IssueRefreshToken("user-1")
	require.NoError(t, err)

	second, err := issuer.IssueRefreshToken("user-1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NotEqual(t, sec.HashToken(first), sec.HashToken(second))

	firstClaims, err := issuer.Verify(first, sec.TokenKindRefresh)
	require.NoError(t, err)

	secondClaims, err := issuer.Verify(second, sec.TokenKindRefresh)
	require.NoError(t, err)

	assert.NotEmpty(t, firstClaims.ID)
	assert.NotEqual(t, firstClaims.ID, secondClaims.ID)

	accessFirst, err := issuer.IssueAccessToken("user-1", "Alice", "alice@planora.app")
	require.NoError(t, err)

	accessSecond, err := issuer.IssueAccessToken("user-1", "Alice", "alice@planora.app")
	require.NoError(t, err)

	assert.NotEqual(t, accessFirst, accessSecond)
}

/*
TestTokenIssuer_InvalidInput verifies every malformed input collapses into the
single ErrInvalidToken category.
*/
func TestTokenIssuer_InvalidInput(t *testing.T) {
	issuer := newTestIssuer(t)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"truncated", "eyJhbGciOiJIUzI1NiJ9.payload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.Verify(tt.token, sec.TokenKindAccess)
			assert.ErrorIs(t, err, sec.ErrInvalidToken)
		})
	}
}

/*
TestTokenIssuer_Tampering verifies that a modified payload fails signature
verification.
*/
func TestTokenIssuer_Tampering(t *testing.T) {
	issuer := newTestIssuer(t)

	token, err := issuer.IssueAccessToken("user-1", "", "")
	require.NoError(t, err)

	// Flip a character in the signed payload.
	tampered := []byte(token)
	middle := len(tampered) / 2
	if tampered[middle] == 'a' {
		tampered[middle] = 'b'
	} else {
		tampered[middle] = 'a'
	}

	_, err = issuer.Verify(string(tampered), sec.TokenKindAccess)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}

/*
TestTokenIssuer_ForeignSecret verifies that a token minted under different
secrets is rejected.
*/
func TestTokenIssuer_ForeignSecret(t *testing.T) {
	issuer := newTestIssuer(t)

	foreign, err := sec.NewTokenIssuer(sec.TokenConfig{
		AccessSecret:  []byte("a-completely-different-access-secret"),
		RefreshSecret: []byte("a-completely-different-refresh-secret"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    time.Hour,
		Issuer:        "planora.app",
	})
	require.NoError(t, err)

	token, err := foreign.IssueAccessToken("user-1", "", "")
	require.NoError(t, err)

	_, err = issuer.Verify(token, sec.TokenKindAccess)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}

/*
TestTokenIssuer_Expiry verifies that an expired token is rejected.
*/
func TestTokenIssuer_Expiry(t *testing.T) {
	issuer, err := sec.NewTokenIssuer(sec.TokenConfig{
		AccessSecret:  []byte("expiry-access-secret"),
		RefreshSecret: []byte("expiry-refresh-secret"),
		AccessTTL:     time.Nanosecond,
		RefreshTTL:    time.Hour,
		Issuer:        "planora.app",
	})
	require.NoError(t, err)

	token, err := issuer.IssueAccessToken("user-1", "", "")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = issuer.Verify(token, sec.TokenKindAccess)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}

/*
TestTokenIssuer_VerifyToken verifies the middleware-facing shorthand accepts
only access tokens.
*/
func TestTokenIssuer_VerifyToken(t *testing.T) {
	issuer := newTestIssuer(t)

	accessToken, err := issuer.IssueAccessToken("user-1", "", "")
	require.NoError(t, err)

	refreshToken, err := issuer.IssueRefreshToken("user-1")
	require.NoError(t, err)

	claims, err := issuer.VerifyToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)

	_, err = issuer.VerifyToken(refreshToken)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}
