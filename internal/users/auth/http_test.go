// Copyright (c) 2026 Planora. All rights reserved.
// Author: duc.nguyenvan.it@gmail.com

package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducnv-dev/planora/internal/platform/constants"
	"github.com/ducnv-dev/planora/internal/platform/middleware"
	"github.com/ducnv-dev/planora/internal/users/auth"
)

// newTestRouter mounts the auth routes behind the real Authenticate middleware
// so the protected endpoints see verified claims, exactly as in production.
func newTestRouter(harness *testHarness) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Authenticate(harness.tokenIssue))
	router.Mount("/api/auth", auth.NewHandler(harness.service).Routes())
	return router
}

func postJSON(t *testing.T, router http.Handler, path string, payload any, modify func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	if modify != nil {
		modify(request)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func refreshCookie(t *testing.T, recorder *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == constants.RefreshTokenCookieName {
			return cookie
		}
	}
	return nil
}

/*
TestHandler_RegisterThenLogin walks the separated register/login flow over HTTP.
*/
func TestHandler_RegisterThenLogin(t *testing.T) {
	harness := newTestHarness(t)
	router := newTestRouter(harness)

	// Register: 201, no tokens, no cookie.
	recorder := postJSON(t, router, "/api/auth/register", map[string]string{
		"name":     "Nguyen Van A",
		"email":    "a@planora.app",
		"password": "super-secret",
	}, nil)

	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.Nil(t, refreshCookie(t, recorder))
	assert.NotContains(t, recorder.Body.String(), "access_token")
	assert.NotContains(t, recorder.Body.String(), "super-secret")

	// Login: 200, access token in body, refresh token only in the cookie.
	recorder = postJSON(t, router, "/api/auth/login", map[string]string{
		"email":    "a@planora.app",
		"password": "super-secret",
	}, nil)

	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Data["access_token"])
	assert.Equal(t, "Bearer", envelope.Data["token_type"])

	cookie := refreshCookie(t, recorder)
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, constants.RefreshTokenCookiePath, cookie.Path)

	// The refresh token never appears in the response body.
	assert.NotContains(t, recorder.Body.String(), cookie.Value)
}

/*
TestHandler_Register_DuplicateEmail verifies the 400 EMAIL_EXISTS contract.
*/
func TestHandler_Register_DuplicateEmail(t *testing.T) {
	harness := newTestHarness(t)
	router := newTestRouter(harness)
	harness.register(t, "taken@planora.app", "password-123")

	recorder := postJSON(t, router, "/api/auth/register", map[string]string{
		"name":     "Other",
		"email":    "taken@planora.app",
		"password": "password-456",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "EMAIL_EXISTS")
}

/*
TestHandler_Refresh exercises the cookie side-channel: a refresh succeeds only
with the cookie, and rotation replaces it.
*/
func TestHandler_Refresh(t *testing.T) {
	harness := newTestHarness(t)
	router := newTestRouter(harness)
	harness.register(t, "a@planora.app", "super-secret")

	login := postJSON(t, router, "/api/auth/login", map[string]string{
		"email": "a@planora.app", "password": "super-secret",
	}, nil)
	require.Equal(t, http.StatusOK, login.Code)
	issued := refreshCookie(t, login)
	require.NotNil(t, issued)

	// Without the cookie: 401 INVALID_TOKEN.
	recorder := postJSON(t, router, "/api/auth/refresh-token", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "INVALID_TOKEN")

	// With the cookie: 200 and a rotated cookie.
	recorder = postJSON(t, router, "/api/auth/refresh-token", nil, func(r *http.Request) {
		r.AddCookie(issued)
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	rotated := refreshCookie(t, recorder)
	require.NotNil(t, rotated)
	assert.NotEqual(t, issued.Value, rotated.Value)

	// The consumed cookie is now rejected.
	recorder = postJSON(t, router, "/api/auth/refresh-token", nil, func(r *http.Request) {
		r.AddCookie(issued)
	})
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

/*
TestHandler_LogoutAndMe verifies the protected endpoints end to end: bearer
access, /me projection, logout cookie clearing, and post-logout refresh denial.
*/
func TestHandler_LogoutAndMe(t *testing.T) {
	harness := newTestHarness(t)
	router := newTestRouter(harness)
	harness.register(t, "a@planora.app", "super-secret")

	login := postJSON(t, router, "/api/auth/login", map[string]string{
		"email": "a@planora.app", "password": "super-secret",
	}, nil)
	require.Equal(t, http.StatusOK, login.Code)

	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &envelope))
	accessToken, _ := envelope.Data["access_token"].(string)
	require.NotEmpty(t, accessToken)

	// /me without a token: 401.
	request := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	// /me with the bearer token: claims projection, no password material.
	request = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	request.Header.Set("Authorization", "Bearer "+accessToken)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "a@planora.app")
	assert.NotContains(t, recorder.Body.String(), "password")

	// Logout with the bearer token: 200 and an expired cookie.
	logout := postJSON(t, router, "/api/auth/logout", nil, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+accessToken)
	})
	require.Equal(t, http.StatusOK, logout.Code)

	cleared := refreshCookie(t, logout)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)

	// Logout again is idempotent.
	logout = postJSON(t, router, "/api/auth/logout", nil, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+accessToken)
	})
	assert.Equal(t, http.StatusOK, logout.Code)

	// The pre-logout refresh cookie is revoked.
	issued := refreshCookie(t, login)
	require.NotNil(t, issued)
	recorder = postJSON(t, router, "/api/auth/refresh-token", nil, func(r *http.Request) {
		r.AddCookie(issued)
	})
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

/*
TestHandler_Validation verifies the field validation surface on register.
*/
func TestHandler_Validation(t *testing.T) {
	harness := newTestHarness(t)
	router := newTestRouter(harness)

	tests := []struct {
		name    string
		payload map[string]string
	}{
		{"missing_name", map[string]string{"email": "a@planora.app", "password": "password-123"}},
		{"bad_email", map[string]string{"name": "A", "email": "not-an-email", "password": "password-123"}},
		{"short_password", map[string]string{"name": "A", "email": "a@planora.app", "password": "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := postJSON(t, router, "/api/auth/register", tt.payload, nil)
			assert.Equal(t, http.StatusBadRequest, recorder.Code)
			assert.Contains(t, recorder.Body.String(), "VALIDATION_ERROR")
		})
	}
}
