// Copyright (c) 2026 Planora. All rights reserved.
// Author: duc.nguyenvan.it@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ducnv-dev/planora/internal/platform/apperr"
	"github.com/ducnv-dev/planora/internal/platform/dberr"
	"github.com/ducnv-dev/planora/internal/platform/sec"
	"github.com/ducnv-dev/planora/internal/users/auth"
	"github.com/ducnv-dev/planora/pkg/pagination"
	"github.com/ducnv-dev/planora/pkg/uuid"
)

// # Service Layer

// Service orchestrates business logic for the user directory.
//
// It enforces the same identity invariants as the auth package: emails are
// normalized to lowercase, and passwords are hashed here, explicitly, before
// any repository call.
type Service struct {
	accountRepository AccountRepository
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(accountRepo AccountRepository, logger *slog.Logger) *Service {
	return &Service{
		accountRepository: accountRepo,
		logger:            logger,
	}
}

// CreateInput holds the data required to provision a user record.
type CreateInput struct {
	Name     string
	Email    string
	Password string
}

/*
Create provisions a new user record in the directory.

Description: Unlike self-service registration, this is the managed path for
creating accounts. It shares the same invariants: unique lowercase email,
bcrypt-hashed password, time-sortable ID.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *auth.User: Created entity
  - error: apperr.EmailExists or storage failures
*/
func (service *Service) Create(context context.Context, input CreateInput) (*auth.User, error) {
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("account_service_hash_failed: %w", err)
	}

	user := &auth.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(input.Name),
		Email:        auth.NormalizeEmail(input.Email),
		PasswordHash: hashedPassword,
	}

	// The unique index on email is the arbiter; no pre-flight lookup needed here.
	if err := service.accountRepository.Create(context, user); err != nil {
		if dberr.IsUniqueViolation(err) {
			return nil, apperr.EmailExists()
		}
		return nil, fmt.Errorf("account_service_create_failed: %w", err)
	}

	service.logger.Info("user_created", slog.String("user_id", user.ID))

	return user, nil
}

/*
List retrieves a page of the user directory.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []auth.User: Page of accounts
  - pagination.Meta: Metadata block for the response envelope
  - error: Storage failures
*/
func (service *Service) List(context context.Context, params pagination.Params) ([]auth.User, pagination.Meta, error) {
	users, total, err := service.accountRepository.List(context, params)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("account_service_list_failed: %w", err)
	}

	return users, pagination.NewMeta(params.Page, params.Limit, total), nil
}

/*
Get retrieves a single user record by ID.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The account entity
  - error: apperr.NotFound or execution failures
*/
func (service *Service) Get(context context.Context, userID string) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateInput defines the mutable subset of user fields. Nil pointers leave
// the corresponding field untouched.
type UpdateInput struct {
	Name     *string
	Email    *string
	Password *string
}

/*
Update applies a partial set of changes to a user record.

Description: Fetches the existing state, overlays the provided fields, and
synchronizes the change. A new password is hashed here before persistence;
the stored refresh token digest survives untouched unless the password
changes, in which case the active session is revoked.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateInput

Returns:
  - *auth.User: The updated entity
  - error: apperr.NotFound, apperr.EmailExists, or storage failures
*/
func (service *Service) Update(context context.Context, userID string, input UpdateInput) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	// Apply delta updates
	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}

	if input.Email != nil {
		user.Email = auth.NormalizeEmail(*input.Email)
	}

	if input.Password != nil {
		hashedPassword, err := sec.HashPassword(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("account_service_update_hash_failed: %w", err)
		}
		user.PasswordHash = hashedPassword

		// A credential change invalidates the current session.
		user.RefreshTokenHash = nil
	}

	// Persist changes
	if err := service.accountRepository.Update(context, user); err != nil {
		if dberr.IsUniqueViolation(err) {
			return nil, apperr.EmailExists()
		}
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.logger.Info("user_updated", slog.String("user_id", userID))

	return user, nil
}

/*
Delete permanently removes a user record from the directory.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: apperr.NotFound or execution failures
*/
func (service *Service) Delete(context context.Context, userID string) error {
	if err := service.accountRepository.Delete(context, userID); err != nil {
		return err
	}

	service.logger.Warn("user_deleted", slog.String("user_id", userID))

	return nil
}
