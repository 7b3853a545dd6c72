// Copyright (c) 2026 Planora. All rights reserved.
// Author: duc.nguyenvan.it@gmail.com

/*
Package account handles user directory management.

It provides the CRUD surface for user records as a managed resource: listing
the directory, inspecting, updating, and removing individual accounts.

# Architecture

  - Entities: This package reuses [auth.User] as its entity; identity has a
    single source of truth in the auth package.
  - Security: All endpoints require authentication. Password changes are
    hashed in the service layer, never in storage.
*/
package account

import (
	"context"

	"github.com/ducnv-dev/planora/internal/users/auth"
	"github.com/ducnv-dev/planora/pkg/pagination"
)

// # Repository Contracts

// AccountRepository defines the persistence contract for user directory management.
type AccountRepository interface {
	/*
		Create persists a new user record.

		Parameters:
		  - context: context.Context
		  - user: *auth.User (Hydrated entity, password already hashed)

		Returns:
		  - error: Constraint violations or storage failures
	*/
	Create(context context.Context, user *auth.User) error

	/*
		FindByID retrieves a user record by their unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	/*
		List retrieves a page of user records ordered by creation time.

		Parameters:
		  - context: context.Context
		  - params: pagination.Params

		Returns:
		  - []auth.User: Page of accounts
		  - int: Total account count for pagination metadata
		  - error: Storage failures
	*/
	List(context context.Context, params pagination.Params) ([]auth.User, int, error)

	/*
		Update synchronizes the mutable fields of an existing user.

		Parameters:
		  - context: context.Context
		  - user: *auth.User (Hydrated entity with changes)

		Returns:
		  - error: apperr.NotFound, constraint violations, or storage failures
	*/
	Update(context context.Context, user *auth.User) error

	/*
		Delete permanently removes a user record.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: apperr.NotFound or execution failures
	*/
	Delete(context context.Context, id string) error
}
