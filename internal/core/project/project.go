// Copyright (c) 2026 Planora. All rights reserved.
// Author: duc.nguyenvan.it@gmail.com

/*
Package project implements the project tracking domain.

A project is the unit of planned work on the platform: it carries a name, an
owner, a lifecycle status, and a start date.

# Architecture

  - Entities: Project.
  - Domain: Owned by a user (auth.User); ownership is referential, not embedded.
  - Status lifecycle: pending -> in-progress -> completed (free transitions).
*/
package project

import (
	"context"
	"time"

	"github.com/ducnv-dev/planora/pkg/pagination"
)

// # Domain Entities

// Status represents the lifecycle state of a project.
type Status string

// Allowed project lifecycle states.
const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// AllStatuses lists every valid status value, for validation and docs.
var AllStatuses = []string{
	string(StatusPending),
	string(StatusInProgress),
	string(StatusCompleted),
}

// Project represents a tracked unit of work owned by a user.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Status      Status    `json:"status"`
	StartDate   time.Time `json:"start_date"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// # Field Identifiers

// Field names for validation in the project domain.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldStatus      = "status"
	FieldStartDate   = "start_date"
	FieldOwnerID     = "owner_id"

	NameMaxLength        = 200
	DescriptionMaxLength = 2000
)

// # Repository Contracts

// ProjectRepository defines the persistence contract for projects.
type ProjectRepository interface {
	/*
		Create persists a new project record.

		Parameters:
		  - context: context.Context
		  - project: *Project

		Returns:
		  - error: Constraint violations or storage failures
	*/
	Create(context context.Context, project *Project) error

	/*
		FindByID retrieves a project by its unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *Project: Hydrated entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*Project, error)

	/*
		List retrieves a page of projects ordered by creation time.

		Parameters:
		  - context: context.Context
		  - params: pagination.Params

		Returns:
		  - []Project: Page of projects
		  - int: Total project count
		  - error: Storage failures
	*/
	List(context context.Context, params pagination.Params) ([]Project, int, error)

	/*
		Update synchronizes the mutable fields of an existing project.

		Parameters:
		  - context: context.Context
		  - project: *Project

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	Update(context context.Context, project *Project) error

	/*
		Delete permanently removes a project record.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: apperr.NotFound or execution failures
	*/
	Delete(context context.Context, id string) error
}
