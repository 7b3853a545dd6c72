// Copyright (c) 2026 Planora. All rights reserved.
// Author: duc.nguyenvan.it@gmail.com

package project

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ducnv-dev/planora/pkg/pagination"
	"github.com/ducnv-dev/planora/pkg/uuid"
)

// # Service Layer

// Service orchestrates business logic for project tracking.
type Service struct {
	projectRepository ProjectRepository
	logger            *slog.Logger
}

// NewService constructs a new project [Service].
func NewService(projectRepo ProjectRepository, logger *slog.Logger) *Service {
	return &Service{
		projectRepository: projectRepo,
		logger:            logger,
	}
}

// CreateInput holds the data required to open a new project.
type CreateInput struct {
	Name        string
	Description string
	Status      string     // Optional; defaults to pending.
	StartDate   *time.Time // Optional; defaults to now.
	OwnerID     string
}

/*
Create opens a new project for the given owner.

Description: Applies the domain defaults: a missing status becomes
[StatusPending] and a missing start date becomes the current time.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *Project: Created entity
  - error: Storage failures
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Project, error) {
	status := Status(input.Status)
	if input.Status == "" {
		status = StatusPending
	}

	startDate := time.Now()
	if input.StartDate != nil {
		startDate = *input.StartDate
	}

	project := &Project{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Status:      status,
		StartDate:   startDate,
		OwnerID:     input.OwnerID,
	}

	if err := service.projectRepository.Create(context, project); err != nil {
		return nil, fmt.Errorf("project_service_create_failed: %w", err)
	}

	service.logger.Info("project_created",
		slog.String("project_id", project.ID),
		slog.String("owner_id", project.OwnerID),
	)

	return project, nil
}

/*
List retrieves a page of projects.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []Project: Page of projects
  - pagination.Meta: Metadata block for the response envelope
  - error: Storage failures
*/
func (service *Service) List(context context.Context, params pagination.Params) ([]Project, pagination.Meta, error) {
	projects, total, err := service.projectRepository.List(context, params)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("project_service_list_failed: %w", err)
	}

	return projects, pagination.NewMeta(params.Page, params.Limit, total), nil
}

/*
Get retrieves a single project by ID.

Parameters:
  - context: context.Context
  - projectID: string

Returns:
  - *Project: The entity
  - error: apperr.NotFound or execution failures
*/
func (service *Service) Get(context context.Context, projectID string) (*Project, error) {
	project, err := service.projectRepository.FindByID(context, projectID)
	if err != nil {
		return nil, err
	}
	return project, nil
}

// UpdateInput defines the mutable subset of project fields. Nil pointers
// leave the corresponding field untouched.
type UpdateInput struct {
	Name        *string
	Description *string
	Status      *string
	StartDate   *time.Time
}

/*
Update applies a partial set of changes to a project.

Parameters:
  - context: context.Context
  - projectID: string
  - input: UpdateInput

Returns:
  - *Project: The updated entity
  - error: apperr.NotFound or storage failures
*/
func (service *Service) Update(context context.Context, projectID string, input UpdateInput) (*Project, error) {
	project, err := service.projectRepository.FindByID(context, projectID)
	if err != nil {
		return nil, err
	}

	// Apply delta updates
	if input.Name != nil {
		project.Name = strings.TrimSpace(*input.Name)
	}

	if input.Description != nil {
		project.Description = strings.TrimSpace(*input.Description)
	}

	if input.Status != nil {
		project.Status = Status(*input.Status)
	}

	if input.StartDate != nil {
		project.StartDate = *input.StartDate
	}

	// Persist changes
	if err := service.projectRepository.Update(context, project); err != nil {
		return nil, fmt.Errorf("project_service_update_failed: %w", err)
	}

	service.logger.Info("project_updated", slog.String("project_id", projectID))

	return project, nil
}

/*
Delete permanently removes a project.

Parameters:
  - context: context.Context
  - projectID: string

Returns:
  - error: apperr.NotFound or execution failures
*/
func (service *Service) Delete(context context.Context, projectID string) error {
	if err := service.projectRepository.Delete(context, projectID); err != nil {
		return err
	}

	service.logger.Info("project_deleted", slog.String("project_id", projectID))

	return nil
}
