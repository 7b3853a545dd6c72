// Copyright (c) 2026 Planora. All rights reserved.
// Author: duc.nguyenvan.it@gmail.com

// PostgreSQL persistence for the project domain.
//
// # Schema Table Mapping
//   - core.project: Project records, FK to users.account on ownerid.
package project

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ducnv-dev/planora/internal/platform/apperr"
	"github.com/ducnv-dev/planora/pkg/pagination"
)

// # Repository Implementation

// PostgresProjectRepository implements [ProjectRepository] using pgx.
type PostgresProjectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository creates a new Postgres implementation for project storage.
func NewProjectRepository(pool *pgxpool.Pool) *PostgresProjectRepository {
	return &PostgresProjectRepository{pool: pool}
}

/*
Create persists a new project record into the core.project table.

Parameters:
  - context: context.Context
  - project: *Project

Returns:
  - error: FK violations (unknown owner) or connectivity errors
*/
func (repository *PostgresProjectRepository) Create(context context.Context, project *Project) error {
	const query = `
		INSERT INTO core.project (
			id, name, description, status, startdate, ownerid, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	now := time.Now()
	if project.CreatedAt.IsZero() {
		project.CreatedAt = now
	}
	project.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		project.ID,
		project.Name,
		project.Description,
		project.Status,
		project.StartDate,
		project.OwnerID,
		project.CreatedAt,
		project.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_project_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByID retrieves a project by primary key.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *Project: Hydrated entity
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresProjectRepository) FindByID(context context.Context, id string) (*Project, error) {
	const query = `
		SELECT id, name, description, status, startdate, ownerid, createdat, updatedat
		FROM core.project
		WHERE id = $1`

	project := &Project{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&project.ID,
		&project.Name,
		&project.Description,
		&project.Status,
		&project.StartDate,
		&project.OwnerID,
		&project.CreatedAt,
		&project.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Project")
		}
		return nil, fmt.Errorf("postgres_project_repo_find_by_id_failed: %w", err)
	}

	return project, nil
}

/*
List retrieves a page of projects, newest first.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []Project: Page of projects
  - int: Total row count
  - error: Database execution failure
*/
func (repository *PostgresProjectRepository) List(context context.Context, params pagination.Params) ([]Project, int, error) {
	const query = `
		SELECT id, name, description, status, startdate, ownerid, createdat, updatedat
		FROM core.project
		ORDER BY createdat DESC
		LIMIT $1 OFFSET $2`

	rows, err := repository.pool.Query(context, query, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_project_repo_list_failed: %w", err)
	}
	defer rows.Close()

	projects := make([]Project, 0, params.Limit)
	for rows.Next() {
		var project Project
		err := rows.Scan(
			&project.ID,
			&project.Name,
			&project.Description,
			&project.Status,
			&project.StartDate,
			&project.OwnerID,
			&project.CreatedAt,
			&project.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_project_repo_scan_failed: %w", err)
		}
		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_project_repo_rows_failed: %w", err)
	}

	const countQuery = `SELECT COUNT(*) FROM core.project`

	var total int
	if err := repository.pool.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_project_repo_count_failed: %w", err)
	}

	return projects, total, nil
}

/*
Update synchronizes the mutable fields of a project.

Parameters:
  - context: context.Context
  - project: *Project

Returns:
  - error: apperr.NotFound or execution failures
*/
func (repository *PostgresProjectRepository) Update(context context.Context, project *Project) error {
	const query = `
		UPDATE core.project
		SET name = $2, description = $3, status = $4, startdate = $5, updatedat = NOW()
		WHERE id = $1`

	commandTag, err := repository.pool.Exec(context, query,
		project.ID,
		project.Name,
		project.Description,
		project.Status,
		project.StartDate,
	)

	if err != nil {
		return fmt.Errorf("postgres_project_repo_update_failed: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return apperr.NotFound("Project")
	}

	return nil
}

/*
Delete permanently removes a project record.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: apperr.NotFound or execution failures
*/
func (repository *PostgresProjectRepository) Delete(context context.Context, id string) error {
	const query = `DELETE FROM core.project WHERE id = $1`

	commandTag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_project_repo_delete_failed: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return apperr.NotFound("Project")
	}

	return nil
}
