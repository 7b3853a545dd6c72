// Copyright (c) 2026 Planora. All rights reserved.
// Author: duc.nguyenvan.it@gmail.com

package project_test

import (
	"context"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducnv-dev/planora/internal/core/project"
	"github.com/ducnv-dev/planora/internal/platform/apperr"
	"github.com/ducnv-dev/planora/pkg/pagination"
	"github.com/ducnv-dev/planora/pkg/pointer"
)

// # Test Fixtures

// fakeProjectRepository is an in-memory ProjectRepository double.
type fakeProjectRepository struct {
	projectsByID map[string]*project.Project
}

func newFakeProjectRepository() *fakeProjectRepository {
	return &fakeProjectRepository{projectsByID: make(map[string]*project.Project)}
}

func (repo *fakeProjectRepository) Create(_ context.Context, p *project.Project) error {
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	clone := *p
	repo.projectsByID[p.ID] = &clone
	return nil
}

func (repo *fakeProjectRepository) FindByID(_ context.Context, id string) (*project.Project, error) {
	p, found := repo.projectsByID[id]
	if !found {
		return nil, apperr.NotFound("Project")
	}
	clone := *p
	return &clone, nil
}

func (repo *fakeProjectRepository) List(_ context.Context, params pagination.Params) ([]project.Project, int, error) {
	all := make([]project.Project, 0, len(repo.projectsByID))
	for _, p := range repo.projectsByID {
		all = append(all, *p)
	}

	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	start := params.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + params.Limit
	if end > len(all) {
		end = len(all)
	}

	return all[start:end], len(repo.projectsByID), nil
}

func (repo *fakeProjectRepository) Update(_ context.Context, p *project.Project) error {
	if _, found := repo.projectsByID[p.ID]; !found {
		return apperr.NotFound("Project")
	}
	p.UpdatedAt = time.Now()
	clone := *p
	repo.projectsByID[p.ID] = &clone
	return nil
}

func (repo *fakeProjectRepository) Delete(_ context.Context, id string) error {
	if _, found := repo.projectsByID[id]; !found {
		return apperr.NotFound("Project")
	}
	delete(repo.projectsByID, id)
	return nil
}

func newTestService() (*project.Service, *fakeProjectRepository) {
	repo := newFakeProjectRepository()
	return project.NewService(repo, slog.New(slog.DiscardHandler)), repo
}

// # CRUD

/*
TestService_Create verifies creation defaults: pending status, start date now.
*/
func TestService_Create(t *testing.T) {
	service, repo := newTestService()

	before := time.Now()
	created, err := service.Create(context.Background(), project.CreateInput{
		Name:    "  Website Redesign  ",
		OwnerID: "owner-1",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Website Redesign", created.Name)
	assert.Equal(t, project.StatusPending, created.Status)
	assert.Equal(t, "owner-1", created.OwnerID)
	assert.False(t, created.StartDate.Before(before))
	assert.Contains(t, repo.projectsByID, created.ID)
}

/*
TestService_Create_Explicit verifies explicit status and start date are kept.
*/
func TestService_Create_Explicit(t *testing.T) {
	service, _ := newTestService()

	startDate := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	created, err := service.Create(context.Background(), project.CreateInput{
		Name:        "Data Migration",
		Description: "Move reporting to the new warehouse",
		Status:      string(project.StatusInProgress),
		StartDate:   &startDate,
		OwnerID:     "owner-1",
	})
	require.NoError(t, err)

	assert.Equal(t, project.StatusInProgress, created.Status)
	assert.True(t, created.StartDate.Equal(startDate))
	assert.Equal(t, "Move reporting to the new warehouse", created.Description)
}

/*
TestService_Get verifies lookup and the NOT_FOUND path.
*/
func TestService_Get(t *testing.T) {
	service, _ := newTestService()

	created, err := service.Create(context.Background(), project.CreateInput{
		Name: "Alpha", OwnerID: "owner-1",
	})
	require.NoError(t, err)

	found, err := service.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, found.Name)

	_, err = service.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestService_List verifies pagination metadata.
*/
func TestService_List(t *testing.T) {
	service, _ := newTestService()

	for _, name := range []string{"Alpha", "Beta", "Gamma"} {
		_, err := service.Create(context.Background(), project.CreateInput{
			Name: name, OwnerID: "owner-1",
		})
		require.NoError(t, err)
	}

	projects, meta, err := service.List(context.Background(), pagination.Params{Page: 1, Limit: 2})
	require.NoError(t, err)

	assert.Len(t, projects, 2)
	assert.Equal(t, 3, meta.Total)
	assert.Equal(t, 2, meta.TotalPages)
}

/*
TestService_Update verifies partial updates.
*/
func TestService_Update(t *testing.T) {
	service, _ := newTestService()

	created, err := service.Create(context.Background(), project.CreateInput{
		Name: "Alpha", OwnerID: "owner-1",
	})
	require.NoError(t, err)

	updated, err := service.Update(context.Background(), created.ID, project.UpdateInput{
		Status:      pointer.To(string(project.StatusCompleted)),
		Description: pointer.To("Shipped to production"),
	})
	require.NoError(t, err)

	assert.Equal(t, project.StatusCompleted, updated.Status)
	assert.Equal(t, "Shipped to production", updated.Description)

	// Untouched fields survive.
	assert.Equal(t, "Alpha", updated.Name)
	assert.Equal(t, "owner-1", updated.OwnerID)

	_, err = service.Update(context.Background(), "missing", project.UpdateInput{
		Status: pointer.To(string(project.StatusPending)),
	})
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestService_Delete verifies removal and the NOT_FOUND path.
*/
func TestService_Delete(t *testing.T) {
	service, repo := newTestService()

	created, err := service.Create(context.Background(), project.CreateInput{
		Name: "Alpha", OwnerID: "owner-1",
	})
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), created.ID))
	assert.NotContains(t, repo.projectsByID, created.ID)

	err = service.Delete(context.Background(), created.ID)
	assert.True(t, apperr.IsNotFound(err))
}
