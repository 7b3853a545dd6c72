// Copyright (c) 2026 Planora. All rights reserved.
// Author: duc.nguyenvan.it@gmail.com

/*
Package project (HTTP) provides the delivery layer for project tracking.

# Security

All endpoints require an active authentication session provided by the
RequireAuth middleware (applied at mount time by the API server). Newly
created projects are owned by the authenticated caller unless an explicit
owner is supplied.
*/
package project

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/ducnv-dev/planora/internal/platform/request"
	"github.com/ducnv-dev/planora/internal/platform/respond"
	"github.com/ducnv-dev/planora/internal/platform/validate"
	"github.com/ducnv-dev/planora/pkg/pagination"
)

// Handler implements the HTTP layer for project tracking.
type Handler struct {
	projectService *Service
}

// NewHandler constructs a new project [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{projectService: service}
}

// Routes returns a [chi.Router] configured with the project endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.create)
	router.Get("/", handler.list)
	router.Get("/{id}", handler.get)
	router.Put("/{id}", handler.update)
	router.Delete("/{id}", handler.delete)

	return router
}

// # Request Payloads

type createProjectRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	StartDate   *time.Time `json:"start_date"`
	OwnerID     string     `json:"owner_id"`
}

type updateProjectRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	StartDate   *time.Time `json:"start_date"`
}

// create godoc
//
//	@Summary		Create a project
//	@Description	Opens a new project. Status defaults to pending, start date to now, owner to the caller.
//	@Tags			Projects
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			body	body		createProjectRequest	true	"Project payload"
//	@Success		201		{object}	respond.SuccessEnvelope{data=Project}
//	@Failure		400		{object}	respond.ErrorEnvelope
//	@Router			/api/projects [post]
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createProjectRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Ownership falls back to the authenticated caller.
	if input.OwnerID == "" {
		userID, err := requestutil.RequiredUserID(request)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		input.OwnerID = userID
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, NameMaxLength).
		MaxLen(FieldDescription, input.Description, DescriptionMaxLength).
		UUID(FieldOwnerID, input.OwnerID)

	if input.Status != "" {
		validator.OneOf(FieldStatus, input.Status, AllStatuses...)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	project, err := handler.projectService.Create(request.Context(), CreateInput{
		Name:        input.Name,
		Description: input.Description,
		Status:      input.Status,
		StartDate:   input.StartDate,
		OwnerID:     input.OwnerID,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, project)
}

// list godoc
//
//	@Summary		List projects
//	@Description	Returns a page of projects, newest first.
//	@Tags			Projects
//	@Produce		json
//	@Security		BearerAuth
//	@Param			page	query		int	false	"Page number (1-indexed)"
//	@Param			limit	query		int	false	"Items per page (max 100)"
//	@Success		200		{object}	respond.PaginatedEnvelope{data=[]Project}
//	@Router			/api/projects [get]
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	projects, meta, err := handler.projectService.List(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, projects, meta)
}

// get godoc
//
//	@Summary		Get a project
//	@Tags			Projects
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Project ID"
//	@Success		200	{object}	respond.SuccessEnvelope{data=Project}
//	@Failure		404	{object}	respond.ErrorEnvelope
//	@Router			/api/projects/{id} [get]
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	project, err := handler.projectService.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, project)
}

// update godoc
//
//	@Summary		Update a project
//	@Description	Applies a partial update to a project's fields.
//	@Tags			Projects
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string					true	"Project ID"
//	@Param			body	body		updateProjectRequest	true	"Fields to change"
//	@Success		200		{object}	respond.SuccessEnvelope{data=Project}
//	@Failure		404		{object}	respond.ErrorEnvelope
//	@Router			/api/projects/{id} [put]
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input updateProjectRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	if input.Name != nil {
		validator.Required(FieldName, *input.Name).MaxLen(FieldName, *input.Name, NameMaxLength)
	}
	if input.Description != nil {
		validator.MaxLen(FieldDescription, *input.Description, DescriptionMaxLength)
	}
	if input.Status != nil {
		validator.OneOf(FieldStatus, *input.Status, AllStatuses...)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	project, err := handler.projectService.Update(request.Context(), requestutil.ID(request, "id"), UpdateInput{
		Name:        input.Name,
		Description: input.Description,
		Status:      input.Status,
		StartDate:   input.StartDate,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, project)
}

// delete godoc
//
//	@Summary		Delete a project
//	@Tags			Projects
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Project ID"
//	@Success		204	"No Content"
//	@Failure		404	{object}	respond.ErrorEnvelope
//	@Router			/api/projects/{id} [delete]
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.projectService.Delete(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
