// Copyright (c) 2026 Planora. All rights reserved.
// Author: duc.nguyenvan.it@gmail.com

/*
Package account (HTTP) provides the delivery layer for the user directory.

It implements the RESTful CRUD interface over user records.

# Security

All endpoints in this package require an active authentication session provided
by the RequireAuth middleware (applied at mount time by the API server).
*/
package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/ducnv-dev/planora/internal/platform/request"
	"github.com/ducnv-dev/planora/internal/platform/respond"
	"github.com/ducnv-dev/planora/internal/platform/validate"
	"github.com/ducnv-dev/planora/internal/users/auth"
	"github.com/ducnv-dev/planora/pkg/pagination"
)

// Handler implements the HTTP layer for user directory management.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with the user directory endpoints.
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

type createUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// create godoc
//
//	@Summary		Create a user
//	@Description	Provisions a user record. The password is hashed server-side.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			body	body		createUserRequest	true	"User payload"
//	@Success		201		{object}	respond.SuccessEnvelope{data=auth.User}
//	@Failure		400		{object}	respond.ErrorEnvelope	"Validation failure or EMAIL_EXISTS"
//	@Router			/api/users [post]
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createUserRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(auth.FieldName, input.Name).
		Required(auth.FieldEmail, input.Email).
		Email(auth.FieldEmail, input.Email).
		Required(auth.FieldPassword, input.Password).
		MinLen(auth.FieldPassword, input.Password, auth.PasswordMinLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Create(request.Context(), CreateInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

// list godoc
//
//	@Summary		List users
//	@Description	Returns a page of the user directory, newest first.
//	@Tags			Users
//	@Produce		json
//	@Security		BearerAuth
//	@Param			page	query		int	false	"Page number (1-indexed)"
//	@Param			limit	query		int	false	"Items per page (max 100)"
//	@Success		200		{object}	respond.PaginatedEnvelope{data=[]auth.User}
//	@Router			/api/users [get]
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	users, meta, err := handler.accountService.List(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, meta)
}

// get godoc
//
//	@Summary		Get a user
//	@Tags			Users
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"User ID"
//	@Success		200	{object}	respond.SuccessEnvelope{data=auth.User}
//	@Failure		404	{object}	respond.ErrorEnvelope
//	@Router			/api/users/{id} [get]
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.accountService.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// update godoc
//
//	@Summary		Update a user
//	@Description	Applies a partial update. A changed password is re-hashed and revokes the active session.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string				true	"User ID"
//	@Param			body	body		updateUserRequest	true	"Fields to change"
//	@Success		200		{object}	respond.SuccessEnvelope{data=auth.User}
//	@Failure		404		{object}	respond.ErrorEnvelope
//	@Router			/api/users/{id} [put]
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input updateUserRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	if input.Email != nil {
		validator.Email(auth.FieldEmail, *input.Email)
	}
	if input.Password != nil {
		validator.MinLen(auth.FieldPassword, *input.Password, auth.PasswordMinLength)
	}
	if input.Name != nil {
		validator.Required(auth.FieldName, *input.Name)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Update(request.Context(), requestutil.ID(request, "id"), UpdateInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// delete godoc
//
//	@Summary		Delete a user
//	@Tags			Users
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path	string	true	"User ID"
//	@Success		204	"No Content"
//	@Failure		404	{object}	respond.ErrorEnvelope
//	@Router			/api/users/{id} [delete]
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.accountService.Delete(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
