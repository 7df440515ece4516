// Copyright (c) 2026 Kritika. All rights reserved.
// Author: mkazennov.dev@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mkazennov/kritika/internal/platform/constants"
	"github.com/mkazennov/kritika/internal/platform/middleware"
	requestutil "github.com/mkazennov/kritika/internal/platform/request"
	"github.com/mkazennov/kritika/internal/platform/respond"
	"github.com/mkazennov/kritika/internal/platform/sec"
	"github.com/mkazennov/kritika/internal/platform/validate"
	"github.com/mkazennov/kritika/internal/users/auth"
	"github.com/mkazennov/kritika/pkg/pagination"
)

// Handler implements the HTTP layer for user administration and self service.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with the user domain's endpoints.
//
// # Endpoints
//   - GET/PATCH /me              : Self-service profile (any authenticated user).
//   - GET/POST /                 : Directory listing and provisioning (admin).
//   - GET/PATCH/DELETE /{username} : Single-account administration (admin).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Self service
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.getMe)
		r.Patch("/me", handler.updateMe)
	})

	// Administration
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth, middleware.RequireAdmin)
		r.Get("/", handler.list)
		r.Post("/", handler.create)
		r.Get("/{username}", handler.get)
		r.Patch("/{username}", handler.update)
		r.Delete("/{username}", handler.delete)
	})

	return router
}

// # Request Payloads

type createUserRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Role      string `json:"role"`
}

type updateUserRequest struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role"`
}

type updateMeRequest struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
}

// validateProfileFields applies the shared length and format rules for
// optional profile fields.
func validateProfileFields(validator *validate.Validator, email, firstName, lastName *string) {
	if email != nil {
		validator.Required(auth.FieldEmail, *email).
			Email(auth.FieldEmail, *email).
			MaxLen(auth.FieldEmail, *email, constants.MaxEmailLength)
	}
	if firstName != nil {
		validator.MaxLen("first_name", *firstName, constants.MaxUsernameLength)
	}
	if lastName != nil {
		validator.MaxLen("last_name", *lastName, constants.MaxUsernameLength)
	}
}

// # Admin Endpoints

/*
List returns the paginated user directory.

GET /api/v1/users?search=&page=&limit=

Response:
  - 200: []User with pagination metadata
  - 401/403: Missing or insufficient credentials
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	search := request.URL.Query().Get("search")

	users, total, err := handler.accountService.List(request.Context(), search, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
Create provisions a new account with an admin-chosen role.

POST /api/v1/users

Request:
  - Body: createUserRequest

Response:
  - 201: User: Created account
  - 400: Validation failure or identity conflict
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createUserRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.Role == "" {
		input.Role = string(sec.RoleUser)
	}

	validator := &validate.Validator{}
	validator.Required(auth.FieldUsername, input.Username).
		Username(auth.FieldUsername, input.Username).
		MaxLen(auth.FieldUsername, input.Username, constants.MaxUsernameLength).
		Required(auth.FieldEmail, input.Email).
		Email(auth.FieldEmail, input.Email).
		MaxLen(auth.FieldEmail, input.Email, constants.MaxEmailLength).
		MaxLen("first_name", input.FirstName, constants.MaxUsernameLength).
		MaxLen("last_name", input.LastName, constants.MaxUsernameLength).
		OneOf("role", input.Role, string(sec.RoleUser), string(sec.RoleModerator), string(sec.RoleAdmin))

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Create(request.Context(), CreateInput{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      sec.UserRole(input.Role),
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
Get retrieves a single account by username.

GET /api/v1/users/{username}

Response:
  - 200: User
  - 404: Unknown username
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.accountService.GetByUsername(request.Context(), requestutil.Param(request, "username"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
Update applies a partial update to an account by username.

PATCH /api/v1/users/{username}

Request:
  - Body: updateUserRequest (Partial JSON; role settable here)

Response:
  - 200: User: The updated account
  - 400: Validation failure
  - 404: Unknown username
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input updateUserRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validateProfileFields(validator, input.Email, input.FirstName, input.LastName)
	if input.Role != nil {
		validator.OneOf("role", *input.Role, string(sec.RoleUser), string(sec.RoleModerator), string(sec.RoleAdmin))
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var role *sec.UserRole
	if input.Role != nil {
		converted := sec.UserRole(*input.Role)
		role = &converted
	}

	user, err := handler.accountService.Update(request.Context(), requestutil.Param(request, "username"), UpdateInput{
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      role,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
Delete permanently removes an account by username.

DELETE /api/v1/users/{username}

Response:
  - 204: No Content
  - 404: Unknown username
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.accountService.Delete(request.Context(), requestutil.Param(request, "username")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Self-Service Endpoints

/*
GetMe retrieves the authenticated caller's own account.

GET /api/v1/users/me

Response:
  - 200: User
  - 401: Authentication required
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetSelf(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
UpdateMe applies a partial update to the caller's own account.

PATCH /api/v1/users/me

Description: Role and the superuser flag cannot be changed through this
endpoint; such fields in the payload are ignored.

Request:
  - Body: updateMeRequest (Partial JSON)

Response:
  - 200: User: The updated account
  - 400: Validation failure
  - 401: Authentication required
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateMeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validateProfileFields(validator, input.Email, input.FirstName, input.LastName)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateSelf(request.Context(), userID, UpdateSelfInput{
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
