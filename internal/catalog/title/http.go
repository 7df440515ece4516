// Copyright (c) 2026 Kritika. All rights reserved.
// Author: mkazennov.dev@gmail.com

package title

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mkazennov/kritika/internal/platform/apperr"
	"github.com/mkazennov/kritika/internal/platform/authz"
	"github.com/mkazennov/kritika/internal/platform/constants"
	requestutil "github.com/mkazennov/kritika/internal/platform/request"
	"github.com/mkazennov/kritika/internal/platform/respond"
	"github.com/mkazennov/kritika/internal/platform/validate"
	"github.com/mkazennov/kritika/pkg/pagination"
)

// Handler implements the HTTP layer for the title catalogue.
type Handler struct {
	service *Service
}

// NewHandler constructs a new title [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the title endpoints on the given router.
//
// # Endpoints
//   - GET /           : Filtered, paginated listing (open).
//   - POST /          : Create (admin).
//   - GET /{title_id}    : Retrieve (open).
//   - PATCH /{title_id}  : Partial update (admin).
//   - DELETE /{title_id} : Delete with cascade (admin).
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{title_id}", handler.get)
	router.Patch("/{title_id}", handler.update)
	router.Delete("/{title_id}", handler.delete)
}

// # Request Payloads

type createTitleRequest struct {
	Name        string   `json:"name"`
	Year        int      `json:"year"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Genre       []string `json:"genre"`
}

type updateTitleRequest struct {
	Name        *string  `json:"name"`
	Year        *int     `json:"year"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Genre       []string `json:"genre"`
}

// titleID parses the {title_id} route parameter. The name matches the
// nested review mount so chi sees one consistent wildcard.
func titleID(request *http.Request) (int64, error) {
	id, err := strconv.ParseInt(requestutil.ID(request, "title_id"), 10, 64)
	if err != nil {
		return 0, apperr.NotFound("Title")
	}
	return id, nil
}

/*
List returns the filtered, paginated title catalogue.

GET /api/v1/titles?genre=&category=&year=&name=&page=&limit=

Response:
  - 200: []Title with pagination metadata
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	query := request.URL.Query()

	filter := Filter{
		CategorySlug: query.Get("category"),
		GenreSlug:    query.Get("genre"),
		Name:         query.Get("name"),
	}
	if rawYear := query.Get("year"); rawYear != "" {
		if year, err := strconv.Atoi(rawYear); err == nil {
			filter.Year = &year
		}
	}

	titles, total, err := handler.service.List(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, titles, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
Create adds a new title to the catalogue.

POST /api/v1/titles

Request:
  - Body: createTitleRequest (Category and genres referenced by slug)

Response:
  - 201: Title: Created entity with resolved category and genres
  - 400: Validation failure (year in the future, unknown slugs, missing genre)
  - 401/403: Missing or insufficient credentials
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	if err := authz.Can(requestutil.Actor(request), authz.ActionCreate, authz.ResourceTitle, ""); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createTitleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("name", input.Name).
		MaxLen("name", input.Name, constants.MaxNameLength).
		Required("category", input.Category).
		Custom("genre", len(input.Genre) == 0, "At least one genre is required")

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.Create(request.Context(), CreateInput{
		Name:         input.Name,
		Year:         input.Year,
		Description:  input.Description,
		CategorySlug: input.Category,
		GenreSlugs:   input.Genre,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, title)
}

/*
Get retrieves one title.

GET /api/v1/titles/{title_id}

Response:
  - 200: Title
  - 404: Unknown title
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := titleID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, title)
}

/*
Update applies a partial update to a title.

PATCH /api/v1/titles/{title_id}

Description: An absent genre list leaves the associations untouched; a present
one replaces the set.

Request:
  - Body: updateTitleRequest (Partial JSON)

Response:
  - 200: Title: The updated entity
  - 400: Validation failure
  - 404: Unknown title
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	if err := authz.Can(requestutil.Actor(request), authz.ActionUpdate, authz.ResourceTitle, ""); err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := titleID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateTitleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if input.Name != nil {
		validator.Required("name", *input.Name).MaxLen("name", *input.Name, constants.MaxNameLength)
	}
	if input.Category != nil {
		validator.Required("category", *input.Category)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.Update(request.Context(), id, UpdateInput{
		Name:         input.Name,
		Year:         input.Year,
		Description:  input.Description,
		CategorySlug: input.Category,
		GenreSlugs:   input.Genre,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, title)
}

/*
Delete removes a title together with its reviews and comments.

DELETE /api/v1/titles/{title_id}

Response:
  - 204: No Content
  - 404: Unknown title
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := authz.Can(requestutil.Actor(request), authz.ActionDestroy, authz.ResourceTitle, ""); err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := titleID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
