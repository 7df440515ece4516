package genre

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mkazennov/kritika/internal/platform/authz"
	"github.com/mkazennov/kritika/internal/platform/constants"
	requestutil "github.com/mkazennov/kritika/internal/platform/request"
	"github.com/mkazennov/kritika/internal/platform/respond"
	"github.com/mkazennov/kritika/internal/platform/validate"
	"github.com/mkazennov/kritika/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Delete("/{slug}", handler.delete)
}

type createGenreRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	search := request.URL.Query().Get("search")

	genres, total, err := handler.service.List(request.Context(), search, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, genres, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	if err := authz.Can(requestutil.Actor(request), authz.ActionCreate, authz.ResourceGenre, ""); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createGenreRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("name", input.Name).
		MaxLen("name", input.Name, constants.MaxNameLength)
	if input.Slug != "" {
		validator.Slug("slug", input.Slug).MaxLen("slug", input.Slug, constants.MaxSlugLength)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	genre, err := handler.service.Create(request.Context(), input.Name, input.Slug)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, genre)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := authz.Can(requestutil.Actor(request), authz.ActionDestroy, authz.ResourceGenre, ""); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), chi.URLParam(request, "slug")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
