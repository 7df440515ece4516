// Copyright (c) 2026 Kritika. All rights reserved.
// Author: mkazennov.dev@gmail.com

package review

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mkazennov/kritika/internal/platform/apperr"
	"github.com/mkazennov/kritika/internal/platform/constants"
	requestutil "github.com/mkazennov/kritika/internal/platform/request"
	"github.com/mkazennov/kritika/internal/platform/respond"
	"github.com/mkazennov/kritika/internal/platform/validate"
	"github.com/mkazennov/kritika/pkg/pagination"
)

// Handler implements the HTTP layer for reviews and their comments.
type Handler struct {
	service *Service
}

// NewHandler constructs a new review [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

/*
Routes returns the router for the review surface.

The router is mounted under /titles/{title_id}/reviews, so every endpoint is
scoped to a title, and every comment endpoint is scoped to a review.

# Endpoints
  - GET /                                  : Paginated reviews (open).
  - POST /                                 : Create a review (authenticated).
  - GET /{review_id}                       : Retrieve a review (open).
  - PATCH /{review_id}                     : Edit (author, moderator, admin).
  - DELETE /{review_id}                    : Delete (author, moderator, admin).
  - GET /{review_id}/comments              : Paginated comments (open).
  - POST /{review_id}/comments             : Create a comment (authenticated).
  - GET /{review_id}/comments/{comment_id} : Retrieve a comment (open).
  - PATCH /{review_id}/comments/{comment_id}  : Edit (author, moderator, admin).
  - DELETE /{review_id}/comments/{comment_id} : Delete (author, moderator, admin).
*/
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listReviews)
	router.Post("/", handler.createReview)

	router.Route("/{review_id}", func(router chi.Router) {
		router.Get("/", handler.getReview)
		router.Patch("/", handler.updateReview)
		router.Delete("/", handler.deleteReview)

		router.Route("/comments", func(router chi.Router) {
			router.Get("/", handler.listComments)
			router.Post("/", handler.createComment)
			router.Get("/{comment_id}", handler.getComment)
			router.Patch("/{comment_id}", handler.updateComment)
			router.Delete("/{comment_id}", handler.deleteComment)
		})
	})

	return router
}

// # Request Payloads

type createReviewRequest struct {
	Text  string `json:"text"`
	Score int    `json:"score"`
}

type updateReviewRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

type commentRequest struct {
	Text string `json:"text"`
}

// pathID parses one int64 route parameter, mapping garbage to a 404 for the
// named resource.
func pathID(request *http.Request, name, resource string) (int64, error) {
	id, err := strconv.ParseInt(requestutil.Param(request, name), 10, 64)
	if err != nil {
		return 0, apperr.NotFound(resource)
	}
	return id, nil
}

// reviewPath parses the {title_id} and {review_id} route parameters.
func reviewPath(request *http.Request) (titleID, reviewID int64, err error) {
	if titleID, err = pathID(request, "title_id", "Title"); err != nil {
		return 0, 0, err
	}
	if reviewID, err = pathID(request, "review_id", "Review"); err != nil {
		return 0, 0, err
	}
	return titleID, reviewID, nil
}

// # Review Endpoints

/*
ListReviews returns a title's reviews, newest first.

GET /api/v1/titles/{title_id}/reviews?page=&limit=

Response:
  - 200: []Review with pagination metadata
  - 404: Unknown title
*/
func (handler *Handler) listReviews(writer http.ResponseWriter, request *http.Request) {
	titleID, err := pathID(request, "title_id", "Title")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	reviews, total, err := handler.service.ListReviews(request.Context(), titleID, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, reviews, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
CreateReview publishes a new review on a title.

POST /api/v1/titles/{title_id}/reviews

Response:
  - 201: Review: Created entity
  - 400: Validation failure (score bounds, duplicate review)
  - 401: Missing credentials
  - 404: Unknown title
*/
func (handler *Handler) createReview(writer http.ResponseWriter, request *http.Request) {
	titleID, err := pathID(request, "title_id", "Title")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createReviewRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("text", input.Text).
		Range("score", input.Score, constants.MinScore, constants.MaxScore)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.CreateReview(request.Context(), requestutil.Actor(request), titleID, input.Text, input.Score)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, review)
}

/*
GetReview retrieves one review.

GET /api/v1/titles/{title_id}/reviews/{review_id}

Response:
  - 200: Review
  - 404: Unknown title or review
*/
func (handler *Handler) getReview(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := reviewPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.GetReview(request.Context(), titleID, reviewID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, review)
}

/*
UpdateReview applies a partial update to a review.

PATCH /api/v1/titles/{title_id}/reviews/{review_id}

Response:
  - 200: Review: The updated entity
  - 400: Validation failure
  - 401/403: Missing or insufficient credentials
  - 404: Unknown title or review
*/
func (handler *Handler) updateReview(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := reviewPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateReviewRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if input.Text != nil {
		validator.Required("text", *input.Text)
	}
	if input.Score != nil {
		validator.Range("score", *input.Score, constants.MinScore, constants.MaxScore)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.UpdateReview(request.Context(), requestutil.Actor(request), titleID, reviewID, input.Text, input.Score)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, review)
}

/*
DeleteReview removes a review together with its comments.

DELETE /api/v1/titles/{title_id}/reviews/{review_id}

Response:
  - 204: No Content
  - 401/403: Missing or insufficient credentials
  - 404: Unknown title or review
*/
func (handler *Handler) deleteReview(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := reviewPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteReview(request.Context(), requestutil.Actor(request), titleID, reviewID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Comment Endpoints

/*
ListComments returns a review's comments, oldest first.

GET /api/v1/titles/{title_id}/reviews/{review_id}/comments?page=&limit=

Response:
  - 200: []Comment with pagination metadata
  - 404: Unknown title or review
*/
func (handler *Handler) listComments(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := reviewPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	comments, total, err := handler.service.ListComments(request.Context(), titleID, reviewID, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, comments, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
CreateComment publishes a new comment on a review.

POST /api/v1/titles/{title_id}/reviews/{review_id}/comments

Response:
  - 201: Comment: Created entity
  - 400: Validation failure
  - 401: Missing credentials
  - 404: Unknown title or review
*/
func (handler *Handler) createComment(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := reviewPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input commentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("text", input.Text)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.CreateComment(request.Context(), requestutil.Actor(request), titleID, reviewID, input.Text)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, comment)
}

/*
GetComment retrieves one comment.

GET /api/v1/titles/{title_id}/reviews/{review_id}/comments/{comment_id}

Response:
  - 200: Comment
  - 404: Unknown title, review, or comment
*/
func (handler *Handler) getComment(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := reviewPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	commentID, err := pathID(request, "comment_id", "Comment")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.GetComment(request.Context(), titleID, reviewID, commentID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comment)
}

/*
UpdateComment replaces the text of a comment.

PATCH /api/v1/titles/{title_id}/reviews/{review_id}/comments/{comment_id}

Response:
  - 200: Comment: The updated entity
  - 400: Validation failure
  - 401/403: Missing or insufficient credentials
  - 404: Unknown title, review, or comment
*/
func (handler *Handler) updateComment(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := reviewPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	commentID, err := pathID(request, "comment_id", "Comment")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input commentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required("text", input.Text)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.UpdateComment(request.Context(), requestutil.Actor(request), titleID, reviewID, commentID, input.Text)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comment)
}

/*
DeleteComment removes a comment.

DELETE /api/v1/titles/{title_id}/reviews/{review_id}/comments/{comment_id}

Response:
  - 204: No Content
  - 401/403: Missing or insufficient credentials
  - 404: Unknown title, review, or comment
*/
func (handler *Handler) deleteComment(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := reviewPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	commentID, err := pathID(request, "comment_id", "Comment")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteComment(request.Context(), requestutil.Actor(request), titleID, reviewID, commentID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
