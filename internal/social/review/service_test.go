// Copyright (c) 2026 Kritika. All rights reserved.
// Author: mkazennov.dev@gmail.com

package review_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkazennov/kritika/internal/platform/apperr"
	"github.com/mkazennov/kritika/internal/platform/authz"
	"github.com/mkazennov/kritika/internal/platform/clock"
	"github.com/mkazennov/kritika/internal/platform/sec"
	"github.com/mkazennov/kritika/internal/social/review"
	"github.com/mkazennov/kritika/pkg/pointer"
)

// # Fakes

type fakeReviewRepository struct {
	titles  map[int64]bool
	reviews map[int64]*review.Review
	nextID  int64

	// ratings holds the stored mean per title, refreshed on every write the
	// way the transactional recompute does. nil means NULL.
	ratings map[int64]*float64

	// recomputes records the title IDs whose rating was recomputed, one entry
	// per transactional write, in order.
	recomputes []int64
}

func newFakeReviewRepository(titleIDs ...int64) *fakeReviewRepository {
	titles := make(map[int64]bool, len(titleIDs))
	for _, id := range titleIDs {
		titles[id] = true
	}
	return &fakeReviewRepository{
		titles:  titles,
		reviews: make(map[int64]*review.Review),
		ratings: make(map[int64]*float64),
		nextID:  1,
	}
}

// recomputeRating mirrors the store: the title's stored rating becomes the
// mean of its current scores, or nil without reviews.
func (f *fakeReviewRepository) recomputeRating(titleID int64) {
	var scores []int
	for _, entity := range f.reviews {
		if entity.TitleID == titleID {
			scores = append(scores, entity.Score)
		}
	}
	f.ratings[titleID] = review.MeanScore(scores)
	f.recomputes = append(f.recomputes, titleID)
}

func (f *fakeReviewRepository) TitleExists(_ context.Context, titleID int64) (bool, error) {
	return f.titles[titleID], nil
}

func (f *fakeReviewRepository) ListByTitle(_ context.Context, titleID int64, limit, offset int) ([]*review.Review, int, error) {
	var matched []*review.Review
	for _, entity := range f.reviews {
		if entity.TitleID == titleID {
			matched = append(matched, entity)
		}
	}
	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (f *fakeReviewRepository) FindByID(_ context.Context, titleID, reviewID int64) (*review.Review, error) {
	entity, ok := f.reviews[reviewID]
	if !ok || entity.TitleID != titleID {
		return nil, apperr.NotFound("Review")
	}
	clone := *entity
	return &clone, nil
}

func (f *fakeReviewRepository) FindByAuthorAndTitle(_ context.Context, authorID string, titleID int64) (*review.Review, error) {
	for _, entity := range f.reviews {
		if entity.AuthorID == authorID && entity.TitleID == titleID {
			clone := *entity
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Review")
}

func (f *fakeReviewRepository) Create(_ context.Context, entity *review.Review) error {
	entity.ID = f.nextID
	f.nextID++
	clone := *entity
	f.reviews[entity.ID] = &clone
	f.recomputeRating(entity.TitleID)
	return nil
}

func (f *fakeReviewRepository) Update(_ context.Context, entity *review.Review) error {
	stored, ok := f.reviews[entity.ID]
	if !ok || stored.TitleID != entity.TitleID {
		return apperr.NotFound("Review")
	}
	stored.Text = entity.Text
	stored.Score = entity.Score
	f.recomputeRating(entity.TitleID)
	return nil
}

func (f *fakeReviewRepository) Delete(_ context.Context, titleID, reviewID int64) error {
	stored, ok := f.reviews[reviewID]
	if !ok || stored.TitleID != titleID {
		return apperr.NotFound("Review")
	}
	delete(f.reviews, reviewID)
	f.recomputeRating(titleID)
	return nil
}

type fakeCommentRepository struct {
	comments map[int64]*review.Comment
	nextID   int64
}

func newFakeCommentRepository() *fakeCommentRepository {
	return &fakeCommentRepository{
		comments: make(map[int64]*review.Comment),
		nextID:   1,
	}
}

func (f *fakeCommentRepository) ListByReview(_ context.Context, reviewID int64, limit, offset int) ([]*review.Comment, int, error) {
	var matched []*review.Comment
	for _, entity := range f.comments {
		if entity.ReviewID == reviewID {
			matched = append(matched, entity)
		}
	}
	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (f *fakeCommentRepository) FindByID(_ context.Context, reviewID, commentID int64) (*review.Comment, error) {
	entity, ok := f.comments[commentID]
	if !ok || entity.ReviewID != reviewID {
		return nil, apperr.NotFound("Comment")
	}
	clone := *entity
	return &clone, nil
}

func (f *fakeCommentRepository) Create(_ context.Context, entity *review.Comment) error {
	entity.ID = f.nextID
	f.nextID++
	clone := *entity
	f.comments[entity.ID] = &clone
	return nil
}

func (f *fakeCommentRepository) Update(_ context.Context, entity *review.Comment) error {
	stored, ok := f.comments[entity.ID]
	if !ok || stored.ReviewID != entity.ReviewID {
		return apperr.NotFound("Comment")
	}
	stored.Text = entity.Text
	return nil
}

func (f *fakeCommentRepository) Delete(_ context.Context, reviewID, commentID int64) error {
	stored, ok := f.comments[commentID]
	if !ok || stored.ReviewID != reviewID {
		return apperr.NotFound("Comment")
	}
	delete(f.comments, commentID)
	return nil
}

// # Fixtures

var frozen = clock.Fixed{Instant: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)}

func newService(reviews *fakeReviewRepository, comments *fakeCommentRepository) *review.Service {
	return review.NewService(reviews, comments, frozen, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func actorWith(id string, role sec.UserRole) *authz.Actor {
	return &authz.Actor{ID: id, Username: "user-" + id, Role: role}
}

// # Review Tests

func TestService_CreateReview(t *testing.T) {
	reviews := newFakeReviewRepository(7)
	service := newService(reviews, newFakeCommentRepository())
	author := actorWith("a1", sec.RoleUser)

	created, err := service.CreateReview(context.Background(), author, 7, "Holds up on a rewatch.", 9)
	require.NoError(t, err)

	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "a1", created.AuthorID)
	assert.Equal(t, "user-a1", created.Author)
	assert.Equal(t, 9, created.Score)
	assert.Equal(t, frozen.Instant, created.PubDate)

	// The write must have gone through the transactional rating recompute.
	assert.Equal(t, []int64{7}, reviews.recomputes)
}

func TestService_CreateReview_Anonymous(t *testing.T) {
	service := newService(newFakeReviewRepository(7), newFakeCommentRepository())

	_, err := service.CreateReview(context.Background(), nil, 7, "text", 5)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus)
}

func TestService_CreateReview_UnknownTitle(t *testing.T) {
	service := newService(newFakeReviewRepository(7), newFakeCommentRepository())

	_, err := service.CreateReview(context.Background(), actorWith("a1", sec.RoleUser), 99, "text", 5)

	assert.True(t, apperr.IsNotFound(err))
}

func TestService_CreateReview_ScoreBounds(t *testing.T) {
	tests := []struct {
		name    string
		score   int
		wantErr bool
	}{
		{name: "below_minimum", score: 0, wantErr: true},
		{name: "at_minimum", score: 1, wantErr: false},
		{name: "at_maximum", score: 10, wantErr: false},
		{name: "above_maximum", score: 11, wantErr: true},
	}

	for index, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			service := newService(newFakeReviewRepository(7), newFakeCommentRepository())
			author := actorWith("a1", sec.RoleUser)

			_, err := service.CreateReview(context.Background(), author, 7, "text", test.score)

			if !test.wantErr {
				require.NoError(t, err)
				return
			}

			ae := apperr.As(err)
			require.NotNil(t, ae, "case %d", index)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
			require.Len(t, ae.Details, 1)
			assert.Equal(t, "score", ae.Details[0].Field)
		})
	}
}

func TestService_CreateReview_Duplicate(t *testing.T) {
	reviews := newFakeReviewRepository(7)
	service := newService(reviews, newFakeCommentRepository())
	author := actorWith("a1", sec.RoleUser)

	_, err := service.CreateReview(context.Background(), author, 7, "First take.", 8)
	require.NoError(t, err)

	_, err = service.CreateReview(context.Background(), author, 7, "Second take.", 3)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	require.Len(t, ae.Details, 1)
	assert.Equal(t, "title", ae.Details[0].Field)

	// A different user is still free to review the same title.
	_, err = service.CreateReview(context.Background(), actorWith("a2", sec.RoleUser), 7, "Disagree.", 4)
	assert.NoError(t, err)
}

func TestService_UpdateReview_Authorization(t *testing.T) {
	tests := []struct {
		name       string
		actor      *authz.Actor
		wantStatus int
	}{
		{name: "anonymous", actor: nil, wantStatus: http.StatusUnauthorized},
		{name: "other_user", actor: actorWith("a2", sec.RoleUser), wantStatus: http.StatusForbidden},
		{name: "author", actor: actorWith("a1", sec.RoleUser), wantStatus: 0},
		{name: "moderator", actor: actorWith("m1", sec.RoleModerator), wantStatus: 0},
		{name: "admin", actor: actorWith("adm", sec.RoleAdmin), wantStatus: 0},
		{name: "superuser", actor: &authz.Actor{ID: "s1", Username: "root", Role: sec.RoleUser, Superuser: true}, wantStatus: 0},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			reviews := newFakeReviewRepository(7)
			service := newService(reviews, newFakeCommentRepository())

			created, err := service.CreateReview(context.Background(), actorWith("a1", sec.RoleUser), 7, "Original.", 6)
			require.NoError(t, err)

			updated, err := service.UpdateReview(context.Background(), test.actor, 7, created.ID, pointer.To("Edited."), pointer.To(2))

			if test.wantStatus == 0 {
				require.NoError(t, err)
				assert.Equal(t, "Edited.", updated.Text)
				assert.Equal(t, 2, updated.Score)
				return
			}

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, test.wantStatus, ae.HTTPStatus)
		})
	}
}

func TestService_UpdateReview_PartialAndPubDate(t *testing.T) {
	reviews := newFakeReviewRepository(7)
	service := newService(reviews, newFakeCommentRepository())
	author := actorWith("a1", sec.RoleUser)

	created, err := service.CreateReview(context.Background(), author, 7, "Original.", 6)
	require.NoError(t, err)

	// A nil score leaves the stored score alone.
	updated, err := service.UpdateReview(context.Background(), author, 7, created.ID, pointer.To("Edited."), nil)
	require.NoError(t, err)

	assert.Equal(t, "Edited.", updated.Text)
	assert.Equal(t, 6, updated.Score)
	assert.Equal(t, created.PubDate, updated.PubDate, "publication date never changes on edit")

	// Create then update: two transactional recomputes on the same title.
	assert.Equal(t, []int64{7, 7}, reviews.recomputes)
}

func TestService_DeleteReview(t *testing.T) {
	reviews := newFakeReviewRepository(7)
	service := newService(reviews, newFakeCommentRepository())
	author := actorWith("a1", sec.RoleUser)

	created, err := service.CreateReview(context.Background(), author, 7, "Going away.", 5)
	require.NoError(t, err)

	require.NoError(t, service.DeleteReview(context.Background(), author, 7, created.ID))

	_, err = service.GetReview(context.Background(), 7, created.ID)
	assert.True(t, apperr.IsNotFound(err))

	// Create and delete both recompute the rating.
	assert.Equal(t, []int64{7, 7}, reviews.recomputes)
}

func TestService_GetReview_WrongTitleScope(t *testing.T) {
	reviews := newFakeReviewRepository(7, 8)
	service := newService(reviews, newFakeCommentRepository())

	created, err := service.CreateReview(context.Background(), actorWith("a1", sec.RoleUser), 7, "Scoped.", 5)
	require.NoError(t, err)

	// The same review ID under another title is a 404, not a leak.
	_, err = service.GetReview(context.Background(), 8, created.ID)
	assert.True(t, apperr.IsNotFound(err))
}

// # Comment Tests

func TestService_CreateComment(t *testing.T) {
	reviews := newFakeReviewRepository(7)
	comments := newFakeCommentRepository()
	service := newService(reviews, comments)

	created, err := service.CreateReview(context.Background(), actorWith("a1", sec.RoleUser), 7, "Reviewed.", 5)
	require.NoError(t, err)

	commenter := actorWith("c1", sec.RoleUser)
	comment, err := service.CreateComment(context.Background(), commenter, 7, created.ID, "Strongly agree.")
	require.NoError(t, err)

	assert.Equal(t, int64(1), comment.ID)
	assert.Equal(t, created.ID, comment.ReviewID)
	assert.Equal(t, "c1", comment.AuthorID)
	assert.Equal(t, frozen.Instant, comment.PubDate)
}

func TestService_CreateComment_UnknownReview(t *testing.T) {
	service := newService(newFakeReviewRepository(7), newFakeCommentRepository())

	_, err := service.CreateComment(context.Background(), actorWith("c1", sec.RoleUser), 7, 42, "Orphan.")

	assert.True(t, apperr.IsNotFound(err))
}

func TestService_UpdateComment_Authorization(t *testing.T) {
	reviews := newFakeReviewRepository(7)
	comments := newFakeCommentRepository()
	service := newService(reviews, comments)

	created, err := service.CreateReview(context.Background(), actorWith("a1", sec.RoleUser), 7, "Reviewed.", 5)
	require.NoError(t, err)

	comment, err := service.CreateComment(context.Background(), actorWith("c1", sec.RoleUser), 7, created.ID, "Mine.")
	require.NoError(t, err)

	// A different plain user may not edit someone else's comment.
	_, err = service.UpdateComment(context.Background(), actorWith("c2", sec.RoleUser), 7, created.ID, comment.ID, "Hijacked.")
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusForbidden, ae.HTTPStatus)

	// A moderator may.
	edited, err := service.UpdateComment(context.Background(), actorWith("m1", sec.RoleModerator), 7, created.ID, comment.ID, "Moderated.")
	require.NoError(t, err)
	assert.Equal(t, "Moderated.", edited.Text)
}

func TestService_DeleteComment(t *testing.T) {
	reviews := newFakeReviewRepository(7)
	comments := newFakeCommentRepository()
	service := newService(reviews, comments)

	author := actorWith("c1", sec.RoleUser)

	created, err := service.CreateReview(context.Background(), actorWith("a1", sec.RoleUser), 7, "Reviewed.", 5)
	require.NoError(t, err)

	comment, err := service.CreateComment(context.Background(), author, 7, created.ID, "Temporary.")
	require.NoError(t, err)

	require.NoError(t, service.DeleteComment(context.Background(), author, 7, created.ID, comment.ID))

	_, err = service.GetComment(context.Background(), 7, created.ID, comment.ID)
	assert.True(t, apperr.IsNotFound(err))
}

// # Rating Tests

func TestMeanScore(t *testing.T) {
	tests := []struct {
		name   string
		scores []int
		want   *float64
	}{
		{name: "no_reviews", scores: nil, want: nil},
		{name: "single_review", scores: []int{5}, want: pointer.To(5.0)},
		{name: "whole_mean", scores: []int{8, 6}, want: pointer.To(7.0)},
		{name: "fractional_mean", scores: []int{7, 6}, want: pointer.To(6.5)},
		{name: "full_range", scores: []int{1, 10}, want: pointer.To(5.5)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := review.MeanScore(test.scores)

			if test.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *test.want, *got)
		})
	}
}

func TestService_RatingFollowsReviewWrites(t *testing.T) {
	reviews := newFakeReviewRepository(7)
	service := newService(reviews, newFakeCommentRepository())

	first := actorWith("a1", sec.RoleUser)
	second := actorWith("a2", sec.RoleUser)

	// First review: the rating is its score.
	created, err := service.CreateReview(context.Background(), first, 7, "Strong.", 8)
	require.NoError(t, err)
	require.NotNil(t, reviews.ratings[7])
	assert.Equal(t, 8.0, *reviews.ratings[7])

	// Second review: the rating is the mean of both scores.
	other, err := service.CreateReview(context.Background(), second, 7, "Decent.", 6)
	require.NoError(t, err)
	require.NotNil(t, reviews.ratings[7])
	assert.Equal(t, 7.0, *reviews.ratings[7])

	// Editing a score moves the mean.
	_, err = service.UpdateReview(context.Background(), first, 7, created.ID, nil, pointer.To(2))
	require.NoError(t, err)
	require.NotNil(t, reviews.ratings[7])
	assert.Equal(t, 4.0, *reviews.ratings[7])

	// Deleting one review leaves the survivor's score.
	require.NoError(t, service.DeleteReview(context.Background(), first, 7, created.ID))
	require.NotNil(t, reviews.ratings[7])
	assert.Equal(t, 6.0, *reviews.ratings[7])

	// Deleting the last review resets the rating to null.
	require.NoError(t, service.DeleteReview(context.Background(), second, 7, other.ID))
	assert.Nil(t, reviews.ratings[7])
}
