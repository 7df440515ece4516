package genre

import (
	"context"
	"log/slog"

	"github.com/mkazennov/kritika/pkg/slug"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (service *Service) List(context context.Context, search string, limit, offset int) ([]*Genre, int, error) {
	return service.repo.List(context, search, limit, offset)
}

// Create persists a new genre, deriving the slug from the name when the
// client omits one. Slug collisions surface as field-scoped validation errors.
func (service *Service) Create(context context.Context, name, slugValue string) (*Genre, error) {
	if slugValue == "" {
		slugValue = slug.From(name)
	}

	genre := &Genre{Name: name, Slug: slugValue}
	if err := service.repo.Create(context, genre); err != nil {
		return nil, err
	}

	service.logger.Info("genre_created", slog.String("slug", genre.Slug))

	return genre, nil
}

// Delete removes a genre by slug. Genres still carried by titles are
// protected and the attempt is rejected with a conflict.
func (service *Service) Delete(context context.Context, slugValue string) error {
	if err := service.repo.DeleteBySlug(context, slugValue); err != nil {
		return err
	}

	service.logger.Info("genre_deleted", slog.String("slug", slugValue))

	return nil
}
