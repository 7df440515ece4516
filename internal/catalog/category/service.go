package category

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

func (service *Service) List(context context.Context, search string, limit, offset int) ([]*Category, int, error) {
	return service.repo.List(context, search, limit, offset)
}

// Create persists a new category, deriving the slug from the name when the
// client omits one. Slug collisions surface as field-scoped validation errors.
func (service *Service) Create(context context.Context, name, slugValue string) (*Category, error) {
	if slugValue == "" {
		slugValue = slug.From(name)
	}

	category := &Category{Name: name, Slug: slugValue}
	if err := service.repo.Create(context, category); err != nil {
		return nil, err
	}

	service.logger.Info("category_created", slog.String("slug", category.Slug))

	return category, nil
}

// Delete removes a category by slug. Categories still referenced by titles
// are protected and the attempt is rejected with a conflict.
func (service *Service) Delete(context context.Context, slugValue string) error {
	if err := service.repo.DeleteBySlug(context, slugValue); err != nil {
		return err
	}

	service.logger.Info("category_deleted", slog.String("slug", slugValue))

	return nil
}
