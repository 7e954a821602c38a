package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pkg/errors"

	"github.com/s4m/pharmacy/models"
)

type CategoryService struct {
	repo   *models.CategoriesRepository
	logger *slog.Logger
}

func NewCategoryService(repo *models.CategoriesRepository, logger *slog.Logger) *CategoryService {
	return &CategoryService{repo: repo, logger: logger}
}

// Add stores a new category and returns its id.
func (s *CategoryService) Add(ctx context.Context, name string, description *string) (uint, error) {
	category := &models.Category{Name: strings.TrimSpace(name), Description: description}
	if err := validateStruct(category); err != nil {
		return 0, err
	}

	if err := s.repo.CreateCategory(ctx, category); err != nil {
		if isUniqueConstraintViolation(err) {
			return 0, invalid("name", "a category with this name already exists")
		}
		return 0, storageFailure(ctx, s.logger, "add category", err)
	}
	return category.ID, nil
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, storageFailure(ctx, s.logger, "get category", err)
	}
	return category, nil
}

// List returns every category ordered by name.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.GetAllCategories(ctx)
	if err != nil {
		return nil, storageFailure(ctx, s.logger, "list categories", err)
	}
	return categories, nil
}

// Search returns the categories whose name contains term.
func (s *CategoryService) Search(ctx context.Context, term string) ([]models.Category, error) {
	categories, err := s.repo.SearchByName(ctx, term)
	if err != nil {
		return nil, storageFailure(ctx, s.logger, "search categories", err)
	}
	return categories, nil
}

// Update rewrites name and description. It returns false when no category has that id.
func (s *CategoryService) Update(ctx context.Context, id uint, name string, description *string) (bool, error) {
	category := &models.Category{ID: id, Name: strings.TrimSpace(name), Description: description}
	if err := validateStruct(category); err != nil {
		return false, err
	}

	rows, err := s.repo.Update(ctx, category)
	if err != nil {
		if isUniqueConstraintViolation(err) {
			return false, invalid("name", "a category with this name already exists")
		}
		return false, storageFailure(ctx, s.logger, "update category", err)
	}
	return rows > 0, nil
}

// Delete removes a category. It returns false with ErrCategoryInUse while products reference it,
// and false without error when no category has that id.
func (s *CategoryService) Delete(ctx context.Context, id uint) (bool, error) {
	rows, err := s.repo.Delete(ctx, id)
	if err != nil {
		if isForeignKeyConstraintViolation(err) {
			s.logger.InfoContext(ctx, "category still in use", slog.Uint64("category_id", uint64(id)))
			return false, ErrCategoryInUse
		}
		return false, storageFailure(ctx, s.logger, "delete category", err)
	}
	return rows > 0, nil
}
