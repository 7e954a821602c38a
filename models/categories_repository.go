package models

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type CategoriesRepository struct {
	db *gorm.DB
}

func NewCategoriesRepository(db *gorm.DB) *CategoriesRepository {
	return &CategoriesRepository{db: db}
}

func (r *CategoriesRepository) CreateCategory(ctx context.Context, category *Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *CategoriesRepository) GetAllCategories(ctx context.Context) ([]Category, error) {
	categories := []Category{}
	if err := r.db.WithContext(ctx).Order("nom").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *CategoriesRepository) SearchByName(ctx context.Context, term string) ([]Category, error) {
	categories := []Category{}
	if err := r.db.WithContext(ctx).
		Where("nom LIKE ?", likePattern(term)).
		Order("nom").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *CategoriesRepository) GetByID(ctx context.Context, id uint) (*Category, error) {
	var category Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// Update rewrites name and description and reports how many rows matched.
func (r *CategoriesRepository) Update(ctx context.Context, category *Category) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Category{}).
		Where("id = ?", category.ID).
		Updates(map[string]any{
			"nom":         category.Name,
			"description": category.Description,
		})
	return res.RowsAffected, res.Error
}

// Delete removes the category. The store refuses while products still reference it.
func (r *CategoriesRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&Category{}, id)
	return res.RowsAffected, res.Error
}

func (r *CategoriesRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&Category{}).Count(&total).Error
	return total, err
}
