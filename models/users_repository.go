package models

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type UsersRepository struct {
	db *gorm.DB
}

func NewUsersRepository(db *gorm.DB) *UsersRepository {
	return &UsersRepository{db: db}
}

func (r *UsersRepository) Create(ctx context.Context, user *User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UsersRepository) GetByID(ctx context.Context, id uint) (*User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UsersRepository) first(ctx context.Context, cond string, arg any) (*User, error) {
	var user User
	if err := r.db.WithContext(ctx).Where(cond, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UsersRepository) GetAllUsers(ctx context.Context) ([]User, error) {
	users := []User{}
	if err := r.db.WithContext(ctx).Order("nom").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Search matches the term against name or email.
func (r *UsersRepository) Search(ctx context.Context, term string) ([]User, error) {
	users := []User{}
	pattern := likePattern(term)
	if err := r.db.WithContext(ctx).
		Where("nom LIKE ? OR email LIKE ?", pattern, pattern).
		Order("nom").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// EmailTaken reports whether another account than excludeID already uses email.
func (r *UsersRepository) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&User{}).
		Where("email = ? AND id <> ?", email, excludeID).
		Count(&total).Error
	return total > 0, err
}

// Update rewrites name, email and role. The password hash is left untouched.
func (r *UsersRepository) Update(ctx context.Context, user *User) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"nom":   user.Name,
			"email": user.Email,
			"role":  user.Role,
		})
	return res.RowsAffected, res.Error
}

func (r *UsersRepository) UpdatePassword(ctx context.Context, id uint, hash string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", id).
		Update("mot_de_passe", hash)
	return res.RowsAffected, res.Error
}

func (r *UsersRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&User{}, id)
	return res.RowsAffected, res.Error
}

func (r *UsersRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&User{}).Count(&total).Error
	return total, err
}
