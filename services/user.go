package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pkg/errors"

	"github.com/s4m/pharmacy/auth"
	"github.com/s4m/pharmacy/models"
)

const duplicateEmailReason = "a user with this email already exists"

type UserService struct {
	repo   *models.UsersRepository
	hasher auth.PasswordHasher
	logger *slog.Logger
}

func NewUserService(repo *models.UsersRepository, hasher auth.PasswordHasher, logger *slog.Logger) *UserService {
	return &UserService{repo: repo, hasher: hasher, logger: logger}
}

// Add hashes password, stores the user and returns its id. The store assigns the id.
// The email is checked for uniqueness first; the unique index remains the final authority.
func (s *UserService) Add(ctx context.Context, user *models.User, password string) (uint, error) {
	normalizeUser(user)
	if err := validateStruct(user); err != nil {
		return 0, err
	}
	if password == "" {
		return 0, invalid("password", "password is required")
	}
	if err := s.checkEmailFree(ctx, user.Email, 0); err != nil {
		return 0, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return 0, errors.Wrap(err, "hash password")
	}
	user.PasswordHash = hash
	user.ID = 0

	if err := s.repo.Create(ctx, user); err != nil {
		if isUniqueConstraintViolation(err) {
			return 0, invalid("email", duplicateEmailReason)
		}
		return 0, storageFailure(ctx, s.logger, "add user", err)
	}
	return user.ID, nil
}

// normalizeUser trims name and email the way they are typed at sign-in.
func normalizeUser(user *models.User) {
	user.Name = strings.TrimSpace(user.Name)
	user.Email = strings.TrimSpace(user.Email)
}

func (s *UserService) checkEmailFree(ctx context.Context, email string, excludeID uint) error {
	taken, err := s.repo.EmailTaken(ctx, email, excludeID)
	if err != nil {
		return storageFailure(ctx, s.logger, "check email", err)
	}
	if taken {
		return invalid("email", duplicateEmailReason)
	}
	return nil
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.lookup(ctx, "get user", func() (*models.User, error) { return s.repo.GetByID(ctx, id) })
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.lookup(ctx, "get user by email", func() (*models.User, error) { return s.repo.GetByEmail(ctx, email) })
}

func (s *UserService) lookup(ctx context.Context, op string, fn func() (*models.User, error)) (*models.User, error) {
	user, err := fn()
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, storageFailure(ctx, s.logger, op, err)
	}
	return user, nil
}

// List returns every user ordered by name.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.GetAllUsers(ctx)
	if err != nil {
		return nil, storageFailure(ctx, s.logger, "list users", err)
	}
	return users, nil
}

// Search returns the users whose name or email contains term.
func (s *UserService) Search(ctx context.Context, term string) ([]models.User, error) {
	users, err := s.repo.Search(ctx, term)
	if err != nil {
		return nil, storageFailure(ctx, s.logger, "search users", err)
	}
	return users, nil
}

// Update rewrites name, email and role; the password is not touched.
// It returns false when no user has that id.
func (s *UserService) Update(ctx context.Context, user *models.User) (bool, error) {
	normalizeUser(user)
	if err := validateStruct(user); err != nil {
		return false, err
	}
	if user.ID == 0 {
		return false, invalid("id", "user id is required")
	}
	if err := s.checkEmailFree(ctx, user.Email, user.ID); err != nil {
		return false, err
	}

	rows, err := s.repo.Update(ctx, user)
	if err != nil {
		if isUniqueConstraintViolation(err) {
			return false, invalid("email", duplicateEmailReason)
		}
		return false, storageFailure(ctx, s.logger, "update user", err)
	}
	return rows > 0, nil
}

// ChangePassword re-hashes and overwrites the password without checking the previous one.
func (s *UserService) ChangePassword(ctx context.Context, id uint, password string) (bool, error) {
	if password == "" {
		return false, invalid("password", "password must not be empty")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return false, errors.Wrap(err, "hash password")
	}

	rows, err := s.repo.UpdatePassword(ctx, id, hash)
	if err != nil {
		return false, storageFailure(ctx, s.logger, "change password", err)
	}
	return rows > 0, nil
}

func (s *UserService) Delete(ctx context.Context, id uint) (bool, error) {
	rows, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, storageFailure(ctx, s.logger, "delete user", err)
	}
	return rows > 0, nil
}
