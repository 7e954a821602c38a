package auth

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/s4m/pharmacy/models"
)

// UserFinder is the part of the user service the authenticator relies on.
type UserFinder interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ChangePassword(ctx context.Context, id uint, password string) (bool, error)
}

// Authenticator checks credentials and records the signed-in user in its session.
type Authenticator struct {
	users   UserFinder
	hasher  PasswordHasher
	session *Session
	rehash  bool
	logger  *slog.Logger
}

// Options tunes an Authenticator.
type Options struct {
	// Rehash upgrades legacy digests after a successful login when the hasher supports it.
	Rehash bool
}

func NewAuthenticator(users UserFinder, hasher PasswordHasher, session *Session, logger *slog.Logger, opts Options) *Authenticator {
	return &Authenticator{
		users:   users,
		hasher:  hasher,
		session: session,
		rehash:  opts.Rehash,
		logger:  logger,
	}
}

// Login reports whether the credentials match a stored account. An unknown email and a wrong
// password both yield false without an error. A non-nil error means the store could not be read.
func (a *Authenticator) Login(ctx context.Context, email, password string) (bool, error) {
	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return false, nil
		}
		return false, errors.Wrap(err, "look up user")
	}

	if !a.hasher.Verify(password, user.PasswordHash) {
		return false, nil
	}

	user = a.upgradeHash(ctx, user, password)
	a.session.Set(user)
	a.logger.InfoContext(ctx, "user signed in", slog.Uint64("user_id", uint64(user.ID)), slog.String("role", user.Role.String()))
	return true, nil
}

// upgradeHash rewrites a legacy digest and returns the user as now stored.
// On any failure the user read at sign-in is returned unchanged.
func (a *Authenticator) upgradeHash(ctx context.Context, user *models.User, password string) *models.User {
	rh, ok := a.hasher.(Rehasher)
	if !a.rehash || !ok || !rh.NeedsRehash(user.PasswordHash) {
		return user
	}
	if _, err := a.users.ChangePassword(ctx, user.ID, password); err != nil {
		a.logger.WarnContext(ctx, "password rehash failed", slog.Uint64("user_id", uint64(user.ID)), slog.Any("error", err))
		return user
	}
	fresh, err := a.users.GetByEmail(ctx, user.Email)
	if err != nil {
		a.logger.WarnContext(ctx, "reload after rehash failed", slog.Uint64("user_id", uint64(user.ID)), slog.Any("error", err))
		return user
	}
	return fresh
}

func (a *Authenticator) Logout() {
	a.session.Clear()
}

func (a *Authenticator) CurrentUser() (*models.User, bool) {
	return a.session.Current()
}

func (a *Authenticator) Session() *Session {
	return a.session
}
