package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"gorm.io/gorm"

	"github.com/s4m/pharmacy/app/catalog"
	"github.com/s4m/pharmacy/app/categories"
	"github.com/s4m/pharmacy/app/login"
	"github.com/s4m/pharmacy/app/server"
	"github.com/s4m/pharmacy/app/users"
	"github.com/s4m/pharmacy/auth"
	"github.com/s4m/pharmacy/config"
	"github.com/s4m/pharmacy/database"
	"github.com/s4m/pharmacy/models"
	"github.com/s4m/pharmacy/services"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON API",
		Long: `Prepare the database like init-db, then serve the JSON API until interrupted.
A single session is shared by every client, as with the desktop application.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			return runApp(cmd.Context(), fx.New(serveOptions(cfg, logger)))
		},
	}
}

func runApp(ctx context.Context, app *fx.App) error {
	startCtx, cancel := context.WithTimeout(ctx, app.StartTimeout())
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return errors.Wrap(err, "start application")
	}

	<-app.Wait()

	stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancel()
	return app.Stop(stopCtx)
}

func serveOptions(cfg *config.Config, logger *slog.Logger) fx.Option {
	return fx.Options(
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
		}),
		fx.Supply(cfg, logger),
		fx.Provide(
			newDatabase,
			newHasher,
			models.NewCategoriesRepository,
			models.NewProductsRepository,
			models.NewUsersRepository,
			services.NewCategoryService,
			services.NewProductService,
			services.NewUserService,
			auth.NewSession,
			newAuthenticator,
			newHandlers,
			newRouter,
		),
		fx.Invoke(startHTTPServer),
	)
}

func newDatabase(lc fx.Lifecycle, cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	db, err := database.Setup(context.Background(), cfg, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return database.Close(db)
		},
	})
	return db, nil
}

func newHasher(cfg *config.Config) (auth.PasswordHasher, error) {
	return auth.NewHasher(cfg.Auth.Scheme, cfg.Auth.Cost)
}

func newAuthenticator(users *services.UserService, hasher auth.PasswordHasher, session *auth.Session, logger *slog.Logger, cfg *config.Config) *auth.Authenticator {
	return auth.NewAuthenticator(users, hasher, session, logger, auth.Options{Rehash: cfg.Auth.Rehash})
}

func newHandlers(
	authenticator *auth.Authenticator,
	session *auth.Session,
	categorySvc *services.CategoryService,
	productSvc *services.ProductService,
	userSvc *services.UserService,
	logger *slog.Logger,
) server.Handlers {
	return server.Handlers{
		Login:      login.NewLoginHandler(authenticator, logger),
		Categories: categories.NewCategoryHandler(categorySvc),
		Catalog:    catalog.NewCatalogHandler(productSvc),
		Users:      users.NewUserHandler(userSvc, session),
	}
}

func newRouter(h server.Handlers, session *auth.Session, logger *slog.Logger) http.Handler {
	return server.NewRouter(h, session, logger)
}

func startHTTPServer(lc fx.Lifecycle, cfg *config.Config, handler http.Handler, logger *slog.Logger) {
	srv := server.NewHTTPServer(cfg.HTTP, handler)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return errors.Wrapf(err, "listen on %s", srv.Addr)
			}
			logger.Info("starting HTTP server", slog.String("addr", ln.Addr().String()))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("HTTP server stopped", slog.Any("error", err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("shutting down HTTP server")
			return errors.WithStack(srv.Shutdown(ctx))
		},
	})
}
