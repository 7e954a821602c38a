// Package server assembles the HTTP handlers into the application's routing table.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/s4m/pharmacy/app/api"
	"github.com/s4m/pharmacy/app/catalog"
	"github.com/s4m/pharmacy/app/categories"
	"github.com/s4m/pharmacy/app/login"
	"github.com/s4m/pharmacy/app/users"
	"github.com/s4m/pharmacy/config"
)

type Handlers struct {
	Login      *login.LoginHandler
	Categories *categories.CategoryHandler
	Catalog    *catalog.CatalogHandler
	Users      *users.UserHandler
}

// NewRouter routes every endpoint. Login routes are public, categories and products need a
// session and user management needs an ADMIN session.
func NewRouter(h Handlers, sessions api.SessionReader, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	signedIn := func(f http.HandlerFunc) http.Handler { return api.RequireSession(sessions, f) }
	admin := func(f http.HandlerFunc) http.Handler { return api.RequireAdmin(sessions, f) }

	mux.HandleFunc("POST /login", h.Login.HandleLogin)
	mux.HandleFunc("POST /logout", h.Login.HandleLogout)
	mux.HandleFunc("GET /me", h.Login.HandleMe)

	mux.Handle("GET /categories", signedIn(h.Categories.HandleGetAll))
	mux.Handle("POST /categories", signedIn(h.Categories.HandleCreate))
	mux.Handle("GET /categories/{id}", signedIn(h.Categories.HandleGet))
	mux.Handle("PUT /categories/{id}", signedIn(h.Categories.HandleUpdate))
	mux.Handle("DELETE /categories/{id}", signedIn(h.Categories.HandleDelete))

	mux.Handle("GET /products", signedIn(h.Catalog.HandleGet))
	mux.Handle("GET /products/low-stock", signedIn(h.Catalog.HandleGetLowStock))
	mux.Handle("POST /products", signedIn(h.Catalog.HandleCreate))
	mux.Handle("GET /products/{id}", signedIn(h.Catalog.HandleGetProduct))
	mux.Handle("PUT /products/{id}", signedIn(h.Catalog.HandleUpdate))
	mux.Handle("DELETE /products/{id}", signedIn(h.Catalog.HandleDelete))

	mux.Handle("GET /users", admin(h.Users.HandleGetAll))
	mux.Handle("POST /users", admin(h.Users.HandleCreate))
	mux.Handle("GET /users/{id}", admin(h.Users.HandleGet))
	mux.Handle("PUT /users/{id}", admin(h.Users.HandleUpdate))
	mux.Handle("PUT /users/{id}/password", admin(h.Users.HandleChangePassword))
	mux.Handle("DELETE /users/{id}", admin(h.Users.HandleDelete))

	return api.RequestID(api.Logging(logger)(mux))
}

func NewHTTPServer(cfg config.HTTP, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
