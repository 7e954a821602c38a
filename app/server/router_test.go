package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s4m/pharmacy/app/api"
	"github.com/s4m/pharmacy/app/catalog"
	"github.com/s4m/pharmacy/app/categories"
	"github.com/s4m/pharmacy/app/login"
	"github.com/s4m/pharmacy/app/users"
	"github.com/s4m/pharmacy/auth"
	"github.com/s4m/pharmacy/config"
	"github.com/s4m/pharmacy/database"
	"github.com/s4m/pharmacy/models"
	"github.com/s4m/pharmacy/services"
)

// newTestRouter wires the whole application over a seeded sqlite file.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := config.Default()
	cfg.Database.Driver = database.DriverSQLite
	cfg.Database.Path = filepath.Join(t.TempDir(), "pharmacy.db")
	db, err := database.Open(ctx, cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.Bootstrap(ctx, db, logger))

	hasher := auth.SHA256Hasher{}
	userSvc := services.NewUserService(models.NewUsersRepository(db), hasher, logger)
	session := auth.NewSession()
	authenticator := auth.NewAuthenticator(userSvc, hasher, session, logger, auth.Options{})

	return NewRouter(Handlers{
		Login:      login.NewLoginHandler(authenticator, logger),
		Categories: categories.NewCategoryHandler(services.NewCategoryService(models.NewCategoriesRepository(db), logger)),
		Catalog:    catalog.NewCatalogHandler(services.NewProductService(models.NewProductsRepository(db), logger)),
		Users:      users.NewUserHandler(userSvc, session),
	}, session, logger)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, reader))
	return rec
}

func signIn(t *testing.T, h http.Handler, email string) {
	t.Helper()
	rec := do(t, h, "POST", "/login", `{"email":"`+email+`","password":"admin123"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestRoutesRequireSession(t *testing.T) {
	h := newTestRouter(t)

	for _, path := range []string{"/categories", "/products", "/products/low-stock", "/categories/1", "/me"} {
		rec := do(t, h, "GET", path, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
	assert.Equal(t, http.StatusUnauthorized, do(t, h, "GET", "/users", "").Code)
}

func TestWrongPasswordKeepsSessionEmpty(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, "POST", "/login", `{"email":"admin@pharmacy.com","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, h, "GET", "/me", "").Code)
}

func TestAdminWorkflow(t *testing.T) {
	h := newTestRouter(t)
	signIn(t, h, "admin@pharmacy.com")

	t.Run("me", func(t *testing.T) {
		rec := do(t, h, "GET", "/me", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var me login.UserResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&me))
		assert.Equal(t, "ADMIN", me.Role)
	})

	t.Run("seeded categories", func(t *testing.T) {
		rec := do(t, h, "GET", "/categories", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var list []categories.CategoryResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
		assert.Len(t, list, 5)
	})

	t.Run("low stock", func(t *testing.T) {
		rec := do(t, h, "GET", "/products/low-stock", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var resp catalog.Response
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.Equal(t, 1, resp.Total)
		assert.Equal(t, "Ibuprofène 400mg", resp.Products[0].Name)
		require.NotNil(t, resp.Products[0].Category)
		assert.Equal(t, "Analgésiques", resp.Products[0].Category.Name)
	})

	t.Run("category in use", func(t *testing.T) {
		rec := do(t, h, "DELETE", "/categories/2", "")
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("create and delete product", func(t *testing.T) {
		rec := do(t, h, "POST", "/products",
			`{"name":"Bétadine","price":"5.10","quantity":12,"expiration_date":"2027-02-28","category_id":5}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var created catalog.Product
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
		assert.NotZero(t, created.ID)

		path := "/products/" + strconv.FormatUint(uint64(created.ID), 10)
		assert.Equal(t, http.StatusOK, do(t, h, "GET", path, "").Code)
		assert.Equal(t, http.StatusNoContent, do(t, h, "DELETE", path, "").Code)
		assert.Equal(t, http.StatusNotFound, do(t, h, "GET", path, "").Code)
	})

	t.Run("negative price", func(t *testing.T) {
		rec := do(t, h, "POST", "/products",
			`{"name":"Bétadine","price":"-5","quantity":12,"expiration_date":"2027-02-28","category_id":5}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "price")
	})

	t.Run("cannot delete own account", func(t *testing.T) {
		rec := do(t, h, "DELETE", "/users/1", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"You cannot delete your own account"}`, rec.Body.String())
	})

	t.Run("request id", func(t *testing.T) {
		rec := do(t, h, "GET", "/categories", "")
		assert.NotEmpty(t, rec.Header().Get(api.RequestIDHeader))
	})
}

func TestUserRoleCannotManageAccounts(t *testing.T) {
	h := newTestRouter(t)
	signIn(t, h, "user@pharmacy.com")

	assert.Equal(t, http.StatusOK, do(t, h, "GET", "/products", "").Code)
	assert.Equal(t, http.StatusForbidden, do(t, h, "GET", "/users", "").Code)
	assert.Equal(t, http.StatusForbidden, do(t, h, "DELETE", "/users/1", "").Code)

	assert.Equal(t, http.StatusNoContent, do(t, h, "POST", "/logout", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, h, "GET", "/products", "").Code)
}

func TestFormFieldsAreTrimmed(t *testing.T) {
	h := newTestRouter(t)
	signIn(t, h, "admin@pharmacy.com")

	rec := do(t, h, "POST", "/users", `{"name":" Pharmacien ","email":"ph@pharmacy.com ","password":"s3cret","role":"USER"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created users.UserResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, "ph@pharmacy.com", created.Email)
	assert.Equal(t, "Pharmacien", created.Name)

	rec = do(t, h, "POST", "/users", `{"name":"Copie","email":"admin@pharmacy.com ","password":"s3cret","role":"USER"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"email"`)

	rec = do(t, h, "POST", "/categories", `{"name":"Vitamines "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"name"`)

	rec = do(t, h, "POST", "/login", `{"email":"ph@pharmacy.com ","password":"s3cret"}`)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestUserUpdateRequiresRole(t *testing.T) {
	h := newTestRouter(t)
	signIn(t, h, "admin@pharmacy.com")

	rec := do(t, h, "PUT", "/users/1", `{"name":"Administrateur","email":"admin@pharmacy.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"role"`)

	rec = do(t, h, "POST", "/users", `{"name":"Stagiaire","email":"st@pharmacy.com","password":"s3cret"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"role"`)

	// The admin is still an admin.
	assert.Equal(t, http.StatusOK, do(t, h, "GET", "/users", "").Code)
}

func TestSelfDemotionTakesEffectImmediately(t *testing.T) {
	h := newTestRouter(t)
	signIn(t, h, "admin@pharmacy.com")

	rec := do(t, h, "PUT", "/users/1", `{"name":"Administrateur","email":"admin@pharmacy.com","role":"USER"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, "GET", "/me", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var me login.UserResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&me))
	assert.Equal(t, "USER", me.Role)
	assert.Equal(t, http.StatusForbidden, do(t, h, "GET", "/users", "").Code)
}
