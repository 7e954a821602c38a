package login

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/s4m/pharmacy/models"
)

// --- Mock Authenticator ---

type MockAuthenticator struct {
	Accounts  map[string]string
	Users     map[string]models.User
	Err       error
	current   *models.User
	lastEmail string
	called    bool
}

func (m *MockAuthenticator) Login(_ context.Context, email, password string) (bool, error) {
	m.called = true
	m.lastEmail = email
	if m.Err != nil {
		return false, m.Err
	}
	if pw, ok := m.Accounts[email]; !ok || pw != password {
		return false, nil
	}
	user := m.Users[email]
	m.current = &user
	return true, nil
}

func (m *MockAuthenticator) Logout() {
	m.current = nil
}

func (m *MockAuthenticator) CurrentUser() (*models.User, bool) {
	return m.current, m.current != nil
}

func newMockAuthenticator() *MockAuthenticator {
	return &MockAuthenticator{
		Accounts: map[string]string{"admin@pharmacy.com": "admin123"},
		Users: map[string]models.User{
			"admin@pharmacy.com": {ID: 1, Name: "Administrateur", Email: "admin@pharmacy.com", Role: models.RoleAdmin},
		},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- Tests ---

func TestHandleLogin(t *testing.T) {
	testCases := []struct {
		name               string
		requestBody        string
		mockSetup          func() *MockAuthenticator
		expectedStatusCode int
		checkResponse      func(t *testing.T, rec *httptest.ResponseRecorder, auth *MockAuthenticator)
	}{
		{
			name:               "Valid credentials",
			requestBody:        `{"email":"admin@pharmacy.com","password":"admin123"}`,
			mockSetup:          newMockAuthenticator,
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder, auth *MockAuthenticator) {
				var resp UserResponse
				assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, "ADMIN", resp.Role)
				assert.Equal(t, "admin@pharmacy.com", resp.Email)
				_, ok := auth.CurrentUser()
				assert.True(t, ok)
			},
		},
		{
			name:               "Wrong password",
			requestBody:        `{"email":"admin@pharmacy.com","password":"nope"}`,
			mockSetup:          newMockAuthenticator,
			expectedStatusCode: http.StatusUnauthorized,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder, auth *MockAuthenticator) {
				assert.JSONEq(t, `{"error":"Invalid credentials"}`, rec.Body.String())
				_, ok := auth.CurrentUser()
				assert.False(t, ok)
			},
		},
		{
			name:               "Email is trimmed",
			requestBody:        `{"email":"  admin@pharmacy.com ","password":"admin123"}`,
			mockSetup:          newMockAuthenticator,
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder, auth *MockAuthenticator) {
				assert.Equal(t, "admin@pharmacy.com", auth.lastEmail)
			},
		},
		{
			name:               "Missing password",
			requestBody:        `{"email":"admin@pharmacy.com"}`,
			mockSetup:          newMockAuthenticator,
			expectedStatusCode: http.StatusBadRequest,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder, auth *MockAuthenticator) {
				assert.JSONEq(t, `{"error":"Email and password are required"}`, rec.Body.String())
				assert.False(t, auth.called)
			},
		},
		{
			name:        "Store unavailable",
			requestBody: `{"email":"admin@pharmacy.com","password":"admin123"}`,
			mockSetup: func() *MockAuthenticator {
				m := newMockAuthenticator()
				m.Err = errors.New("dial tcp: connection refused")
				return m
			},
			expectedStatusCode: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder, auth *MockAuthenticator) {
				assert.JSONEq(t, `{"error":"Database connection error"}`, rec.Body.String())
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			auth := tc.mockSetup()
			handler := NewLoginHandler(auth, discardLogger())
			req := httptest.NewRequest("POST", "/login", strings.NewReader(tc.requestBody))
			rec := httptest.NewRecorder()

			// Act
			handler.HandleLogin(rec, req)

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.checkResponse != nil {
				tc.checkResponse(t, rec, auth)
			}
		})
	}
}

func TestHandleMeAndLogout(t *testing.T) {
	// Arrange
	auth := newMockAuthenticator()
	handler := NewLoginHandler(auth, discardLogger())
	ok, err := auth.Login(context.Background(), "admin@pharmacy.com", "admin123")
	assert.NoError(t, err)
	assert.True(t, ok)

	// Act
	rec := httptest.NewRecorder()
	handler.HandleMe(rec, httptest.NewRequest("GET", "/me", nil))

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Administrateur")

	rec = httptest.NewRecorder()
	handler.HandleLogout(rec, httptest.NewRequest("POST", "/logout", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	handler.HandleMe(rec, httptest.NewRequest("GET", "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
