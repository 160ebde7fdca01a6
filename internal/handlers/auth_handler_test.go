package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gauravkatara53/Topic-Backend/internal/middleware"
	"github.com/gauravkatara53/Topic-Backend/internal/models"
	"github.com/gauravkatara53/Topic-Backend/internal/services"
)

const testJWTSecret = "test-secret"

func newAuthTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	users := services.NewMemoryUserService(nil)
	h := NewAuthHandler(users, nil, nil, testJWTSecret, time.Hour)

	r := chi.NewRouter()
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
	r.Post("/auth/google", h.GoogleLogin)
	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(testJWTSecret))
		r.Get("/auth/me", h.Me)
	})
	return r
}

func postJSON(t *testing.T, r http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeAuthResponse(t *testing.T, rec *httptest.ResponseRecorder) models.AuthResponse {
	t.Helper()

	var resp struct {
		Success bool                `json:"success"`
		Data    models.AuthResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	return resp.Data
}

func TestRegisterLoginMe(t *testing.T) {
	r := newAuthTestRouter(t)

	rec := postJSON(t, r, "/auth/register", models.RegisterRequest{
		Email:    "student@campus.edu",
		Password: "secret1",
		Name:     "Student",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	registered := decodeAuthResponse(t, rec)
	assert.NotEmpty(t, registered.Token)

	rec = postJSON(t, r, "/auth/login", models.LoginRequest{
		Email:    "student@campus.edu",
		Password: "secret1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	loggedIn := decodeAuthResponse(t, rec)

	// The issued token authenticates /auth/me.
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+loggedIn.Token)
	meRec := httptest.NewRecorder()
	r.ServeHTTP(meRec, req)
	require.Equal(t, http.StatusOK, meRec.Code)

	var meResp struct {
		Success bool        `json:"success"`
		Data    models.User `json:"data"`
	}
	require.NoError(t, json.Unmarshal(meRec.Body.Bytes(), &meResp))
	assert.Equal(t, registered.User.ID, meResp.Data.ID)
	assert.Equal(t, "student@campus.edu", meResp.Data.Email)
}

func TestRegisterDuplicateEmailEndpoint(t *testing.T) {
	r := newAuthTestRouter(t)

	body := models.RegisterRequest{Email: "student@campus.edu", Password: "secret1", Name: "Student"}
	rec := postJSON(t, r, "/auth/register", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, r, "/auth/register", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLoginBadCredentialsEndpoint(t *testing.T) {
	r := newAuthTestRouter(t)

	rec := postJSON(t, r, "/auth/register", models.RegisterRequest{
		Email: "student@campus.edu", Password: "secret1", Name: "Student",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, r, "/auth/login", models.LoginRequest{
		Email: "student@campus.edu", Password: "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeRejectsBadToken(t *testing.T) {
	r := newAuthTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGoogleLoginUnconfigured(t *testing.T) {
	r := newAuthTestRouter(t)

	rec := postJSON(t, r, "/auth/google", models.GoogleLoginRequest{IDToken: "tok"})
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}
