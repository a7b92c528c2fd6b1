package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/futureforceai/careerprep/internal/api/middleware"
	"github.com/futureforceai/careerprep/internal/models"
	"github.com/futureforceai/careerprep/internal/services"
	"github.com/futureforceai/careerprep/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthSvc struct {
	user     *models.User
	regErr   error
	token    string
	loginErr error
}

func (s *fakeAuthSvc) Register(_ context.Context, _ services.RegisterInput) (*models.User, error) {
	return s.user, s.regErr
}

func (s *fakeAuthSvc) Login(_ context.Context, _, _ string) (string, *models.User, error) {
	return s.token, s.user, s.loginErr
}

func authRouter(svc services.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(svc)
	r := gin.New()
	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/login", h.Login)
	return r
}

func TestRegisterHandler(t *testing.T) {
	r := authRouter(&fakeAuthSvc{user: &models.User{ID: "user-1"}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"name":"Ada","email":"ada@example.com","password":"correct horse"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")
}

func TestRegisterHandlerBadBody(t *testing.T) {
	r := authRouter(&fakeAuthSvc{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(`{"name":"Ada"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterHandlerConflict(t *testing.T) {
	r := authRouter(&fakeAuthSvc{regErr: utils.E(utils.CodeConflict, "AuthService.Register", "email already registered", nil)})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"name":"Ada","email":"ada@example.com","password":"correct horse"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "email already registered")
}

func TestLoginHandlerSetsCookie(t *testing.T) {
	r := authRouter(&fakeAuthSvc{user: &models.User{ID: "user-1"}, token: "signed.jwt.token"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"ada@example.com","password":"correct horse"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "signed.jwt.token")

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	var found *http.Cookie
	for _, c := range cookies {
		if c.Name == middleware.CookieName {
			found = c
		}
	}
	require.NotNil(t, found, "session cookie not set")
	assert.Equal(t, "signed.jwt.token", found.Value)
	assert.True(t, found.HttpOnly)
}

func TestLoginHandlerInvalidCredentials(t *testing.T) {
	r := authRouter(&fakeAuthSvc{loginErr: utils.E(utils.CodeUnauthorized, "AuthService.Login", "invalid credentials", nil)})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"ada@example.com","password":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Result().Cookies())
}
