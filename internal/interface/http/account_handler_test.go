package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-accounts-service/internal/application"
	"github.com/oksasatya/go-accounts-service/internal/domain/service"
	"github.com/oksasatya/go-accounts-service/internal/infrastructure/memory"
	"github.com/oksasatya/go-accounts-service/internal/interface/middleware"
	"github.com/oksasatya/go-accounts-service/pkg/helpers"
	"github.com/oksasatya/go-accounts-service/pkg/validation"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	b := memory.NewBackend()
	users := service.NewUserService(b.Users, nil)
	auth := service.NewAuthService(b.Credentials, nil)
	jwt := helpers.NewJWTManager("test-access", "test-refresh", time.Hour, 168*time.Hour)
	uc := application.NewUseCases(users, auth, b.Tx, jwt, nil)

	h := NewAccountHandler(uc, nil, "localhost", false)

	r := gin.New()
	r.Use(middleware.RequestID())
	api := r.Group("/api")
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)
	api.POST("/refresh", h.Refresh)

	protected := api.Group("/")
	protected.Use(middleware.Auth(nil, jwt))
	protected.POST("/logout", h.Logout)
	protected.GET("/profile", h.GetProfile)
	protected.PUT("/profile", h.UpdateProfile)
	protected.PUT("/profile/password", h.ChangePassword)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	ErrorCode string          `json:"error_code"`
	RequestID string          `json:"request_id"`
	Data      json.RawMessage `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var e envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	return e
}

func TestAccountHandler_RegisterAndLogin(t *testing.T) {
	r := newTestRouter(t)

	t.Run("register", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/register", gin.H{
			"email":    "jane@example.com",
			"password": "Sup3rSecret",
			"name":     "Jane Doe",
		}, nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		e := decode(t, w)
		assert.True(t, e.Success)
		assert.NotEmpty(t, e.RequestID)
	})

	t.Run("register payload validation", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/register", gin.H{
			"email":    "not-an-email",
			"password": "Sup3rSecret",
			"name":     "Jane Doe",
		}, nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", decode(t, w).ErrorCode)
	})

	t.Run("duplicate register conflicts", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/register", gin.H{
			"email":    "jane@example.com",
			"password": "An0therSecret",
			"name":     "Jane Clone",
		}, nil)
		require.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "USER_ALREADY_EXISTS", decode(t, w).ErrorCode)
	})

	t.Run("login sets the cookie pair", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/login", gin.H{
			"email":    "jane@example.com",
			"password": "Sup3rSecret",
		}, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		names := map[string]bool{}
		for _, c := range w.Result().Cookies() {
			names[c.Name] = true
		}
		assert.True(t, names["access_token"])
		assert.True(t, names["refresh_token"])
	})

	t.Run("bad credentials are unauthorized", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/login", gin.H{
			"email":    "jane@example.com",
			"password": "WrongPass1",
		}, nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "AUTHENTICATION_ERROR", decode(t, w).ErrorCode)
	})
}

func TestAccountHandler_ProtectedRoutes(t *testing.T) {
	r := newTestRouter(t)

	doJSON(t, r, http.MethodPost, "/api/register", gin.H{
		"email":    "jane@example.com",
		"password": "Sup3rSecret",
		"name":     "Jane Doe",
	}, nil)
	login := doJSON(t, r, http.MethodPost, "/api/login", gin.H{
		"email":    "jane@example.com",
		"password": "Sup3rSecret",
	}, nil)
	require.Equal(t, http.StatusOK, login.Code)
	cookies := login.Result().Cookies()

	t.Run("profile without cookie", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/profile", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("profile with cookie", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/profile", nil, cookies)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var dto application.UserDTO
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &dto))
		assert.Equal(t, "jane@example.com", dto.Email)
	})

	t.Run("update profile", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPut, "/api/profile", gin.H{"name": "Janet Doe"}, cookies)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var dto application.UserDTO
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &dto))
		assert.Equal(t, "Janet Doe", dto.Name)
	})

	t.Run("change password enforces the policy at the edge", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPut, "/api/profile/password", gin.H{
			"current_password": "Sup3rSecret",
			"new_password":     "weak",
		}, cookies)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", decode(t, w).ErrorCode)
	})

	t.Run("logout clears cookies", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/logout", nil, cookies)
		require.Equal(t, http.StatusOK, w.Code)
		for _, c := range w.Result().Cookies() {
			assert.Empty(t, c.Value, "cookie %s must be cleared", c.Name)
		}
	})
}
