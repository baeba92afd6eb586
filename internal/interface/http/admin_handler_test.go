package handlers

import (
	"context"
	"encoding/json"
	"net/http"
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

func newAdminRouter(t *testing.T) (*gin.Engine, *application.UseCases, *helpers.JWTManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	b := memory.NewBackend()
	users := service.NewUserService(b.Users, nil)
	auth := service.NewAuthService(b.Credentials, nil)
	jwt := helpers.NewJWTManager("test-access", "test-refresh", time.Hour, 168*time.Hour)
	uc := application.NewUseCases(users, auth, b.Tx, jwt, nil)

	h := NewAdminHandler(uc, nil)

	r := gin.New()
	admin := r.Group("/api/admin")
	admin.Use(middleware.Auth(nil, jwt), middleware.RequireRole("ADMIN"))
	admin.GET("/users", h.ListUsers)
	admin.POST("/users", h.CreateUser)
	admin.GET("/users/:id", h.GetUser)
	admin.GET("/users/statistics", h.Statistics)
	admin.DELETE("/users/:id", h.DeleteUser)
	admin.PUT("/users/:id/active", h.SetActive)
	return r, uc, jwt
}

func accessCookie(t *testing.T, jwt *helpers.JWTManager, userID, role string) *http.Cookie {
	t.Helper()
	token, _, err := jwt.GenerateAccessToken(userID, "test-session", role)
	require.NoError(t, err)
	return &http.Cookie{Name: "access_token", Value: token}
}

func TestAdminHandler_RoleGate(t *testing.T) {
	r, uc, jwt := newAdminRouter(t)

	reg := uc.RegisterUser(context.Background(), application.RegisterUserInput{
		Email:    "user@example.com",
		Password: "Sup3rSecret",
		Name:     "Plain User",
	})
	require.True(t, reg.Success)

	t.Run("no token", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/admin/users", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("non-admin role", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/admin/users", nil,
			[]*http.Cookie{accessCookie(t, jwt, reg.Data.ID, "USER")})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin lists users", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/admin/users", nil,
			[]*http.Cookie{accessCookie(t, jwt, reg.Data.ID, "ADMIN")})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var dtos []application.UserDTO
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &dtos))
		assert.Len(t, dtos, 1)
	})

	t.Run("admin provisions a profile", func(t *testing.T) {
		admin := []*http.Cookie{accessCookie(t, jwt, reg.Data.ID, "ADMIN")}
		w := doJSON(t, r, http.MethodPost, "/api/admin/users",
			gin.H{"email": "new@example.com", "name": "New User"}, admin)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var dto application.UserDTO
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &dto))
		assert.Equal(t, "new@example.com", dto.Email)

		got := doJSON(t, r, http.MethodGet, "/api/admin/users/"+dto.ID, nil, admin)
		require.Equal(t, http.StatusOK, got.Code, got.Body.String())

		dup := doJSON(t, r, http.MethodPost, "/api/admin/users",
			gin.H{"email": "new@example.com", "name": "New User"}, admin)
		require.Equal(t, http.StatusConflict, dup.Code)
		assert.Equal(t, "USER_ALREADY_EXISTS", decode(t, dup).ErrorCode)
	})

	t.Run("admin deactivates a user", func(t *testing.T) {
		admin := []*http.Cookie{accessCookie(t, jwt, reg.Data.ID, "ADMIN")}
		w := doJSON(t, r, http.MethodPut, "/api/admin/users/"+reg.Data.ID+"/active",
			gin.H{"active": false}, admin)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var dto application.UserDTO
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &dto))
		assert.False(t, dto.IsActive)
	})

	t.Run("delete inside the grace period fails", func(t *testing.T) {
		admin := []*http.Cookie{accessCookie(t, jwt, reg.Data.ID, "ADMIN")}
		w := doJSON(t, r, http.MethodDelete, "/api/admin/users/"+reg.Data.ID, nil, admin)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", decode(t, w).ErrorCode)
	})

	t.Run("statistics", func(t *testing.T) {
		admin := []*http.Cookie{accessCookie(t, jwt, reg.Data.ID, "ADMIN")}
		w := doJSON(t, r, http.MethodGet, "/api/admin/users/statistics", nil, admin)
		require.Equal(t, http.StatusOK, w.Code)

		var stats service.UserStatistics
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &stats))
		assert.Equal(t, 2, stats.Total)
	})
}
