package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-accounts-service/internal/application"
	"github.com/oksasatya/go-accounts-service/pkg/response"
	"github.com/oksasatya/go-accounts-service/pkg/validation"
)

// AdminHandler serves user-management routes gated on the admin role.
type AdminHandler struct {
	UC     *application.UseCases
	Logger *logrus.Logger
}

func NewAdminHandler(uc *application.UseCases, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{UC: uc, Logger: logger}
}

type setActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

type createUserRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required,min=2,max=50"`
}

// CreateUser POST /api/admin/users
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", "VALIDATION_ERROR", validation.ToDetails(err))
		return
	}
	res := h.UC.CreateUser(c.Request.Context(), application.CreateUserInput{
		Email: req.Email,
		Name:  req.Name,
	})
	if !res.Success {
		fail(c, res)
		return
	}
	response.Success(c, http.StatusCreated, res.Data, "user created")
}

// ListUsers GET /api/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	res := h.UC.ListUsers(c.Request.Context())
	if !res.Success {
		fail(c, res)
		return
	}
	response.Success(c, http.StatusOK, res.Data, "users")
}

// GetUser GET /api/admin/users/:id
func (h *AdminHandler) GetUser(c *gin.Context) {
	res := h.UC.GetUser(c.Request.Context(), c.Param("id"))
	if !res.Success {
		fail(c, res)
		return
	}
	response.Success(c, http.StatusOK, res.Data, "user")
}

// DeleteUser DELETE /api/admin/users/:id
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	res := h.UC.DeleteUser(c.Request.Context(), c.Param("id"))
	if !res.Success {
		fail(c, res)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "user deleted")
}

// SetActive PUT /api/admin/users/:id/active
func (h *AdminHandler) SetActive(c *gin.Context) {
	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", "VALIDATION_ERROR", validation.ToDetails(err))
		return
	}
	res := h.UC.SetUserActive(c.Request.Context(), c.Param("id"), *req.Active)
	if !res.Success {
		fail(c, res)
		return
	}
	response.Success(c, http.StatusOK, res.Data, "user updated")
}

// Statistics GET /api/admin/users/statistics
func (h *AdminHandler) Statistics(c *gin.Context) {
	res := h.UC.GetUserStatistics(c.Request.Context())
	if !res.Success {
		fail(c, res)
		return
	}
	response.Success(c, http.StatusOK, res.Data, "user statistics")
}
