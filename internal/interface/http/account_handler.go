package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-accounts-service/internal/application"
	"github.com/oksasatya/go-accounts-service/internal/interface/middleware"
	"github.com/oksasatya/go-accounts-service/pkg/helpers"
	"github.com/oksasatya/go-accounts-service/pkg/response"
	"github.com/oksasatya/go-accounts-service/pkg/validation"
)

// AccountHandler serves registration, login and self-service profile routes.
type AccountHandler struct {
	UC      *application.UseCases
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAccountHandler(uc *application.UseCases, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AccountHandler {
	return &AccountHandler{UC: uc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

// statusFor maps the use-case error code to an HTTP status.
func statusFor(code application.ErrorCode) int {
	switch code {
	case application.CodeUserNotFound:
		return http.StatusNotFound
	case application.CodeUserAlreadyExists:
		return http.StatusConflict
	case application.CodeAuthentication:
		return http.StatusUnauthorized
	case application.CodeInternal, application.CodeUnknown:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// fail writes the standard error envelope for a failed use-case result.
func fail[T any](c *gin.Context, r application.Result[T]) {
	response.Error[any](c, statusFor(r.ErrorCode), r.Error, string(r.ErrorCode), r.Details)
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,accountpwd"`
	Name     string `json:"name" binding:"required,min=2,max=50"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type updateProfileRequest struct {
	Name         string  `json:"name" binding:"required,min=2,max=50"`
	ProfileImage *string `json:"profile_image"`
}

type changeEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,accountpwd"`
}

// Register POST /api/register
func (h *AccountHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", "VALIDATION_ERROR", validation.ToDetails(err))
		return
	}
	res := h.UC.RegisterUser(c.Request.Context(), application.RegisterUserInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if !res.Success {
		fail(c, res)
		return
	}
	response.Success(c, http.StatusCreated, res.Data, "user registered")
}

// Login POST /api/login
func (h *AccountHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", "VALIDATION_ERROR", validation.ToDetails(err))
		return
	}
	res := h.UC.Login(c.Request.Context(), application.LoginInput{Email: req.Email, Password: req.Password})
	if !res.Success {
		fail(c, res)
		return
	}
	out := res.Data
	h.Cookies.SetPair(c, out.AccessToken, out.ExpiresAt, out.RefreshToken, out.ExpiresAt.Add(h.UC.JWT.RefreshTTL-h.UC.JWT.AccessTTL))
	response.Success(c, http.StatusOK, out.User, "login successful")
}

// Refresh POST /api/refresh
func (h *AccountHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie("refresh_token")
	if err != nil || refresh == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", "AUTHENTICATION_ERROR", nil)
		return
	}
	res := h.UC.RefreshTokens(c.Request.Context(), application.RefreshInput{RefreshToken: refresh})
	if !res.Success {
		fail(c, res)
		return
	}
	out := res.Data
	h.Cookies.SetPair(c, out.AccessToken, out.ExpiresAt, out.RefreshToken, out.ExpiresAt.Add(h.UC.JWT.RefreshTTL-h.UC.JWT.AccessTTL))
	response.Success[any](c, http.StatusOK, gin.H{"refreshed": true}, "token refreshed")
}

// Logout POST /api/logout (auth required)
func (h *AccountHandler) Logout(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	h.UC.Logout(c.Request.Context(), uid)
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out")
}

// GetProfile GET /api/profile (auth required)
func (h *AccountHandler) GetProfile(c *gin.Context) {
	res := h.UC.GetUserProfile(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if !res.Success {
		fail(c, res)
		return
	}
	response.Success(c, http.StatusOK, res.Data, "profile")
}

// UpdateProfile PUT /api/profile (auth required)
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", "VALIDATION_ERROR", validation.ToDetails(err))
		return
	}
	res := h.UC.UpdateProfile(c.Request.Context(), application.UpdateProfileInput{
		UserID:       c.GetString(middleware.CtxUserIDKey),
		Name:         req.Name,
		ProfileImage: req.ProfileImage,
	})
	if !res.Success {
		fail(c, res)
		return
	}
	response.Success(c, http.StatusOK, res.Data, "profile updated")
}

// ChangeEmail PUT /api/profile/email (auth required)
func (h *AccountHandler) ChangeEmail(c *gin.Context) {
	var req changeEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", "VALIDATION_ERROR", validation.ToDetails(err))
		return
	}
	res := h.UC.ChangeEmail(c.Request.Context(), application.ChangeEmailInput{
		UserID: c.GetString(middleware.CtxUserIDKey),
		Email:  req.Email,
	})
	if !res.Success {
		fail(c, res)
		return
	}
	response.Success(c, http.StatusOK, res.Data, "email changed")
}

// ChangePassword PUT /api/profile/password (auth required)
func (h *AccountHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", "VALIDATION_ERROR", validation.ToDetails(err))
		return
	}
	res := h.UC.ChangePassword(c.Request.Context(), application.ChangePasswordInput{
		UserID:          c.GetString(middleware.CtxUserIDKey),
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if !res.Success {
		fail(c, res)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"changed": true}, "password changed")
}

// UploadProfileImage POST /api/profile/image (auth required, multipart)
func (h *AccountHandler) UploadProfileImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "missing image file", "VALIDATION_ERROR", nil)
		return
	}
	src, err := file.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "unreadable image file", "VALIDATION_ERROR", nil)
		return
	}
	defer func() { _ = src.Close() }()

	res := h.UC.UploadProfileImage(c.Request.Context(), application.UploadProfileImageInput{
		UserID:      c.GetString(middleware.CtxUserIDKey),
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Body:        src,
	})
	if !res.Success {
		fail(c, res)
		return
	}
	response.Success(c, http.StatusOK, res.Data, "profile image uploaded")
}

// Search GET /api/users/search?q=&size= (auth required)
func (h *AccountHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "missing query", "VALIDATION_ERROR", nil)
		return
	}
	size := 10
	if s := c.Query("size"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			size = n
		}
	}
	res := h.UC.SearchUsers(c.Request.Context(), q, size)
	if !res.Success {
		fail(c, res)
		return
	}
	response.Success(c, http.StatusOK, res.Data, "search results")
}
