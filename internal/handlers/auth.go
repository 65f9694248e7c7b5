package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/yukikurage/roster-api/internal/constants"
	"github.com/yukikurage/roster-api/internal/dto"
	apierrors "github.com/yukikurage/roster-api/internal/errors"
	"github.com/yukikurage/roster-api/internal/middleware"
	"github.com/yukikurage/roster-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
	cookie      sessions.Options
}

// NewAuthHandler creates a new AuthHandler. cookieDays sets the lifetime of
// the session cookie carrying the token.
func NewAuthHandler(authService *services.AuthService, cookieDays int, secure bool) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookie: sessions.Options{
			Path:     "/",
			MaxAge:   cookieDays * 24 * 60 * 60,
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
		},
	}
}

// Register creates a user and signs them in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Name           string  `json:"name" binding:"required"`
		Email          string  `json:"email" binding:"required,email"`
		Password       string  `json:"password" binding:"required,min=6,max=72"`
		OrganizationID *uint64 `json:"organization"`
	}
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Register(services.RegisterInput{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		OrganizationID: req.OrganizationID,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	h.sendToken(c, http.StatusCreated, result)
}

// Login authenticates a user and stores the token in the session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondBadRequest(c, "Invalid request body")
		return
	}

	result, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	h.sendToken(c, http.StatusOK, result)
}

// Logout revokes the presented token and clears the session.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.TokenFromRequest(c)); err != nil {
		apierrors.Respond(c, err)
		return
	}

	session := sessions.Default(c)
	session.Clear()
	opts := h.cookie
	opts.MaxAge = -1
	session.Options(opts)
	if err := session.Save(); err != nil {
		apierrors.Respond(c, err)
		return
	}
	apierrors.OK(c, gin.H{})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.RespondUnauthorized(c, "", "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	apierrors.OK(c, dto.ToUserDTO(*user))
}

// ChangePassword replaces the caller's password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	var req struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required,min=6,max=72"`
	}
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authService.ChangePassword(cl, req.CurrentPassword, req.NewPassword); err != nil {
		apierrors.Respond(c, err)
		return
	}
	apierrors.OK(c, gin.H{})
}

func (h *AuthHandler) sendToken(c *gin.Context, status int, result *services.AuthResult) {
	session := sessions.Default(c)
	session.Options(h.cookie)
	session.Set(constants.SessionTokenKey, result.Token)
	if err := session.Save(); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(status, apierrors.Body{
		Success: true,
		Token:   result.Token,
		User:    dto.ToUserDTO(*result.User),
	})
}
