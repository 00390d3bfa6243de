package api

import (
	"net/http"
	"strings"
	"time"

	"datalens/internal"
	"datalens/models"
	"datalens/ports"

	"github.com/gin-gonic/gin"
)

// SessionTTL is how long an issued bearer token remains valid
const SessionTTL = 24 * time.Hour

// AuthHandler serves registration, login and profile endpoints
type AuthHandler struct {
	users    ports.UserRepository
	sessions ports.SessionRepository
	logger   *internal.Logger
}

func NewAuthHandler(users ports.UserRepository, sessions ports.SessionRepository) *AuthHandler {
	return &AuthHandler{
		users:    users,
		sessions: sessions,
		logger:   internal.DefaultLogger,
	}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type updateProfileRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates a new account and returns the public user record
func (h *AuthHandler) HandleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid registration payload"})
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if existing, err := h.users.GetByEmail(c.Request.Context(), req.Email); err == nil && existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	user := models.NewUser(req.Email, strings.TrimSpace(req.Username), req.Password)
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		h.logger.Error("[Auth] Failed to create user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	h.logger.Info("[Auth] Registered user %s", user.ID)
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// HandleLogin verifies credentials and issues a session token
func (h *AuthHandler) HandleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid login payload"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := h.users.GetByEmail(c.Request.Context(), email)
	if err != nil || user == nil || !user.CheckPassword(req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if !user.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is disabled"})
		return
	}

	// Logins are frequent enough to keep the sessions table from
	// accumulating expired tokens.
	if err := h.sessions.DeleteExpired(c.Request.Context(), time.Now()); err != nil {
		h.logger.Warn("[Auth] Failed to prune expired sessions: %v", err)
	}

	session := models.NewSession(user.ID, SessionTTL)
	if err := h.sessions.Create(c.Request.Context(), session); err != nil {
		h.logger.Error("[Auth] Failed to create session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      session.Token,
		"expires_at": session.ExpiresAt,
		"user":       user,
	})
}

// HandleLogout deletes the session behind the presented bearer token
func (h *AuthHandler) HandleLogout(c *gin.Context) {
	token := extractBearerToken(c)
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing bearer token"})
		return
	}

	if err := h.sessions.Delete(c.Request.Context(), token); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

// HandleGetProfile returns the authenticated user's account
func (h *AuthHandler) HandleGetProfile(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// HandleUpdateProfile changes username and/or password for the current user
func (h *AuthHandler) HandleUpdateProfile(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile payload"})
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if username := strings.TrimSpace(req.Username); username != "" {
		user.Username = username
	}
	if email := strings.ToLower(strings.TrimSpace(req.Email)); email != "" && email != user.Email {
		if existing, err := h.users.GetByEmail(c.Request.Context(), email); err == nil && existing != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		user.Email = email
	}
	if req.Password != "" {
		if len(req.Password) < 8 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 8 characters"})
			return
		}
		user.SetPassword(req.Password)
	}
	user.UpdatedAt = time.Now()

	if err := h.users.Update(c.Request.Context(), user); err != nil {
		h.logger.Error("[Auth] Failed to update user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
