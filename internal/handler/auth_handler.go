package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/strukly/strukly-backend/internal/service"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register handles user registration with email and password
// @Summary Register a new user
// @Description Create a new user account with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration details"
// @Success 201 {object} service.AuthResponse "Registration successful"
// @Failure 400 {object} model.ErrorResponse "Bad request"
// @Failure 409 {object} model.ErrorResponse "User already exists"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	// Register user
	authResponse, err := h.authService.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if err == service.ErrUserAlreadyExists {
			respondConflict(c, "User with this email already exists")
			return
		}
		logError(c, "registration_failed", err, map[string]interface{}{
			"email": req.Email,
		})
		respondInternalServerError(c, "Failed to register user")
		return
	}

	respondCreated(c, authResponse)
}

// Login handles user login with email and password
// @Summary Login with email and password
// @Description Authenticate a user with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} service.AuthResponse "Login successful"
// @Failure 400 {object} model.ErrorResponse "Bad request"
// @Failure 401 {object} model.ErrorResponse "Invalid credentials"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	// Login user
	authResponse, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if err == service.ErrInvalidCredentials {
			respondUnauthorized(c, "Invalid email or password")
			return
		}
		logError(c, "login_failed", err, map[string]interface{}{
			"email": req.Email,
		})
		respondInternalServerError(c, "Failed to login")
		return
	}

	respondOK(c, authResponse)
}

// RefreshToken generates a new access token from a refresh token
// @Summary Refresh access token
// @Description Generate a new access token using a refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshTokenRequest true "Refresh token"
// @Success 200 {object} service.TokenPair "New tokens"
// @Failure 400 {object} model.ErrorResponse "Bad request"
// @Failure 401 {object} model.ErrorResponse "Invalid refresh token"
// @Router /v1/auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	if req.RefreshToken == "" {
		respondBadRequest(c, "Refresh token is required")
		return
	}

	// Refresh tokens
	tokens, err := h.authService.RefreshAccessToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondUnauthorized(c, "Invalid or expired refresh token")
		return
	}

	respondOK(c, tokens)
}

// Logout handles user logout (mainly client-side token removal)
// @Summary Logout
// @Description Logout the current user (client should remove tokens)
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Logout successful"
// @Router /v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	// Stateless JWT, so logout is client-side token removal
	respondOK(c, gin.H{
		"message": "Logout successful",
	})
}

// GetProfile returns the current user with their running totals
// @Summary Get user profile
// @Description Get the authenticated user's profile including lifetime receipt count and revenue
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.User "User profile"
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Router /v1/profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	// Get user ID from context (set by auth middleware)
	userID, exists := c.Get("userID")
	if !exists {
		respondUnauthorized(c, "User not authenticated")
		return
	}

	// Get user details
	user, err := h.authService.GetUserByID(c.Request.Context(), userID.(string))
	if err != nil {
		respondInternalServerError(c, "Failed to get user information")
		return
	}

	respondOK(c, user)
}

// RegisterRoutes registers auth routes
func (h *AuthHandler) RegisterRoutes(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	auth := router.Group("/v1/auth")
	{
		// Email/Password authentication
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)

		// Token management
		auth.POST("/refresh", h.RefreshToken)
		auth.POST("/logout", h.Logout)

		// Protected route - requires auth middleware
		auth.GET("/me", authMiddleware, h.GetProfile)
	}

	// Profile with running totals
	router.GET("/v1/profile", authMiddleware, h.GetProfile)
}

// RefreshTokenRequest represents a refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
