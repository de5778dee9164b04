package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack/internal/auth"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/middleware"
	"fintrack/internal/services"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	authService  services.AuthServicer
	auditService services.AuditServicer
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService services.AuthServicer, auditService services.AuditServicer, cookieSecure bool) *AuthHandler {
	return &AuthHandler{authService: authService, auditService: auditService, cookieSecure: cookieSecure}
}

// CredentialsRequest represents the login and signup request payload
type CredentialsRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=128"`
}

// UserResponse represents the user data in the response
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AuthResponse represents the authentication response with token
type AuthResponse struct {
	Token     string       `json:"token,omitempty"`
	ExpiresAt int64        `json:"expires_at,omitempty"`
	User      UserResponse `json:"user"`
}

// Login handles user login
// @Summary     Login user
// @Description Authenticate with email and password. Sets the token cookie.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body CredentialsRequest true "User login credentials"
// @Success     200 {object} AuthResponse "User authenticated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Failure     429 {object} ErrorResponse "Rate limited"
// @Failure     502 {object} ErrorResponse "Auth service unavailable"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	sess, err := h.authService.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.setSessionCookie(c, sess)
	h.auditService.Log(sess.User.ID, "SIGN_IN", "session", "", c.ClientIP(), nil)
	c.JSON(http.StatusOK, authResponse(sess))
}

// Signup handles user registration
// @Summary     Register a new user
// @Description Create an account on the auth service. Sets the token cookie when a session is issued.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body CredentialsRequest true "User registration data"
// @Success     201 {object} AuthResponse "User registered"
// @Failure     400 {object} ErrorResponse "Invalid input or signup rejected"
// @Failure     429 {object} ErrorResponse "Rate limited"
// @Failure     502 {object} ErrorResponse "Auth service unavailable"
// @Router      /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	sess, err := h.authService.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	// Pending email confirmation leaves no token to store.
	if sess.AccessToken != "" {
		h.setSessionCookie(c, sess)
	}
	if sess.User.ID != "" {
		h.auditService.Log(sess.User.ID, "SIGN_UP", "user", sess.User.ID, c.ClientIP(), nil)
	}
	c.JSON(http.StatusCreated, authResponse(sess))
}

// Logout ends the session
// @Summary     Logout user
// @Description Revoke the session token, clear the cookie and drop the cached workspace
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} MessageResponse "Signed out"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	id, err := getIdentity(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.authService.SignOut(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", h.cookieSecure, true)
	h.auditService.Log(id.UserID, "SIGN_OUT", "session", "", c.ClientIP(), nil)
	c.JSON(http.StatusOK, MessageResponse{Message: "Signed out"})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, sess *auth.Session) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, sess.AccessToken, int(sess.MaxAge().Seconds()), "/", "", h.cookieSecure, true)
}

func authResponse(sess *auth.Session) AuthResponse {
	return AuthResponse{
		Token:     sess.AccessToken,
		ExpiresAt: sess.ExpiresAt,
		User:      UserResponse{ID: sess.User.ID, Email: sess.User.Email},
	}
}
