package handlers

import (
	"context"
	"errors"
	"net/http"

	"jobtrack-backend/auth"
	"jobtrack-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UserStore is the persistence surface the auth handler needs
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// AuthHandler handles registration, login and token introspection
type AuthHandler struct {
	users  UserStore
	tokens *auth.TokenIssuer
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users UserStore, tokens *auth.TokenIssuer) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required"`
	Name     *string `json:"name"`
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	_, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err == nil {
		respondError(c, http.StatusBadRequest, "EMAIL_TAKEN", "Email already registered")
		return
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		respondStoreError(c, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
	}

	if err := h.users.Create(c.Request.Context(), user); err != nil {
		// Backstop for a concurrent registration of the same email.
		if isUniqueViolation(err) {
			respondError(c, http.StatusBadRequest, "EMAIL_TAKEN", "Email already registered")
			return
		}
		respondStoreError(c, err)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}

	respondData(c, http.StatusCreated, gin.H{
		"token": token,
		"user":  user,
	})
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil || !auth.VerifyPassword(req.Password, user.PasswordHash) {
		// Same response whether the email is unknown or the password wrong.
		respondError(c, http.StatusBadRequest, "INVALID_CREDENTIALS", "Invalid credentials")
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// TestToken handles GET /auth/test-token, echoing the caller's identity
func (h *AuthHandler) TestToken(c *gin.Context) {
	respondData(c, http.StatusOK, CurrentUser(c))
}
