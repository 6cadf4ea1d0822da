package auth

import (
	"context"
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/crewstack/auth-backend/internal/models"
	"github.com/crewstack/auth-backend/pkg/response"
	"github.com/crewstack/auth-backend/pkg/utils"
)

// invalidCredentials is the single message for both unknown email and wrong
// password so callers cannot enumerate accounts.
const invalidCredentials = "invalid email or password"

// UserStore is the subset of the user repository the auth endpoints need.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}

// SignInRequest is the body for POST /auth/signin.
type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenPairResponse is the sign-in response.
type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Handler handles auth HTTP endpoints.
type Handler struct {
	users  UserStore
	tokens *TokenService
	logger *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(users UserStore, tokens *TokenService, logger *zap.Logger) *Handler {
	return &Handler{users: users, tokens: tokens, logger: logger}
}

// SignIn handles POST /auth/signin.
func (h *Handler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, io.EOF) {
			response.EmptyPayload(c)
			return
		}
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		h.logger.Error("sign-in user lookup failed", zap.Error(err))
		response.Internal(c, "sign-in failed")
		return
	}
	if user == nil || !utils.CheckPassword(req.Password, user.Password) {
		h.logger.Warn("invalid sign-in attempt", zap.String("email", req.Email))
		response.InvalidCredentials(c, invalidCredentials)
		return
	}

	access, refresh, err := h.tokens.IssuePair(user.Email)
	if err != nil {
		h.logger.Error("token issue failed", zap.Error(err))
		response.Internal(c, "failed to generate token")
		return
	}

	response.OK(c, TokenPairResponse{AccessToken: access, RefreshToken: refresh})
}

// Me handles GET /me. The subject was set by the JWT middleware.
func (h *Handler) Me(c *gin.Context) {
	subject := c.GetString("subject")
	user, err := h.users.GetByEmail(c.Request.Context(), subject)
	if err != nil {
		h.logger.Error("user lookup failed", zap.Error(err))
		response.Internal(c, "failed to load user")
		return
	}
	if user == nil {
		response.NotFound(c, "user not found")
		return
	}
	response.OK(c, user.ToPublic())
}

// DeleteUser handles DELETE /users/:id. Memberships referencing the user
// cascade-delete at the store.
func (h *Handler) DeleteUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid user id")
		return
	}
	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("user lookup failed", zap.Error(err), zap.Int64("user_id", id))
		response.Internal(c, "failed to load user")
		return
	}
	if user == nil {
		response.NotFound(c, "user not found")
		return
	}
	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		h.logger.Error("user deletion failed", zap.Error(err), zap.Int64("user_id", id))
		response.Internal(c, "user deletion failed")
		return
	}
	response.OK(c, gin.H{"message": "user deleted"})
}
