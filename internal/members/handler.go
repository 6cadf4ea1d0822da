package members

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/crewstack/auth-backend/internal/models"
	"github.com/crewstack/auth-backend/pkg/response"
)

// SignUpRequest is the body for POST /auth/signup.
type SignUpRequest struct {
	Email                string         `json:"email" binding:"required,email"`
	Password             string         `json:"password" binding:"required,min=6"`
	OrganizationName     string         `json:"organization_name" binding:"required"`
	OrganizationSettings models.JSONMap `json:"organization_settings"`
	Personal             bool           `json:"personal"`
	Profile              models.JSONMap `json:"profile"`
	UserSettings         models.JSONMap `json:"user_settings"`
}

// InviteRequest is the body for POST /members/invite.
type InviteRequest struct {
	OrgID     int64  `json:"org_id" binding:"required"`
	UserEmail string `json:"user_email" binding:"required,email"`
	RoleID    int64  `json:"role_id" binding:"required"`
}

// ChangeRoleRequest is the body for PUT /members/:id/role.
type ChangeRoleRequest struct {
	NewRoleID int64 `json:"new_role_id" binding:"required"`
}

// ResetPasswordRequest is the body for POST /auth/reset-password.
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// CreateRoleRequest is the body for POST /organizations/:id/roles.
type CreateRoleRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// Handler handles membership HTTP endpoints.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

// NewHandler creates a membership handler.
func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// SignUp handles POST /auth/signup.
func (h *Handler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, io.EOF) {
			response.EmptyPayload(c)
			return
		}
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	result, err := h.svc.SignUp(c.Request.Context(), SignUpInput{
		Email:                req.Email,
		Password:             req.Password,
		OrganizationName:     req.OrganizationName,
		OrganizationSettings: req.OrganizationSettings,
		Personal:             req.Personal,
		Profile:              req.Profile,
		UserSettings:         req.UserSettings,
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			response.Conflict(c, "user already exists")
			return
		}
		h.logger.Error("signup failed", zap.Error(err))
		response.Internal(c, "signup failed")
		return
	}

	response.Created(c, result)
}

// Invite handles POST /members/invite.
func (h *Handler) Invite(c *gin.Context) {
	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, io.EOF) {
			response.EmptyPayload(c)
			return
		}
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	if err := h.svc.Invite(c.Request.Context(), req.OrgID, req.UserEmail, req.RoleID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		h.logger.Error("invite failed", zap.Error(err))
		response.Internal(c, "invite failed")
		return
	}

	response.OK(c, gin.H{"message": "member invited"})
}

// Remove handles DELETE /members/:id.
func (h *Handler) Remove(c *gin.Context) {
	memberID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.svc.RemoveMember(c.Request.Context(), memberID); err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			response.NotFound(c, "member not found")
			return
		}
		h.logger.Error("member removal failed", zap.Error(err), zap.Int64("member_id", memberID))
		response.Internal(c, "member removal failed")
		return
	}

	response.OK(c, gin.H{"message": "member removed"})
}

// ChangeRole handles PUT /members/:id/role.
func (h *Handler) ChangeRole(c *gin.Context) {
	memberID, ok := pathID(c)
	if !ok {
		return
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, io.EOF) {
			response.EmptyPayload(c)
			return
		}
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	if err := h.svc.ChangeRole(c.Request.Context(), memberID, req.NewRoleID); err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			response.NotFound(c, "member not found")
			return
		}
		h.logger.Error("role change failed", zap.Error(err), zap.Int64("member_id", memberID))
		response.Internal(c, "role change failed")
		return
	}

	response.OK(c, gin.H{"message": "member role updated"})
}

// ResetPassword handles POST /auth/reset-password.
func (h *Handler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, io.EOF) {
			response.EmptyPayload(c)
			return
		}
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	if err := h.svc.ResetPassword(c.Request.Context(), req.Email, req.NewPassword); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		h.logger.Error("password reset failed", zap.Error(err))
		response.Internal(c, "password reset failed")
		return
	}

	response.OK(c, gin.H{"message": "password updated"})
}

// CreateRole handles POST /organizations/:id/roles.
func (h *Handler) CreateRole(c *gin.Context) {
	orgID, ok := pathID(c)
	if !ok {
		return
	}

	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, io.EOF) {
			response.EmptyPayload(c)
			return
		}
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	role := &models.Role{Name: req.Name, Description: req.Description, OrgID: orgID}
	if err := h.svc.CreateRole(c.Request.Context(), role); err != nil {
		h.logger.Error("role creation failed", zap.Error(err), zap.Int64("org_id", orgID))
		response.Internal(c, "role creation failed")
		return
	}

	response.Created(c, role)
}

// DeleteOrganization handles DELETE /organizations/:id.
func (h *Handler) DeleteOrganization(c *gin.Context) {
	orgID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteOrganization(c.Request.Context(), orgID); err != nil {
		h.logger.Error("organization deletion failed", zap.Error(err), zap.Int64("org_id", orgID))
		response.Internal(c, "organization deletion failed")
		return
	}

	response.OK(c, gin.H{"message": "organization deleted"})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}
