package stats

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/crewstack/auth-backend/pkg/response"
)

// Store runs the reporting aggregates.
type Store interface {
	RoleWiseUsers(ctx context.Context) ([]RoleCount, error)
	OrgWiseMembers(ctx context.Context) ([]OrgCount, error)
	OrgRoleWiseUsers(ctx context.Context) ([]OrgRoleCount, error)
}

// Handler handles the read-only statistics endpoints.
type Handler struct {
	store  Store
	logger *zap.Logger
}

// NewHandler creates a stats handler.
func NewHandler(store Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// RoleWiseUsers handles GET /stats/role-wise-users.
func (h *Handler) RoleWiseUsers(c *gin.Context) {
	list, err := h.store.RoleWiseUsers(c.Request.Context())
	if err != nil {
		h.logger.Error("role-wise user count failed", zap.Error(err))
		response.Internal(c, "failed to load role statistics")
		return
	}
	response.OK(c, list)
}

// OrgWiseMembers handles GET /stats/org-wise-members.
func (h *Handler) OrgWiseMembers(c *gin.Context) {
	list, err := h.store.OrgWiseMembers(c.Request.Context())
	if err != nil {
		h.logger.Error("org-wise member count failed", zap.Error(err))
		response.Internal(c, "failed to load organization statistics")
		return
	}
	response.OK(c, list)
}

// OrgRoleWiseUsers handles GET /stats/org-role-wise-users.
func (h *Handler) OrgRoleWiseUsers(c *gin.Context) {
	list, err := h.store.OrgRoleWiseUsers(c.Request.Context())
	if err != nil {
		h.logger.Error("org-role-wise user count failed", zap.Error(err))
		response.Internal(c, "failed to load organization role statistics")
		return
	}
	response.OK(c, list)
}
