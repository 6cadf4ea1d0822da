package emaillogs

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/crewstack/auth-backend/internal/models"
	"github.com/crewstack/auth-backend/pkg/response"
)

// Store lists recorded delivery attempts.
type Store interface {
	List(ctx context.Context, recipient string, limit int) ([]*models.EmailLog, error)
}

// Handler serves the mail delivery audit trail.
type Handler struct {
	store  Store
	logger *zap.Logger
}

// NewHandler creates an email logs handler.
func NewHandler(store Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// List handles GET /emails?recipient=&limit=.
func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	list, err := h.store.List(c.Request.Context(), c.Query("recipient"), limit)
	if err != nil {
		h.logger.Error("email log listing failed", zap.Error(err))
		response.Internal(c, "failed to load email logs")
		return
	}
	response.OK(c, list)
}
