package collab

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"collablearn/internal/shared/metrics"
	"collablearn/internal/shared/server/middleware"
	"collablearn/internal/shared/server/respond"
	"collablearn/internal/shared/telemetry"
)

// Handler wires the collaboration bridge endpoints.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches collaboration routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/liveblocks/auth", h.auth)
	rg.POST("/liveblocks/users", h.users)
}

type authRequest struct {
	WalletAddress string `json:"walletAddress"`
}

func (h *Handler) auth(c *gin.Context) {
	var req authRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.CollabAuthTotal.WithLabelValues("bad_request").Inc()
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.WalletAddress) == "" {
		metrics.CollabAuthTotal.WithLabelValues("bad_request").Inc()
		respond.Error(c, http.StatusBadRequest, "validation_error", "walletAddress is required", nil)
		return
	}

	result, err := h.Svc.Authorize(c.Request.Context(), req.WalletAddress)
	if err != nil {
		metrics.CollabAuthTotal.WithLabelValues("failed").Inc()
		telemetry.Error("liveblocks.auth_failed", map[string]any{
			"request_id": middleware.RequestIDFromContext(c),
			"error":      err.Error(),
		})
		respond.JSON(c, http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Error in Liveblocks auth",
		})
		return
	}

	metrics.CollabAuthTotal.WithLabelValues("ok").Inc()
	c.Data(result.Status, "application/json", result.Body)
}

type usersRequest struct {
	UserIDs []string `json:"userIds"`
}

func (h *Handler) users(c *gin.Context) {
	var req usersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	users := h.Svc.ResolveUsers(req.UserIDs)
	respond.JSON(c, http.StatusOK, users)
}
