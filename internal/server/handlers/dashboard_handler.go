package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/smartbell/internal/domain/models"
	"github.com/mamadbah2/smartbell/internal/service/stats"
	"github.com/mamadbah2/smartbell/internal/store"
)

const defaultHistoryLimit = 7

// SnapshotHistory reads archived dashboard snapshots.
type SnapshotHistory interface {
	RecentSnapshots(ctx context.Context, ranchID string, limit int64) ([]models.DashboardSnapshot, error)
}

// DashboardHandler serves the derived dashboard view.
type DashboardHandler struct {
	tracker *stats.Tracker
	store   *store.Store
	history SnapshotHistory
	logger  *zap.Logger
}

// NewDashboardHandler constructs the dashboard adapter. history is optional.
func NewDashboardHandler(tracker *stats.Tracker, st *store.Store, history SnapshotHistory, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{tracker: tracker, store: st, history: history, logger: logger}
}

// Dashboard returns stats, today's tasks and registration progress.
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.tracker.Dashboard())
}

// History returns archived daily snapshots for the current ranch.
func (h *DashboardHandler) History(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "snapshot archive not configured"})
		return
	}

	limit := int64(defaultHistoryLimit)
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 || parsed > 366 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 366"})
			return
		}
		limit = parsed
	}

	ranchID := h.store.Snapshot().CurrentRanchID()
	snapshots, err := h.history.RecentSnapshots(c.Request.Context(), ranchID, limit)
	if err != nil {
		h.logger.Error("failed loading snapshot history", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to load history"})
		return
	}
	if snapshots == nil {
		snapshots = []models.DashboardSnapshot{}
	}

	c.JSON(http.StatusOK, snapshots)
}
