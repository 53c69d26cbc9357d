package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/smartbell/internal/domain/models"
)

// ListCattle returns the roster.
func (h *StoreHandler) ListCattle(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Cattle())
}

// SetCattle replaces the roster.
func (h *StoreHandler) SetCattle(c *gin.Context) {
	var cattle []models.Cattle
	if err := c.ShouldBindJSON(&cattle); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.store.SetCattle(cattle).Cattle)
}

// AddCattle handles the add-animal form. The animal joins the current ranch as ACTIVE.
func (h *StoreHandler) AddCattle(c *gin.Context) {
	var req models.CreateCattleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	cattle, err := req.ToCattle(h.store.Snapshot().CurrentRanchID(), h.now())
	if err != nil {
		badRequest(c, h.logger, err)
		return
	}

	h.store.AddCattle(cattle)
	h.logger.Info("cattle added",
		zap.String("cattle_id", cattle.ID),
		zap.String("internal_id", cattle.InternalID),
		zap.String("gender", string(cattle.Gender)))
	c.JSON(http.StatusCreated, cattle)
}

// UpdateCattle merges a partial update into an animal.
func (h *StoreHandler) UpdateCattle(c *gin.Context) {
	id := c.Param("id")

	var patch models.CattlePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	next, found := h.store.UpdateCattle(id, patch)
	if !found {
		notFound(c, "cattle", id)
		return
	}

	updated, _ := next.FindCattle(id)
	c.JSON(http.StatusOK, updated)
}
