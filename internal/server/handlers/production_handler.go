package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/smartbell/internal/domain/models"
)

// ListProductions returns the recent productions, newest first.
func (h *StoreHandler) ListProductions(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.RecentProductions())
}

// SetProductions replaces the recent list with a newest-first array.
func (h *StoreHandler) SetProductions(c *gin.Context) {
	var productions []models.Production
	if err := c.ShouldBindJSON(&productions); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.store.SetRecentProductions(productions).Productions())
}

// AddProduction handles the record-milking form and exports the record to the ledger.
func (h *StoreHandler) AddProduction(c *gin.Context) {
	var req models.CreateProductionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	state := h.store.Snapshot()
	production, err := req.ToProduction(state.CurrentRanchID(), h.now())
	if err != nil {
		badRequest(c, h.logger, err)
		return
	}

	h.store.AddProduction(production)

	if h.ledger != nil {
		tag := ""
		if cattle, ok := state.FindCattle(production.CattleID); ok {
			tag = cattle.InternalID
		}
		if err := h.ledger.AppendProduction(c.Request.Context(), production, tag); err != nil {
			h.logger.Warn("ledger export failed", zap.String("production_id", production.ID), zap.Error(err))
		}
	}

	c.JSON(http.StatusCreated, production)
}
