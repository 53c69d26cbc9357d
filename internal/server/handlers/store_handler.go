package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/smartbell/internal/domain/models"
	"github.com/mamadbah2/smartbell/internal/store"
)

// ProductionLedger receives a copy of every production recorded through the API.
type ProductionLedger interface {
	AppendProduction(ctx context.Context, p models.Production, cattleTag string) error
}

// StoreHandler exposes the session store to the dashboard and form views.
// Field validation happens here, through binding tags; the store never validates.
type StoreHandler struct {
	store  *store.Store
	ledger ProductionLedger
	now    func() time.Time
	logger *zap.Logger
}

// NewStoreHandler constructs the store HTTP adapter. ledger is optional.
func NewStoreHandler(st *store.Store, ledger ProductionLedger, now func() time.Time, logger *zap.Logger) *StoreHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &StoreHandler{store: st, ledger: ledger, now: now, logger: logger}
}

// State returns the whole session snapshot.
func (h *StoreHandler) State(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Snapshot())
}

// SetUser replaces the session user.
func (h *StoreHandler) SetUser(c *gin.Context) {
	var user models.User
	if err := c.ShouldBindJSON(&user); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.store.SetUser(&user).User)
}

// ClearUser signs the session user out.
func (h *StoreHandler) ClearUser(c *gin.Context) {
	h.store.SetUser(nil)
	c.Status(http.StatusNoContent)
}

// Ranches lists the user's ranches.
func (h *StoreHandler) Ranches(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Ranches())
}

// SetRanches replaces the ranch list.
func (h *StoreHandler) SetRanches(c *gin.Context) {
	var ranches []models.Ranch
	if err := c.ShouldBindJSON(&ranches); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.store.SetRanches(ranches).Ranches)
}

// SetCurrentRanch selects the active ranch.
func (h *StoreHandler) SetCurrentRanch(c *gin.Context) {
	var ranch models.Ranch
	if err := c.ShouldBindJSON(&ranch); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	if ranch.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ranch id is required"})
		return
	}
	c.JSON(http.StatusOK, h.store.SetCurrentRanch(ranch).CurrentRanch)
}

// OnboardRanch handles the onboarding ranch form.
func (h *StoreHandler) OnboardRanch(c *gin.Context) {
	var req models.CreateRanchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	state := h.store.Snapshot()
	ranch := req.ToRanch(state.CurrentUserID(), h.now())
	next := h.store.OnboardRanch(ranch)

	h.logger.Info("ranch onboarded", zap.String("ranch_id", ranch.ID), zap.String("name", ranch.Name))
	c.JSON(http.StatusCreated, gin.H{
		"ranch":          next.CurrentRanch,
		"onboardingStep": models.OnboardingStep(next.OnboardingStep).String(),
	})
}

type onboardingStepRequest struct {
	Step *int `json:"step" binding:"required,gte=0,lte=3"`
}

// SetOnboardingStep moves the onboarding flow to the given step.
func (h *StoreHandler) SetOnboardingStep(c *gin.Context) {
	var req onboardingStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	next := h.store.SetOnboardingStep(*req.Step)
	c.JSON(http.StatusOK, gin.H{"onboardingStep": next.OnboardingStep})
}

type flagRequest struct {
	Value *bool `json:"value" binding:"required"`
}

// SetOnboardingComplete sets the onboarding-complete flag.
func (h *StoreHandler) SetOnboardingComplete(c *gin.Context) {
	var req flagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	next := h.store.SetIsOnboardingComplete(*req.Value)
	c.JSON(http.StatusOK, gin.H{"isOnboardingComplete": next.IsOnboardingComplete})
}

// SetLoading sets the UI loading flag.
func (h *StoreHandler) SetLoading(c *gin.Context) {
	var req flagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	next := h.store.SetIsLoading(*req.Value)
	c.JSON(http.StatusOK, gin.H{"isLoading": next.IsLoading})
}

func badRequest(c *gin.Context, logger *zap.Logger, err error) {
	logger.Debug("invalid request body", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func notFound(c *gin.Context, what, id string) {
	c.JSON(http.StatusNotFound, gin.H{"error": what + " not found", "id": id})
}
