package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/smartbell/internal/domain/models"
	"github.com/mamadbah2/smartbell/internal/store"
)

// ListTasks returns every task.
func (h *StoreHandler) ListTasks(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Tasks())
}

// SetTasks replaces the task list.
func (h *StoreHandler) SetTasks(c *gin.Context) {
	var tasks []models.Task
	if err := c.ShouldBindJSON(&tasks); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.store.SetTasks(tasks).Tasks)
}

// AddTask handles the new-task form.
func (h *StoreHandler) AddTask(c *gin.Context) {
	var req models.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	state := h.store.Snapshot()
	task, err := req.ToTask(state.CurrentUserID(), state.CurrentRanchID(), h.now())
	if err != nil {
		badRequest(c, h.logger, err)
		return
	}

	h.store.AddTask(task)
	h.logger.Info("task added", zap.String("task_id", task.ID), zap.String("frequency", string(task.Frequency)))
	c.JSON(http.StatusCreated, task)
}

// UpdateTask merges a partial update. Status changes go through Complete and Cancel.
func (h *StoreHandler) UpdateTask(c *gin.Context) {
	id := c.Param("id")

	var patch models.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	if patch.Status != nil || patch.CompletedAt != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is changed through /complete or /cancel"})
		return
	}

	next, found := h.store.UpdateTask(id, patch)
	if !found {
		notFound(c, "task", id)
		return
	}

	updated, _ := next.FindTask(id)
	c.JSON(http.StatusOK, updated)
}

// CompleteTask marks a pending task completed.
func (h *StoreHandler) CompleteTask(c *gin.Context) {
	h.finishTask(c, h.store.CompleteTask)
}

// CancelTask marks a pending task cancelled.
func (h *StoreHandler) CancelTask(c *gin.Context) {
	h.finishTask(c, h.store.CancelTask)
}

func (h *StoreHandler) finishTask(c *gin.Context, finish func(id string) (store.State, bool)) {
	id := c.Param("id")

	next, found := finish(id)
	if !found {
		notFound(c, "task", id)
		return
	}

	task, _ := next.FindTask(id)
	c.JSON(http.StatusOK, task)
}
