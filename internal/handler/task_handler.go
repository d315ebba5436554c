package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"agencydesk/internal/domain"
	"agencydesk/internal/middleware"
	"agencydesk/internal/models"
	"agencydesk/internal/repository"
	"agencydesk/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskHandler struct {
	tasks *repository.TaskRepository
	notif *service.NotificationService
}

func NewTaskHandler(tasks *repository.TaskRepository, notif *service.NotificationService) *TaskHandler {
	return &TaskHandler{tasks: tasks, notif: notif}
}

type TaskRequest struct {
	Title          string     `json:"title" binding:"required"`
	ClientID       string     `json:"client_id" binding:"required"`
	Description    string     `json:"description"`
	Status         string     `json:"status"`
	EstimatedHours float64    `json:"estimated_hours"`
	EstimatedCost  float64    `json:"estimated_cost"`
	ActualHours    *float64   `json:"actual_hours"`
	ActualCost     *float64   `json:"actual_cost"`
	Project        string     `json:"project"`
	DueDate        *time.Time `json:"due_date"`
}

func (h *TaskHandler) Create(c *gin.Context) {
	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Status == "" {
		req.Status = domain.TaskStatusRequirements
	}
	if !domain.ValidTaskStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status " + req.Status})
		return
	}
	now := time.Now()
	task := &models.Task{
		ID:             uuid.New().String(),
		Title:          req.Title,
		ClientID:       req.ClientID,
		Description:    req.Description,
		Status:         req.Status,
		EstimatedHours: req.EstimatedHours,
		EstimatedCost:  req.EstimatedCost,
		ActualHours:    req.ActualHours,
		ActualCost:     req.ActualCost,
		Project:        req.Project,
		DueDate:        req.DueDate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := h.tasks.Create(c.Request.Context(), task); err != nil {
		log.Printf("[Tasks] create failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create task failed"})
		return
	}
	actor := middleware.GetActor(c)
	if err := h.notif.NotifyTaskCreated(c.Request.Context(), actor, task.ClientID, task.Title); err != nil {
		log.Printf("[Tasks] fanout failed for %s: %v", task.ID, err)
	}
	c.JSON(http.StatusCreated, gin.H{"task": task})
}

func (h *TaskHandler) Get(c *gin.Context) {
	task, err := h.tasks.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fetch task failed"})
		return
	}
	actor := middleware.GetActor(c)
	if actor.IsClient() && task.ClientID != actor.ClientID {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

// Update merges the request into the task. Moving a task to complete stamps
// completed_at and notifies the client.
func (h *TaskHandler) Update(c *gin.Context) {
	task, err := h.tasks.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fetch task failed"})
		return
	}
	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Status != "" && !domain.ValidTaskStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status " + req.Status})
		return
	}
	completed := false
	now := time.Now()
	task.Title = req.Title
	task.Description = req.Description
	task.EstimatedHours = req.EstimatedHours
	task.EstimatedCost = req.EstimatedCost
	task.ActualHours = req.ActualHours
	task.ActualCost = req.ActualCost
	task.Project = req.Project
	task.DueDate = req.DueDate
	if req.Status != "" && req.Status != task.Status {
		task.Status = req.Status
		if req.Status == domain.TaskStatusComplete && task.CompletedAt == nil {
			task.CompletedAt = &now
			completed = true
		}
	}
	task.UpdatedAt = now
	if err := h.tasks.Update(c.Request.Context(), task); err != nil {
		log.Printf("[Tasks] update failed for %s: %v", task.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update task failed"})
		return
	}
	if completed {
		actor := middleware.GetActor(c)
		if err := h.notif.NotifyTaskCompleted(c.Request.Context(), actor, task.ClientID, task.Title); err != nil {
			log.Printf("[Tasks] fanout failed for %s: %v", task.ID, err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (h *TaskHandler) List(c *gin.Context) {
	actor := middleware.GetActor(c)
	clientID := c.Query("client_id")
	if actor.IsClient() {
		clientID = actor.ClientID
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 200 {
		limit = 50
	}
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	items, total, err := h.tasks.List(c.Request.Context(), clientID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list tasks failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": items, "total": total})
}
