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

type ClientHandler struct {
	clients *repository.ClientRepository
	notif   *service.NotificationService
}

func NewClientHandler(clients *repository.ClientRepository, notif *service.NotificationService) *ClientHandler {
	return &ClientHandler{clients: clients, notif: notif}
}

type ClientRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Status  string `json:"status"`
	Notes   string `json:"notes"`
}

func (h *ClientHandler) Create(c *gin.Context) {
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Status == "" {
		req.Status = domain.ClientStatusActive
	}
	if !domain.ValidClientStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status " + req.Status})
		return
	}
	now := time.Now()
	client := &models.Client{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		Status:    req.Status,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.clients.Create(c.Request.Context(), client); err != nil {
		log.Printf("[Clients] create failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create client failed"})
		return
	}
	actor := middleware.GetActor(c)
	if err := h.notif.NotifyClientCreated(c.Request.Context(), actor, client.Name); err != nil {
		log.Printf("[Clients] fanout failed for %s: %v", client.ID, err)
	}
	c.JSON(http.StatusCreated, gin.H{"client": client})
}

func (h *ClientHandler) Get(c *gin.Context) {
	client, err := h.clients.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fetch client failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"client": client})
}

func (h *ClientHandler) Update(c *gin.Context) {
	client, err := h.clients.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "fetch client failed"})
		return
	}
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Status != "" && !domain.ValidClientStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status " + req.Status})
		return
	}
	client.Name = req.Name
	client.Email = req.Email
	client.Phone = req.Phone
	client.Address = req.Address
	if req.Status != "" {
		client.Status = req.Status
	}
	client.Notes = req.Notes
	client.UpdatedAt = time.Now()
	if err := h.clients.Update(c.Request.Context(), client); err != nil {
		log.Printf("[Clients] update failed for %s: %v", client.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update client failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"client": client})
}

func (h *ClientHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 200 {
		limit = 50
	}
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	items, total, err := h.clients.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list clients failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": items, "total": total})
}
