package handler

import (
	"log"
	"net/http"
	"strconv"

	"agencydesk/internal/middleware"
	"agencydesk/internal/models"
	"agencydesk/internal/repository"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notifications *repository.NotificationRepository
	users         *repository.UserRepository
}

func NewNotificationHandler(notifications *repository.NotificationRepository, users *repository.UserRepository) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, users: users}
}

// List returns the caller's notifications, newest first, filtered down to the
// categories the caller has left enabled in their preferences.
func (h *NotificationHandler) List(c *gin.Context) {
	actor := middleware.GetActor(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 200 {
		limit = 50
	}
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}

	var types []string
	if u, err := h.users.GetByID(c.Request.Context(), actor.UserID); err == nil && u != nil {
		types = u.AllowedNotificationTypes()
		if len(types) == 0 {
			c.JSON(http.StatusOK, gin.H{"notifications": []models.Notification{}})
			return
		}
	}

	items, err := h.notifications.ListByReceiver(c.Request.Context(), actor.Role, actor.ClientID, types, limit, offset)
	if err != nil {
		log.Printf("[Notifications] list failed for %s: %v", actor.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list notifications failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": items})
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	actor := middleware.GetActor(c)
	count, err := h.notifications.UnreadCount(c.Request.Context(), actor.Role, actor.ClientID)
	if err != nil {
		log.Printf("[Notifications] unread count failed for %s: %v", actor.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unread count failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	actor := middleware.GetActor(c)
	if err := h.notifications.MarkRead(c.Request.Context(), c.Param("id"), actor.Role, actor.ClientID); err != nil {
		log.Printf("[Notifications] mark read failed for %s: %v", actor.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "mark read failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"read": true})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	actor := middleware.GetActor(c)
	if err := h.notifications.MarkAllRead(c.Request.Context(), actor.Role, actor.ClientID); err != nil {
		log.Printf("[Notifications] mark all read failed for %s: %v", actor.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "mark all read failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"read": true})
}
