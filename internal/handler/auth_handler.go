package handler

import (
	"log"
	"net/http"

	"agencydesk/config"
	"agencydesk/internal/auth"
	"agencydesk/internal/middleware"
	"agencydesk/internal/repository"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	users *repository.UserRepository
	jwt   *config.JWTConfig
}

func NewAuthHandler(users *repository.UserRepository, jwt *config.JWTConfig) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwt}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil || u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}
	access, err := auth.GenerateAccessToken(h.jwt, u.ID, u.Email, u.Role, u.ClientID)
	if err != nil {
		log.Printf("[Auth] token generation failed for %s: %v", u.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	refresh, err := auth.GenerateRefreshToken(h.jwt, u.ID)
	if err != nil {
		log.Printf("[Auth] refresh token generation failed for %s: %v", u.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	if err := h.users.TouchLastLogin(c.Request.Context(), u.ID); err != nil {
		log.Printf("[Auth] last_login update failed for %s: %v", u.ID, err)
	}
	c.JSON(http.StatusOK, gin.H{
		"user":          u,
		"access_token":  access,
		"refresh_token": refresh,
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, err := auth.ParseRefreshToken(h.jwt, req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	u, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil || u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	access, err := auth.GenerateAccessToken(h.jwt, u.ID, u.Email, u.Role, u.ClientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token refresh failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": access})
}

func (h *AuthHandler) Me(c *gin.Context) {
	actor := middleware.GetActor(c)
	u, err := h.users.GetByID(c.Request.Context(), actor.UserID)
	if err != nil || u == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

type PreferencesRequest struct {
	NotifyPayments *bool `json:"notify_payments"`
	NotifyTasks    *bool `json:"notify_tasks"`
	NotifyClients  *bool `json:"notify_clients"`
}

// UpdatePreferences toggles the caller's in-app notification categories.
// Omitted fields keep their current value.
func (h *AuthHandler) UpdatePreferences(c *gin.Context) {
	var req PreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	actor := middleware.GetActor(c)
	u, err := h.users.GetByID(c.Request.Context(), actor.UserID)
	if err != nil || u == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	payments, tasks, clients := u.NotifyPayments, u.NotifyTasks, u.NotifyClients
	if req.NotifyPayments != nil {
		payments = *req.NotifyPayments
	}
	if req.NotifyTasks != nil {
		tasks = *req.NotifyTasks
	}
	if req.NotifyClients != nil {
		clients = *req.NotifyClients
	}
	if err := h.users.UpdatePreferences(c.Request.Context(), u.ID, payments, tasks, clients); err != nil {
		log.Printf("[Auth] preference update failed for %s: %v", u.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "preference update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"notify_payments": payments,
		"notify_tasks":    tasks,
		"notify_clients":  clients,
	})
}
