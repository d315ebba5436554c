package handler

import (
	"net/http"

	"agencydesk/internal/middleware"
	"agencydesk/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	svc *service.DashboardService
}

func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Stats returns the summary-card counts, scoped to the caller's role.
func (h *DashboardHandler) Stats(c *gin.Context) {
	actor := middleware.GetActor(c)
	stats, err := h.svc.Stats(c.Request.Context(), actor)
	if err != nil {
		respondErr(c, "dashboard stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
