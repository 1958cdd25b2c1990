package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/stockroom/internal/domain"
	"github.com/andresuchdata/stockroom/internal/service"
)

type DashboardHandler struct {
	service *service.DashboardService
}

func NewDashboardHandler(service *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) GetOverview(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Overview())
}

func (h *DashboardHandler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.service.Categories()})
}

func (h *DashboardHandler) GetBudget(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Budget())
}

func (h *DashboardHandler) GetProductPlans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"plans": h.service.ProductPlans()})
}

func (h *DashboardHandler) GetProductPlan(c *gin.Context) {
	plan, err := h.service.ProductPlan(c.Param("id"))
	if err != nil {
		respondError(c, err, "failed to plan product")
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *DashboardHandler) GetCategoryPlans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"plans": h.service.CategoryPlans()})
}

// GetActions lists action items, optionally filtered with ?kind=.
func (h *DashboardHandler) GetActions(c *gin.Context) {
	var kind domain.ActionKind
	if raw := strings.TrimSpace(c.Query("kind")); raw != "" {
		parsed, ok := domain.ParseActionKind(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid action kind", "details": raw})
			return
		}
		kind = parsed
	}

	items := h.service.Actions(kind)
	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": len(items),
	})
}
