package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/stockroom/internal/service"
)

type AdviceHandler struct {
	service *service.AdviceService
}

func NewAdviceHandler(service *service.AdviceService) *AdviceHandler {
	return &AdviceHandler{service: service}
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

func (h *AdviceHandler) Summary(c *gin.Context) {
	result, err := h.service.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to build summary")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AdviceHandler) CoachAction(c *gin.Context) {
	result, err := h.service.CoachAction(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "failed to coach action")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AdviceHandler) CoachAll(c *gin.Context) {
	results, err := h.service.CoachAll(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to coach actions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": results, "total": len(results)})
}

func (h *AdviceHandler) Marketing(c *gin.Context) {
	result, err := h.service.Marketing(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "failed to write marketing copy")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AdviceHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat payload", "details": err.Error()})
		return
	}

	result, err := h.service.Chat(c.Request.Context(), req.Message)
	if err != nil {
		respondError(c, err, "failed to answer")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AdviceHandler) ClearCache(c *gin.Context) {
	n, err := h.service.ClearCache(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to clear advice cache")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}
