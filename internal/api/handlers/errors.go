package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/stockroom/internal/inventory"
	"github.com/andresuchdata/stockroom/internal/service"
)

// respondError maps service errors onto HTTP statuses.
func respondError(c *gin.Context, err error, message string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, inventory.ErrNotFound), errors.Is(err, service.ErrActionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, inventory.ErrInvalidProduct), errors.Is(err, service.ErrEmptyMessage):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrDriveDisabled), errors.Is(err, service.ErrArchiveDisabled):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg(message)
	}

	c.JSON(status, gin.H{"error": message, "details": err.Error()})
}
