package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/docuchat/docuchat-be/types"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, types.HealthResponse{Status: "healthy"})
}
