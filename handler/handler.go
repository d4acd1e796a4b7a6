package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/docuchat/docuchat-be/logger"
	"github.com/docuchat/docuchat-be/types"
)

// respondError maps an AppError to its status code and detail body.
// Anything else is wrapped as a 500 with its message preserved.
func respondError(c *gin.Context, err error) {
	var appErr *types.AppError
	if errors.As(err, &appErr) {
		logger.Errorf("Application error: %s", appErr.Detail)
		c.JSON(appErr.StatusCode, types.ErrorResponse{Detail: appErr.Detail})
		return
	}
	logger.Error("Unexpected error", err)
	c.JSON(http.StatusInternalServerError, types.ErrorResponse{Detail: err.Error()})
}
