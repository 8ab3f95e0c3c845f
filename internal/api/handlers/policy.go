package handlers

import (
	"net/http"

	"bess-screening/internal/api/models"

	"github.com/gin-gonic/gin"
)

// GetPolicy handles GET /api/v1/policy
func (h *ScreeningHandler) GetPolicy(c *gin.Context) {
	c.JSON(http.StatusOK, models.PolicyResponse{Policy: h.policy})
}
