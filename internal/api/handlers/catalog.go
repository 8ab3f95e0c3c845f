package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"bess-screening/internal/api/models"
	"bess-screening/internal/data"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the remote headroom catalog and local site metadata
type CatalogHandler struct {
	client *data.DatapackageClient
	sites  []data.Site
}

func NewCatalogHandler(client *data.DatapackageClient, sites []data.Site) *CatalogHandler {
	return &CatalogHandler{client: client, sites: sites}
}

// GetCatalog handles GET /api/v1/catalog[?limit=N]
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	limit := 5
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			badRequest(c, "INVALID_REQUEST", fmt.Errorf("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	dp, err := h.client.Fetch(c.Request.Context())
	if err != nil {
		var ce *data.CatalogError
		if errors.As(err, &ce) {
			status := http.StatusBadGateway
			if ce.StatusCode == http.StatusTooManyRequests {
				status = http.StatusTooManyRequests
			} else if ce.Code == "CIRCUIT_OPEN" {
				status = http.StatusServiceUnavailable
			}
			c.JSON(status, models.ErrorResponse{
				Error: models.ErrorDetail{
					Code:    ce.Code,
					Message: ce.Message,
					Details: map[string]interface{}{"status_code": ce.StatusCode},
				},
			})
			return
		}
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "CATALOG_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	resources := dp.Resources
	if limit > 0 && limit < len(resources) {
		resources = resources[:limit]
	}
	c.JSON(http.StatusOK, gin.H{
		"name":      dp.Name,
		"title":     dp.Title,
		"total":     len(dp.Resources),
		"resources": resources,
	})
}

// ListSites handles GET /api/v1/sites[?kind=&dno=&status=]
func (h *CatalogHandler) ListSites(c *gin.Context) {
	sites := data.FilterSites(h.sites, data.SiteFilter{
		Kind:             c.Query("kind"),
		DNO:              c.Query("dno"),
		FaultLevelStatus: c.Query("status"),
	})
	if sites == nil {
		sites = []data.Site{}
	}
	c.JSON(http.StatusOK, gin.H{
		"sites": sites,
		"dnos":  data.DNOs(h.sites),
	})
}
