package handlers

import (
	"net/http"

	"bess-screening/internal/analysis"
	"bess-screening/internal/api/models"
	"bess-screening/internal/model"

	"github.com/gin-gonic/gin"
)

// RankHeadroom handles POST /api/v1/headroom
func RankHeadroom(c *gin.Context) {
	var req models.HeadroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return
	}

	peaks := make(map[string]model.DailyPeakSeries, len(req.Peaks))
	for bsp, p := range req.Peaks {
		peaks[bsp] = p
	}
	ranked := analysis.RankByHeadroom(peaks, thresholdsFromRequest(req.Thresholds))

	if req.Limit > 0 && req.Limit < len(ranked) {
		ranked = ranked[:req.Limit]
	}

	rows := make([]models.HeadroomRow, len(ranked))
	for i, h := range ranked {
		rows[i] = models.HeadroomRow{
			Rank:           i + 1,
			BSP:            h.BSP,
			Count:          h.Count,
			MinMVA:         h.MinMVA,
			MaxMVA:         h.MaxMVA,
			MeanMVA:        h.MeanMVA,
			StdDevMVA:      h.StdDevMVA,
			P05MVA:         h.P05MVA,
			P50MVA:         h.P50MVA,
			P95MVA:         h.P95MVA,
			AllowedMVA:     h.AllowedMVA,
			HeadroomP95MVA: h.HeadroomP95MVA,
			FirmExportMVA:  h.FirmExportMVA,
		}
	}
	c.JSON(http.StatusOK, models.HeadroomResponse{BSPs: rows})
}
