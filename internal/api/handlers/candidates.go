package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"bess-screening/internal/api/models"
	"bess-screening/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// CandidateHandler lists candidate-size presets stored as YAML files
type CandidateHandler struct {
	dir string
}

// NewCandidateHandler creates a handler reading presets from dir.
// An empty dir falls back to ./examples/candidates.
func NewCandidateHandler(dir string) *CandidateHandler {
	if dir == "" {
		dir = filepath.Join("examples", "candidates")
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	log.Info().Str("dir", dir).Msg("candidate presets directory")
	return &CandidateHandler{dir: dir}
}

// ListCandidateSets handles GET /api/v1/candidates
func (h *CandidateHandler) ListCandidateSets(c *gin.Context) {
	sets := []models.CandidateSetInfo{}

	entries, err := os.ReadDir(h.dir)
	if err != nil {
		log.Warn().Err(err).Str("dir", h.dir).Msg("reading candidate presets")
		c.JSON(http.StatusOK, gin.H{"candidate_sets": sets})
		return
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !(strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")) {
			continue
		}
		path := filepath.Join(h.dir, name)
		set, err := config.LoadCandidateSet(path)
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("skipping invalid candidate preset")
			continue
		}
		id := strings.TrimSuffix(strings.TrimSuffix(name, ".yaml"), ".yml")
		info := models.CandidateSetInfo{
			ID:            id,
			Name:          set.Name,
			Description:   set.Description,
			File:          path,
			EnergyFullMWh: set.EnergyFullMWh,
			Candidates:    make([]models.CandidateAsset, len(set.Candidates)),
		}
		if info.Name == "" {
			info.Name = id
		}
		for i, cc := range set.Candidates {
			a := cc.ToModel(set.EnergyFullMWh)
			info.Candidates[i] = models.CandidateAsset{SizeMW: a.SizeMW, ExportMVAWithMargin: a.ExportMVAWithMargin, EnergyFullMWh: a.EnergyFullMWh}
		}
		sets = append(sets, info)
	}

	c.JSON(http.StatusOK, gin.H{"candidate_sets": sets})
}
