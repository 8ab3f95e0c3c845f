package handlers

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"

	"bess-screening/internal/api/models"
	"bess-screening/internal/curtailment"
	"bess-screening/internal/metrics"
	"bess-screening/internal/model"
	"bess-screening/internal/screening"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DefaultMaxDrawsPerPair caps trials*sim_days for requests made over HTTP.
const DefaultMaxDrawsPerPair = 5_000_000

// ScreeningHandler handles screening and estimation requests
type ScreeningHandler struct {
	engine   *screening.Engine
	store    *ReportStore
	metrics  *metrics.Metrics
	policy   curtailment.Policy
	energy   float64
	maxDraws int
}

// NewScreeningHandler creates a new screening handler. policy is used when a
// request does not carry its own, energyFullMWh when neither a candidate nor
// its request sets an energy; m may be nil.
func NewScreeningHandler(engine *screening.Engine, store *ReportStore, policy curtailment.Policy, energyFullMWh float64, m *metrics.Metrics) *ScreeningHandler {
	return &ScreeningHandler{
		engine:   engine,
		store:    store,
		metrics:  m,
		policy:   policy,
		energy:   energyFullMWh,
		maxDraws: DefaultMaxDrawsPerPair,
	}
}

// RunScreening handles POST /api/v1/screening
func (h *ScreeningHandler) RunScreening(c *gin.Context) {
	var req models.ScreeningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return
	}

	params := model.SimulationParameters{SimDays: req.Simulation.SimDays, Trials: req.Simulation.Trials}
	if err := h.checkParams(params); err != nil {
		badRequest(c, "INVALID_PARAMETERS", err)
		return
	}
	policy := h.policy
	if req.Policy != nil {
		policy = *req.Policy
	}

	in := screening.Inputs{
		Peaks:      make(map[string]model.DailyPeakSeries, len(req.Peaks)),
		Thresholds: thresholdsFromRequest(req.Thresholds),
		Candidates: candidatesFromRequest(req.Candidates, h.defaultEnergy(req.EnergyFullMWh)),
		Params:     params,
		Policy:     policy,
		Seed:       req.Simulation.Seed,
	}
	for bsp, peaks := range req.Peaks {
		in.Peaks[bsp] = peaks
	}

	report, err := h.engine.Run(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, model.ErrInvalidParameters) {
			badRequest(c, "INVALID_PARAMETERS", err)
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "SCREENING_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	id := uuid.NewString()
	h.store.Put(id, report)
	if h.metrics != nil {
		h.metrics.ObserveReport(report)
	}
	log.Info().Str("id", id).Int("rows", len(report.Rows)).Msg("screening stored")

	c.JSON(http.StatusOK, buildScreeningResponse(id, report, req.Options.IncludeRows))
}

// GetResults handles GET /api/v1/screening/:id/results[?format=csv]
func (h *ScreeningHandler) GetResults(c *gin.Context) {
	id := c.Param("id")
	report, ok := h.store.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "NOT_FOUND",
				Message: fmt.Sprintf("no screening run with id %q", id),
			},
		})
		return
	}

	switch c.Query("format") {
	case "csv":
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=screening-%s.csv", id))
		c.Header("Content-Type", "text/csv")
		c.Status(http.StatusOK)
		if err := screening.WriteResultsCSV(c.Writer, report.Rows); err != nil {
			log.Error().Err(err).Str("id", id).Msg("writing results csv")
		}
	case "", "json":
		c.JSON(http.StatusOK, buildScreeningResponse(id, report, true))
	default:
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_FORMAT",
				Message: "format must be json or csv",
			},
		})
	}
}

// Estimate handles POST /api/v1/estimate for a single BSP/size pair.
func (h *ScreeningHandler) Estimate(c *gin.Context) {
	var req models.EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return
	}
	params := model.SimulationParameters{SimDays: req.Simulation.SimDays, Trials: req.Simulation.Trials}
	if err := h.checkParams(params); err != nil {
		badRequest(c, "INVALID_PARAMETERS", err)
		return
	}
	asset := candidatesFromRequest([]models.CandidateAsset{req.Candidate}, h.defaultEnergy(req.EnergyFullMWh))[0]
	if err := asset.Validate(); err != nil {
		badRequest(c, "INVALID_CANDIDATE", err)
		return
	}
	if len(req.Peaks) == 0 {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INSUFFICIENT_DATA",
				Message: "peaks is empty; no estimate can be made",
			},
		})
		return
	}

	var rng *rand.Rand
	if req.Simulation.Seed != nil {
		rng = curtailment.NewRand(*req.Simulation.Seed)
	}
	res, err := curtailment.Evaluate(req.BSP, req.Peaks, req.AllowedMVA, asset, params, h.policy, rng)
	if err != nil {
		code := "INVALID_PARAMETERS"
		if errors.Is(err, model.ErrNonFiniteInput) {
			code = "NON_FINITE_INPUT"
		}
		badRequest(c, code, err)
		return
	}
	if h.metrics != nil {
		h.metrics.ObserveEstimate(res.Risk)
	}
	c.JSON(http.StatusOK, toResultRow(res))
}

func (h *ScreeningHandler) checkParams(p model.SimulationParameters) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.Trials > h.maxDraws/p.SimDays {
		return fmt.Errorf("%w: trials*sim_days must not exceed %d", model.ErrInvalidParameters, h.maxDraws)
	}
	return nil
}

func badRequest(c *gin.Context, code string, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: err.Error(),
		},
	})
}

func thresholdsFromRequest(in map[string]*float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for bsp, v := range in {
		if v != nil {
			out[bsp] = *v
		}
	}
	return out
}

// defaultEnergy is the request's energy_full_mwh if set, else the server's.
func (h *ScreeningHandler) defaultEnergy(requested float64) float64 {
	if requested != 0 {
		return requested
	}
	return h.energy
}

func candidatesFromRequest(in []models.CandidateAsset, defaultEnergy float64) []model.CandidateAsset {
	out := make([]model.CandidateAsset, len(in))
	for i, a := range in {
		e := a.EnergyFullMWh
		if e == 0 {
			e = defaultEnergy
		}
		out[i] = model.CandidateAsset{SizeMW: a.SizeMW, ExportMVAWithMargin: a.ExportMVAWithMargin, EnergyFullMWh: e}
	}
	return out
}

func buildScreeningResponse(id string, r *screening.Report, includeRows bool) models.ScreeningResponse {
	s := r.Summary()
	resp := models.ScreeningResponse{
		ID:     id,
		Status: "completed",
		Summary: models.ScreeningSummary{
			Pairs:        s.Pairs,
			Red:          s.Red,
			Amber:        s.Amber,
			Green:        s.Green,
			Skipped:      s.Skipped,
			Failed:       s.Failed,
			DrawsPerPair: r.Params.TotalDraws(),
		},
		Skipped: make([]models.SkipRow, 0, len(r.Skipped)),
		Failed:  make([]models.FailureRow, 0, len(r.Failed)),
	}
	for _, sk := range r.Skipped {
		resp.Skipped = append(resp.Skipped, models.SkipRow{BSP: sk.BSP, Reason: string(sk.Reason)})
	}
	for _, f := range r.Failed {
		resp.Failed = append(resp.Failed, models.FailureRow{BSP: f.BSP, SizeMW: f.SizeMW, Message: f.Err.Error()})
	}
	if includeRows {
		resp.Rows = make([]models.ResultRow, len(r.Rows))
		for i, row := range r.Rows {
			resp.Rows[i] = toResultRow(row)
		}
	}
	return resp
}

func toResultRow(r model.EstimationResult) models.ResultRow {
	return models.ResultRow{
		BSP:                   r.BSP,
		SizeMW:                r.SizeMW,
		Probability:           r.Probability,
		CurtailmentPct:        r.CurtailmentPct,
		CurtailedMWhPerYear:   r.CurtailedMWhPerYear,
		EffectiveExportFactor: r.EffectiveExportFactor,
		Tier:                  string(r.Tier),
		CostLowK:              r.CostLowK,
		CostHighK:             r.CostHighK,
		Risk:                  string(r.Risk),
		StdErr:                r.StdErr,
		Draws:                 r.Draws,
	}
}
