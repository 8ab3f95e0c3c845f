package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"bess-screening/internal/model"
	"bess-screening/internal/screening"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveReport(t *testing.T) {
	m := New()
	m.ObserveReport(&screening.Report{
		Rows: []model.EstimationResult{
			{Risk: model.RiskRed}, {Risk: model.RiskRed}, {Risk: model.RiskGreen},
		},
		Skipped:    []screening.Skip{{BSP: "X", Reason: screening.ReasonNoPeakData}},
		Failed:     []screening.Failure{{BSP: "Y", Err: errors.New("bad")}},
		Candidates: 2,
	})
	assert.Equal(t, 2.0, m.PairCount("RED"))
	assert.Equal(t, 1.0, m.PairCount("GREEN"))
	assert.Equal(t, 0.0, m.PairCount("AMBER"))
	assert.Equal(t, 2.0, m.PairCount("skipped"))
	assert.Equal(t, 1.0, m.PairCount("failed"))
}

func TestObserveEstimate(t *testing.T) {
	m := New()
	m.ObserveEstimate(model.RiskAmber)
	m.ObserveEstimate(model.RiskAmber)
	m.ObserveEstimate(model.RiskGreen)
	assert.Equal(t, 2.0, m.EstimateCount(model.RiskAmber))
	assert.Equal(t, 1.0, m.EstimateCount(model.RiskGreen))
	assert.Equal(t, 0.0, m.EstimateCount(model.RiskRed))
	assert.Equal(t, 0.0, m.PairCount("AMBER"))
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(w.Body)
	assert.Contains(t, string(body), `bess_http_requests_total{method="GET",route="/ping",status="200"} 1`)
}
