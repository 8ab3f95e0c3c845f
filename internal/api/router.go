// Package api wires the HTTP routes for the screening service.
package api

import (
	"net/http"
	"os"
	"strings"

	"bess-screening/internal/api/handlers"
	"bess-screening/internal/api/middleware"
	"bess-screening/internal/curtailment"
	"bess-screening/internal/data"
	"bess-screening/internal/metrics"
	"bess-screening/internal/screening"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Options configures NewRouter. Zero values are usable.
type Options struct {
	Engine         *screening.Engine
	Policy         *curtailment.Policy
	Metrics        *metrics.Metrics
	Catalog        *data.DatapackageClient
	Sites          []data.Site
	CandidatesDir  string
	AllowedOrigins []string
	StaticDir      string
	MaxReports     int

	// EnergyFullMWh fills candidates that arrive without their own energy.
	EnergyFullMWh float64
}

func NewRouter(opts Options) *gin.Engine {
	if opts.Engine == nil {
		opts.Engine = screening.New(0)
	}
	policy := curtailment.DefaultPolicy()
	if opts.Policy != nil {
		policy = *opts.Policy
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	if opts.Catalog == nil {
		opts.Catalog = data.NewDatapackageClient("", data.NewCatalogCache(0))
	}

	router := gin.New()
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.Logger())
	router.Use(opts.Metrics.Middleware())
	router.Use(middleware.ErrorHandler())

	screeningHandler := handlers.NewScreeningHandler(opts.Engine, handlers.NewReportStore(opts.MaxReports), policy, opts.EnergyFullMWh, opts.Metrics)
	candidateHandler := handlers.NewCandidateHandler(opts.CandidatesDir)
	catalogHandler := handlers.NewCatalogHandler(opts.Catalog, opts.Sites)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/screening", screeningHandler.RunScreening)
		v1.GET("/screening/:id/results", screeningHandler.GetResults)
		v1.POST("/estimate", screeningHandler.Estimate)
		v1.GET("/policy", screeningHandler.GetPolicy)

		v1.POST("/headroom", handlers.RankHeadroom)
		v1.GET("/candidates", candidateHandler.ListCandidateSets)

		v1.GET("/catalog", catalogHandler.GetCatalog)
		v1.GET("/sites", catalogHandler.ListSites)
	}

	if opts.StaticDir != "" {
		if _, err := os.Stat(opts.StaticDir); err == nil {
			router.Static("/assets", opts.StaticDir+"/assets")
			router.NoRoute(func(c *gin.Context) {
				// Don't serve index.html for API routes
				if strings.HasPrefix(c.Request.URL.Path, "/api") {
					c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
					return
				}
				c.File(opts.StaticDir + "/index.html")
			})
			log.Info().Str("dir", opts.StaticDir).Msg("serving static files")
		} else {
			log.Info().Str("dir", opts.StaticDir).Msg("static directory not found, skipping static file serving")
		}
	}
	return router
}
