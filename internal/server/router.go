package server

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/questmap/internal/catalog"
	"github.com/abhisek/questmap/internal/platform/logger"
	"github.com/abhisek/questmap/internal/progress"
)

// Deps are the services the routes are served from.
type Deps struct {
	Progress    *progress.Service
	Catalog     *catalog.Service
	HealthCheck func(context.Context) error
	Log         *logger.Logger
	CORSOrigins []string
}

// NewRouter registers every route on a fresh engine.
func NewRouter(deps Deps) *gin.Engine {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	h := &handlers{
		progress: deps.Progress,
		catalog:  deps.Catalog,
		health:   deps.HealthCheck,
		log:      log,
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(log))
	if len(deps.CORSOrigins) > 0 {
		r.Use(CORS(deps.CORSOrigins))
	}

	r.GET("/healthcheck", h.healthcheck)

	api := r.Group("/api")

	prog := api.Group("/progress")
	prog.POST("/complete", h.complete)
	prog.GET("/unlocked", h.unlocked)
	prog.GET("/roadmap/:id", h.roadmapProgress)
	prog.GET("/discovery-state", h.discoveryState)
	prog.POST("/mark-discovery-shown", h.markDiscoveryShown)
	prog.POST("/discovery-visibility", h.discoveryVisibility)

	rms := api.Group("/roadmaps")
	rms.GET("", h.listRoadmaps)
	rms.POST("", h.importRoadmap)
	rms.POST("/discover", h.discover)
	rms.GET("/:id/map", h.roadmapMap)
	rms.DELETE("/:id", h.deleteRoadmap)

	api.GET("/knowledge-graph", h.knowledgeGraph)

	return r
}
