package server

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"analysis-backend/internal/analyses"
	"analysis-backend/internal/files"
	"analysis-backend/internal/org"
	"analysis-backend/internal/records"
	"analysis-backend/internal/shared/config"
	"analysis-backend/internal/shared/metrics"
	"analysis-backend/internal/shared/server/middleware"
	"analysis-backend/internal/shared/server/respond"
	"analysis-backend/internal/shared/storage/db"
)

const (
	healthPath  = "/api/v1/health"
	metricsPath = "/metrics"

	groupAnalyze = "ANALYZE"
	groupDefault = "DEFAULT"
)

// RouterDeps carries the handlers registered on the engine.
type RouterDeps struct {
	Config          config.Config
	DB              *sql.DB
	FilesHandler    *files.Handler
	AnalysisHandler *analyses.Handler
	RecordsHandler  *records.Handler
	OrgHandler      *org.Handler
	Limiter         *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	cfg := deps.Config

	r.Use(
		middleware.RequestID(),
		middleware.Logging(healthPath, metricsPath),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Auth(healthPath, metricsPath),
		middleware.RateLimit(middleware.RateLimitConfig{
			DefaultGroup: groupDefault,
			GroupFor:     rateLimitGroup,
			Limiter:      deps.Limiter,
			Rules: map[string]middleware.RateLimitRule{
				groupAnalyze: {Rate: cfg.AnalyzeRate, Burst: cfg.AnalyzeBurst},
			},
		}),
	)

	r.GET(metricsPath, metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", healthHandler(deps.DB))

	if deps.FilesHandler != nil {
		deps.FilesHandler.RegisterRoutes(api)
	}
	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.RegisterRoutes(api)
	}
	if deps.RecordsHandler != nil {
		deps.RecordsHandler.RegisterRoutes(api)
	}
	if deps.OrgHandler != nil {
		deps.OrgHandler.RegisterRoutes(api)
	}

	return r
}

func rateLimitGroup(c *gin.Context) string {
	if c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/files/:id/analyze" {
		return groupAnalyze
	}
	return groupDefault
}

func healthHandler(sqlDB *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sqlDB == nil {
			respond.JSON(c, http.StatusOK, gin.H{"ok": true, "storage": "memory"})
			return
		}
		if err := db.Ping(c.Request.Context(), sqlDB, 0); err != nil {
			respond.Error(c, http.StatusServiceUnavailable, "unhealthy", "database unavailable", nil)
			return
		}
		respond.JSON(c, http.StatusOK, gin.H{"ok": true, "storage": "postgres"})
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
