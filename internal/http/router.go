package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/smartpath-backend/internal/http/handlers"
	httpMW "github.com/yungbote/smartpath-backend/internal/http/middleware"
	"github.com/yungbote/smartpath-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	CORSOrigins    []string
	RequestTimeout time.Duration

	AuthMiddleware *httpMW.AuthMiddleware
	RateLimiter    *httpMW.RateLimiter

	RootHandler      *httpH.RootHandler
	HealthHandler    *httpH.HealthHandler
	CourseHandler    *httpH.CourseHandler
	KnowledgeHandler *httpH.KnowledgeHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics())
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.RootHandler != nil {
		r.GET("/", cfg.RootHandler.Info)
	}
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.Use(cfg.RateLimiter.Middleware())
		api.Use(httpMW.AttachRequestContext(cfg.RequestTimeout))
		if cfg.AuthMiddleware != nil {
			api.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Courses
		if cfg.CourseHandler != nil {
			api.GET("/courses", cfg.CourseHandler.ListCourses)
			api.GET("/courses/:id", cfg.CourseHandler.GetCourse)
			api.GET("/courses/stats/summary", cfg.CourseHandler.Stats)
			api.POST("/courses/search", cfg.CourseHandler.Search)
			api.POST("/courses/prerequisites", cfg.CourseHandler.PrerequisitePaths)
			api.POST("/courses/learning-path", cfg.CourseHandler.LearningPath)
			api.POST("/courses/difficulty", cfg.CourseHandler.Difficulty)
		}

		// Knowledge
		if cfg.KnowledgeHandler != nil {
			api.POST("/knowledge/state", cfg.KnowledgeHandler.State)
			api.POST("/knowledge/recommend", cfg.KnowledgeHandler.Recommend)
			api.GET("/knowledge/domains", cfg.KnowledgeHandler.Domains)
		}
	}

	return r
}
