package app

import (
	"github.com/yungbote/smartpath-backend/internal/config"
	apphttp "github.com/yungbote/smartpath-backend/internal/http"
	httpH "github.com/yungbote/smartpath-backend/internal/http/handlers"
	httpMW "github.com/yungbote/smartpath-backend/internal/http/middleware"
	"github.com/yungbote/smartpath-backend/internal/platform/logger"
)

type Middleware struct {
	Auth      *httpMW.AuthMiddleware
	RateLimit *httpMW.RateLimiter
}

type Handlers struct {
	Root      *httpH.RootHandler
	Health    *httpH.HealthHandler
	Course    *httpH.CourseHandler
	Knowledge *httpH.KnowledgeHandler
}

func wireHandlers(log *logger.Logger, cfg *config.Config, services Services, stores Stores) Handlers {
	log.Info("Wiring handlers...")
	var status httpH.StoreStatus = stores.Fallback
	if s, ok := stores.Store.(httpH.StoreStatus); ok {
		status = s
	}
	return Handlers{
		Root:      httpH.NewRootHandler(cfg.Server.APITitle, cfg.Server.APIVersion),
		Health:    httpH.NewHealthHandler(log, status, stores.Ping),
		Course:    httpH.NewCourseHandler(log, services.Learning),
		Knowledge: httpH.NewKnowledgeHandler(log, services.Learning, cfg.Recommend.DefaultMax),
	}
}

func wireMiddleware(log *logger.Logger, cfg *config.Config) Middleware {
	log.Info("Wiring middleware...")
	mw := Middleware{
		RateLimit: httpMW.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
	}
	if cfg.AuthEnabled() {
		mw.Auth = httpMW.NewAuthMiddleware(log, cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	}
	return mw
}

func routerConfig(log *logger.Logger, cfg *config.Config, handlers Handlers, middleware Middleware) apphttp.RouterConfig {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return apphttp.RouterConfig{
		Log:              log,
		ServiceName:      serviceName,
		CORSOrigins:      cfg.Server.CORSOrigins,
		RequestTimeout:   cfg.Server.RequestTimeout,
		AuthMiddleware:   middleware.Auth,
		RateLimiter:      middleware.RateLimit,
		RootHandler:      handlers.Root,
		HealthHandler:    handlers.Health,
		CourseHandler:    handlers.Course,
		KnowledgeHandler: handlers.Knowledge,
	}
}
