package router

import (
	"net/http"
	"shareit/config"
	"shareit/infras/metrics"
	"shareit/internal/handlers/booking"
	"shareit/internal/handlers/item"
	"shareit/internal/handlers/request"
	"shareit/internal/handlers/user"
	"shareit/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type DomainHandlers struct {
	User    user.Handler
	Item    item.Handler
	Booking booking.Handler
	Request request.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	Middleware     middleware.AppMiddleware
	Metrics        metrics.Metrics
	Config         *config.Config
}

// SetupRoutes mounts the middleware chain, the metrics endpoint and every domain router.
func (r *Router) SetupRoutes(router chi.Router) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Recoverer)

	if r.Config.App.CORS.Enable {
		router.Use(cors.Handler(r.corsOptions()))
	}

	router.Use(r.Middleware.Observe)
	router.Use(r.Middleware.Tracing)
	router.Use(r.Middleware.SharerUser)

	router.Method(http.MethodGet, "/metrics", r.Metrics.Handler())

	router.Group(func(routerGroup chi.Router) {
		routerGroup.Use(r.Middleware.RateLimit())

		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Item.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Request.Router(routerGroup)
	})
}

func (r *Router) corsOptions() cors.Options {
	corsConfig := r.Config.App.CORS

	return cors.Options{
		AllowedOrigins:   corsConfig.AllowedOrigins,
		AllowedMethods:   corsConfig.AllowedMethods,
		AllowedHeaders:   corsConfig.AllowedHeaders,
		AllowCredentials: corsConfig.AllowCredentials,
		MaxAge:           corsConfig.MaxAgeSeconds,
	}
}

func New(domainHandlers DomainHandlers, middleware middleware.AppMiddleware, metrics metrics.Metrics, config *config.Config) Router {
	return Router{
		DomainHandlers: domainHandlers,
		Middleware:     middleware,
		Metrics:        metrics,
		Config:         config,
	}
}
