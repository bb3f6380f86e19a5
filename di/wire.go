//go:build wireinject
// +build wireinject

package di

import (
	"shareit/config"
	"shareit/infras/kafka"
	"shareit/infras/metrics"
	"shareit/infras/otel"
	"shareit/infras/postgres"
	"shareit/infras/redis"
	"shareit/shared/cache"
	"shareit/transport/http"
	"shareit/transport/http/middleware"
	"shareit/transport/http/router"

	"github.com/google/wire"

	bookingRepository "shareit/internal/domains/booking/repository"
	bookingService "shareit/internal/domains/booking/service"
	itemRepository "shareit/internal/domains/item/repository"
	itemService "shareit/internal/domains/item/service"
	requestRepository "shareit/internal/domains/request/repository"
	requestService "shareit/internal/domains/request/service"
	userRepository "shareit/internal/domains/user/repository"
	userService "shareit/internal/domains/user/service"

	bookingHandler "shareit/internal/handlers/booking"
	itemHandler "shareit/internal/handlers/item"
	requestHandler "shareit/internal/handlers/request"
	userHandler "shareit/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	kafka.New,
	metrics.New,
	wire.Bind(new(metrics.Metrics), new(*metrics.Collector)),
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var itemDomain = wire.NewSet(
	itemRepository.New,
	itemRepository.NewComment,
	itemService.New,
)

var requestDomain = wire.NewSet(
	requestRepository.New,
	requestService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var domains = wire.NewSet(
	userDomain,
	itemDomain,
	requestDomain,
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	userHandler.New,
	itemHandler.New,
	requestHandler.New,
	bookingHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
