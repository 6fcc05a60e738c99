//go:build wireinject
// +build wireinject

package di

import (
	"salones/config"
	"salones/infras/jwt"
	"salones/infras/otel"
	"salones/infras/postgres"
	"salones/infras/redis"
	"salones/permissions"
	"salones/shared/cache"
	"salones/shared/clock"
	gRepo "salones/shared/repository"
	"salones/transport/http"
	"salones/transport/http/middleware"
	"salones/transport/http/router"

	"github.com/google/wire"

	authService "salones/internal/domains/auth/service"
	blackoutRepository "salones/internal/domains/blackout/repository"
	blackoutService "salones/internal/domains/blackout/service"
	inventoryRepository "salones/internal/domains/inventory/repository"
	inventoryService "salones/internal/domains/inventory/service"
	materialRepository "salones/internal/domains/material/repository"
	materialService "salones/internal/domains/material/service"
	notificationRepository "salones/internal/domains/notification/repository"
	notificationService "salones/internal/domains/notification/service"
	reportRepository "salones/internal/domains/report/repository"
	reportService "salones/internal/domains/report/service"
	reservationRepository "salones/internal/domains/reservation/repository"
	reservationService "salones/internal/domains/reservation/service"
	roomRepository "salones/internal/domains/room/repository"
	roomService "salones/internal/domains/room/service"
	userRepository "salones/internal/domains/user/repository"
	userService "salones/internal/domains/user/service"

	authHandler "salones/internal/handlers/auth"
	blackoutHandler "salones/internal/handlers/blackout"
	inventoryHandler "salones/internal/handlers/inventory"
	materialHandler "salones/internal/handlers/material"
	notificationHandler "salones/internal/handlers/notification"
	reportHandler "salones/internal/handlers/report"
	reservationHandler "salones/internal/handlers/reservation"
	roomHandler "salones/internal/handlers/room"
	userHandler "salones/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	clock.New,
	gRepo.NewTxRunner,
)

var authDomain = wire.NewSet(
	authService.New,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var materialDomain = wire.NewSet(
	materialRepository.New,
	materialService.New,
)

var inventoryDomain = wire.NewSet(
	inventoryRepository.New,
	inventoryService.New,
)

var reservationDomain = wire.NewSet(
	reservationRepository.New,
	reservationService.New,
)

var blackoutDomain = wire.NewSet(
	blackoutRepository.New,
	blackoutService.New,
	provideBlackoutReleaser,
)

var notificationDomain = wire.NewSet(
	notificationRepository.New,
	notificationService.New,
)

var reportDomain = wire.NewSet(
	reportRepository.New,
	reportService.New,
	provideReportReleaser,
)

var domains = wire.NewSet(
	authDomain,
	userDomain,
	roomDomain,
	materialDomain,
	inventoryDomain,
	reservationDomain,
	blackoutDomain,
	notificationDomain,
	reportDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	roomHandler.New,
	materialHandler.New,
	inventoryHandler.New,
	reservationHandler.New,
	blackoutHandler.New,
	notificationHandler.New,
	reportHandler.New,
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
