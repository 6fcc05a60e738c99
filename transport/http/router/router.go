package router

import (
	"salones/internal/handlers/auth"
	"salones/internal/handlers/blackout"
	"salones/internal/handlers/inventory"
	"salones/internal/handlers/material"
	"salones/internal/handlers/notification"
	"salones/internal/handlers/report"
	"salones/internal/handlers/reservation"
	"salones/internal/handlers/room"
	"salones/internal/handlers/user"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth         auth.Handler
	User         user.Handler
	Room         room.Handler
	Material     material.Handler
	Inventory    inventory.Handler
	Reservation  reservation.Handler
	Blackout     blackout.Handler
	Notification notification.Handler
	Report       report.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Room.Router(routerGroup)
		r.DomainHandlers.Material.Router(routerGroup)
		r.DomainHandlers.Inventory.Router(routerGroup)
		r.DomainHandlers.Reservation.Router(routerGroup)
		r.DomainHandlers.Blackout.Router(routerGroup)
		r.DomainHandlers.Notification.Router(routerGroup)
		r.DomainHandlers.Report.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
