package di

import (
	blackoutService "salones/internal/domains/blackout/service"
	reportService "salones/internal/domains/report/service"
	reservationService "salones/internal/domains/reservation/service"
)

// The reservation service doubles as the overdue sweeper for the blackout and
// report domains. Each of those declares its own narrow interface to avoid an
// import cycle, so the bindings are spelled out here.
func provideBlackoutReleaser(svc reservationService.Reservation) blackoutService.OverdueReleaser {
	return svc
}

func provideReportReleaser(svc reservationService.Reservation) reportService.OverdueReleaser {
	return svc
}
