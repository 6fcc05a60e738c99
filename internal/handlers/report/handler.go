package report

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"salones/infras/otel"
	"salones/internal/domains/report/service"
	"salones/shared/constant"
	"salones/transport/http/response"
)

type Handler struct {
	service service.Report
	otel    otel.Otel
}

func New(service service.Report, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/reports", func(routerGroup chi.Router) {
		routerGroup.Get("/usage", handler.GetUsageReport)
	})
}

// GetUsageReport aggregates room and material usage over a date range.
// @Summary Get usage report
// @Description Aggregate reservation counts per room and reserved material quantities over a date range. Defaults to the current month so far.
// @Tags Report
// @Accept json
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD), defaults to the first day of the current month"
// @Param to query string false "End date (YYYY-MM-DD), defaults to today"
// @Param room_id query string false "Restrict the report to one room"
// @Success 200 {object} response.Data[dto.UsageReportResponse] "Usage aggregates"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reports/usage [get]
// @Security BearerAuth
func (handler *Handler) GetUsageReport(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetUsageReport")
	defer scope.End()

	query := r.URL.Query()

	report, err := handler.service.Usage(ctx, query.Get("from"), query.Get("to"), query.Get("room_id"))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to build usage report")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Usage report built successfully")

	response.WithJSON(w, http.StatusOK, report)
}
