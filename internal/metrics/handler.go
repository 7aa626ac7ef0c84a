package metrics

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/mengfanShi/MiniCPM-V/internal/dto"
	"github.com/mengfanShi/MiniCPM-V/internal/shared"
)

type Handler struct {
	store  *Store
	known  func(id string) bool
	logger *slog.Logger
}

func NewHandler(store *Store, known func(id string) bool, logger *slog.Logger) *Handler {
	return &Handler{
		store:  store,
		known:  known,
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/models/:id", h.GetModelMetrics)
}

func metricsToResponse(m *Metrics) dto.ModelMetricsResponse {
	return dto.ModelMetricsResponse{
		Model:         m.Model,
		Date:          m.Date,
		Hour:          m.Hour,
		Requests:      m.Requests,
		ImageRequests: m.ImageRequests,
		VideoRequests: m.VideoRequests,
		FollowUps:     m.FollowUps,
		Errors:        m.Errors,
		AvgLatencyMs:  m.AvgLatencyMs,
	}
}

// GetModelMetrics godoc
// @Summary      Get model usage metrics
// @Description  Returns hourly usage counters for a model identifier
// @Tags         metrics
// @Produce      json
// @Param        id     path      string  true   "Model identifier"
// @Param        hours  query     int     false  "Hours to look back (default 24, max 168)"
// @Success      200    {object}  dto.ModelMetricsListResponse
// @Failure      404    {object}  shared.APIError
// @Failure      500    {object}  shared.APIError
// @Router       /v1/metrics/models/{id} [get]
func (h *Handler) GetModelMetrics(c echo.Context) error {
	id := c.Param("id")
	if h.known != nil && !h.known(id) {
		return shared.NotFound("model_not_found", "unknown model")
	}

	hours := 24
	if v := c.QueryParam("hours"); v != "" {
		if hr, err := strconv.Atoi(v); err == nil && hr > 0 && hr <= 168 {
			hours = hr
		}
	}

	metrics, err := h.store.GetMetrics(c.Request().Context(), id, hours)
	if err != nil {
		h.logger.Error("failed to get metrics", "error", err, "model", id)
		return shared.InternalError("get_metrics_failed", "failed to get metrics")
	}

	response := make([]dto.ModelMetricsResponse, len(metrics))
	for i, m := range metrics {
		response[i] = metricsToResponse(m)
	}

	return c.JSON(http.StatusOK, dto.ModelMetricsListResponse{
		Model:   id,
		Hours:   hours,
		Metrics: response,
	})
}
