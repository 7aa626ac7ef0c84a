package bootstrap

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	_ "github.com/mengfanShi/MiniCPM-V/docs"
	"github.com/mengfanShi/MiniCPM-V/internal/caption"
	"github.com/mengfanShi/MiniCPM-V/internal/conversation"
	"github.com/mengfanShi/MiniCPM-V/internal/history"
	"github.com/mengfanShi/MiniCPM-V/internal/metrics"
	"github.com/mengfanShi/MiniCPM-V/internal/model"
	"github.com/mengfanShi/MiniCPM-V/web"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/fx"
)

type HandlerParams struct {
	fx.In

	CaptionHandler *caption.Handler
	ModelsHandler  *caption.ModelsHandler
	HistoryHandler *history.Handler
	MetricsHandler *metrics.Handler
}

func RegisterRoutes(e *echo.Echo, params HandlerParams) {
	params.CaptionHandler.RegisterRoutes(e)

	api := e.Group("/v1")
	params.ModelsHandler.RegisterRoutes(api.Group("/models"))
	params.HistoryHandler.RegisterRoutes(api.Group("/captions"))
	if params.MetricsHandler != nil {
		params.MetricsHandler.RegisterRoutes(api.Group("/metrics"))
	}

	e.GET("/swagger/*", echoSwagger.EchoWrapHandlerV3())
	e.GET("/", func(c echo.Context) error {
		return c.HTMLBlob(http.StatusOK, web.Index)
	})
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func ProvideLogger(cfg *Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
}

func ProvideCaptionHandler(cfg *Config, registry *model.Registry, builder *conversation.Builder, recorder caption.Recorder, logger *slog.Logger) *caption.Handler {
	return caption.NewHandler(registry, builder, recorder, cfg.DefaultModel, logger.With("handler", "caption"))
}

func ProvideModelsHandler(cfg *Config, registry *model.Registry) *caption.ModelsHandler {
	return caption.NewModelsHandler(registry, cfg.DefaultModel)
}

func ProvideHistoryHandler(store *history.Store, logger *slog.Logger) *history.Handler {
	return history.NewHandler(store, logger.With("handler", "history"))
}

// ProvideMetricsHandler returns nil when redis is disabled; the metrics routes
// are then not mounted.
func ProvideMetricsHandler(store *metrics.Store, registry *model.Registry, logger *slog.Logger) *metrics.Handler {
	if store == nil {
		return nil
	}
	known := func(id string) bool {
		_, ok := registry.Path(id)
		return ok
	}
	return metrics.NewHandler(store, known, logger.With("handler", "metrics"))
}

var HandlersModule = fx.Options(
	fx.Provide(
		ProvideRecorder,
		ProvideCaptionHandler,
		ProvideModelsHandler,
		ProvideHistoryHandler,
		ProvideMetricsHandler,
	),
	fx.Invoke(RegisterRoutes),
)
