package history

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
	logger *slog.Logger
}

func NewHandler(store *Store, logger *slog.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.List)
	g.GET("/:id", h.Get)
}

func captionToResponse(c *Caption) dto.CaptionResponse {
	answers := []string(c.Answers)
	if answers == nil {
		answers = []string{}
	}
	return dto.CaptionResponse{
		ID:         c.ID,
		RequestID:  c.RequestID,
		Model:      c.Model,
		Mode:       c.Mode.String(),
		FrameCount: c.FrameCount,
		Question:   c.Question,
		Answers:    answers,
		ErrorCode:  c.ErrorCode,
		LatencyMs:  c.LatencyMs,
		CreatedAt:  c.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// List godoc
// @Summary      List captions
// @Description  Returns the most recent caption requests, newest first
// @Tags         captions
// @Produce      json
// @Param        limit  query     int     false  "Maximum number of captions (default 20, max 100)"
// @Param        model  query     string  false  "Filter by model identifier"
// @Success      200    {object}  dto.CaptionListResponse
// @Failure      500    {object}  shared.APIError
// @Router       /v1/captions [get]
func (h *Handler) List(c echo.Context) error {
	limit := DefaultListLimit
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	captions, err := h.store.List(c.Request().Context(), ListFilter{
		Model: c.QueryParam("model"),
		Limit: limit,
	})
	if err != nil {
		h.logger.Error("failed to list captions", "error", err)
		return shared.InternalError("list_failed", "failed to list captions")
	}

	response := make([]dto.CaptionResponse, len(captions))
	for i, item := range captions {
		response[i] = captionToResponse(item)
	}

	return c.JSON(http.StatusOK, dto.CaptionListResponse{Captions: response})
}

// Get godoc
// @Summary      Get a caption
// @Description  Returns a single caption request by id
// @Tags         captions
// @Produce      json
// @Param        id   path      string  true  "Caption ID"
// @Success      200  {object}  dto.CaptionResponse
// @Failure      404  {object}  shared.APIError
// @Failure      500  {object}  shared.APIError
// @Router       /v1/captions/{id} [get]
func (h *Handler) Get(c echo.Context) error {
	id := c.Param("id")

	caption, err := h.store.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == shared.ErrNotFound {
			return shared.NotFound("caption_not_found", "caption not found")
		}
		h.logger.Error("failed to get caption", "error", err, "caption_id", id)
		return shared.InternalError("get_failed", "failed to get caption")
	}

	return c.JSON(http.StatusOK, captionToResponse(caption))
}
