package caption

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mengfanShi/MiniCPM-V/internal/dto"
	"github.com/mengfanShi/MiniCPM-V/internal/model"
)

type ModelsHandler struct {
	registry     *model.Registry
	defaultModel string
}

func NewModelsHandler(registry *model.Registry, defaultModel string) *ModelsHandler {
	if defaultModel == "" {
		defaultModel = model.DefaultID
	}
	return &ModelsHandler{
		registry:     registry,
		defaultModel: defaultModel,
	}
}

func (h *ModelsHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.List)
}

// List godoc
// @Summary      List models
// @Description  Returns every selectable model identifier, the default and the one currently loaded
// @Tags         models
// @Produce      json
// @Success      200  {object}  dto.ModelListResponse
// @Router       /v1/models [get]
func (h *ModelsHandler) List(c echo.Context) error {
	active, loaded := h.registry.Active()

	known := h.registry.Known()
	models := make([]dto.ModelResponse, len(known))
	for i, id := range known {
		models[i] = dto.ModelResponse{
			ID:      id,
			Default: id == h.defaultModel,
			Active:  loaded && id == active,
		}
	}

	return c.JSON(http.StatusOK, dto.ModelListResponse{Models: models})
}
