// Package caption serves the upload endpoint that turns one image or a set of
// video frames into model answers.
package caption

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mengfanShi/MiniCPM-V/internal/conversation"
	"github.com/mengfanShi/MiniCPM-V/internal/dto"
	"github.com/mengfanShi/MiniCPM-V/internal/imagecodec"
	"github.com/mengfanShi/MiniCPM-V/internal/model"
	"github.com/mengfanShi/MiniCPM-V/internal/shared"
)

const recordTimeout = 5 * time.Second

type Handler struct {
	registry     *model.Registry
	builder      *conversation.Builder
	recorder     Recorder
	defaultModel string
	logger       *slog.Logger
}

// NewHandler returns the upload handler. recorder may be nil.
func NewHandler(registry *model.Registry, builder *conversation.Builder, recorder Recorder, defaultModel string, logger *slog.Logger) *Handler {
	if defaultModel == "" {
		defaultModel = model.DefaultID
	}
	return &Handler{
		registry:     registry,
		builder:      builder,
		recorder:     recorder,
		defaultModel: defaultModel,
		logger:       logger,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/upload", h.Upload)
}

// Upload godoc
// @Summary      Describe an image or a video
// @Description  One image is described (and the optional question answered about it). Several images are treated as frames sampled from one video.
// @Tags         captions
// @Accept       json
// @Produce      json
// @Param        request  body      dto.UploadRequest  true  "Images and optional question"
// @Success      200      {object}  dto.UploadResponse
// @Failure      400      {object}  dto.UploadResponse
// @Failure      500      {object}  dto.UploadResponse
// @Failure      503      {object}  dto.UploadResponse
// @Router       /upload [post]
func (h *Handler) Upload(c echo.Context) error {
	start := time.Now()
	ctx := c.Request().Context()

	var req dto.UploadRequest
	if err := c.Bind(&req); err != nil {
		return h.fail(c, Result{Model: h.defaultModel}, start,
			fmt.Errorf("%w: malformed request body", shared.ErrInvalidRequest))
	}

	if req.Model == "" {
		req.Model = h.defaultModel
	}
	if req.Question != nil && *req.Question == "" {
		req.Question = nil
	}

	res := Result{
		RequestID:  c.Response().Header().Get(echo.HeaderXRequestID),
		Model:      req.Model,
		Mode:       shared.ModeImage,
		FrameCount: len(req.ImageBase64List),
		Question:   req.Question,
	}
	if res.FrameCount > 1 {
		res.Mode = shared.ModeVideo
	}

	answers, err := h.caption(ctx, req)
	if err != nil {
		return h.fail(c, res, start, err)
	}

	res.Answers = answers
	res.Latency = time.Since(start)
	h.logger.Info("caption complete",
		"request_id", res.RequestID,
		"model", res.Model,
		"mode", res.Mode,
		"frames", res.FrameCount,
		"follow_up", res.Question != nil,
		"latency_ms", res.Latency.Milliseconds(),
	)
	h.record(ctx, res)

	return c.JSON(http.StatusOK, dto.UploadResponse{Answer: answers})
}

func (h *Handler) caption(ctx context.Context, req dto.UploadRequest) ([]string, error) {
	if len(req.ImageBase64List) == 0 {
		return nil, fmt.Errorf("%w: image_base64_list is empty", shared.ErrInvalidRequest)
	}
	if _, ok := h.registry.Path(req.Model); !ok {
		return nil, fmt.Errorf("%w: %q", shared.ErrUnknownModel, req.Model)
	}

	// Inputs are decoded before the model is leased so a bad upload never
	// triggers a swap.
	var frames []image.Image
	if len(req.ImageBase64List) == 1 {
		if _, err := imagecodec.DecodeOne(req.ImageBase64List[0]); err != nil {
			return nil, err
		}
	} else {
		var err error
		frames, err = imagecodec.Decode(ctx, req.ImageBase64List)
		if err != nil {
			return nil, err
		}
	}

	handle, err := h.registry.EnsureLoaded(ctx, req.Model)
	if err != nil {
		return nil, err
	}
	defer handle.Release()

	if frames == nil {
		return h.builder.DescribeImage(ctx, handle.Model(), req.ImageBase64List[0], req.Question)
	}
	return h.builder.DescribeVideo(ctx, handle.Model(), frames, req.Question)
}

func (h *Handler) fail(c echo.Context, res Result, start time.Time, err error) error {
	status, apiErr := shared.Classify(err)
	res.ErrorCode = apiErr.Code
	res.Latency = time.Since(start)

	if status >= http.StatusInternalServerError {
		h.logger.Error("caption failed", "request_id", res.RequestID, "model", res.Model, "code", apiErr.Code, "error", err)
	} else {
		h.logger.Warn("caption rejected", "request_id", res.RequestID, "model", res.Model, "code", apiErr.Code, "error", err)
	}
	h.record(c.Request().Context(), res)

	return c.JSON(status, dto.UploadResponse{
		Answer: []string{},
		Error:  apiErr,
	})
}

func (h *Handler) record(ctx context.Context, res Result) {
	if h.recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()
	if err := h.recorder.Record(ctx, res); err != nil {
		h.logger.Warn("record caption failed", "request_id", res.RequestID, "error", err)
	}
}
