package shared

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidRequest   = errors.New("invalid request")
	ErrUnknownModel     = errors.New("unknown model")
	ErrDecode           = errors.New("decode failed")
	ErrModelUnavailable = errors.New("model unavailable")
	ErrInference        = errors.New("inference failed")
)

type APIError struct {
	Code    string `json:"code" example:"invalid_request"`
	Message string `json:"message" example:"Invalid request body"`
	Details any    `json:"details,omitempty" swaggertype:"object"`
}

func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

func (e *APIError) WithDetails(details any) *APIError {
	e.Details = details
	return e
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Message
}

func (e *APIError) ToHTTP(status int) *echo.HTTPError {
	return echo.NewHTTPError(status, e)
}

func BadRequest(code, message string) *echo.HTTPError {
	return NewAPIError(code, message).ToHTTP(http.StatusBadRequest)
}

func NotFound(code, message string) *echo.HTTPError {
	return NewAPIError(code, message).ToHTTP(http.StatusNotFound)
}

func ServiceUnavailable(code, message string) *echo.HTTPError {
	return NewAPIError(code, message).ToHTTP(http.StatusServiceUnavailable)
}

func InternalError(code, message string) *echo.HTTPError {
	return NewAPIError(code, message).ToHTTP(http.StatusInternalServerError)
}

// Classify maps an error from the captioning pipeline to a status code and an
// APIError. Errors that match no known kind are reported as internal errors.
func Classify(err error) (int, *APIError) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest, NewAPIError("invalid_request", err.Error())
	case errors.Is(err, ErrUnknownModel):
		return http.StatusBadRequest, NewAPIError("unknown_model", err.Error())
	case errors.Is(err, ErrDecode):
		return http.StatusBadRequest, NewAPIError("decode_failed", err.Error())
	case errors.Is(err, ErrModelUnavailable):
		return http.StatusServiceUnavailable, NewAPIError("model_unavailable", err.Error())
	case errors.Is(err, ErrInference):
		return http.StatusInternalServerError, NewAPIError("inference_failed", err.Error())
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, NewAPIError("not_found", err.Error())
	default:
		return http.StatusInternalServerError, NewAPIError("internal_error", "internal server error")
	}
}
