package dto

type ModelResponse struct {
	ID      string `json:"id" example:"minicpm-2.5"`
	Default bool   `json:"default"`
	Active  bool   `json:"active"`
}

type ModelListResponse struct {
	Models []ModelResponse `json:"models"`
}

type ModelMetricsResponse struct {
	Model         string `json:"model" example:"minicpm-2.5"`
	Date          string `json:"date" example:"2024-01-15"`
	Hour          int    `json:"hour" example:"14"`
	Requests      int64  `json:"requests"`
	ImageRequests int64  `json:"image_requests"`
	VideoRequests int64  `json:"video_requests"`
	FollowUps     int64  `json:"follow_ups"`
	Errors        int64  `json:"errors"`
	AvgLatencyMs  int64  `json:"avg_latency_ms"`
}

type ModelMetricsListResponse struct {
	Model   string                 `json:"model"`
	Hours   int                    `json:"hours"`
	Metrics []ModelMetricsResponse `json:"metrics"`
}
