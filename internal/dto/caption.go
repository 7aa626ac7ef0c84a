package dto

import "github.com/mengfanShi/MiniCPM-V/internal/shared"

type UploadRequest struct {
	ImageBase64List []string `json:"image_base64_list" example:"iVBORw0KGgo..."`
	Question        *string  `json:"question,omitempty" example:"what color is this?"`
	Model           string   `json:"model,omitempty" example:"minicpm-2.5"`
}

// UploadResponse always carries the answer list; Error is set only on failure
// and Answer is then empty.
type UploadResponse struct {
	Answer []string         `json:"answer"`
	Error  *shared.APIError `json:"error,omitempty"`
}

type CaptionResponse struct {
	ID         string   `json:"id" example:"cap_0123456789abcdef0123456789abcdef"`
	RequestID  string   `json:"request_id,omitempty"`
	Model      string   `json:"model" example:"minicpm-2.5"`
	Mode       string   `json:"mode" example:"image"`
	FrameCount int      `json:"frame_count" example:"1"`
	Question   *string  `json:"question,omitempty"`
	Answers    []string `json:"answers"`
	ErrorCode  string   `json:"error_code,omitempty"`
	LatencyMs  int64    `json:"latency_ms" example:"1830"`
	CreatedAt  string   `json:"created_at" example:"2024-01-15T14:00:00Z"`
}

type CaptionListResponse struct {
	Captions []CaptionResponse `json:"captions"`
}
