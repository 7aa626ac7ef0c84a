package history

import (
	"time"

	"github.com/mengfanShi/MiniCPM-V/internal/shared"
)

// Caption is one processed upload, successful or not.
type Caption struct {
	ID         string             `gorm:"primaryKey" json:"id"`
	RequestID  string             `gorm:"index" json:"request_id,omitempty"`
	Model      string             `gorm:"not null;index" json:"model"`
	Mode       shared.Mode        `gorm:"not null" json:"mode"`
	FrameCount int                `gorm:"not null" json:"frame_count"`
	Question   *string            `json:"question,omitempty"`
	Answers    shared.StringSlice `gorm:"type:text" json:"answers"`
	ErrorCode  string             `json:"error_code,omitempty"`
	LatencyMs  int64              `json:"latency_ms"`
	CreatedAt  time.Time          `gorm:"index" json:"created_at"`
}

func (c *Caption) Failed() bool {
	return c.ErrorCode != ""
}
