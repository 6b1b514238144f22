package types

import (
	"time"

	"gorm.io/datatypes"
)

// AICallLog is a write-only audit row per generation-model invocation.
// Failures to append here never fail the request that produced the call.
type AICallLog struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint           `gorm:"index;column:user_id" json:"user_id"`
	Model     string         `gorm:"column:model" json:"model"`
	Prompt    string         `gorm:"column:prompt" json:"prompt"`
	Output    string         `gorm:"column:output" json:"output"`
	LatencyMS int64          `gorm:"column:latency_ms" json:"latency_ms"`
	Resolved  bool           `gorm:"column:resolved" json:"resolved"`
	Metadata  datatypes.JSON `gorm:"column:metadata" json:"metadata"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
}

func (AICallLog) TableName() string {
	return "ai_call_log"
}
