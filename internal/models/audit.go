package models

import (
	"time"

	"gorm.io/datatypes"
)

type AuditEventType string

const (
	AuditSessionRegraded AuditEventType = "session_regraded"
)

// ScoreSnapshot is a session's aggregate at one point in time.
type ScoreSnapshot struct {
	TotalScore float64 `json:"total_score"`
	MaxScore   float64 `json:"max_score"`
	Percentage float64 `json:"percentage"`
	Passed     bool    `json:"passed"`
}

type ScoreChange struct {
	Before ScoreSnapshot `json:"before"`
	After  ScoreSnapshot `json:"after"`
}

// AuditLog records an administrative change to a scored resource.
type AuditLog struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	EventType AuditEventType `json:"event_type" gorm:"not null;size:50;index"`

	// Target information
	TargetType string `json:"target_type" gorm:"not null;size:50;index:idx_audit_target"`
	TargetID   uint   `json:"target_id" gorm:"not null;index:idx_audit_target"`

	// Event details
	Description string                          `json:"description" gorm:"type:text"`
	Changes     datatypes.JSONType[ScoreChange] `json:"changes" gorm:"type:jsonb"`

	// Request context
	RequestID *string `json:"request_id" gorm:"size:64"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (AuditLog) TableName() string {
	return "quiz_audit_logs"
}
