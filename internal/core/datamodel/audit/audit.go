package audit

import "time"

const (
	DecisionDenied  = "denied"
	DecisionGranted = "granted"
)

type AccessAuditLog struct {
	ID          int64     `gorm:"primaryKey"`
	EventID     string    `gorm:"column:event_id;uniqueIndex;size:36;not null"`
	UserID      *int64    `gorm:"column:user_id;index"`
	Decision    string    `gorm:"column:decision;size:10;not null"`
	Action      string    `gorm:"column:action;size:100;not null"`
	Requirement string    `gorm:"column:requirement;size:100"`
	Reason      string    `gorm:"column:reason"`
	Method      string    `gorm:"column:method;size:10"`
	Path        string    `gorm:"column:path"`
	TraceID     string    `gorm:"column:trace_id;size:64"`
	OccurredAt  time.Time `gorm:"column:occurred_at;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (AccessAuditLog) TableName() string { return "access_audit_logs" }
