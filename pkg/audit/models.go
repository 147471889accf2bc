// Package audit records an append-only trail of mutating admin requests.
package audit

import "time"

// Event is one recorded mutation attempt.
type Event struct {
	ID         uint64    `gorm:"primaryKey;column:id;autoIncrement" json:"id"`
	Actor      string    `gorm:"column:actor;not null" json:"actor"`
	Method     string    `gorm:"column:method;not null" json:"method"`
	Path       string    `gorm:"column:path;not null" json:"path"`
	Outcome    string    `gorm:"column:outcome;not null" json:"outcome"`
	StatusCode int       `gorm:"column:status_code;not null" json:"statusCode"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

// TableName returns the GORM table name.
func (Event) TableName() string { return "audit_events" }

// Config controls what the middleware records.
type Config struct {
	Enabled   bool
	LogDenied bool
}
