package model

import (
	"database/sql"
	"time"
)

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategoryAuth    = "auth"
	EventCategoryAccount = "account"
	EventCategoryRecord  = "record"
	EventCategoryFile    = "file"
	EventCategorySystem  = "system"
	EventCategoryImport  = "import"
)

// Event represents an audit log entry.
type Event struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	AccountID sql.NullInt64
	Metadata  string // JSON string
	IPAddress string
	CreatedAt time.Time
}
