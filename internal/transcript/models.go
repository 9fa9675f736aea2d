package transcript

import "time"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one persisted conversation message. Rows are append-only: the
// orchestrator only inserts, and the only destructive operation is the
// admin bulk delete by email.
type Turn struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Timestamp time.Time `gorm:"index;not null" json:"timestamp"`
	SessionID string    `gorm:"type:varchar(36);index;not null" json:"session_id"`
	Name      string    `gorm:"type:varchar(128)" json:"name"`
	Email     string    `gorm:"type:varchar(128);index" json:"email"`
	Role      string    `gorm:"type:varchar(16);not null" json:"role"`
	Message   string    `gorm:"type:text;not null" json:"message"`
}

func (Turn) TableName() string { return "messages" }
