// internal/models/apilog.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// ApiLog is an append-only usage record. Rows are written by middleware and
// only ever read back by the stats aggregation.
type ApiLog struct {
	ID         uint      `json:"ID_Log" gorm:"column:id_log;primaryKey;autoIncrement"`
	UserID     uuid.UUID `json:"ID_User" gorm:"type:uuid;column:id_user;index;not null"`
	Method     string    `json:"method" gorm:"size:10"`
	Path       string    `json:"path" gorm:"size:255"`
	StatusCode int       `json:"status_code"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
