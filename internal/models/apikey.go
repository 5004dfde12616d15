// internal/models/apikey.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApiKey is the long-lived credential for the external read-only API.
type ApiKey struct {
	ID        uuid.UUID    `json:"ID_Key" gorm:"type:uuid;column:id_key;primaryKey"`
	UserID    uuid.UUID    `json:"ID_User" gorm:"type:uuid;column:id_user;uniqueIndex;not null"`
	Key       string       `json:"Key" gorm:"column:key;uniqueIndex;size:64;not null"`
	Status    ApiKeyStatus `json:"status" gorm:"type:varchar(10);not null;default:'active'"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

func (k *ApiKey) BeforeCreate(tx *gorm.DB) error {
	if k.ID == uuid.Nil {
		k.ID = uuid.New()
	}
	return nil
}
