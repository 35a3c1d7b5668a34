package model

import (
	"time"

	"gorm.io/gorm"
)

// Token disimpan sebagai HMAC-SHA256 hex dari raw JWT, bukan token mentah.
type TokenBlacklist struct {
	ID        uint           `gorm:"column:id;primaryKey" json:"id"`
	Token     string         `gorm:"column:token;type:text;not null;uniqueIndex:uq_token_blacklist_token" json:"token"`
	ExpiredAt time.Time      `gorm:"column:expired_at;not null;index" json:"expired_at"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"deleted_at,omitempty"`
}

func (TokenBlacklist) TableName() string {
	return "token_blacklist"
}
