package helper

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	authModel "fichas_backend/internals/features/users/auth/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func hmacHex(msg, secret string) string {
	m := hmac.New(sha256.New, []byte(secret))
	_, _ = m.Write([]byte(msg))
	return hex.EncodeToString(m.Sum(nil))
}

// Blacklist menyimpan HMAC(access_token) sampai token itu kedaluwarsa.
type Blacklist struct {
	DB     *gorm.DB
	Secret string
	Now    func() time.Time
}

func NewBlacklist(db *gorm.DB, secret string) *Blacklist {
	return &Blacklist{DB: db, Secret: secret, Now: time.Now}
}

func (b *Blacklist) Add(ctx context.Context, rawAccessToken string, expiresAt time.Time) error {
	if b == nil || b.DB == nil || strings.TrimSpace(rawAccessToken) == "" {
		return nil
	}
	row := authModel.TokenBlacklist{
		Token:     hmacHex(rawAccessToken, b.Secret),
		ExpiredAt: expiresAt,
	}
	return b.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"expired_at": expiresAt, "deleted_at": nil}),
	}).Create(&row).Error
}

func (b *Blacklist) IsBlacklisted(ctx context.Context, rawAccessToken string) (bool, error) {
	if b == nil || b.DB == nil || strings.TrimSpace(rawAccessToken) == "" {
		return false, nil
	}
	var n int64
	err := b.DB.WithContext(ctx).
		Model(&authModel.TokenBlacklist{}).
		Where("token = ? AND expired_at > ?", hmacHex(rawAccessToken, b.Secret), b.Now()).
		Count(&n).Error
	return n > 0, err
}

// PurgeExpired hard-delete baris yang sudah lewat exp.
func (b *Blacklist) PurgeExpired(ctx context.Context) (int64, error) {
	res := b.DB.WithContext(ctx).
		Unscoped().
		Where("expired_at <= ?", b.Now()).
		Delete(&authModel.TokenBlacklist{})
	return res.RowsAffected, res.Error
}
