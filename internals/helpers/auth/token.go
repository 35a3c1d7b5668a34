package helper

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var ErrMissingSecret = errors.New("JWT_SECRET belum diset")

type Claims struct {
	UserID   string `json:"id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	CentroID string `json:"centro_id,omitempty"`
	jwt.RegisteredClaims
}

// Identity data minimal untuk menerbitkan token.
type Identity struct {
	UserID   uuid.UUID
	Email    string
	Role     string
	CentroID uuid.UUID
}

type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &TokenManager{secret: []byte(strings.TrimSpace(secret)), ttl: ttl, now: time.Now}
}

func (m *TokenManager) TTL() time.Duration { return m.ttl }

// Issue menerbitkan HS256 access token.
func (m *TokenManager) Issue(id Identity) (string, time.Time, error) {
	if len(m.secret) == 0 {
		return "", time.Time{}, ErrMissingSecret
	}
	now := m.now()
	exp := now.Add(m.ttl)

	claims := Claims{
		UserID: id.UserID.String(),
		Email:  id.Email,
		Role:   id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   id.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	if id.CentroID != uuid.Nil {
		claims.CentroID = id.CentroID.String()
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Parse memverifikasi signature + exp dan mengembalikan claims.
func (m *TokenManager) Parse(raw string) (*Claims, error) {
	if len(m.secret) == 0 {
		return nil, ErrMissingSecret
	}
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, errors.New("token tidak valid")
	}
	if claims.ExpiresAt == nil {
		return nil, errors.New("token tanpa exp")
	}
	return claims, nil
}

// Session membangun Session dari claims (tanpa cek DB).
func (c *Claims) Session(raw string) (*Session, error) {
	uid, err := uuid.Parse(strings.TrimSpace(c.UserID))
	if err != nil {
		return nil, fmt.Errorf("id pada token tidak valid: %w", err)
	}
	s := &Session{
		UserID: uid,
		Email:  c.Email,
		Role:   c.Role,
		Token:  raw,
	}
	if c.CentroID != "" {
		cid, err := uuid.Parse(c.CentroID)
		if err != nil {
			return nil, fmt.Errorf("centro_id pada token tidak valid: %w", err)
		}
		s.CentroID = cid
	}
	if c.ExpiresAt != nil {
		s.ExpiresAt = c.ExpiresAt.Time
	}
	return s, nil
}
