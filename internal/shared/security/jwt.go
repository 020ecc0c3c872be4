package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrJWTSecretMissing = errors.New("jwt secret is not set")
	ErrTokenMissing     = errors.New("authorization token is missing")
)

// Claims 是管理端 token 的载荷，Subject 记录操作者。
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Award 生成 Token，ttl<=0 时默认 12 小时过期。
func Award(secret, subject string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrJWTSecretMissing
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}

	now := time.Now()
	claims := &Claims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken 解析并验证 Token。
func ParseToken(secret, tokenStr string) (*Claims, error) {
	if secret == "" {
		return nil, ErrJWTSecretMissing
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if token == nil || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
