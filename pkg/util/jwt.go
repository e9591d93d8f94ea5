package util

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/zeitwerk-app/zeitwerk-be/internal/pkg/config"
)

type Claims struct {
	VisitorID string `json:"vid"`
	IsGuest   bool   `json:"is_guest"`
	jwt.RegisteredClaims
}

// GenerateToken 签发游客令牌（HS256 对称签名）
func GenerateToken(visitorID string, isGuest bool) (string, error) {
	expirationTime := time.Now().Add(config.Cfg.JWTExpire)
	claims := &Claims{
		VisitorID: visitorID,
		IsGuest:   isGuest,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Cfg.JWTSecret))
}

// ParseToken 校验签名并取出声明
func ParseToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.Cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
