package jwt

import (
	"innovation-challenge-system/config"
	"time"

	jwtlib "github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

// Payload 放入令牌的业务字段
type Payload struct {
	UserID string `json:"user_id"`
	RoleID int    `json:"role_id"`
}

type Claims struct {
	Payload
	jwtlib.StandardClaims
}

// CreateToken 签发访问令牌，Id 字段用于登出黑名单
func CreateToken(payload Payload) string {
	now := time.Now()
	claims := Claims{
		Payload: payload,
		StandardClaims: jwtlib.StandardClaims{
			Id:        uuid.NewString(),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(time.Duration(config.Get().JWT.AccessExpire) * time.Second).Unix(),
			Issuer:    "innovation-challenge-system",
		},
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(config.Get().JWT.AccessSecret))
	if err != nil {
		return ""
	}
	return signed
}

// ParseToken 解析并校验令牌
func ParseToken(tokenString string) (*Claims, bool) {
	token, err := jwtlib.ParseWithClaims(tokenString, &Claims{}, func(t *jwtlib.Token) (interface{}, error) {
		return []byte(config.Get().JWT.AccessSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, false
	}
	return claims, true
}
