package utils

import (
	"errors"
	"fmt"
	"time"

	"floresya-image-server/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

// ServiceClaims 服务间调用令牌（目录后台持有，用于图片写操作）。
type ServiceClaims struct {
	Subject string `json:"sub_service"`
	Type    string `json:"type"` // "service"
	jwt.RegisteredClaims
}

func getSecret() []byte {
	return []byte(config.Get().JWT.Secret)
}

func GenerateServiceToken(subject string, duration time.Duration) (string, error) {
	claims := ServiceClaims{
		Subject: subject,
		Type:    "service",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
			Issuer:    "floresya-image-server",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(getSecret())
}

func ParseServiceToken(tokenString string) (*ServiceClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ServiceClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return getSecret(), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*ServiceClaims)
	if !ok || !token.Valid {
		return nil, errors.New("无效的令牌")
	}
	if claims.Type != "service" {
		return nil, errors.New("令牌类型错误")
	}
	return claims, nil
}
