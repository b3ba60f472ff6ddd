package token

import (
	"errors"
	"fmt"
	"time"

	"speen_backend/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateAccessToken Выпуск access токена для игрока
func GenerateAccessToken(player model.Player, secretKey []byte, ttl time.Duration) (string, error) {
	claims := model.PlayerClaims{
		Name:  player.Name,
		Photo: player.Photo,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   player.ID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(secretKey)
}

func VerifyToken(tokenStr string, secretKey []byte) (*model.PlayerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &model.PlayerClaims{}, func(token *jwt.Token) (interface{}, error) {
		_, ok := token.Method.(*jwt.SigningMethodHMAC)
		if !ok {
			return nil, errors.New("unexpected token signing method")
		}

		return secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %v", err)
	}

	claims, ok := token.Claims.(*model.PlayerClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}

	return claims, nil
}

// PlayerFromClaims Игрок из claims токена
func PlayerFromClaims(c *model.PlayerClaims) model.Player {
	return model.Player{ID: c.Subject, Name: c.Name, Photo: c.Photo}
}
