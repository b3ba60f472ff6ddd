package model

import (
	"github.com/golang-jwt/jwt/v5"
)

// Player Игрок, как его видит провайдер идентификации
type Player struct {
	ID    string
	Name  string
	Photo string
}

// PlayerClaims Claims access токена. Subject - стабильный id игрока
type PlayerClaims struct {
	Name  string `json:"name,omitempty"`
	Photo string `json:"photo,omitempty"`
	jwt.RegisteredClaims
}

// LeaderboardEntry Проекция игрока для лидерборда
type LeaderboardEntry struct {
	ID         string
	Name       string
	Photo      string
	Level      int
	TotalCoins int64
}
