package env

import (
	"fmt"
	"os"
	"strconv"

	"speen_backend/internal/config"
)

const (
	redisAddrEnvName     = "REDIS_ADDR"
	redisPasswordEnvName = "REDIS_PASSWORD"
	redisDBEnvName       = "REDIS_DB"
)

type redisConfig struct {
	addr     string
	password string
	db       int
}

// NewRedisConfig Пустой REDIS_ADDR отключает удаленное хранилище и лидерборд
func NewRedisConfig() (config.RedisConfig, error) {
	cfg := &redisConfig{
		addr:     os.Getenv(redisAddrEnvName),
		password: os.Getenv(redisPasswordEnvName),
	}

	if db := os.Getenv(redisDBEnvName); len(db) != 0 {
		n, err := strconv.Atoi(db)
		if err != nil {
			return nil, fmt.Errorf("invalid redis db: %w", err)
		}
		cfg.db = n
	}

	return cfg, nil
}

func (cfg *redisConfig) Addr() string {
	return cfg.addr
}

func (cfg *redisConfig) Password() string {
	return cfg.password
}

func (cfg *redisConfig) DB() int {
	return cfg.db
}
