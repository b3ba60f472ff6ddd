package env

import (
	"fmt"
	"os"
	"strconv"

	"speen_backend/internal/config"
)

const (
	dsnName      = "PG_DSN"
	maxConnsName = "PG_MAX_CONNS"
)

type pgConfig struct {
	dsn      string
	maxConns int32
}

// NewPGConfig Пустой PG_DSN означает хранение в памяти
func NewPGConfig() (config.PGConfig, error) {
	cfg := &pgConfig{dsn: os.Getenv(dsnName)}

	if v := os.Getenv(maxConnsName); len(v) != 0 {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid %s: %q", maxConnsName, v)
		}
		cfg.maxConns = int32(n)
	}

	return cfg, nil
}

func (cfg *pgConfig) DSN() string {
	return cfg.dsn
}

// MaxConns 0 - размер пула по умолчанию pgxpool
func (cfg *pgConfig) MaxConns() int32 {
	return cfg.maxConns
}
