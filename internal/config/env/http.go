package env

import (
	"errors"
	"net"
	"os"

	"speen_backend/internal/config"
)

const (
	httpAddressEnvName     = "HTTP_ADDRESS"
	httpInternalKeyEnvName = "HTTP_INTERNAL_KEY"
	defaultHTTPAddress     = ":8080"
)

type httpConfig struct {
	address     string
	internalKey string
}

func NewHTTPConfig() (config.HTTPConfig, error) {
	address := os.Getenv(httpAddressEnvName)
	if len(address) == 0 {
		address = defaultHTTPAddress
	}

	if _, _, err := net.SplitHostPort(address); err != nil {
		return nil, errors.New("invalid http address: " + address)
	}

	return &httpConfig{
		address:     address,
		internalKey: os.Getenv(httpInternalKeyEnvName),
	}, nil
}

func (cfg *httpConfig) Address() string {
	return cfg.address
}

// InternalKey Ключ доверенных вызовов (выдача бустеров, запись снимка). Пустой - маршруты выключены
func (cfg *httpConfig) InternalKey() string {
	return cfg.internalKey
}
