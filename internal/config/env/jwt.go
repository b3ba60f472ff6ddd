package env

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"speen_backend/internal/config"
)

const (
	accessTokenKeyEnvName      = "ACCESS_TOKEN"
	accessTokenDurationEnvName = "ACCESS_TOKEN_DURATION"
	devIssueEnvName            = "AUTH_DEV_ISSUE"
)

type jwtConfig struct {
	accessTokenSecretKey string
	accessTokenDuration  time.Duration
	devIssue             bool
}

func NewJWTConfig() (config.JWTConfig, error) {
	accessToken := os.Getenv(accessTokenKeyEnvName)
	if len(accessToken) == 0 {
		return nil, fmt.Errorf("access token secret key not found")
	}

	accessTokenDuration := os.Getenv(accessTokenDurationEnvName)
	if len(accessTokenDuration) == 0 {
		return nil, fmt.Errorf("access token duration not found")
	}

	accessTokenDurationParsed, err := time.ParseDuration(accessTokenDuration)
	if err != nil {
		return nil, fmt.Errorf("invalid access token duration: %w", err)
	}

	// Выдача токенов самим сервисом, только для разработки
	var devIssue bool
	if v := os.Getenv(devIssueEnvName); len(v) != 0 {
		devIssue, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", devIssueEnvName, err)
		}
	}

	return &jwtConfig{
		accessTokenSecretKey: accessToken,
		accessTokenDuration:  accessTokenDurationParsed,
		devIssue:             devIssue,
	}, nil
}

func (j *jwtConfig) AccessTokenSecretKey() []byte {
	return []byte(j.accessTokenSecretKey)
}

func (j *jwtConfig) AccessTokenDuration() time.Duration {
	return j.accessTokenDuration
}

func (j *jwtConfig) DevIssue() bool {
	return j.devIssue
}
