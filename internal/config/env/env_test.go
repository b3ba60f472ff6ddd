package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJWTConfig(t *testing.T) {
	t.Setenv(accessTokenKeyEnvName, "secret")
	t.Setenv(accessTokenDurationEnvName, "15m")
	t.Setenv(devIssueEnvName, "")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	require.Equal(t, []byte("secret"), cfg.AccessTokenSecretKey())
	require.Equal(t, 15*time.Minute, cfg.AccessTokenDuration())
	require.False(t, cfg.DevIssue())

	t.Setenv(devIssueEnvName, "true")
	cfg, err = NewJWTConfig()
	require.NoError(t, err)
	require.True(t, cfg.DevIssue())

	t.Setenv(devIssueEnvName, "maybe")
	_, err = NewJWTConfig()
	require.Error(t, err)

	t.Setenv(accessTokenKeyEnvName, "")
	_, err = NewJWTConfig()
	require.Error(t, err)
}

func TestPGConfig(t *testing.T) {
	t.Setenv(dsnName, "")
	t.Setenv(maxConnsName, "")

	cfg, err := NewPGConfig()
	require.NoError(t, err)
	require.Empty(t, cfg.DSN())
	require.Zero(t, cfg.MaxConns())

	t.Setenv(maxConnsName, "16")
	cfg, err = NewPGConfig()
	require.NoError(t, err)
	require.Equal(t, int32(16), cfg.MaxConns())

	t.Setenv(maxConnsName, "-1")
	_, err = NewPGConfig()
	require.Error(t, err)
}

func TestRedisConfig(t *testing.T) {
	t.Setenv(redisAddrEnvName, "localhost:6379")
	t.Setenv(redisPasswordEnvName, "")
	t.Setenv(redisDBEnvName, "2")

	cfg, err := NewRedisConfig()
	require.NoError(t, err)
	require.Equal(t, "localhost:6379", cfg.Addr())
	require.Equal(t, 2, cfg.DB())

	t.Setenv(redisDBEnvName, "x")
	_, err = NewRedisConfig()
	require.Error(t, err)
}

func TestHTTPConfig(t *testing.T) {
	t.Setenv(httpAddressEnvName, "")
	t.Setenv(httpInternalKeyEnvName, "")
	cfg, err := NewHTTPConfig()
	require.NoError(t, err)
	require.Equal(t, defaultHTTPAddress, cfg.Address())
	require.Empty(t, cfg.InternalKey())

	t.Setenv(httpInternalKeyEnvName, "s3cret")
	cfg, err = NewHTTPConfig()
	require.NoError(t, err)
	require.Equal(t, "s3cret", cfg.InternalKey())

	t.Setenv(httpAddressEnvName, "no-port")
	_, err = NewHTTPConfig()
	require.Error(t, err)
}
