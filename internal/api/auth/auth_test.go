package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	dto "speen_backend/internal/api/dto/auth"
	"speen_backend/pkg/token"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func TestTokenIssuesVerifiableToken(t *testing.T) {
	secret := []byte("dev")
	h := NewHandler(HandlerDeps{SecretKey: secret, TTL: time.Hour, Logger: zap.NewNop()})

	r := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(`{"id":"p1","name":"Anna"}`))
	rec := httptest.NewRecorder()
	h.Token(rec, r)
	require.Equal(t, http.StatusOK, rec.Code)

	var body dto.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	claims, err := token.VerifyToken(body.AccessToken, secret)
	require.NoError(t, err)
	require.Equal(t, "p1", claims.Subject)
	require.Equal(t, "Anna", claims.Name)
}

func TestTokenRequiresID(t *testing.T) {
	h := NewHandler(HandlerDeps{SecretKey: []byte("dev"), TTL: time.Hour, Logger: zap.NewNop()})

	for _, body := range []string{`{"name":"Anna"}`, `[1]`} {
		r := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.Token(rec, r)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	}
}
