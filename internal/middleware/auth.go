package middleware

import (
	"context"
	"net/http"
	"strings"

	"speen_backend/internal/service"
	"speen_backend/pkg/resp"
	"speen_backend/pkg/token"

	"go.uber.org/zap"
)

type ctxKey struct{}

// UserIDFromContext ID игрока, положенный Auth
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}

// WithUserID Контекст с ID игрока
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// Auth Проверяет Bearer токен провайдера идентичности и регистрирует игрока при первом контакте
func Auth(secretKey []byte, players service.PlayerService, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenStr, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenStr == "" {
				resp.WriteError(w, http.StatusUnauthorized, "missing access token")
				return
			}

			claims, err := token.VerifyToken(tokenStr, secretKey)
			if err != nil {
				resp.WriteError(w, http.StatusUnauthorized, "invalid access token")
				return
			}

			player := token.PlayerFromClaims(claims)
			if err = players.Identify(r.Context(), player); err != nil {
				logger.Error("identify player", zap.String("player", player.ID), zap.Error(err))
				resp.WriteError(w, http.StatusInternalServerError, "identify failed")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), player.ID)))
		})
	}
}
