package middleware

import (
	"crypto/subtle"
	"net/http"

	"speen_backend/pkg/resp"
)

const InternalKeyHeader = "X-Internal-Key"

// Internal Пропускает только доверенные вызовы с ключом в заголовке
func Internal(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(InternalKeyHeader)
			if key == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				resp.WriteError(w, http.StatusForbidden, "internal call required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
