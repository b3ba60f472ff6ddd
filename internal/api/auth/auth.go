package auth

import (
	"net/http"
	"time"

	"speen_backend/internal/api/apierr"
	dto "speen_backend/internal/api/dto/auth"
	"speen_backend/internal/model"
	"speen_backend/pkg/req"
	"speen_backend/pkg/resp"
	"speen_backend/pkg/token"

	"go.uber.org/zap"
)

type HandlerDeps struct {
	SecretKey []byte
	TTL       time.Duration
	Logger    *zap.Logger
}

type Handler struct {
	secretKey []byte
	ttl       time.Duration
	logger    *zap.Logger
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{
		secretKey: deps.SecretKey,
		ttl:       deps.TTL,
		logger:    deps.Logger,
	}
}

// Token выдает access_token вместо внешнего провайдера идентичности.
// Роут подключается только при AUTH_DEV_ISSUE=true
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	payload, err := req.Decode[dto.TokenRequest](r.Body)
	if err != nil || payload.ID == "" {
		apierr.BadRequest(w)
		return
	}

	accessToken, err := token.GenerateAccessToken(model.Player{
		ID:    payload.ID,
		Name:  payload.Name,
		Photo: payload.Photo,
	}, h.secretKey, h.ttl)
	if err != nil {
		h.logger.Error("generate access token", zap.Error(err))
		resp.WriteError(w, http.StatusInternalServerError, "token failed")
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, dto.TokenResponse{AccessToken: accessToken})
}
