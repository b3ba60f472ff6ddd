package ledger

import (
	"net/http"

	"speen_backend/internal/api/apierr"
	"speen_backend/internal/converter"
	"speen_backend/internal/middleware"
	"speen_backend/internal/service"
	"speen_backend/pkg/resp"
)

type HandlerDeps struct {
	Serv service.LedgerService
}

type Handler struct {
	serv service.LedgerService
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{serv: deps.Serv}
}

func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	playerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		resp.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	bal, err := h.serv.Balance(r.Context(), playerID)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToBalanceResponse(bal))
}
