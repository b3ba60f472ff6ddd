package booster

import (
	"net/http"

	"speen_backend/internal/api/apierr"
	dto "speen_backend/internal/api/dto/booster"
	"speen_backend/internal/converter"
	"speen_backend/internal/middleware"
	"speen_backend/internal/model"
	"speen_backend/internal/service"
	"speen_backend/pkg/req"
	"speen_backend/pkg/resp"
)

type HandlerDeps struct {
	Serv service.BoosterService
}

type Handler struct {
	serv service.BoosterService
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{serv: deps.Serv}
}

func (h *Handler) Inventory(w http.ResponseWriter, r *http.Request) {
	playerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		resp.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	inv, selected, err := h.serv.Inventory(r.Context(), playerID)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToInventoryResponse(inv, selected))
}

func (h *Handler) Grant(w http.ResponseWriter, r *http.Request) {
	playerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		resp.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	payload, err := req.Decode[dto.KindRequest](r.Body)
	if err != nil {
		apierr.BadRequest(w)
		return
	}

	inv, err := h.serv.Grant(r.Context(), playerID, model.BoosterKind(payload.Kind))
	if err != nil {
		apierr.Write(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToInventoryResponse(inv, nil))
}

func (h *Handler) Buy(w http.ResponseWriter, r *http.Request) {
	playerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		resp.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	payload, err := req.Decode[dto.KindRequest](r.Body)
	if err != nil {
		apierr.BadRequest(w)
		return
	}

	inv, bal, err := h.serv.Buy(r.Context(), playerID, model.BoosterKind(payload.Kind))
	if err != nil {
		apierr.Write(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToBuyResponse(inv, bal))
}

// Select Выбор бустера. Если бустера нет, выбор сбрасывается и возвращается 409
func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	playerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		resp.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	payload, err := req.Decode[dto.SelectRequest](r.Body)
	if err != nil {
		apierr.BadRequest(w)
		return
	}

	if err = h.serv.Select(r.Context(), playerID, converter.ToSelectKind(payload)); err != nil {
		apierr.Write(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
