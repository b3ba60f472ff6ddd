package pyramid

import (
	"net/http"

	"speen_backend/internal/api/apierr"
	dto "speen_backend/internal/api/dto/pyramid"
	"speen_backend/internal/converter"
	"speen_backend/internal/middleware"
	"speen_backend/internal/service"
	"speen_backend/pkg/req"
	"speen_backend/pkg/resp"
)

type HandlerDeps struct {
	Serv service.PyramidService
}

type Handler struct {
	serv service.PyramidService
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{serv: deps.Serv}
}

func (h *Handler) Arm(w http.ResponseWriter, r *http.Request) {
	playerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		resp.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	payload, err := req.Decode[dto.ArmRequest](r.Body)
	if err != nil {
		apierr.BadRequest(w)
		return
	}

	armReq, err := converter.ToArmRequest(payload)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	session, err := h.serv.Arm(r.Context(), playerID, armReq)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToSessionResponse(session))
}

// Advance Следующий спин серии, повторный spin_id возвращает duplicate
func (h *Handler) Advance(w http.ResponseWriter, r *http.Request) {
	playerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		resp.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	payload, err := req.Decode[dto.AdvanceRequest](r.Body)
	if err != nil || payload.SpinID <= 0 {
		apierr.BadRequest(w)
		return
	}

	step, err := h.serv.Advance(r.Context(), playerID, payload.SpinID)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToStepResponse(*step))
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	playerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		resp.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.serv.Cancel(r.Context(), playerID); err != nil {
		apierr.Write(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Get Текущая серия, state=idle если серии нет
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	playerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		resp.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	session, err := h.serv.Get(r.Context(), playerID)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToSessionResponse(session))
}
