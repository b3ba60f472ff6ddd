package spin

import (
	"net/http"

	"speen_backend/internal/api/apierr"
	dto "speen_backend/internal/api/dto/spin"
	"speen_backend/internal/converter"
	"speen_backend/internal/middleware"
	"speen_backend/internal/model"
	"speen_backend/internal/service"
	"speen_backend/pkg/req"
	"speen_backend/pkg/resp"
)

type HandlerDeps struct {
	Serv    service.SpinService
	Pyramid service.PyramidService
}

type Handler struct {
	serv    service.SpinService
	pyramid service.PyramidService
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{serv: deps.Serv, pyramid: deps.Pyramid}
}

// Spin Спин Duel/AllIn. Режим pyramid стартует серию
func (h *Handler) Spin(w http.ResponseWriter, r *http.Request) {
	playerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		resp.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	payload, err := req.Decode[dto.SpinRequest](r.Body)
	if err != nil {
		apierr.BadRequest(w)
		return
	}
	spinReq, err := converter.ToSpinRequest(payload)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	if spinReq.Mode == model.ModePyramid {
		session, err := h.pyramid.Arm(r.Context(), playerID, spinReq)
		if err != nil {
			apierr.Write(w, err)
			return
		}
		resp.WriteJSONResponse(w, http.StatusOK, converter.ToSessionResponse(session))
		return
	}

	result, err := h.serv.Spin(r.Context(), playerID, spinReq)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToSpinResponse(*result))
}
