package progress

import (
	"context"
	"net/http"

	"speen_backend/internal/api/apierr"
	dto "speen_backend/internal/api/dto/progress"
	"speen_backend/internal/converter"
	"speen_backend/internal/middleware"
	"speen_backend/internal/model"
	"speen_backend/internal/service"
	"speen_backend/pkg/req"
	"speen_backend/pkg/resp"
)

type HandlerDeps struct {
	Serv service.ProgressService
	Sync service.SyncService
}

type Handler struct {
	serv service.ProgressService
	sync service.SyncService
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{serv: deps.Serv, sync: deps.Sync}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	h.progress(w, r, h.serv.Progress)
}

func (h *Handler) Claim(w http.ResponseWriter, r *http.Request) {
	playerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		resp.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	payload, err := req.Decode[dto.ClaimRequest](r.Body)
	if err != nil {
		apierr.BadRequest(w)
		return
	}

	p, bal, err := h.serv.Claim(r.Context(), playerID, payload.Level)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToClaimResponse(p, bal))
}

func (h *Handler) Onboarding(w http.ResponseWriter, r *http.Request) {
	h.progress(w, r, h.serv.CompleteOnboarding)
}

func (h *Handler) Invite(w http.ResponseWriter, r *http.Request) {
	h.progress(w, r, h.serv.RecordInvite)
}

func (h *Handler) Daily(w http.ResponseWriter, r *http.Request) {
	playerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		resp.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	p, bal, err := h.serv.ClaimDaily(r.Context(), playerID)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToClaimResponse(p, bal))
}

// Snapshot Слияние присланного снимка с локальной прогрессией
func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	playerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		resp.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	payload, err := req.Decode[dto.SnapshotRequest](r.Body)
	if err != nil {
		apierr.BadRequest(w)
		return
	}

	p, err := h.sync.ApplyRemoteSnapshot(r.Context(), playerID, converter.ToProgressSnapshot(playerID, payload))
	if err != nil {
		apierr.Write(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToProgressResponse(p))
}

func (h *Handler) Pull(w http.ResponseWriter, r *http.Request) {
	h.progress(w, r, h.sync.Pull)
}

func (h *Handler) progress(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, playerID string) (model.Progress, error)) {
	playerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		resp.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	p, err := fn(r.Context(), playerID)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToProgressResponse(p))
}
