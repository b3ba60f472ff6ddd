package converter

import (
	"speen_backend/internal/api/dto/progress"
	"speen_backend/internal/model"
)

func ToProgressResponse(p model.Progress) progress.ProgressResponse {
	return progress.ProgressResponse{
		Level:          p.Level,
		ClaimedCursor:  p.ClaimedCursor,
		OnboardingDone: p.OnboardingDone,
		Stats: progress.Stats{
			SpinsTotal:     p.Stats.SpinsTotal,
			SpinsX2:        p.Stats.SpinsX2,
			SpinsX5:        p.Stats.SpinsX5,
			Spins3of10:     p.Stats.Spins3of10,
			Wins:           p.Stats.Wins,
			SectorHits:     p.Stats.SectorHits,
			Invites:        p.Stats.Invites,
			DailyClaims:    p.Stats.DailyClaims,
			BoostersBought: toCounters(p.Stats.BoostersBought),
			BoostersUsed:   toCounters(p.Stats.BoostersUsed),
		},
	}
}

func ToClaimResponse(p model.Progress, bal model.Balance) progress.ClaimResponse {
	return progress.ClaimResponse{
		Progress: ToProgressResponse(p),
		Balance:  ToBalanceResponse(bal),
	}
}

func ToProgressSnapshot(playerID string, req progress.SnapshotRequest) model.ProgressSnapshot {
	return model.ProgressSnapshot{
		ID:             playerID,
		Level:          req.Level,
		Stats:          req.Stats,
		OnboardingDone: req.OnboardingDone,
	}
}

func toCounters(m map[model.BoosterKind]int64) map[string]int64 {
	out := make(map[string]int64, len(model.BoosterKinds))
	for _, k := range model.BoosterKinds {
		out[string(k)] = m[k]
	}
	return out
}
