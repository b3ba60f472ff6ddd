package progress

import (
	"speen_backend/internal/api/dto/common"
	"speen_backend/internal/model"
)

type Stats struct {
	SpinsTotal     int64            `json:"spins_total"`
	SpinsX2        int64            `json:"spins_x2"`
	SpinsX5        int64            `json:"spins_x5"`
	Spins3of10     int64            `json:"spins_3of10"`
	Wins           int64            `json:"wins"`
	SectorHits     int64            `json:"sector_hits"`
	Invites        int64            `json:"invites"`
	DailyClaims    int64            `json:"daily_claims"`
	BoostersBought map[string]int64 `json:"boosters_bought"`
	BoostersUsed   map[string]int64 `json:"boosters_used"`
}

type ProgressResponse struct {
	Level          int   `json:"level"`
	ClaimedCursor  int   `json:"claimed_cursor"`
	OnboardingDone bool  `json:"onboarding_done"`
	Stats          Stats `json:"stats"`
}

type ClaimRequest struct {
	Level int `json:"level"`
}

type ClaimResponse struct {
	Progress ProgressResponse `json:"progress"`
	Balance  common.Balance   `json:"balance"`
}

// SnapshotRequest Снимок в формате удаленного хранилища
type SnapshotRequest struct {
	Level          int              `json:"level"`
	Stats          model.LevelStats `json:"stats"`
	OnboardingDone bool             `json:"onboardingDone"`
}
