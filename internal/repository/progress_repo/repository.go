package progress_repo

import (
	"context"
	"errors"
	"time"

	"speen_backend/internal/model"
	"speen_backend/internal/repository"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	jsoniter "github.com/json-iterator/go"
)

const (
	table             = "player_progress"
	colPlayerID       = "player_id"
	colLevel          = "level"
	colClaimedCursor  = "claimed_cursor"
	colOnboardingDone = "onboarding_done"
	colLastDailyClaim = "last_daily_claim"
	colStats          = "stats"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewProgressRepository(dbc *pgxpool.Pool) repository.ProgressRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

// GetProgress - прогрессия игрока. Нулевая, если записи еще нет
func (r *repo) GetProgress(ctx context.Context, id string) (model.Progress, error) {
	query := sq.Select(colLevel, colClaimedCursor, colOnboardingDone, colLastDailyClaim, colStats).
		From(table).
		Where(sq.Eq{colPlayerID: id}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return model.Progress{}, err
	}

	var (
		p         model.Progress
		lastDaily *time.Time
		rawStats  []byte
	)
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).
		Scan(&p.Level, &p.ClaimedCursor, &p.OnboardingDone, &lastDaily, &rawStats)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Progress{}, nil
		}
		return model.Progress{}, err
	}

	if lastDaily != nil {
		p.LastDailyClaim = *lastDaily
	}
	if len(rawStats) > 0 {
		if err := json.Unmarshal(rawStats, &p.Stats); err != nil {
			return model.Progress{}, err
		}
	}

	return p, nil
}

// SaveProgress - upsert прогрессии целиком
func (r *repo) SaveProgress(ctx context.Context, id string, p model.Progress) error {
	rawStats, err := json.Marshal(p.Stats)
	if err != nil {
		return err
	}

	var lastDaily *time.Time
	if !p.LastDailyClaim.IsZero() {
		t := p.LastDailyClaim.UTC()
		lastDaily = &t
	}

	query := sq.Insert(table).
		Columns(colPlayerID, colLevel, colClaimedCursor, colOnboardingDone, colLastDailyClaim, colStats).
		Values(id, p.Level, p.ClaimedCursor, p.OnboardingDone, lastDaily, rawStats).
		Suffix("ON CONFLICT (" + colPlayerID + ") DO UPDATE SET " +
			colLevel + " = EXCLUDED." + colLevel + ", " +
			colClaimedCursor + " = EXCLUDED." + colClaimedCursor + ", " +
			colOnboardingDone + " = EXCLUDED." + colOnboardingDone + ", " +
			colLastDailyClaim + " = EXCLUDED." + colLastDailyClaim + ", " +
			colStats + " = EXCLUDED." + colStats).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	return err
}
