package session_repo

import (
	"context"
	"errors"

	"speen_backend/internal/model"
	"speen_backend/internal/repository"
	repoModel "speen_backend/internal/repository/session_repo/model"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	jsoniter "github.com/json-iterator/go"
)

const (
	table              = "player_sessions"
	colPlayerID        = "player_id"
	colPyramid         = "pyramid"
	colSelectedBooster = "selected_booster"
	colFreeSpin        = "free_spin"
	colSpinID          = "spin_id"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

// NewSessionRepository Сессии в Postgres: серия пережидает рестарт вместе со списанной ставкой
func NewSessionRepository(dbc *pgxpool.Pool) repository.SessionRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

// GetPyramid - текущая серия, nil если ее нет
func (r *repo) GetPyramid(ctx context.Context, playerID string) (*model.PyramidSession, error) {
	raw, err := r.getJSON(ctx, playerID, colPyramid)
	if err != nil || raw == nil {
		return nil, err
	}

	var p repoModel.Pyramid
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return p.ToDomain(), nil
}

func (r *repo) SavePyramid(ctx context.Context, session *model.PyramidSession) error {
	raw, err := json.Marshal(repoModel.FromPyramid(session))
	if err != nil {
		return err
	}
	return r.upsert(ctx, session.PlayerID, colPyramid, raw)
}

func (r *repo) DeletePyramid(ctx context.Context, playerID string) error {
	return r.upsert(ctx, playerID, colPyramid, nil)
}

// ListPyramids - все незавершенные серии
func (r *repo) ListPyramids(ctx context.Context) ([]*model.PyramidSession, error) {
	query := sq.Select(colPyramid).
		From(table).
		Where(sq.NotEq{colPyramid: nil}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.getter.DefaultTrOrDB(ctx, r.dbc).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.PyramidSession
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var p repoModel.Pyramid
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		out = append(out, p.ToDomain())
	}

	return out, rows.Err()
}

func (r *repo) GetSelectedBooster(ctx context.Context, playerID string) (*model.BoosterKind, error) {
	query := sq.Select(colSelectedBooster).
		From(table).
		Where(sq.Eq{colPlayerID: playerID}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var kind *string
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&kind)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if kind == nil {
		return nil, nil
	}

	k := model.BoosterKind(*kind)
	return &k, nil
}

func (r *repo) SetSelectedBooster(ctx context.Context, playerID string, kind *model.BoosterKind) error {
	var value any
	if kind != nil {
		value = string(*kind)
	}
	return r.upsert(ctx, playerID, colSelectedBooster, value)
}

func (r *repo) GetFreeSpin(ctx context.Context, playerID string) (*model.FreeSpin, error) {
	raw, err := r.getJSON(ctx, playerID, colFreeSpin)
	if err != nil || raw == nil {
		return nil, err
	}

	var f repoModel.FreeSpin
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	return f.ToDomain(), nil
}

func (r *repo) SetFreeSpin(ctx context.Context, playerID string, spin *model.FreeSpin) error {
	if spin == nil {
		return r.upsert(ctx, playerID, colFreeSpin, nil)
	}

	raw, err := json.Marshal(repoModel.FromFreeSpin(spin))
	if err != nil {
		return err
	}
	return r.upsert(ctx, playerID, colFreeSpin, raw)
}

// NextSpinID - счетчик физических спинов игрока
func (r *repo) NextSpinID(ctx context.Context, playerID string) (int64, error) {
	query := sq.Insert(table).
		Columns(colPlayerID, colSpinID).
		Values(playerID, 1).
		Suffix("ON CONFLICT (" + colPlayerID + ") DO UPDATE SET " +
			colSpinID + " = " + table + "." + colSpinID + " + 1 RETURNING " + colSpinID).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var id int64
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&id)
	return id, err
}

func (r *repo) getJSON(ctx context.Context, playerID, col string) ([]byte, error) {
	query := sq.Select(col).
		From(table).
		Where(sq.Eq{colPlayerID: playerID}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var raw []byte
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return raw, nil
}

// upsert - пишет одну колонку, nil очищает ее
func (r *repo) upsert(ctx context.Context, playerID, col string, value any) error {
	query := sq.Insert(table).
		Columns(colPlayerID, col).
		Values(playerID, value).
		Suffix("ON CONFLICT (" + colPlayerID + ") DO UPDATE SET " + col + " = EXCLUDED." + col).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	return err
}
