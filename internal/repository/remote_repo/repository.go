package remote_repo

import (
	"context"
	"errors"
	"fmt"

	"speen_backend/internal/model"
	"speen_backend/internal/repository"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "progress:"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type repo struct {
	rdb redis.UniversalClient
}

// NewRemoteProgressRepository Удаленное хранилище прогресса: key-value в Redis
func NewRemoteProgressRepository(rdb redis.UniversalClient) repository.RemoteProgressRepository {
	return &repo{rdb: rdb}
}

func key(id string) string {
	return keyPrefix + id
}

// Fetch - снимок по id, nil если его нет
func (r *repo) Fetch(ctx context.Context, id string) (*model.ProgressSnapshot, error) {
	raw, err := r.rdb.Get(ctx, key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: fetch %s: %v", model.ErrSyncFailure, id, err)
	}

	var snap model.ProgressSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", model.ErrSyncFailure, id, err)
	}
	if snap.ID == "" {
		snap.ID = id
	}

	return &snap, nil
}

// Upsert - перезаписывает снимок целиком
func (r *repo) Upsert(ctx context.Context, snapshot model.ProgressSnapshot) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	if err := r.rdb.Set(ctx, key(snapshot.ID), raw, 0).Err(); err != nil {
		return fmt.Errorf("%w: upsert %s: %v", model.ErrSyncFailure, snapshot.ID, err)
	}
	return nil
}
