package leaderboard_repo

import (
	"context"
	"strconv"

	"speen_backend/internal/model"
	"speen_backend/internal/repository"

	"github.com/redis/go-redis/v9"
)

const (
	boardKey   = "leaderboard"
	metaPrefix = "leaderboard:meta:"
)

type repo struct {
	rdb redis.UniversalClient
}

func NewLeaderboardRepository(rdb redis.UniversalClient) repository.LeaderboardRepository {
	return &repo{rdb: rdb}
}

// Project - рейтинг по сумме монет в sorted set, данные игрока в hash
func (r *repo) Project(ctx context.Context, entry model.LeaderboardEntry) error {
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, boardKey, redis.Z{Score: float64(entry.TotalCoins), Member: entry.ID})
		pipe.HSet(ctx, metaPrefix+entry.ID,
			"name", entry.Name,
			"photo", entry.Photo,
			"level", strconv.Itoa(entry.Level),
			"total", strconv.FormatInt(entry.TotalCoins, 10),
		)
		return nil
	})
	return err
}
