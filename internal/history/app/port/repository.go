package port

import (
	"context"

	"Outbreak/internal/history/entity"
)

type MatchRepository interface {
	// Save 按 ID 覆盖写入，重试同一条记录是幂等的。
	Save(ctx context.Context, r *entity.MatchRecord) error
	// Recent 按结束时间倒序返回最多 limit 条。
	Recent(ctx context.Context, limit int) ([]entity.MatchRecord, error)
	// Get 找不到时返回 entity.ErrMatchNotFound。
	Get(ctx context.Context, id entity.MatchID) (*entity.MatchRecord, error)
}
