package mysql

import (
	"context"
	"errors"

	"Outbreak/internal/history/entity"
	"Outbreak/internal/history/infra/persistence/model"
	"Outbreak/modules/kit/errx"

	"gorm.io/gorm"
)

type MatchRepo struct {
	db *gorm.DB
}

func NewMatchRepo(db *gorm.DB) *MatchRepo {
	return &MatchRepo{db: db}
}

// Migrate 建表，启动时调用一次。
func (r *MatchRepo) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&model.Match{})
}

const OpSaveMatch = "repo.history.SaveMatch"

func (r *MatchRepo) Save(ctx context.Context, rec *entity.MatchRecord) error {
	if rec == nil {
		return nil
	}
	// Save 对带主键的行做 upsert
	if err := r.db.WithContext(ctx).Save(model.RecordToRow(rec)).Error; err != nil {
		return errx.ErrUnavailable.WithCause(err).WithData("op", OpSaveMatch).WithData("match_id", rec.ID)
	}
	return nil
}

const OpRecentMatches = "repo.history.RecentMatches"

func (r *MatchRepo) Recent(ctx context.Context, limit int) ([]entity.MatchRecord, error) {
	q := r.db.WithContext(ctx).Order("ended_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []model.Match
	if err := q.Find(&rows).Error; err != nil {
		return nil, errx.ErrUnavailable.WithCause(err).WithData("op", OpRecentMatches)
	}
	out := make([]entity.MatchRecord, 0, len(rows))
	for i := range rows {
		out = append(out, model.RowToRecord(&rows[i]))
	}
	return out, nil
}

const OpGetMatch = "repo.history.GetMatch"

func (r *MatchRepo) Get(ctx context.Context, id entity.MatchID) (*entity.MatchRecord, error) {
	var m model.Match
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	switch {
	case err == nil:
		rec := model.RowToRecord(&m)
		return &rec, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, entity.ErrMatchNotFound
	default:
		return nil, errx.ErrUnavailable.WithCause(err).WithData("op", OpGetMatch).WithData("match_id", id)
	}
}
