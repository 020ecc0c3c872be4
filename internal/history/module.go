package history

import (
	"context"
	"fmt"

	"Outbreak/internal/history/app/port"
	"Outbreak/internal/history/dc"
	"Outbreak/internal/history/infra/persistence/memory"
	"Outbreak/internal/history/infra/persistence/mongodb"
	"Outbreak/internal/history/infra/persistence/mysql"
	"Outbreak/internal/shared/infrastructure/db"
	mongoinfra "Outbreak/internal/shared/infrastructure/mongo"
	"Outbreak/internal/shared/logs"
	"Outbreak/internal/shared/serverconfig"
	"Outbreak/modules/kit/logx"

	"go.uber.org/zap"
)

// Module 持有对局历史的写入器和底层连接。
type Module struct {
	Recorder *dc.Recorder
	closers  []func(context.Context) error
}

// Open 按 backend 打开存储：memory | mongo | mysql。
func Open(ctx context.Context, cfg serverconfig.HistoryConfig, l logx.Logger) (*Module, error) {
	m := &Module{}
	var repo port.MatchRepository

	switch cfg.Backend {
	case "", "memory":
		repo = memory.NewMatchRepository(cfg.Keep)

	case "mongo", "mongodb":
		store, err := mongoinfra.Open(ctx, cfg.Mongo, l)
		if err != nil {
			return nil, err
		}
		m.closers = append(m.closers, store.Close)
		r := mongodb.NewMatchRepository(store.DB)
		if err := r.EnsureIndexes(ctx); err != nil {
			logs.Warn("对局历史建索引失败", zap.Error(err))
		}
		repo = r

	case "mysql":
		gdb, closeDB, err := db.Open(ctx, cfg.MySQL, l)
		if err != nil {
			return nil, err
		}
		m.closers = append(m.closers, closeDB)
		r := mysql.NewMatchRepo(gdb)
		if err := r.Migrate(ctx); err != nil {
			_ = m.Close(ctx)
			return nil, err
		}
		repo = r

	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.Backend)
	}

	m.Recorder = dc.NewRecorder(repo, l)
	logs.Info("对局历史存储就绪", zap.String("backend", cfg.Backend))
	return m, nil
}

// Close 先写空队列再断开存储。
func (m *Module) Close(ctx context.Context) error {
	var first error
	if m.Recorder != nil {
		first = m.Recorder.Close(ctx)
	}
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i](ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}
