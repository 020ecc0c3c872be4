package mongo

import (
	"context"
	"errors"
	"time"

	"Outbreak/internal/shared/serverconfig"
	"Outbreak/modules/kit/logx"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

const (
	appName        = "outbreak"
	connectTimeout = 3 * time.Second
)

// Store 是打开后的库句柄，Close 断开底层 client。
type Store struct {
	client *mongo.Client
	DB     *mongo.Database
}

// Open 连接并 ping 一次，失败时不留半开的 client。
func Open(ctx context.Context, cfg serverconfig.MongoConfig, l logx.Logger) (*Store, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongodb uri is empty")
	}
	if cfg.Database == "" {
		return nil, errors.New("mongodb database is empty")
	}
	if l == nil {
		l = logx.Nop()
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetConnectTimeout(connectTimeout)
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	l.Info("mongodb 已连接", zap.String("database", cfg.Database))
	return &Store{client: client, DB: client.Database(cfg.Database)}, nil
}

func (s *Store) Close(ctx context.Context) error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
