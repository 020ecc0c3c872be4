package logx

import (
	"context"

	"go.uber.org/zap"
)

// Logger 是各组件依赖的日志接口。
// WithContext 取出 ctx 里的 trace_id/match_id/player，With 追加固定字段（如连接槽位）。
type Logger interface {
	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	With(fields ...zap.Field) Logger
	WithContext(ctx context.Context) Logger
}
