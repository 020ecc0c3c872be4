package logx

import (
	"context"

	"Outbreak/modules/kit/tracex"

	"go.uber.org/zap"
)

// ZapLogger 把 *zap.Logger 适配成 Logger。
type ZapLogger struct {
	z *zap.Logger
}

func NewZapLogger(l *zap.Logger) *ZapLogger {
	if l == nil {
		l = zap.NewNop()
	}
	return &ZapLogger{z: l}
}

// Nop 丢弃一切输出，测试和未注入日志的组件使用。
func Nop() Logger {
	return NewZapLogger(nil)
}

func (l *ZapLogger) With(fields ...zap.Field) Logger {
	if len(fields) == 0 {
		return l
	}
	return &ZapLogger{z: l.z.With(fields...)}
}

func (l *ZapLogger) WithContext(ctx context.Context) Logger {
	if ctx == nil {
		return l
	}
	var fields []zap.Field
	if v, ok := tracex.TraceIDFrom(ctx); ok {
		fields = append(fields, zap.String("trace_id", v))
	}
	if v, ok := tracex.MatchIDFrom(ctx); ok {
		fields = append(fields, zap.String("match_id", v))
	}
	if v, ok := tracex.PlayerFrom(ctx); ok {
		fields = append(fields, zap.String("player", v))
	}
	return l.With(fields...)
}

func (l *ZapLogger) Debug(msg string, fields ...zap.Field) { l.z.Debug(msg, fields...) }
func (l *ZapLogger) Info(msg string, fields ...zap.Field)  { l.z.Info(msg, fields...) }
func (l *ZapLogger) Warn(msg string, fields ...zap.Field)  { l.z.Warn(msg, fields...) }
func (l *ZapLogger) Error(msg string, fields ...zap.Field) { l.z.Error(msg, fields...) }
