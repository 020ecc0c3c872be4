package logs

import (
	"context"
	"errors"
	"time"

	"Outbreak/modules/kit/logx"

	"go.uber.org/zap"
	glogger "gorm.io/gorm/logger"
)

// GormLogger 把 gorm 的日志接到 logx，ctx 里的 match_id 会一并输出。
type GormLogger struct {
	log           logx.Logger
	level         glogger.LogLevel
	slowThreshold time.Duration
}

func NewGormLogger(l logx.Logger, level glogger.LogLevel, slowThreshold time.Duration) glogger.Interface {
	if l == nil {
		l = logx.NewZapLogger(Logger())
	}
	return &GormLogger{log: l, level: level, slowThreshold: slowThreshold}
}

func (l *GormLogger) LogMode(level glogger.LogLevel) glogger.Interface {
	next := *l
	next.level = level
	return &next
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= glogger.Info {
		l.log.WithContext(ctx).Info("gorm: "+msg, zap.Any("data", data))
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= glogger.Warn {
		l.log.WithContext(ctx).Warn("gorm: "+msg, zap.Any("data", data))
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= glogger.Error {
		l.log.WithContext(ctx).Error("gorm: "+msg, zap.Any("data", data))
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= glogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := []zap.Field{
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	}
	withCtx := l.log.WithContext(ctx)
	switch {
	case err != nil && !errors.Is(err, glogger.ErrRecordNotFound):
		withCtx.Error("gorm trace error", append(fields, zap.Error(err))...)
	case l.slowThreshold > 0 && elapsed > l.slowThreshold:
		withCtx.Warn("gorm slow query", fields...)
	case l.level >= glogger.Info:
		withCtx.Debug("gorm trace", fields...)
	}
}
