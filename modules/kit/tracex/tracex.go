package tracex

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strconv"
)

type traceIDKey struct{}
type matchIDKey struct{}
type playerKey struct{}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

func TraceIDFrom(ctx context.Context) (string, bool) {
	return stringFrom(ctx, traceIDKey{})
}

// WithMatchID 把对局 id 放进 ctx，对局内所有日志自动带上 match_id。
func WithMatchID(ctx context.Context, matchID int64) context.Context {
	return context.WithValue(ctx, matchIDKey{}, strconv.FormatInt(matchID, 10))
}

func MatchIDFrom(ctx context.Context) (string, bool) {
	return stringFrom(ctx, matchIDKey{})
}

// WithPlayer 标记当前处理的是哪一个玩家连接（"p0"/"p1" 或远端地址）。
func WithPlayer(ctx context.Context, player string) context.Context {
	return context.WithValue(ctx, playerKey{}, player)
}

func PlayerFrom(ctx context.Context) (string, bool) {
	return stringFrom(ctx, playerKey{})
}

func stringFrom(ctx context.Context, key any) (string, bool) {
	if ctx == nil {
		return "", false
	}
	s, ok := ctx.Value(key).(string)
	return s, ok && s != ""
}

// NewTraceID 生成 16 字节随机 trace_id（hex）。
func NewTraceID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return ""
	}
	return hex.EncodeToString(b[:])
}
