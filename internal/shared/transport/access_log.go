package transport

import (
	"context"
	"time"

	"Outbreak/modules/kit/logx"
	"Outbreak/modules/kit/tracex"

	"go.uber.org/zap"
)

// AccessLog 是一次管理请求（或 WS 升级请求）的访问记录。
type AccessLog struct {
	Action   string
	Peer     string
	Code     BizCode
	Reason   string
	Upgraded bool
	begin    time.Time
}

type accessLogKey struct{}

// Begin 在 parent 上挂一条新的访问记录和 trace id，默认按系统错误记，处理完再改写。
func Begin(parent context.Context, action, peer string) (context.Context, *AccessLog) {
	if parent == nil {
		parent = context.Background()
	}
	if action == "" {
		action = "unknown"
	}
	ctx := tracex.WithTraceID(parent, tracex.NewTraceID())
	al := &AccessLog{Action: action, Peer: peer, Code: SystemError, begin: time.Now()}
	return context.WithValue(ctx, accessLogKey{}, al), al
}

func FromContext(ctx context.Context) *AccessLog {
	if ctx == nil {
		return nil
	}
	al, _ := ctx.Value(accessLogKey{}).(*AccessLog)
	return al
}

// SetErrorReason 记下失败原因，handler 在回错误信封前调用。
func SetErrorReason(ctx context.Context, reason string) {
	if al := FromContext(ctx); al != nil && reason != "" {
		al.Reason = reason
	}
}

func (al *AccessLog) Failed() bool {
	return al.Code >= BadRequest
}

// Write 输出访问日志，结果按业务码分级。
func (al *AccessLog) Write(ctx context.Context, log logx.Logger) {
	if al == nil || log == nil {
		return
	}
	fields := []zap.Field{
		zap.Duration("latency", time.Since(al.begin)),
		zap.String("peer", al.Peer),
	}
	if al.Upgraded {
		fields = append(fields, zap.Bool("ws_upgraded", true))
	}
	if al.Failed() && al.Reason != "" {
		fields = append(fields, zap.String("error_reason", al.Reason))
	}
	logx.ReportAccessWithLoggerContext(ctx, log, al.Action, int(al.Code), fields...)
}
