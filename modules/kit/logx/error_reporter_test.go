package logx

import (
	"context"
	"errors"
	"testing"

	"Outbreak/modules/kit/errx"
	"Outbreak/modules/kit/tracex"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBuildErrorLog_能提取语义与栈(t *testing.T) {
	cause := errors.New("broken pipe")
	e := errx.ErrConnWrite.WithData("player", "p0").WithCause(cause)

	meta := BuildErrorLog(e)
	if meta.Code != string(errx.CodeConnWrite) {
		t.Fatalf("期望 meta.Code=%s, got=%q", errx.CodeConnWrite, meta.Code)
	}
	if meta.Msg == "" {
		t.Fatalf("期望 meta.Msg 非空")
	}
	if meta.Data == nil || meta.Data["player"] != "p0" {
		t.Fatalf("期望 meta.Data 包含 player=p0, got=%v", meta.Data)
	}
	if len(meta.CauseChain) == 0 {
		t.Fatalf("期望 meta.CauseChain 非空")
	}
	if meta.Origin == "" || meta.Stack == "" {
		t.Fatalf("期望 meta.Origin/meta.Stack 非空 origin=%q stack=%q", meta.Origin, meta.Stack)
	}
}

func TestReportError_按类型分流(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core))
	ctx := tracex.WithMatchID(context.Background(), 7)

	ReportErrorWithLoggerContext(ctx, l, "apply_command", errx.ErrWrongSide)
	ReportErrorWithLoggerContext(ctx, l, "write_frame", errx.ErrConnWrite.WithCause(errors.New("eof")))

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("期望两条日志，got=%d", len(entries))
	}
	if entries[0].Level != zapcore.InfoLevel || entries[0].ContextMap()["err_type"] != "biz" {
		t.Fatalf("期望业务错误记为 INFO biz，got=%v %v", entries[0].Level, entries[0].ContextMap())
	}
	if entries[1].Level != zapcore.ErrorLevel || entries[1].ContextMap()["err_type"] != "sys" {
		t.Fatalf("期望系统错误记为 ERROR sys，got=%v %v", entries[1].Level, entries[1].ContextMap())
	}
	if entries[0].ContextMap()["match_id"] != "7" {
		t.Fatalf("期望日志带上 match_id，got=%v", entries[0].ContextMap())
	}
}
