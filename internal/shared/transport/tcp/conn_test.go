package tcp

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"Outbreak/internal/protocol"
	"Outbreak/modules/kit/errx"
	"Outbreak/modules/kit/logx"
)

func TestConn_收发整帧(t *testing.T) {
	a, b := net.Pipe()
	ca, cb := NewConn(a), NewConn(b)
	defer ca.Close()
	defer cb.Close()

	go func() { _ = ca.WriteFrame([]byte("hello")) }()
	got, err := cb.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame err=%v", err)
	}
	if string(got) != "hello" {
		t.Fatalf("期望 hello, got=%q", got)
	}
}

func TestConn_超长帧报错(t *testing.T) {
	a, b := net.Pipe()
	ca, cb := NewConn(a), NewConn(b, WithMaxFrameSize(4))
	defer ca.Close()
	defer cb.Close()

	go func() { _ = ca.WriteFrame([]byte("too long")) }()
	if _, err := cb.ReadFrame(); !errors.Is(err, errx.ErrFrameTooLarge) {
		t.Fatalf("期望 ErrFrameTooLarge, got=%v", err)
	}
}

func TestConn_写超时(t *testing.T) {
	a, b := net.Pipe()
	defer b.Close()
	ca := NewConn(a, WithWriteTimeout(20*time.Millisecond))
	defer ca.Close()

	// 对端不读，net.Pipe 无缓冲，写必然超时
	if err := ca.WriteFrame([]byte("x")); !errors.Is(err, errx.ErrConnWrite) {
		t.Fatalf("期望 ErrConnWrite, got=%v", err)
	}
}

func TestServer_接受连接并在ctx取消后返回(t *testing.T) {
	got := make(chan protocol.FrameConn, 1)
	s := NewServer("127.0.0.1:0", func(c protocol.FrameConn) { got <- c }, logx.Nop())
	addr, err := s.Listen()
	if err != nil {
		t.Fatalf("Listen err=%v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx) }()

	client, err := net.Dial("tcp", addr.String())
	if err != nil {
		t.Fatalf("Dial err=%v", err)
	}
	defer client.Close()
	if err := protocol.WriteFrame(client, []byte{1, 2, 3}); err != nil {
		t.Fatalf("WriteFrame err=%v", err)
	}

	select {
	case c := <-got:
		payload, err := c.ReadFrame()
		if err != nil || len(payload) != 3 {
			t.Fatalf("期望读到 3 字节, got=%v err=%v", payload, err)
		}
		_ = c.Close()
	case <-time.After(2 * time.Second):
		t.Fatalf("期望 onConn 被调用")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("期望 Serve 返回 nil, got=%v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("期望 ctx 取消后 Serve 返回")
	}
}
