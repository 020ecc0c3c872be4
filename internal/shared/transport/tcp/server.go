package tcp

import (
	"context"
	"errors"
	"net"
	"sync"

	"Outbreak/internal/protocol"
	"Outbreak/modules/kit/logx"

	"go.uber.org/zap"
)

// Server 接受玩家 TCP 连接，把每条连接包装成 FrameConn 交给 onConn。
type Server struct {
	addr   string
	opts   []Option
	onConn func(protocol.FrameConn)
	log    logx.Logger

	mu sync.Mutex
	ln net.Listener
}

func NewServer(addr string, onConn func(protocol.FrameConn), l logx.Logger, opts ...Option) *Server {
	if l == nil {
		l = logx.Nop()
	}
	return &Server{addr: addr, opts: opts, onConn: onConn, log: l}
}

// Listen 绑定端口；与 Serve 分开以便调用方拿到实际地址（":0" 时）。
func (s *Server) Listen() (net.Addr, error) {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	return ln.Addr(), nil
}

// Serve 阻塞接受连接，ctx 取消后关闭监听并返回 nil。
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()
	if ln == nil {
		if _, err := s.Listen(); err != nil {
			return err
		}
		return s.Serve(ctx)
	}

	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()

	s.log.Info("tcp server listening", zap.String("addr", ln.Addr().String()))
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.log.Warn("tcp accept failed", zap.Error(err))
			continue
		}
		if tc, ok := conn.(*net.TCPConn); ok {
			_ = tc.SetNoDelay(true)
		}
		s.log.Info("tcp connection accepted", zap.String("remote", conn.RemoteAddr().String()))
		s.onConn(NewConn(conn, s.opts...))
	}
}
