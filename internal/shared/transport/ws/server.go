package ws

import (
	"net/http"
	"time"

	"Outbreak/internal/protocol"
	"Outbreak/modules/kit/logx"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Server 负责 HTTP→WebSocket 升级，升级成功的连接交给 onConn。
type Server struct {
	upgrader     websocket.Upgrader
	onConn       func(protocol.FrameConn)
	maxFrame     uint32
	writeTimeout time.Duration
	log          logx.Logger
}

func NewServer(onConn func(protocol.FrameConn), maxFrame uint32, writeTimeout time.Duration, l logx.Logger) *Server {
	if l == nil {
		l = logx.Nop()
	}
	return &Server{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 << 10,
			WriteBufferSize: 64 << 10,
			// 允许所有CORS跨域请求
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		onConn:       onConn,
		maxFrame:     maxFrame,
		writeTimeout: writeTimeout,
		log:          l,
	}
}

func (s *Server) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	wsConn, err := s.upgrader.Upgrade(resp, req, nil)
	if err != nil {
		s.log.WithContext(req.Context()).Error("websocket upgrade error", zap.Error(err))
		return
	}

	s.log.WithContext(req.Context()).Info("websocket upgrade success", zap.String("remote", wsConn.RemoteAddr().String()))
	s.onConn(NewConn(wsConn, s.maxFrame, s.writeTimeout))
}
