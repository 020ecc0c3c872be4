package http

import (
	"context"
	nethttp "net/http"
	"time"

	"Outbreak/internal/shared/transport"
	"Outbreak/internal/shared/transport/http/middleware"
	"Outbreak/modules/kit/logx"

	"github.com/gin-gonic/gin"
)

const healthTimeout = time.Second

// HealthProbe 返回健康检查附带的数据；出错时 /healthz 回 503。
type HealthProbe func(ctx context.Context) (any, error)

type Option func(*Server)

func WithHealth(p HealthProbe) Option {
	return func(s *Server) { s.probe = p }
}

// Server 承载管理接口和 WS 升级入口。
type Server struct {
	engine *gin.Engine
	srv    *nethttp.Server
	probe  HealthProbe
}

func NewHttpServer(addr string, engine *gin.Engine, logger logx.Logger, opts ...Option) *Server {
	if engine == nil {
		engine = gin.New()
		engine.Use(gin.Recovery())
	}
	s := &Server{engine: engine}
	for _, opt := range opts {
		opt(s)
	}

	engine.Use(middleware.Cors(), middleware.AccessLog(logger))
	engine.GET("/healthz", s.health)

	s.srv = &nethttp.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		// WS 长连接复用同一个 server，不设整体读写超时
		IdleTimeout: 60 * time.Second,
	}
	return s
}

func (s *Server) health(c *gin.Context) {
	if s.probe == nil {
		c.JSON(nethttp.StatusOK, transport.Envelope{Code: transport.OK, Data: gin.H{"status": "ok"}})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()
	data, err := s.probe(ctx)
	if err != nil {
		transport.SetErrorReason(c.Request.Context(), err.Error())
		c.JSON(nethttp.StatusServiceUnavailable, transport.Envelope{Code: transport.Unavailable, Msg: "unhealthy"})
		return
	}
	c.JSON(nethttp.StatusOK, transport.Envelope{Code: transport.OK, Data: data})
}

// Start 阻塞监听，Shutdown 之后返回 net/http.ErrServerClosed。
func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) Group() *gin.RouterGroup {
	return &s.engine.RouterGroup
}

func (s *Server) Handler() nethttp.Handler {
	return s.engine
}
