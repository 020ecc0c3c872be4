package interfaces

import (
	"Outbreak/internal/lobby/interfaces/handler"
	"Outbreak/internal/shared/transport/ws"

	"github.com/gin-gonic/gin"
)

// Module 把大厅挂到 HTTP 服务上：管理接口和浏览器玩家的 /ws 入口。
type Module struct {
	httpHandler *handler.HttpHandler
	ws          *ws.Server
}

func New(lobby handler.MatchLister, history handler.HistoryReader, jwtSecret string, wsServer *ws.Server) *Module {
	return &Module{
		httpHandler: handler.NewHttpHandler(lobby, history, jwtSecret),
		ws:          wsServer,
	}
}

func (m *Module) HttpRegister(g *gin.RouterGroup) {
	m.httpHandler.RegisterRoutes(g)
	if m.ws != nil {
		g.GET("/ws", gin.WrapH(m.ws))
	}
}
