package handler

import (
	"context"
	"errors"
	nethttp "net/http"
	"strconv"

	"Outbreak/internal/history/entity"
	"Outbreak/internal/shared/actor/messages"
	"Outbreak/internal/shared/transport"
	"Outbreak/internal/shared/transport/http/middleware"

	"github.com/gin-gonic/gin"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
)

type MatchLister interface {
	Matches(ctx context.Context) (*messages.MatchList, error)
}

type HistoryReader interface {
	Recent(ctx context.Context, limit int) ([]entity.MatchRecord, error)
	Get(ctx context.Context, id entity.MatchID) (*entity.MatchRecord, error)
}

// HttpHandler 是管理接口：进行中的对局和历史记录。
type HttpHandler struct {
	lobby     MatchLister
	history   HistoryReader
	jwtSecret string
}

func NewHttpHandler(lobby MatchLister, history HistoryReader, jwtSecret string) *HttpHandler {
	return &HttpHandler{lobby: lobby, history: history, jwtSecret: jwtSecret}
}

func (h *HttpHandler) RegisterRoutes(group *gin.RouterGroup) {
	v1 := group.Group("/v1", middleware.Auth(h.jwtSecret))
	v1.GET("/matches", h.Matches)
	v1.GET("/history", h.History)
	v1.GET("/history/:id", h.HistoryByID)
}

func (h *HttpHandler) Matches(c *gin.Context) {
	list, err := h.lobby.Matches(c.Request.Context())
	if err != nil {
		h.error(c, transport.Unavailable, err)
		return
	}
	h.ok(c, list)
}

func (h *HttpHandler) History(c *gin.Context) {
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.fail(c, transport.BadRequest, "limit 必须是正整数")
			return
		}
		limit = min(n, maxHistoryLimit)
	}
	recs, err := h.history.Recent(c.Request.Context(), limit)
	if err != nil {
		h.error(c, transport.Unavailable, err)
		return
	}
	out := make([]MatchRecordResp, 0, len(recs))
	for _, r := range recs {
		out = append(out, toResp(r))
	}
	h.ok(c, out)
}

func (h *HttpHandler) HistoryByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.fail(c, transport.BadRequest, "id 格式错误")
		return
	}
	rec, err := h.history.Get(c.Request.Context(), id)
	switch {
	case errors.Is(err, entity.ErrMatchNotFound):
		h.fail(c, transport.NotFound, "对局不存在")
	case err != nil:
		h.error(c, transport.Unavailable, err)
	default:
		h.ok(c, toResp(*rec))
	}
}

func (h *HttpHandler) ok(c *gin.Context, data any) {
	c.JSON(nethttp.StatusOK, transport.Envelope{Code: transport.OK, Data: data})
}

func (h *HttpHandler) fail(c *gin.Context, code transport.BizCode, msg string) {
	c.JSON(nethttp.StatusOK, transport.Envelope{Code: code, Msg: msg})
}

// error 把原因交给 access 日志，响应里只给笼统的提示。
func (h *HttpHandler) error(c *gin.Context, code transport.BizCode, err error) {
	transport.SetErrorReason(c.Request.Context(), err.Error())
	h.fail(c, code, "服务暂不可用")
}
