package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"

	"Outbreak/internal/shared/transport"
	"Outbreak/modules/kit/logx"

	"github.com/gin-gonic/gin"
)

type bodyCaptureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
	skip bool
}

func (w *bodyCaptureWriter) Write(data []byte) (int, error) {
	if w.skip {
		return w.ResponseWriter.Write(data)
	}
	_, _ = w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *bodyCaptureWriter) WriteString(s string) (int, error) {
	if w.skip {
		return w.ResponseWriter.WriteString(s)
	}
	_, _ = w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// AccessLog 统一写访问日志，业务码优先取响应体里的 `code` 字段。
func AccessLog(log logx.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		ctx, al := transport.Begin(c.Request.Context(), c.Request.Method+" "+route, c.ClientIP())
		c.Request = c.Request.WithContext(ctx)

		// WS 升级后连接被接管，不再截获响应体
		bw := &bodyCaptureWriter{ResponseWriter: c.Writer, skip: c.IsWebsocket()}
		c.Writer = bw

		c.Next()

		if last := c.Errors.Last(); last != nil && al.Reason == "" {
			al.Reason = last.Error()
		}
		status := c.Writer.Status()
		code, ok := parseBizCode(bw.body.Bytes())
		switch {
		case ok:
			al.Code = transport.BizCode(code)
		case status == http.StatusSwitchingProtocols:
			al.Code, al.Upgraded = transport.OK, true
		default:
			al.Code = transport.BizCode(status)
		}
		al.Write(ctx, log)
	}
}

func parseBizCode(body []byte) (int, bool) {
	if len(body) == 0 {
		return 0, false
	}

	var payload struct {
		Code *int `json:"code"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, false
	}
	if payload.Code == nil {
		return 0, false
	}
	return *payload.Code, true
}
