package transport

// BizCode 表示响应体 code 字段的强类型封装，取值对齐 HTTP 状态码，访问日志按它分级。
type BizCode int

const (
	OK           BizCode = 200
	BadRequest   BizCode = 400
	Unauthorized BizCode = 401
	NotFound     BizCode = 404
	SystemError  BizCode = 500
	Unavailable  BizCode = 503
)

// Envelope 是管理接口统一的响应体。
type Envelope struct {
	Code BizCode `json:"code"`
	Msg  string  `json:"msg,omitempty"`
	Data any     `json:"data,omitempty"`
}
