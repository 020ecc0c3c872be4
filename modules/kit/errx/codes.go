package errx

// 跨包共享的错误码。指令校验属于业务类，传输与不变量属于系统类。

const (
	CodeInternal    Code = "INTERNAL_ERROR"
	CodeUnavailable Code = "SERVICE_UNAVAILABLE"
	CodeTimeout     Code = "TIMEOUT"
	CodeRateLimited Code = "RATE_LIMITED"

	// 指令校验
	CodeWrongSide         Code = "COMMAND_WRONG_SIDE"
	CodeInsufficientFunds Code = "COMMAND_INSUFFICIENT_FUNDS"
	CodePrecondition      Code = "COMMAND_PRECONDITION"
	CodeUnknownTarget     Code = "COMMAND_UNKNOWN_TARGET"
	CodeUnknownCommand    Code = "COMMAND_UNKNOWN"

	// 传输
	CodeFrameTooLarge Code = "FRAME_TOO_LARGE"
	CodeFrameDecode   Code = "FRAME_DECODE"
	CodeConnRead      Code = "CONN_READ"
	CodeConnWrite     Code = "CONN_WRITE"
	CodeSlowConsumer  Code = "SLOW_CONSUMER"

	// 人口索引查不到等“不可能发生”的情况
	CodeInvariant Code = "INVARIANT_VIOLATION"
)

var (
	ErrInternal    = NewSys(CodeInternal, "服务器内部错误")
	ErrUnavailable = NewSys(CodeUnavailable, "服务不可用")
	ErrTimeout     = NewSys(CodeTimeout, "请求超时")
	ErrRateLimited = NewBiz(CodeRateLimited, "指令过于频繁")

	ErrWrongSide         = NewBiz(CodeWrongSide, "指令不属于该阵营")
	ErrInsufficientFunds = NewBiz(CodeInsufficientFunds, "金钱不足")
	ErrPrecondition      = NewBiz(CodePrecondition, "目标格子不满足前置条件")
	ErrUnknownTarget     = NewBiz(CodeUnknownTarget, "目标不存在或已死亡")
	ErrUnknownCommand    = NewBiz(CodeUnknownCommand, "未知指令")

	ErrFrameTooLarge = NewSys(CodeFrameTooLarge, "帧长度超过上限")
	ErrFrameDecode   = NewSys(CodeFrameDecode, "帧解码失败")
	ErrConnRead      = NewSys(CodeConnRead, "连接读取失败")
	ErrConnWrite     = NewSys(CodeConnWrite, "连接写入失败")
	ErrSlowConsumer  = NewSys(CodeSlowConsumer, "客户端消费过慢")

	ErrInvariant = NewSys(CodeInvariant, "内部不变量被破坏")
)
