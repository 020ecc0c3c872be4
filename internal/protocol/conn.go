package protocol

// FrameConn 是对局看到的连接：TCP 和 WebSocket 都实现它。
// ReadFrame 只由读协程调用，WriteFrame 只由写协程调用。
type FrameConn interface {
	ReadFrame() ([]byte, error)
	WriteFrame(payload []byte) error
	Close() error
	RemoteAddr() string
}
