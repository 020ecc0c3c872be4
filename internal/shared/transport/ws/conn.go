package ws

import (
	"errors"
	"sync"
	"time"

	"Outbreak/internal/protocol"
	"Outbreak/modules/kit/errx"

	"github.com/gorilla/websocket"
)

// Conn 把一条 WebSocket 连接适配成 FrameConn：每条二进制消息承载一个完整的 [u32 长度][msgpack] 帧。
type Conn struct {
	conn         *websocket.Conn
	maxFrame     uint32
	writeTimeout time.Duration
	closeOnce    sync.Once
	closeErr     error
}

func NewConn(conn *websocket.Conn, maxFrame uint32, writeTimeout time.Duration) *Conn {
	if maxFrame == 0 {
		maxFrame = protocol.DefaultMaxFrameSize
	}
	conn.SetReadLimit(int64(maxFrame) + 4)
	return &Conn{conn: conn, maxFrame: maxFrame, writeTimeout: writeTimeout}
}

func (c *Conn) ReadFrame() ([]byte, error) {
	for {
		mt, data, err := c.conn.ReadMessage()
		if err != nil {
			if errors.Is(err, websocket.ErrReadLimit) {
				return nil, errx.ErrFrameTooLarge.WithCause(err)
			}
			return nil, errx.ErrConnRead.WithCause(err)
		}
		// 文本消息不属于协议，忽略
		if mt != websocket.BinaryMessage {
			continue
		}
		return protocol.SplitFrame(data, c.maxFrame)
	}
}

func (c *Conn) WriteFrame(payload []byte) error {
	if c.writeTimeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			return errx.ErrConnWrite.WithCause(err)
		}
	}
	msg := protocol.AppendFrame(make([]byte, 0, 4+len(payload)), payload)
	if err := c.conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
		return errx.ErrConnWrite.WithCause(err)
	}
	return nil
}

func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		deadline := time.Now().Add(time.Second)
		_ = c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}

func (c *Conn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

var _ protocol.FrameConn = (*Conn)(nil)
