package tcp

import (
	"bufio"
	"net"
	"sync"
	"time"

	"Outbreak/internal/protocol"
	"Outbreak/modules/kit/errx"
)

// Conn 在 TCP 流上按 [u32 长度][msgpack] 收发帧。
type Conn struct {
	conn         net.Conn
	r            *bufio.Reader
	maxFrame     uint32
	writeTimeout time.Duration
	closeOnce    sync.Once
	closeErr     error
}

type Option func(*Conn)

// WithMaxFrameSize 限制单帧负载大小，超过即断开。
func WithMaxFrameSize(n uint32) Option {
	return func(c *Conn) { c.maxFrame = n }
}

// WithWriteTimeout 给每次写设置截止时间，写不出去的慢连接会报错而不是无限阻塞。
func WithWriteTimeout(d time.Duration) Option {
	return func(c *Conn) { c.writeTimeout = d }
}

func NewConn(conn net.Conn, opts ...Option) *Conn {
	c := &Conn{
		conn:     conn,
		r:        bufio.NewReaderSize(conn, 64<<10),
		maxFrame: protocol.DefaultMaxFrameSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Conn) ReadFrame() ([]byte, error) {
	return protocol.ReadFrame(c.r, c.maxFrame)
}

func (c *Conn) WriteFrame(payload []byte) error {
	if c.writeTimeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			return errx.ErrConnWrite.WithCause(err)
		}
	}
	return protocol.WriteFrame(c.conn, payload)
}

func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}

func (c *Conn) RemoteAddr() string {
	if addr := c.conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}

var _ protocol.FrameConn = (*Conn)(nil)
