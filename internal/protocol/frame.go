package protocol

import (
	"encoding/binary"
	"io"

	"Outbreak/modules/kit/errx"
)

// DefaultMaxFrameSize 是单帧负载的默认上限，SetWorld 是最大的一帧。
const DefaultMaxFrameSize uint32 = 16 << 20

const headerSize = 4

// AppendFrame 在 dst 后追加 [u32 大端长度][payload]。
func AppendFrame(dst, payload []byte) []byte {
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(payload)))
	return append(dst, payload...)
}

// WriteFrame 一次 Write 写出整帧，避免头和体被其他写入穿插。
func WriteFrame(w io.Writer, payload []byte) error {
	buf := AppendFrame(make([]byte, 0, headerSize+len(payload)), payload)
	if _, err := w.Write(buf); err != nil {
		return errx.ErrConnWrite.WithCause(err)
	}
	return nil
}

// ReadFrame 读出一帧负载；长度超过 maxSize 时不读负载直接报错，连接应随之关闭。
func ReadFrame(r io.Reader, maxSize uint32) ([]byte, error) {
	var header [headerSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, errx.ErrConnRead.WithCause(err)
	}
	n := binary.BigEndian.Uint32(header[:])
	if maxSize > 0 && n > maxSize {
		return nil, errx.ErrFrameTooLarge.WithData("size", n).WithData("max", maxSize)
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, errx.ErrConnRead.WithCause(err)
	}
	return payload, nil
}

// SplitFrame 解析一条已经完整收到的消息（例如 WebSocket 二进制消息）。
func SplitFrame(msg []byte, maxSize uint32) ([]byte, error) {
	if len(msg) < headerSize {
		return nil, errx.ErrFrameDecode.WithData("size", len(msg))
	}
	n := binary.BigEndian.Uint32(msg[:headerSize])
	if maxSize > 0 && n > maxSize {
		return nil, errx.ErrFrameTooLarge.WithData("size", n).WithData("max", maxSize)
	}
	if int(n) != len(msg)-headerSize {
		return nil, errx.ErrFrameDecode.WithData("declared", n).WithData("actual", len(msg)-headerSize)
	}
	return msg[headerSize:], nil
}
