package protocol

import (
	"github.com/vmihailenco/msgpack/v5"

	"Outbreak/modules/kit/errx"
)

func EncodeCommand(c PlayerCommand) ([]byte, error) {
	b, err := msgpack.Marshal(&c)
	if err != nil {
		return nil, errx.ErrInternal.WithCause(err)
	}
	return b, nil
}

// DecodeCommand 解码客户端指令；未知指令也算解码失败。
func DecodeCommand(b []byte) (PlayerCommand, error) {
	var c PlayerCommand
	if err := msgpack.Unmarshal(b, &c); err != nil {
		return PlayerCommand{}, errx.ErrFrameDecode.WithCause(err)
	}
	if !c.Kind.Valid() {
		return PlayerCommand{}, errx.ErrFrameDecode.WithData("kind", uint8(c.Kind))
	}
	return c, nil
}

func EncodePayload(p *NetworkPayload) ([]byte, error) {
	b, err := msgpack.Marshal(p)
	if err != nil {
		return nil, errx.ErrInternal.WithCause(err)
	}
	return b, nil
}

// DecodePayload 解码服务端下发的一帧，并为其中的 SetWorld 重建位置索引。
func DecodePayload(b []byte) (*NetworkPayload, error) {
	var p NetworkPayload
	if err := msgpack.Unmarshal(b, &p); err != nil {
		return nil, errx.ErrFrameDecode.WithCause(err)
	}
	for _, u := range p.Updates {
		if u.Kind == UpdateSetWorld && u.World != nil {
			u.World.Reindex()
		}
	}
	return &p, nil
}
