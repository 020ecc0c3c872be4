package protocol

import (
	"bytes"
	"errors"
	"net"
	"testing"

	"Outbreak/internal/sim/entity"
	"Outbreak/modules/kit/errx"
)

func TestFrame_经net_Pipe往返(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	cmd := Lockdown(entity.Pos(3, 4))
	payload, err := EncodeCommand(cmd)
	if err != nil {
		t.Fatalf("编码失败: %v", err)
	}
	go func() {
		_ = WriteFrame(client, payload)
	}()

	got, err := ReadFrame(server, DefaultMaxFrameSize)
	if err != nil {
		t.Fatalf("期望读帧成功，err=%v", err)
	}
	decoded, err := DecodeCommand(got)
	if err != nil {
		t.Fatalf("期望解码成功，err=%v", err)
	}
	if decoded != cmd {
		t.Fatalf("期望 %+v，got=%+v", cmd, decoded)
	}
}

func TestReadFrame_超长帧被拒绝(t *testing.T) {
	buf := AppendFrame(nil, make([]byte, 64))
	_, err := ReadFrame(bytes.NewReader(buf), 32)
	if !errors.Is(err, errx.ErrFrameTooLarge) {
		t.Fatalf("期望 FRAME_TOO_LARGE，got=%v", err)
	}
}

func TestReadFrame_半帧是连接错误(t *testing.T) {
	buf := AppendFrame(nil, []byte("hello"))
	_, err := ReadFrame(bytes.NewReader(buf[:6]), 0)
	if !errors.Is(err, errx.ErrConnRead) {
		t.Fatalf("期望 CONN_READ，got=%v", err)
	}
}

func TestSplitFrame_长度不符(t *testing.T) {
	msg := AppendFrame(nil, []byte("abc"))
	if body, err := SplitFrame(msg, 0); err != nil || string(body) != "abc" {
		t.Fatalf("期望拆出 abc，got=%q err=%v", body, err)
	}
	if _, err := SplitFrame(append(msg, 'x'), 0); !errors.Is(err, errx.ErrFrameDecode) {
		t.Fatalf("期望多余字节被判为 FRAME_DECODE，got=%v", err)
	}
}

func TestDecodeCommand_未知指令(t *testing.T) {
	b, _ := EncodeCommand(PlayerCommand{Kind: 99})
	if _, err := DecodeCommand(b); !errors.Is(err, errx.ErrFrameDecode) {
		t.Fatalf("期望未知指令解码失败，got=%v", err)
	}
	if _, err := DecodeCommand([]byte{0xc1}); !errors.Is(err, errx.ErrFrameDecode) {
		t.Fatalf("期望非法 msgpack 解码失败，got=%v", err)
	}
}

func smallWorld() *entity.World {
	m := entity.NewMap(4, 4, entity.EmptyTile())
	m.Set(entity.Pos(0, 0), entity.DoorTile())
	places := []entity.Place{{Position: entity.Pos(0, 0), Location: entity.Location{Kind: entity.LocationHome}}}
	people := []*entity.Person{
		{ID: 0, Alive: true, Home: entity.Pos(0, 0), Position: entity.Pos(0, 0)},
		{ID: 1, Alive: true, Home: entity.Pos(0, 0), Position: entity.Pos(1, 0)},
	}
	return entity.NewWorld(m, places, people)
}

func TestPayload_SetWorld往返后可继续应用增量(t *testing.T) {
	server := smallWorld()
	p := &NetworkPayload{TickCount: 121, TickRate: 10, Side: SideVirus, Money: 5, Updates: []StateUpdate{SetWorld(server)}}
	b, err := EncodePayload(p)
	if err != nil {
		t.Fatalf("编码失败: %v", err)
	}
	decoded, err := DecodePayload(b)
	if err != nil {
		t.Fatalf("解码失败: %v", err)
	}

	var m Mirror
	if err := m.ApplyPayload(decoded); err != nil {
		t.Fatalf("期望应用 SetWorld 成功，err=%v", err)
	}
	if _, ok := m.World.Location(entity.Pos(0, 0)); !ok {
		t.Fatalf("期望解码后位置索引已重建")
	}

	var h entity.Habits
	h.AddAcquaintance(0)
	deltas := &NetworkPayload{TickCount: 122, Updates: []StateUpdate{
		PositionUpdate(1, entity.Pos(2, 0)),
		InfectedUpdate(0, true),
		HabitsUpdate(1, h),
		TileUpdate(entity.Pos(0, 0), entity.LockedDoorTile(1440)),
		WinnerUpdate(SidePresident),
	}}
	b, _ = EncodePayload(deltas)
	decoded, _ = DecodePayload(b)
	if err := m.ApplyPayload(decoded); err != nil {
		t.Fatalf("期望增量应用成功，err=%v", err)
	}

	if got := m.World.People[1].Position; got != entity.Pos(2, 0) {
		t.Fatalf("期望位置更新，got=%v", got)
	}
	if !m.World.People[0].Infected {
		t.Fatalf("期望感染状态更新")
	}
	if !m.World.People[1].Habits.Knows(0) {
		t.Fatalf("期望 habits 更新")
	}
	if tile, _ := m.World.Map.At(entity.Pos(0, 0)); !tile.Locked() {
		t.Fatalf("期望门被封锁，got=%v", tile)
	}
	if m.Winner != SidePresident || m.Tick != 122 {
		t.Fatalf("期望胜者和 tick 同步，got=%v %d", m.Winner, m.Tick)
	}
}

func TestApply_增量早于SetWorld(t *testing.T) {
	if _, _, err := Apply(nil, []StateUpdate{InfectedUpdate(0, true)}); err == nil {
		t.Fatalf("期望没有世界时应用增量报错")
	}
	if _, _, err := Apply(smallWorld(), []StateUpdate{InfectedUpdate(7, true)}); err == nil {
		t.Fatalf("期望未知居民报错")
	}
}
