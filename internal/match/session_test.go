package match

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"Outbreak/internal/protocol"
	"Outbreak/internal/shared/serverconfig"
	"Outbreak/internal/sim/entity"
	"Outbreak/internal/sim/worldgen"
	"Outbreak/modules/kit/errx"
	"Outbreak/modules/kit/logx"
)

// fakeConn 是内存里的 FrameConn：in 是客户端发来的帧，out 是服务端写出的帧。
type fakeConn struct {
	in       chan []byte
	out      chan []byte
	closed   chan struct{}
	once     sync.Once
	writeErr error
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		in:     make(chan []byte, 16),
		out:    make(chan []byte, 4096),
		closed: make(chan struct{}),
	}
}

func (c *fakeConn) ReadFrame() ([]byte, error) {
	select {
	case b := <-c.in:
		return b, nil
	case <-c.closed:
		return nil, errx.ErrConnRead.WithCause(io.EOF)
	}
}

func (c *fakeConn) WriteFrame(b []byte) error {
	if c.writeErr != nil {
		return c.writeErr
	}
	select {
	case c.out <- b:
		return nil
	case <-c.closed:
		return errx.ErrConnWrite.WithCause(io.ErrClosedPipe)
	}
}

func (c *fakeConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) RemoteAddr() string { return "fake" }

func (c *fakeConn) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

func (c *fakeConn) send(t *testing.T, cmd protocol.PlayerCommand) {
	t.Helper()
	b, err := protocol.EncodeCommand(cmd)
	if err != nil {
		t.Fatalf("EncodeCommand err=%v", err)
	}
	c.in <- b
}

// next 取下一帧，未写出的帧在连接关闭后仍可读。
func (c *fakeConn) next(t *testing.T) *protocol.NetworkPayload {
	t.Helper()
	select {
	case b := <-c.out:
		p, err := protocol.DecodePayload(b)
		if err != nil {
			t.Fatalf("DecodePayload err=%v", err)
		}
		return p
	case <-time.After(3 * time.Second):
		t.Fatalf("期望 3 秒内收到一帧")
		return nil
	}
}

func testSettings() Settings {
	s := DefaultSettings()
	s.Seed = 7
	s.World = worldgen.Settings{
		WidthChunks:  4,
		HeightChunks: 4,
		Population:   8,
		Infected:     2,
		MaxTries:     10,
		Structures:   worldgen.DefaultStructures(),
	}
	s.Rules.TickRate = 100
	s.FlushTimeout = time.Second
	return s
}

type running struct {
	sess   *Session
	conns  [2]*fakeConn
	cancel context.CancelFunc
	result chan Result
}

func start(t *testing.T, s Settings) *running {
	t.Helper()
	a, b := newFakeConn(), newFakeConn()
	sess, err := New(42, s, [2]protocol.FrameConn{a, b}, logx.Nop())
	if err != nil {
		t.Fatalf("New err=%v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	r := &running{sess: sess, conns: [2]*fakeConn{a, b}, cancel: cancel, result: make(chan Result, 1)}
	go func() { r.result <- sess.Run(ctx) }()
	t.Cleanup(cancel)
	return r
}

func (r *running) wait(t *testing.T) Result {
	t.Helper()
	select {
	case res := <-r.result:
		return res
	case <-time.After(5 * time.Second):
		t.Fatalf("期望对局在 5 秒内结束")
		return Result{}
	}
}

func TestSession_先下发SetWorld再下发增量(t *testing.T) {
	r := start(t, testSettings())

	first := [2]*protocol.NetworkPayload{r.conns[0].next(t), r.conns[1].next(t)}
	for i, p := range first {
		if len(p.Updates) != 1 || p.Updates[0].Kind != protocol.UpdateSetWorld {
			t.Fatalf("期望玩家 %d 的第一帧只有 SetWorld, got=%+v", i, p.Updates)
		}
		if p.TickCount != r.sess.settings.Rules.StartTick {
			t.Fatalf("期望第一帧 tick=%d, got=%d", r.sess.settings.Rules.StartTick, p.TickCount)
		}
	}
	if first[0].Side == first[1].Side || first[0].Side == protocol.SideNone {
		t.Fatalf("期望双方阵营相反, got=%v/%v", first[0].Side, first[1].Side)
	}
	if sides := r.sess.Sides(); sides[0] != first[0].Side || sides[1] != first[1].Side {
		t.Fatalf("期望 Sides 与下发一致, got=%v", sides)
	}

	for i := 0; i < 3; i++ {
		for _, c := range r.conns {
			p := c.next(t)
			for _, u := range p.Updates {
				if u.Kind == protocol.UpdateSetWorld {
					t.Fatalf("期望 SetWorld 只下发一次")
				}
			}
			if want := r.sess.settings.Rules.StartTick + uint64(i) + 1; p.TickCount != want {
				t.Fatalf("期望 tick=%d, got=%d", want, p.TickCount)
			}
		}
	}

	r.cancel()
	res := r.wait(t)
	if !errors.Is(res.Err, errx.ErrUnavailable) {
		t.Fatalf("期望取消后以 ErrUnavailable 结束, got=%v", res.Err)
	}
	if !r.conns[0].isClosed() || !r.conns[1].isClosed() {
		t.Fatalf("期望对局结束后两条连接都被关闭")
	}
}

func TestSession_时间戳为unix秒(t *testing.T) {
	before := uint64(time.Now().Unix())
	r := start(t, testSettings())
	p := r.conns[0].next(t)
	after := uint64(time.Now().Unix())
	if p.Timestamp < before || p.Timestamp > after {
		t.Fatalf("期望时间戳在 [%d, %d] 秒之间, got=%d", before, after, p.Timestamp)
	}
	r.cancel()
	r.wait(t)
}

func TestSession_指令生效并同步到双方(t *testing.T) {
	s := testSettings()
	s.Rules.PassiveIncome = 100
	r := start(t, s)

	var mirrors [2]protocol.Mirror
	for i, c := range r.conns {
		if err := mirrors[i].ApplyPayload(c.next(t)); err != nil {
			t.Fatalf("ApplyPayload err=%v", err)
		}
	}
	target := entity.Pos(0, 0)
	r.conns[0].send(t, protocol.RoadBlock(target))

	for i, c := range r.conns {
		deadline := time.Now().Add(3 * time.Second)
		for {
			if err := mirrors[i].ApplyPayload(c.next(t)); err != nil {
				t.Fatalf("ApplyPayload err=%v", err)
			}
			if tile, _ := mirrors[i].World.Map.At(target); tile.Kind == entity.TileRoadBlock {
				break
			}
			if time.Now().After(deadline) {
				t.Fatalf("期望玩家 %d 看到路障", i)
			}
		}
	}
	if got, want := mirrors[0].Money, uint32(100)*uint32(mirrors[0].Tick-s.Rules.StartTick)-80; got != want {
		t.Fatalf("期望下单方扣除 80, money=%d want=%d", got, want)
	}
}

func TestSession_胜负宣布后拆除(t *testing.T) {
	s := testSettings()
	s.Rules.StartTick = 24*60 - 1
	s.Rules.WinAfterDays = 0
	r := start(t, s)

	res := r.wait(t)
	if res.Err != nil {
		t.Fatalf("期望正常结束, err=%v", res.Err)
	}
	if res.Winner == protocol.SideNone || res.Ticks != 1 {
		t.Fatalf("期望第一 tick 分出胜负, got winner=%v ticks=%d", res.Winner, res.Ticks)
	}

	for i, c := range r.conns {
		_ = c.next(t)
		last := c.next(t)
		n := len(last.Updates)
		if n == 0 || last.Updates[n-1].Kind != protocol.UpdateWinner || last.Updates[n-1].Winner != res.Winner {
			t.Fatalf("期望玩家 %d 收到 Winner, got=%+v", i, last.Updates)
		}
		if !c.isClosed() {
			t.Fatalf("期望玩家 %d 的连接已关闭", i)
		}
	}
}

func TestSession_写失败中止整局(t *testing.T) {
	a, b := newFakeConn(), newFakeConn()
	b.writeErr = errx.ErrConnWrite.WithCause(io.ErrClosedPipe)
	sess, err := New(1, testSettings(), [2]protocol.FrameConn{a, b}, logx.Nop())
	if err != nil {
		t.Fatalf("New err=%v", err)
	}

	res := sess.Run(context.Background())
	if !errors.Is(res.Err, errx.ErrConnWrite) {
		t.Fatalf("期望 ErrConnWrite, got=%v", res.Err)
	}
	if !a.isClosed() || !b.isClosed() {
		t.Fatalf("期望一方写失败后双方连接都被关闭")
	}
}

func TestSession_非法指令帧中止整局(t *testing.T) {
	r := start(t, testSettings())
	r.conns[1].in <- []byte{0xc1}

	res := r.wait(t)
	if !errors.Is(res.Err, errx.ErrFrameDecode) {
		t.Fatalf("期望 ErrFrameDecode, got=%v", res.Err)
	}
}

func TestPlayer_发件队列满判定慢消费者(t *testing.T) {
	s := testSettings()
	s.OutboundQueueSize = 1
	s.WriteStallTimeout = 10 * time.Millisecond
	p := newPlayer(context.Background(), 0, protocol.SideVirus, newFakeConn(), s, logx.Nop())

	if err := p.enqueue([]byte{1}); err != nil {
		t.Fatalf("期望第一帧入队成功, err=%v", err)
	}
	if err := p.enqueue([]byte{2}); !errors.Is(err, errx.ErrSlowConsumer) {
		t.Fatalf("期望 ErrSlowConsumer, got=%v", err)
	}
}

func TestSettingsFromConfig_价格覆盖(t *testing.T) {
	conf := serverconfig.Config{}
	conf.Game.TickRate = 20
	conf.Economy.PassiveIncome = 3
	conf.Economy.Prices = map[string]uint32{"road_block": 5, "nope": 1}

	s := SettingsFromConfig(conf)
	if s.Rules.TickRate != 20 || s.Rules.PassiveIncome != 3 {
		t.Fatalf("期望 tick_rate/passive_income 生效, got=%+v", s.Rules)
	}
	if got := s.Rules.Price(protocol.CmdRoadBlock); got != 5 {
		t.Fatalf("期望路障价格被覆盖为 5, got=%d", got)
	}
	if got := s.Rules.Price(protocol.CmdLockdown); got != 100 {
		t.Fatalf("期望未覆盖的价格保持 100, got=%d", got)
	}
	if s.TickInterval() != 50*time.Millisecond {
		t.Fatalf("期望 tick 间隔 50ms, got=%v", s.TickInterval())
	}
}
