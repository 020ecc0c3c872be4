package match

import (
	"context"
	"sync"
	"time"

	"Outbreak/internal/protocol"
	"Outbreak/internal/sim/engine"
	"Outbreak/modules/kit/errx"
	"Outbreak/modules/kit/logx"
	"Outbreak/modules/kit/tracex"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// player 是对局里的一条连接：一个读协程把指令送进共享队列，一个写协程把发件队列写到连接上。
type player struct {
	slot engine.Slot
	side protocol.Side
	conn protocol.FrameConn

	out     chan []byte
	stall   time.Duration
	limiter *rate.Limiter

	ctx context.Context
	log logx.Logger

	closeOnce sync.Once
}

func newPlayer(ctx context.Context, slot engine.Slot, side protocol.Side, conn protocol.FrameConn, s Settings, l logx.Logger) *player {
	limit, burst := rate.Inf, s.CommandBurst
	if s.CommandsPerSecond > 0 {
		limit = rate.Limit(s.CommandsPerSecond)
	}
	if burst < 1 {
		burst = 1
	}
	return &player{
		slot:    slot,
		side:    side,
		conn:    conn,
		out:     make(chan []byte, max(s.OutboundQueueSize, 1)),
		stall:   s.WriteStallTimeout,
		limiter: rate.NewLimiter(limit, burst),
		ctx:     tracex.WithPlayer(ctx, side.String()),
		log:     l.With(zap.Int("slot", int(slot)), zap.String("remote", conn.RemoteAddr())),
	}
}

// enqueue 把一帧放进发件队列。队列满时最多等 stall，仍然放不进去说明对端读得太慢。
func (p *player) enqueue(frame []byte) error {
	select {
	case p.out <- frame:
		return nil
	default:
	}
	if p.stall <= 0 {
		return errx.ErrSlowConsumer.WithData("player", p.side.String())
	}
	t := time.NewTimer(p.stall)
	defer t.Stop()
	select {
	case p.out <- frame:
		return nil
	case <-t.C:
		return errx.ErrSlowConsumer.WithData("player", p.side.String()).WithData("queued", len(p.out))
	}
}

// writeLoop 顺序写出发件队列，队列关闭并写空后返回。写失败上报 fatal。
func (p *player) writeLoop(done <-chan struct{}, fatal chan<- error) {
	for {
		select {
		case frame, ok := <-p.out:
			if !ok {
				return
			}
			if err := p.conn.WriteFrame(frame); err != nil {
				report(fatal, errx.Wrap(err, errx.ErrConnWrite).WithData("player", p.side.String()))
				return
			}
		case <-done:
			return
		}
	}
}

// readLoop 读取并解码指令。限流和队列满只丢弃当前指令；读失败和解码失败对整局致命。
func (p *player) readLoop(cmds chan<- engine.Command, fatal chan<- error) {
	for {
		payload, err := p.conn.ReadFrame()
		if err != nil {
			report(fatal, errx.Wrap(err, errx.ErrConnRead).WithData("player", p.side.String()))
			return
		}
		cmd, err := protocol.DecodeCommand(payload)
		if err != nil {
			report(fatal, errx.Wrap(err, errx.ErrFrameDecode).WithData("player", p.side.String()))
			return
		}
		if !p.limiter.Allow() {
			p.drop(cmd, errx.ErrRateLimited)
			continue
		}
		select {
		case cmds <- engine.Command{Slot: p.slot, Cmd: cmd}:
		default:
			p.drop(cmd, errx.ErrRateLimited.WithData("reason", "command_queue_full"))
		}
	}
}

func (p *player) drop(cmd protocol.PlayerCommand, err error) {
	logx.ReportErrorWithLoggerContext(p.ctx, p.log, "command_dropped", err,
		zap.String("command", cmd.Kind.String()),
	)
}

// closeOutbox 只能由对局循环调用，之后不能再 enqueue。
func (p *player) closeOutbox() {
	p.closeOnce.Do(func() { close(p.out) })
}

// report 非阻塞地上报第一个致命错误，后来的错误直接丢弃。
func report(fatal chan<- error, err error) {
	select {
	case fatal <- err:
	default:
	}
}

