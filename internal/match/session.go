package match

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"Outbreak/internal/protocol"
	"Outbreak/internal/sim/engine"
	"Outbreak/internal/sim/worldgen"
	"Outbreak/modules/kit/errx"
	"Outbreak/modules/kit/logx"
	"Outbreak/modules/kit/tracex"

	"go.uber.org/zap"
)

// Result 是一局结束时的摘要。Err 为空表示正常分出胜负。
type Result struct {
	ID         int64
	Sides      [2]protocol.Side
	Winner     protocol.Side
	Ticks      uint64
	Days       uint32
	Population int
	Infected   int
	Started    time.Time
	Ended      time.Time
	Err        error
}

// Session 是一局游戏：两条连接、一个引擎、一个 tick 循环。不同对局之间不共享任何状态。
type Session struct {
	id       int64
	settings Settings
	eng      *engine.Engine
	players  [2]*player
	commands chan engine.Command
	fatal    chan error

	tick atomic.Uint64
	ctx  context.Context
	log  logx.Logger
}

// New 生成世界、随机分配阵营。conns[0] 是先排队的玩家。
func New(id int64, s Settings, conns [2]protocol.FrameConn, l logx.Logger) (*Session, error) {
	if l == nil {
		l = logx.Nop()
	}
	seed := s.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, uint64(id)))
	world, err := worldgen.Generate(s.World, rng)
	if err != nil {
		return nil, err
	}

	sides := [2]protocol.Side{protocol.SideVirus, protocol.SidePresident}
	if rng.IntN(2) == 1 {
		sides[0], sides[1] = sides[1], sides[0]
	}

	ctx := tracex.WithMatchID(context.Background(), id)
	sess := &Session{
		id:       id,
		settings: s,
		eng: engine.New(world, engine.Options{
			Rules:   s.Rules,
			Rand:    rng,
			Sides:   sides,
			Logger:  l,
			Context: ctx,
		}),
		commands: make(chan engine.Command, max(s.CommandQueueSize, 1)),
		fatal:    make(chan error, 4),
		ctx:      ctx,
		log:      l,
	}
	for i, conn := range conns {
		sess.players[i] = newPlayer(ctx, engine.Slot(i), sides[i], conn, s, l)
	}
	sess.tick.Store(sess.eng.Tick())

	l.WithContext(ctx).Info("对局创建",
		zap.Uint64("seed", seed),
		zap.String("player1", conns[0].RemoteAddr()+"/"+sides[0].String()),
		zap.String("player2", conns[1].RemoteAddr()+"/"+sides[1].String()),
		zap.Int("population", len(world.People)),
	)
	return sess, nil
}

func (s *Session) ID() int64 {
	return s.id
}

func (s *Session) Sides() [2]protocol.Side {
	return [2]protocol.Side{s.players[0].side, s.players[1].side}
}

// Tick 可以被其他 goroutine 读取，只反映最近一次完成的 tick。
func (s *Session) Tick() uint64 {
	return s.tick.Load()
}

// Run 跑完整局并关闭两条连接。先下发 SetWorld，之后每 tick 下发增量；
// tick 超时只会推迟下一次 tick，不会跳过也不会重入。
func (s *Session) Run(ctx context.Context) (res Result) {
	res = Result{ID: s.id, Sides: s.Sides(), Started: time.Now()}

	done := make(chan struct{})
	var readers, writers sync.WaitGroup
	for _, p := range s.players {
		writers.Add(1)
		go func() {
			defer writers.Done()
			p.writeLoop(done, s.fatal)
		}()
		readers.Add(1)
		go func() {
			defer readers.Done()
			p.readLoop(s.commands, s.fatal)
		}()
	}

	defer func() {
		if r := recover(); r != nil {
			res.Err = panicError(r)
		}
		close(done)
		for _, p := range s.players {
			_ = p.conn.Close()
		}
		writers.Wait()
		readers.Wait()
		s.finish(&res)
	}()

	if err := s.broadcast([]protocol.StateUpdate{s.eng.Snapshot()}); err != nil {
		res.Err = err
		return res
	}

	interval := s.settings.TickInterval()
	timer := time.NewTimer(interval)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			res.Err = errx.ErrUnavailable.WithCause(ctx.Err())
			return res
		case err := <-s.fatal:
			res.Err = err
			return res
		case <-timer.C:
		}

		began := time.Now()
		over, err := s.step()
		if err != nil {
			res.Err = err
			return res
		}
		if over {
			s.flush(&writers)
			return res
		}

		elapsed := time.Since(began)
		if elapsed > interval {
			s.log.WithContext(s.ctx).Warn("tick 超时，下一 tick 顺延",
				zap.Uint64("tick", s.eng.Tick()),
				zap.Duration("elapsed", elapsed),
				zap.Duration("budget", interval),
			)
		}
		timer.Reset(max(interval-elapsed, 0))
	}
}

// step 跑一个 tick 并把增量放进两人的发件队列，返回是否已分出胜负。
func (s *Session) step() (bool, error) {
	updates := s.eng.Step(s.drain())
	s.tick.Store(s.eng.Tick())
	if err := s.broadcast(updates); err != nil {
		return false, err
	}
	_, over := s.eng.Winner()
	return over, nil
}

// drain 非阻塞地取走当前排队的指令。只取进入时已有的数量，读协程同时写入的留到下一 tick。
func (s *Session) drain() []engine.Command {
	n := len(s.commands)
	if n == 0 {
		return nil
	}
	cmds := make([]engine.Command, 0, n)
	for range n {
		select {
		case c := <-s.commands:
			cmds = append(cmds, c)
		default:
			return cmds
		}
	}
	return cmds
}

// broadcast 两人拿到同一组增量，Side 和 Money 各自不同。
func (s *Session) broadcast(updates []protocol.StateUpdate) error {
	now := uint64(time.Now().Unix())
	for _, p := range s.players {
		frame, err := protocol.EncodePayload(&protocol.NetworkPayload{
			Timestamp: now,
			TickCount: s.eng.Tick(),
			Age:       s.eng.Age(),
			TickRate:  s.eng.TickRate(),
			Side:      p.side,
			Money:     s.eng.Player(p.slot).Money,
			Updates:   updates,
		})
		if err != nil {
			return errx.ErrInternal.WithCause(err)
		}
		if err := p.enqueue(frame); err != nil {
			return err
		}
	}
	return nil
}

// flush 关闭发件队列，等写协程把 Winner 那一帧写完；超时后照常拆除。
func (s *Session) flush(writers *sync.WaitGroup) {
	for _, p := range s.players {
		p.closeOutbox()
	}
	flushed := make(chan struct{})
	go func() {
		writers.Wait()
		close(flushed)
	}()
	timeout := s.settings.FlushTimeout
	if timeout <= 0 {
		timeout = time.Second
	}
	select {
	case <-flushed:
	case <-time.After(timeout):
		s.log.WithContext(s.ctx).Warn("发件队列冲刷超时", zap.Duration("timeout", timeout))
	}
}

func (s *Session) finish(res *Result) {
	res.Ended = time.Now()
	res.Winner, _ = s.eng.Winner()
	res.Ticks = s.eng.Tick() - s.settings.Rules.StartTick
	res.Days = s.eng.World().Time.Days
	res.Population, res.Infected = s.eng.World().Census()

	if res.Err != nil {
		logx.ReportErrorWithLoggerContext(s.ctx, s.log, "match_aborted", res.Err,
			zap.Uint64("ticks", res.Ticks),
		)
		return
	}
	s.log.WithContext(s.ctx).Info("对局拆除",
		zap.String("winner", res.Winner.String()),
		zap.Uint64("ticks", res.Ticks),
		zap.Duration("duration", res.Ended.Sub(res.Started)),
	)
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return errx.Wrap(err, errx.ErrInvariant)
	}
	return errx.ErrInvariant.WithData("panic", fmt.Sprint(r))
}
