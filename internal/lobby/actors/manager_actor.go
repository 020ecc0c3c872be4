package actors

import (
	"context"
	"sync"
	"time"

	"Outbreak/internal/history/entity"
	"Outbreak/internal/match"
	"Outbreak/internal/protocol"
	"Outbreak/internal/shared/actor/messages"
	"Outbreak/modules/kit/errx"
	"Outbreak/modules/kit/logx"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

// SessionFactory 用两条连接开一局。id 由大厅分配。
type SessionFactory func(id int64, conns [2]protocol.FrameConn) (*match.Session, error)

// Recorder 接收对局结束记录，实现需并发安全。
type Recorder interface {
	Record(r entity.MatchRecord) error
}

type IDGenerator interface {
	NextID() int64
}

type running struct {
	sess    *match.Session
	cancel  context.CancelFunc
	remotes [2]string
	started time.Time
}

// ManagerActor 是大厅：按到达顺序两两配对，登记进行中的对局。
// 所有字段只在 Receive 里访问；对局本身跑在各自的 goroutine 上。
type ManagerActor struct {
	newSession SessionFactory
	ids        IDGenerator
	recorder   Recorder
	log        logx.Logger

	waiting []protocol.FrameConn
	matches map[int64]*running

	ctx    context.Context
	cancel context.CancelFunc
	wg     *sync.WaitGroup
}

func NewManagerActor(newSession SessionFactory, ids IDGenerator, recorder Recorder, wg *sync.WaitGroup, l logx.Logger) *ManagerActor {
	if l == nil {
		l = logx.Nop()
	}
	return &ManagerActor{
		newSession: newSession,
		ids:        ids,
		recorder:   recorder,
		log:        l,
		matches:    make(map[int64]*running),
		wg:         wg,
	}
}

func (m *ManagerActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		m.ctx, m.cancel = context.WithCancel(context.Background())
	case *actor.Stopping:
		m.shutdown()
	case *messages.Join:
		if msg == nil || msg.Conn == nil {
			return
		}
		m.waiting = append(m.waiting, msg.Conn)
		m.log.Info("玩家进入排队", zap.String("remote", msg.Conn.RemoteAddr()), zap.Int("waiting", len(m.waiting)))
		m.pair(ctx)
	case *messages.MatchEnded:
		if msg != nil {
			delete(m.matches, msg.ID)
		}
	case *messages.ListMatches:
		ctx.Respond(m.list())
	}
}

// pair 从队头开始两两开局。
func (m *ManagerActor) pair(ctx actor.Context) {
	for len(m.waiting) >= 2 {
		conns := [2]protocol.FrameConn{m.waiting[0], m.waiting[1]}
		m.waiting = m.waiting[2:]
		m.start(ctx, conns)
	}
}

func (m *ManagerActor) start(ctx actor.Context, conns [2]protocol.FrameConn) {
	id := m.ids.NextID()
	sess, err := m.newSession(id, conns)
	if err != nil {
		logx.ReportErrorWithLoggerContext(m.ctx, m.log, "match_create", errx.Wrap(err, errx.ErrInternal),
			zap.Int64("match_id", id))
		for _, c := range conns {
			_ = c.Close()
		}
		return
	}

	runCtx, cancel := context.WithCancel(m.ctx)
	m.matches[id] = &running{
		sess:    sess,
		cancel:  cancel,
		remotes: [2]string{conns[0].RemoteAddr(), conns[1].RemoteAddr()},
		started: time.Now(),
	}

	// actor.Context 不能跨 goroutine 使用，对局协程只拿 root 和 pid
	root, self := ctx.ActorSystem().Root, ctx.Self()
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer cancel()
		res := sess.Run(runCtx)
		if m.recorder != nil {
			if err := m.recorder.Record(ToRecord(res)); err != nil {
				m.log.Warn("对局记录丢弃", zap.Int64("match_id", res.ID), zap.Error(err))
			}
		}
		root.Send(self, &messages.MatchEnded{ID: res.ID})
	}()
}

func (m *ManagerActor) list() *messages.MatchList {
	out := &messages.MatchList{Waiting: len(m.waiting), Matches: make([]messages.MatchInfo, 0, len(m.matches))}
	for id, r := range m.matches {
		sides := r.sess.Sides()
		out.Matches = append(out.Matches, messages.MatchInfo{
			ID:      id,
			Sides:   [2]string{sides[0].String(), sides[1].String()},
			Remotes: r.remotes,
			Tick:    r.sess.Tick(),
			Started: r.started,
		})
	}
	sortMatches(out.Matches)
	return out
}

// shutdown 取消全部对局并断开排队中的连接。
func (m *ManagerActor) shutdown() {
	if m.cancel != nil {
		m.cancel()
	}
	for _, c := range m.waiting {
		_ = c.Close()
	}
	m.waiting = nil
	m.log.Info("大厅停止，结束进行中的对局", zap.Int("matches", len(m.matches)))
}
