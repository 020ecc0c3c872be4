package engine

import (
	"context"
	"math/rand/v2"

	"Outbreak/internal/protocol"
	"Outbreak/internal/sim/entity"
	"Outbreak/internal/sim/pathing"
	"Outbreak/modules/kit/errx"
	"Outbreak/modules/kit/logx"

	"go.uber.org/zap"
)

// Slot 是玩家在对局里的座位号。
type Slot uint8

const (
	Player1 Slot = iota
	Player2
)

type Player struct {
	Side  protocol.Side
	Money uint32
}

// Command 是带上来源座位的玩家指令。阵营以服务端记录为准，客户端无法伪造。
type Command struct {
	Slot Slot
	Cmd  protocol.PlayerCommand
}

type Options struct {
	Rules   Rules
	Rand    *rand.Rand
	Sides   [2]protocol.Side
	Logger  logx.Logger
	Context context.Context
}

// Engine 是一局游戏的权威状态，只能由对局循环所在的 goroutine 访问。
type Engine struct {
	rules   Rules
	rng     *rand.Rand
	world   *entity.World
	actions map[entity.PersonID]*entity.Action
	paths   *pathing.Cache

	testCenters    map[entity.Position]struct{}
	vaccineCenters map[entity.Position]struct{}
	timed          map[entity.Position]struct{}

	players [2]Player
	tick    uint64
	winner  protocol.Side

	updates []protocol.StateUpdate
	log     logx.Logger
	ctx     context.Context
}

// New 接管 world：之后对 world 的一切修改都必须经过 Engine。
func New(world *entity.World, opts Options) *Engine {
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.Logger == nil {
		opts.Logger = logx.Nop()
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Rules.TickRate == 0 {
		opts.Rules.TickRate = 1
	}
	e := &Engine{
		rules:          opts.Rules,
		rng:            opts.Rand,
		world:          world,
		actions:        make(map[entity.PersonID]*entity.Action, len(world.People)),
		paths:          pathing.NewCache(),
		testCenters:    make(map[entity.Position]struct{}),
		vaccineCenters: make(map[entity.Position]struct{}),
		timed:          make(map[entity.Position]struct{}),
		tick:           opts.Rules.StartTick,
		log:            opts.Logger,
		ctx:            opts.Context,
	}
	for i, side := range opts.Sides {
		e.players[i] = Player{Side: side}
	}
	for _, p := range world.People {
		a := entity.AtHome()
		e.actions[p.ID] = &a
	}
	world.Map.Each(func(pos entity.Position, t entity.Tile) {
		e.register(pos, t)
	})
	world.Time = entity.TimeFromTicks(e.tick)
	return e
}

// Step 推进一个 tick 并返回本 tick 产生的全部增量。分出胜负之后不再推进。
//
// 顺序：时间 -> 被动收入 -> 指令 -> 居民行为与移动 -> 位置索引 -> 检测/疫苗点 ->
// 宣传点 -> 格子计时 -> 接触与感染 -> 病程结束 -> 胜负判定。
func (e *Engine) Step(cmds []Command) []protocol.StateUpdate {
	if e.winner != protocol.SideNone {
		return nil
	}
	e.updates = nil
	e.tick++
	e.world.Time = entity.TimeFromTicks(e.tick)
	for i := range e.players {
		e.players[i].Money += e.rules.PassiveIncome
	}

	for _, c := range cmds {
		if err := e.Apply(c); err != nil {
			e.reject(c, err)
		}
	}

	for _, p := range e.world.People {
		if p.Alive {
			e.advance(p, e.action(p.ID))
		}
	}

	idx := e.indexPositions()
	e.visitCenters(idx)
	e.applyCampaigns(idx)
	e.tickTimers()
	e.spread(idx)
	e.progressInfections()
	e.checkOutcome()

	out := e.updates
	e.updates = nil
	return out
}

// Snapshot 返回开局下发的 SetWorld。
func (e *Engine) Snapshot() protocol.StateUpdate {
	return protocol.SetWorld(e.world)
}

func (e *Engine) Tick() uint64 {
	return e.tick
}

// Age 是对局经过的真实秒数（按 tick 折算）。
func (e *Engine) Age() uint64 {
	return (e.tick - e.rules.StartTick) / uint64(e.rules.TickRate)
}

func (e *Engine) TickRate() uint8 {
	return e.rules.TickRate
}

func (e *Engine) World() *entity.World {
	return e.world
}

func (e *Engine) Player(s Slot) Player {
	return e.players[s]
}

func (e *Engine) Winner() (protocol.Side, bool) {
	return e.winner, e.winner != protocol.SideNone
}

// Action 返回某个居民当前行为的副本。
func (e *Engine) Action(id entity.PersonID) (entity.Action, bool) {
	a, ok := e.actions[id]
	if !ok {
		return entity.Action{}, false
	}
	return *a, true
}

func (e *Engine) PathCache() *pathing.Cache {
	return e.paths
}

func (e *Engine) action(id entity.PersonID) *entity.Action {
	a, ok := e.actions[id]
	if !ok {
		panic(errx.ErrInvariant.WithData("person_id", id).WithData("missing", "action"))
	}
	return a
}

func (e *Engine) emit(u protocol.StateUpdate) {
	e.updates = append(e.updates, u)
}

func (e *Engine) reject(c Command, err error) {
	logx.ReportErrorWithLoggerContext(e.ctx, e.log, "command_rejected", err,
		zap.String("command", c.Cmd.Kind.String()),
		zap.Uint8("slot", uint8(c.Slot)),
		zap.Uint64("tick", e.tick),
	)
}

func (e *Engine) checkOutcome() {
	if e.world.Time.Days <= e.rules.WinAfterDays {
		return
	}
	total, infected := e.world.Census()
	winner := protocol.SideVirus
	if infected == 0 || float64(total)/float64(infected) >= e.rules.WinRatio {
		winner = protocol.SidePresident
	}
	e.winner = winner
	e.emit(protocol.WinnerUpdate(winner))
	e.log.WithContext(e.ctx).Info("对局结束",
		zap.String("winner", winner.String()),
		zap.Int("population", total),
		zap.Int("infected", infected),
		zap.Uint64("tick", e.tick),
	)
}
