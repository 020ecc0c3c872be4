package main

import (
	"flag"
	"math/rand/v2"
	"net"
	"os"
	"time"

	"Outbreak/internal/protocol"
	"Outbreak/internal/shared/logs"
	"Outbreak/internal/shared/serverconfig"
	"Outbreak/internal/shared/transport/tcp"
	"Outbreak/internal/sim/engine"
	"Outbreak/internal/sim/entity"

	"go.uber.org/zap"
)

// bot 连上服务端，维护一份世界镜像，攒够钱就随机下一条本阵营能下的指令。
func main() {
	addr := flag.String("addr", "127.0.0.1:3000", "server tcp address")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "rng seed")
	every := flag.Int("every", 50, "try a command every N ticks")
	flag.Parse()

	if err := logs.Init("bot", serverconfig.LogConfig{Level: "info"}); err != nil {
		panic(err)
	}
	defer logs.Sync()

	raw, err := net.Dial("tcp", *addr)
	if err != nil {
		logs.Fatal("dial failed", zap.String("addr", *addr), zap.Error(err))
	}
	conn := tcp.NewConn(raw, tcp.WithWriteTimeout(5*time.Second))
	defer conn.Close()
	logs.Info("已连接，等待对手", zap.String("addr", *addr))

	b := &bot{
		rng:   rand.New(rand.NewPCG(*seed, 0)),
		rules: engine.DefaultRules(),
		every: uint64(max(*every, 1)),
	}
	if err := b.run(conn); err != nil {
		logs.Error("机器人退出", zap.Error(err))
		os.Exit(1)
	}
}

type bot struct {
	rng    *rand.Rand
	rules  engine.Rules
	every  uint64
	mirror protocol.Mirror
}

func (b *bot) run(conn protocol.FrameConn) error {
	for {
		frame, err := conn.ReadFrame()
		if err != nil {
			return err
		}
		payload, err := protocol.DecodePayload(frame)
		if err != nil {
			return err
		}
		if err := b.mirror.ApplyPayload(payload); err != nil {
			return err
		}
		if b.mirror.Winner != protocol.SideNone {
			logs.Info("对局结束",
				zap.String("side", b.mirror.Side.String()),
				zap.String("winner", b.mirror.Winner.String()),
				zap.Uint64("tick", b.mirror.Tick),
			)
			return nil
		}
		if b.mirror.Tick%b.every != 0 {
			continue
		}
		cmd, ok := b.pick()
		if !ok {
			continue
		}
		body, err := protocol.EncodeCommand(cmd)
		if err != nil {
			return err
		}
		if err := conn.WriteFrame(body); err != nil {
			return err
		}
		logs.Info("已发送指令", zap.String("command", cmd.Kind.String()), zap.Uint32("money", b.mirror.Money))
	}
}

// pick 在买得起的本阵营指令里随机挑一条，并从镜像里找一个满足前置条件的目标。
func (b *bot) pick() (protocol.PlayerCommand, bool) {
	w := b.mirror.World
	if w == nil {
		return protocol.PlayerCommand{}, false
	}
	var specs []engine.CommandSpec
	for _, k := range protocol.AllCommands() {
		spec, ok := b.rules.Spec(k)
		if ok && spec.AllowedFor(b.mirror.Side) && spec.Price <= b.mirror.Money {
			specs = append(specs, spec)
		}
	}
	if len(specs) == 0 {
		return protocol.PlayerCommand{}, false
	}
	spec := specs[b.rng.IntN(len(specs))]

	switch spec.Kind.Target() {
	case protocol.TargetNone:
		return protocol.PlayerCommand{Kind: spec.Kind}, true
	case protocol.TargetPerson:
		p := w.People[b.rng.IntN(len(w.People))]
		if !p.Alive {
			return protocol.PlayerCommand{}, false
		}
		return protocol.PartyImpulse(p.ID), true
	}

	// 随机抽样若干格，找到一个能转换的
	for range 64 {
		pos := entity.Pos(b.rng.IntN(w.Map.Width), b.rng.IntN(w.Map.Height))
		tile, _ := w.Map.At(pos)
		if _, ok := spec.Transition(tile); ok {
			return protocol.PlayerCommand{Kind: spec.Kind, Position: pos}, true
		}
	}
	return protocol.PlayerCommand{}, false
}
