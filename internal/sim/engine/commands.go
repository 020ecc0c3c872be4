package engine

import (
	"Outbreak/internal/protocol"
	"Outbreak/internal/sim/entity"
	"Outbreak/modules/kit/errx"
)

// Apply 校验并执行一条指令。校验顺序：阵营 -> 金钱 -> 目标前置条件；
// 任何一步失败都不扣钱、不改世界。成功时恰好扣除指令价格。
func (e *Engine) Apply(c Command) error {
	if int(c.Slot) >= len(e.players) {
		return errx.ErrWrongSide.WithData("slot", c.Slot)
	}
	spec, ok := e.rules.Spec(c.Cmd.Kind)
	if !ok {
		return errx.ErrUnknownCommand.WithData("kind", uint8(c.Cmd.Kind))
	}
	player := &e.players[c.Slot]
	if !spec.AllowedFor(player.Side) {
		return errx.ErrWrongSide.WithData("side", player.Side.String())
	}
	if player.Money < spec.Price {
		return errx.ErrInsufficientFunds.WithData("money", player.Money).WithData("price", spec.Price)
	}
	effect, err := e.prepare(spec, c.Cmd)
	if err != nil {
		return err
	}
	player.Money -= spec.Price
	effect()
	return nil
}

// prepare 只做检查，返回的闭包才真正修改世界。
func (e *Engine) prepare(spec CommandSpec, cmd protocol.PlayerCommand) (func(), error) {
	switch cmd.Kind.Target() {
	case protocol.TargetPerson:
		host, ok := e.world.Person(cmd.Person)
		if !ok || !host.Alive {
			return nil, errx.ErrUnknownTarget.WithData("person", cmd.Person)
		}
		return func() { e.throwParty(host) }, nil

	case protocol.TargetNone:
		return e.crashEconomy, nil
	}

	pos := cmd.Position
	tile, ok := e.world.Map.At(pos)
	if !ok {
		return nil, errx.ErrPrecondition.WithData("pos", pos.String())
	}
	next, ok := spec.Transition(tile)
	if !ok {
		return nil, errx.ErrPrecondition.WithData("pos", pos.String()).WithData("tile", tile.String())
	}
	switch cmd.Kind {
	case protocol.CmdLockdown:
		return func() {
			e.setTile(pos, next)
			e.lockdownHousehold(pos)
		}, nil
	case protocol.CmdSocialImpulse:
		return func() { e.gather(pos) }, nil
	default:
		return func() { e.setTile(pos, next) }, nil
	}
}

// crashEconomy 撤掉所有检测点和宣传点。
func (e *Engine) crashEconomy() {
	var targets []entity.Position
	e.world.Map.Each(func(pos entity.Position, t entity.Tile) {
		switch t.Kind {
		case entity.TileMaskCampaign, entity.TileTestCenter, entity.TileAntivaxCampaign:
			targets = append(targets, pos)
		}
	})
	for _, pos := range targets {
		e.setTile(pos, entity.EmptyTile())
	}
	clear(e.testCenters)
}
