package engine

import (
	"testing"

	"Outbreak/internal/protocol"
	"Outbreak/internal/sim/entity"
)

func TestLockdown_住户回家封锁且门到期解锁(t *testing.T) {
	door := entity.Pos(0, 1)
	other := entity.Pos(7, 1)
	atHome := resident(0, door, door)
	away := resident(1, door, entity.Pos(5, 1))
	neighbour := resident(2, other, other)
	w := openWorld(8, 3, []entity.Place{home(door), home(other)}, atHome, away, neighbour)
	e := newEngine(w, quietRules())
	e.fund(president, 100)

	updates := e.Step([]Command{{Slot: president, Cmd: protocol.Lockdown(door)}})
	if tile, _ := w.Map.At(door); !tile.Locked() {
		t.Fatalf("期望门被封锁，got=%v", tile)
	}
	if updates[0].Kind != protocol.UpdateTile || updates[0].Position != door {
		t.Fatalf("期望第一条增量是门的格子更新，got=%+v", updates[0])
	}
	if a, _ := e.Action(0); a.Kind != entity.ActionLockdown || a.Remaining != 1439 {
		t.Fatalf("期望在家的人立即封锁并已计时一 tick，got=%v/%d", a.Kind, a.Remaining)
	}
	if a, _ := e.Action(1); a.Kind != entity.ActionWalking || a.Next.Kind != entity.ActionLockdown {
		t.Fatalf("期望在外的人走回家，got=%v", a.Kind)
	}
	if a, _ := e.Action(2); a.Kind != entity.ActionAtHome {
		t.Fatalf("期望其他住户不受影响，got=%v", a.Kind)
	}
	if w.Map.CanWalk(door) {
		t.Fatalf("期望封锁的门不可走")
	}

	for i := 0; i < 5; i++ {
		e.Step(nil)
	}
	if away.Position != door {
		t.Fatalf("期望在外的人走到被封锁的家门，got=%v", away.Position)
	}
	if a, _ := e.Action(1); a.Kind != entity.ActionLockdown || a.Remaining != 1440 {
		t.Fatalf("期望到家后进入封锁，got=%v/%d", a.Kind, a.Remaining)
	}

	// 被封锁的人走不出来
	if _, ok := e.paths.Get(w.Map, door, other); ok {
		t.Fatalf("期望封锁门内的人找不到出去的路")
	}

	// 已经过了 6 tick，再走 1433 tick 门仍锁着，第 1440 tick 解锁
	for i := 0; i < 1433; i++ {
		e.Step(nil)
	}
	if tile, _ := w.Map.At(door); !tile.Locked() {
		t.Fatalf("期望第 1439 tick 门仍然锁着")
	}
	updates = e.Step(nil)
	if tile, _ := w.Map.At(door); tile.Locked() || !w.Map.CanWalk(door) {
		t.Fatalf("期望第 1440 tick 门解锁，got=%v", tile)
	}
	unlocked := false
	for _, u := range updates {
		if u.Kind == protocol.UpdateTile && u.Position == door && !u.Tile.Locked() {
			unlocked = true
		}
	}
	if !unlocked {
		t.Fatalf("期望解锁时下发格子更新")
	}
	if a, _ := e.Action(0); a.Kind != entity.ActionAtHome {
		t.Fatalf("期望封锁计时结束后恢复在家，got=%v", a.Kind)
	}
	if _, ok := e.paths.Get(w.Map, door, other); !ok {
		t.Fatalf("期望解锁后可以出门")
	}
}

func TestLockdown_聚会召集不打断封锁(t *testing.T) {
	door := entity.Pos(0, 1)
	party := entity.Pos(7, 1)
	inside := resident(0, door, door)
	away := resident(1, door, entity.Pos(5, 1))
	host := resident(2, party, party)
	for _, guest := range []*entity.Person{inside, away} {
		guest.Habits.AddAcquaintance(host.ID)
		host.Habits.AddAcquaintance(guest.ID)
	}
	w := openWorld(8, 3, []entity.Place{home(door), home(party)}, inside, away, host)
	e := newEngine(w, quietRules())
	e.fund(president, 100)
	e.fund(virus, 1000)

	e.Step([]Command{{Slot: president, Cmd: protocol.Lockdown(door)}})
	e.Step([]Command{{Slot: virus, Cmd: protocol.PartyImpulse(host.ID)}})
	if a, _ := e.Action(host.ID); a.Kind != entity.ActionWalking && a.Kind != entity.ActionPartying {
		t.Fatalf("期望聚会主人响应召集，got=%v", a.Kind)
	}
	for i := 0; i < 20; i++ {
		e.Step(nil)
	}
	if away.Position != door {
		t.Fatalf("期望在外的住户仍然回到被封锁的家，got=%v", away.Position)
	}
	for _, id := range []entity.PersonID{inside.ID, away.ID} {
		if a, _ := e.Action(id); a.Kind != entity.ActionLockdown {
			t.Fatalf("期望住户 %d 保持封锁，got=%v", id, a.Kind)
		}
	}
}

func TestLockdown_暂时无路的住户之后仍会回家封锁(t *testing.T) {
	door := entity.Pos(0, 1)
	stuck := entity.Pos(5, 1)
	away := resident(0, door, stuck)
	w := openWorld(8, 3, []entity.Place{home(door)}, away)
	for _, p := range []entity.Position{entity.Pos(4, 1), entity.Pos(6, 1), entity.Pos(5, 0), entity.Pos(5, 2)} {
		w.Map.Set(p, entity.RoadBlockTile())
	}
	e := newEngine(w, quietRules())
	e.fund(president, 1000)

	e.Step([]Command{{Slot: president, Cmd: protocol.Lockdown(door)}})
	for i := 0; i < 3; i++ {
		e.Step(nil)
	}
	a, _ := e.Action(away.ID)
	if away.Position != stuck || !a.Confined() {
		t.Fatalf("期望被困的住户原地等待回家封锁，pos=%v action=%v", away.Position, a.Kind)
	}

	// 拆掉一个路障，路径缓存失效后重新找路
	e.Step([]Command{{Slot: president, Cmd: protocol.RoadBlock(entity.Pos(4, 1))}})
	if away.Position != entity.Pos(4, 1) {
		t.Fatalf("期望找到路的当 tick 就迈出一步，got=%v", away.Position)
	}
	for i := 0; i < 10; i++ {
		e.Step(nil)
	}
	if away.Position != door {
		t.Fatalf("期望最终回到家门，got=%v", away.Position)
	}
	if a, _ := e.Action(away.ID); a.Kind != entity.ActionLockdown {
		t.Fatalf("期望到家后进入封锁，got=%v", a.Kind)
	}
}

func TestCenters_检测与接种(t *testing.T) {
	spot := entity.Pos(2, 1)
	willing := resident(0, spot, spot)
	willing.Habits.VaccineBias = 0.5
	refuser := resident(1, spot, spot)
	refuser.Habits.VaccineBias = -1
	w := openWorld(5, 3, nil, willing, refuser)
	e := newEngine(w, quietRules())
	e.fund(president, 10000)

	updates := e.Step([]Command{{Slot: president, Cmd: protocol.TestCenter(spot)}})
	if !willing.Tested || !refuser.Tested {
		t.Fatalf("期望站在检测点的人都被检测")
	}
	if n := countUpdates(updates, protocol.PersonTested); n != 2 {
		t.Fatalf("期望两条检测增量，got=%d", n)
	}
	// 同一格换成疫苗点：先撤掉检测点
	e.players[virus].Money = 1000
	e.Step([]Command{{Slot: virus, Cmd: protocol.EconomicCrash()}})
	e.Step([]Command{{Slot: president, Cmd: protocol.VaccineCenter(spot)}})
	if !willing.Vaccinated {
		t.Fatalf("期望愿意接种的人接种")
	}
	if refuser.Vaccinated {
		t.Fatalf("期望受反疫苗宣传影响的人拒绝接种")
	}
}

func TestCampaigns_口罩与反疫苗宣传(t *testing.T) {
	maskSpot := entity.Pos(1, 1)
	antiSpot := entity.Pos(3, 1)
	a := resident(0, maskSpot, maskSpot)
	a.Habits.Mask = 0.2
	b := resident(1, antiSpot, antiSpot)
	b.Habits.Mask = 0.7
	b.Habits.VaccineBias = 0.9
	rules := quietRules()
	rules.CampaignTicks = 3
	w := openWorld(5, 3, nil, a, b)
	e := newEngine(w, rules)
	e.fund(president, 1000)
	e.fund(virus, 1000)

	updates := e.Step([]Command{
		{Slot: president, Cmd: protocol.MaskCampaign(maskSpot)},
		{Slot: virus, Cmd: protocol.AntivaxCampaign(antiSpot)},
	})
	if a.Habits.Mask != 1 {
		t.Fatalf("期望口罩宣传后 mask=1，got=%v", a.Habits.Mask)
	}
	if b.Habits.Mask != 0 || b.Habits.VaccineBias != -1 {
		t.Fatalf("期望反疫苗宣传后 mask=0 bias=-1，got=%+v", b.Habits)
	}
	if n := countUpdates(updates, protocol.PersonHabits); n != 2 {
		t.Fatalf("期望两条 habits 增量，got=%d", n)
	}
	if !w.Map.CanWalk(maskSpot) {
		t.Fatalf("期望宣传点可走")
	}
	// 已经计时 1 tick，再 2 tick 到期
	e.Step(nil)
	e.Step(nil)
	for _, p := range []entity.Position{maskSpot, antiSpot} {
		if tile, _ := w.Map.At(p); tile.Kind != entity.TileEmpty {
			t.Fatalf("期望宣传点到期消失，got=%v", tile)
		}
	}
}
