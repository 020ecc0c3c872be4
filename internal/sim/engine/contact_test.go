package engine

import (
	"testing"

	"Outbreak/internal/protocol"
	"Outbreak/internal/sim/entity"
)

// alwaysInfect 让每次接触都传染。
func alwaysInfect() Rules {
	r := quietRules()
	r.BaseInfectionChance = 1e9
	return r
}

func TestSpread_只在未感染到感染时记录感染时间(t *testing.T) {
	cell := entity.Pos(2, 1)
	source := resident(0, cell, cell)
	source.Infected = true
	fresh := resident(1, cell, cell)
	old := resident(2, cell, cell)
	old.Infected = true
	old.TickInfected = 50
	e := newEngine(openWorld(5, 3, nil, source, fresh, old), alwaysInfect())

	updates := e.Step(nil)
	if !fresh.Infected || fresh.TickInfected != e.Tick() {
		t.Fatalf("期望新感染者记录当前 tick %d，got infected=%v tick=%d", e.Tick(), fresh.Infected, fresh.TickInfected)
	}
	if old.TickInfected != 50 {
		t.Fatalf("期望已感染者的感染时间不变，got=%d", old.TickInfected)
	}
	if n := countUpdates(updates, protocol.PersonInfected); n != 1 {
		t.Fatalf("期望恰好一条感染增量，got=%d", n)
	}
}

func TestSpread_同格任意感染者都会传染(t *testing.T) {
	cell := entity.Pos(1, 1)
	a := resident(0, cell, cell)
	b := resident(1, cell, cell)
	source := resident(2, cell, cell)
	source.Infected = true
	far := resident(3, entity.Pos(3, 1), entity.Pos(3, 1))
	e := newEngine(openWorld(5, 3, nil, a, b, source, far), alwaysInfect())

	updates := e.Step(nil)
	if !a.Infected || !b.Infected {
		t.Fatalf("期望同格的人都被下标靠后的感染者传染，a=%v b=%v", a.Infected, b.Infected)
	}
	if far.Infected {
		t.Fatalf("期望不同格的人不受影响")
	}
	if n := countUpdates(updates, protocol.PersonInfected); n != 2 {
		t.Fatalf("期望两条感染增量，got=%d", n)
	}
	for _, p := range []*entity.Person{a, b, source} {
		if p.TickLastTouched != e.Tick() {
			t.Fatalf("期望 %d 本 tick 被评估一次，got=%d", p.ID, p.TickLastTouched)
		}
	}
}

func TestSpread_冷却窗口内不重复评估(t *testing.T) {
	cell := entity.Pos(1, 1)
	a := resident(0, cell, cell)
	b := resident(1, cell, cell)
	e := newEngine(openWorld(3, 3, nil, a, b), quietRules())

	e.Step(nil)
	first := a.TickLastTouched
	if first != e.Tick() || b.TickLastTouched != e.Tick() {
		t.Fatalf("期望同格两人都被评估，got=%d/%d tick=%d", a.TickLastTouched, b.TickLastTouched, e.Tick())
	}
	for i := 0; i < 19; i++ {
		e.Step(nil)
		if a.TickLastTouched != first {
			t.Fatalf("期望 20 tick 冷却内不再评估，第 %d 次 got=%d", i, a.TickLastTouched)
		}
	}
	e.Step(nil)
	if a.TickLastTouched != first+20 {
		t.Fatalf("期望冷却结束后再次评估，got=%d", a.TickLastTouched)
	}
}

func TestSpread_熟人关系对称且死者不参与(t *testing.T) {
	cell := entity.Pos(1, 1)
	a := resident(0, cell, cell)
	b := resident(1, cell, cell)
	c := resident(2, cell, cell)
	a.Habits.SocialScore = 1
	b.Habits.SocialScore = 1
	c.Alive = false
	c.Habits.SocialScore = 1
	e := newEngine(openWorld(3, 3, nil, a, b, c), quietRules())

	updates := e.Step(nil)
	if !a.Habits.Knows(1) || !b.Habits.Knows(0) {
		t.Fatalf("期望 a、b 互相认识，a=%v b=%v", a.Habits.Acquaintances, b.Habits.Acquaintances)
	}
	if a.Habits.Knows(2) || c.Habits.Knows(0) {
		t.Fatalf("期望死者不结识新人")
	}
	if n := countUpdates(updates, protocol.PersonHabits); n != 2 {
		t.Fatalf("期望两条 habits 增量，got=%d", n)
	}
	for _, p := range []*entity.Person{a, b} {
		for _, id := range p.Habits.Acquaintances {
			if !e.World().MustPerson(id).Habits.Knows(p.ID) {
				t.Fatalf("期望关系对称：%d -> %d", p.ID, id)
			}
		}
	}
}

func TestParty_死去的熟人被跳过(t *testing.T) {
	host := resident(0, entity.Pos(0, 0), entity.Pos(0, 0))
	dead := resident(1, entity.Pos(3, 0), entity.Pos(3, 0))
	host.Habits.AddAcquaintance(1)
	dead.Habits.AddAcquaintance(0)
	dead.Alive = false
	e := newEngine(openWorld(4, 1, nil, host, dead), quietRules())
	e.fund(virus, 1000)

	mustApply(t, e, virus, protocol.PartyImpulse(0))
	if a, _ := e.Action(1); a.Kind != entity.ActionAtHome {
		t.Fatalf("期望死者状态不变，got=%v", a.Kind)
	}
	if !host.Habits.Knows(1) || !dead.Habits.Knows(0) {
		t.Fatalf("期望已有关系保留")
	}
}

func TestProgress_病程结束后痊愈或死亡(t *testing.T) {
	rules := quietRules()
	rules.InfectionDurationTicks = 10
	young := resident(0, entity.Pos(0, 0), entity.Pos(0, 0))
	young.Age = 0
	young.Infected = true
	recent := resident(1, entity.Pos(2, 0), entity.Pos(2, 0))
	recent.Age = 0
	recent.Infected = true
	recent.TickInfected = rules.StartTick
	e := newEngine(openWorld(3, 1, nil, young, recent), rules)

	updates := e.Step(nil)
	if young.Infected || !young.Alive {
		t.Fatalf("期望 0 岁的人必然痊愈，infected=%v alive=%v", young.Infected, young.Alive)
	}
	if !recent.Infected {
		t.Fatalf("期望病程未满的人仍在感染中")
	}
	if n := countUpdates(updates, protocol.PersonInfected); n != 1 {
		t.Fatalf("期望一条痊愈增量，got=%d", n)
	}
}

func TestInfectionChance_各项系数(t *testing.T) {
	rules := quietRules()
	rules.BaseInfectionChance = 1
	e := newEngine(openWorld(1, 1, nil), rules)
	base := &entity.Person{Sex: true}
	partner := contactPartner{infected: true}

	if got := e.infectionChance(base, partner); got != 1 {
		t.Fatalf("期望基础概率 1，got=%v", got)
	}
	female := &entity.Person{Sex: false}
	if got := e.infectionChance(female, partner); got != 0.9 {
		t.Fatalf("期望性别系数 0.9，got=%v", got)
	}
	old := &entity.Person{Sex: true, Age: 50}
	if got := e.infectionChance(old, partner); got != 1.5 {
		t.Fatalf("期望年龄系数 1.5，got=%v", got)
	}
	vaccinated := &entity.Person{Sex: true, Vaccinated: true}
	if got := e.infectionChance(vaccinated, partner); got != 0.05 {
		t.Fatalf("期望疫苗系数 0.05，got=%v", got)
	}
	// 自己戴口罩（必中），对方不戴
	masked := &entity.Person{Sex: true, Habits: entity.Habits{Mask: 2}}
	if got := e.infectionChance(masked, contactPartner{infected: true, mask: 0}); got != 0.1 {
		t.Fatalf("期望单方口罩 /10，got=%v", got)
	}
	if got := e.infectionChance(masked, contactPartner{infected: true, mask: 2}); got != 0.5 {
		t.Fatalf("期望双方口罩 /2，got=%v", got)
	}
}
