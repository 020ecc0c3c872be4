package engine

import (
	"cmp"
	"slices"

	"Outbreak/internal/protocol"
	"Outbreak/internal/sim/entity"
)

// advance 推进单个居民一个 tick 的行为状态机。需要的路径找不到时状态不变，下个 tick 再试。
func (e *Engine) advance(p *entity.Person, a *entity.Action) {
	hour := e.world.Time.Hours
	switch a.Kind {
	case entity.ActionAtHome:
		if p.Job.Location != nil && p.Job.Type.OnDuty(hour) && !p.Quarantined() && e.roll(e.rules.CommuteChance) {
			e.walkTo(p, a, *p.Job.Location, entity.Working())
			return
		}
		_, end := p.Job.Type.WorkHours()
		if shops := e.world.JobLocations(entity.JobClerk); hour >= end && len(shops) > 0 && e.roll(e.rules.ShoppingChance) {
			shop := shops[e.rng.IntN(len(shops))]
			stay := e.rules.ShoppingMin
			if e.rules.ShoppingSpread > 0 {
				stay += e.rng.Uint64N(e.rules.ShoppingSpread)
			}
			e.walkTo(p, a, shop, entity.Shopping(e.tick+stay))
		}

	case entity.ActionWorking:
		if !p.Job.Type.OnDuty(hour) && e.roll(e.rules.CommuteChance) {
			e.walkTo(p, a, p.Home, entity.AtHome())
		}

	case entity.ActionShopping:
		if e.tick > a.Deadline {
			e.walkTo(p, a, p.Home, entity.AtHome())
		}

	case entity.ActionPartying:
		if a.Remaining > 0 {
			a.Remaining--
		}
		if a.Remaining == 0 {
			e.walkTo(p, a, p.Home, entity.AtHome())
		}

	case entity.ActionLockdown:
		if a.Remaining > 0 {
			a.Remaining--
		}
		if a.Remaining == 0 {
			*a = entity.AtHome()
		}

	case entity.ActionWalking:
		e.step(p, a)
	}
}

// step 走一格；路线走完后的下一次推进才切换到后续状态。
func (e *Engine) step(p *entity.Person, a *entity.Action) {
	if len(a.Route) == 0 {
		next := entity.AtHome()
		if a.Next != nil {
			next = *a.Next
		}
		// 封锁令下达时没找到回家的路，每 tick 重新找，到家才开始封锁
		if next.Kind == entity.ActionLockdown && p.Position != p.Home {
			if e.walkTo(p, a, p.Home, next) {
				e.step(p, a)
			}
			return
		}
		*a = next
		return
	}
	next := a.Route[0]
	// 途中被路障或封锁挡住：从当前位置重新找路，找不到就原地等
	if len(a.Route) > 1 && !e.world.Map.CanWalk(next) {
		route, ok := e.paths.Get(e.world.Map, p.Position, a.Route[len(a.Route)-1])
		if !ok || len(route) < 2 {
			return
		}
		a.Route = route[1:]
		next = a.Route[0]
	}
	a.Route = a.Route[1:]
	e.moveTo(p, next)
}

// walkTo 把 a 换成去 dest 的步行，到达后进入 then。
func (e *Engine) walkTo(p *entity.Person, a *entity.Action, dest entity.Position, then entity.Action) bool {
	route, ok := e.paths.Get(e.world.Map, p.Position, dest)
	if !ok {
		return false
	}
	// 缓存里的切片只读，取子切片不会改到它
	*a = entity.Walking(route[1:], then)
	return true
}

func (e *Engine) moveTo(p *entity.Person, pos entity.Position) {
	if p.Position == pos {
		return
	}
	p.Position = pos
	e.emit(protocol.PositionUpdate(p.ID, pos))
}

func (e *Engine) roll(chance float64) bool {
	return chance > 0 && e.rng.Float64() < chance
}

// lockdownHousehold 让住在 door 的人回家并封锁在家。已经在家的人立即封锁，
// 暂时找不到路的人挂一条空路线，由 step 逐 tick 重试。
func (e *Engine) lockdownHousehold(door entity.Position) {
	hold := entity.Lockdown(e.rules.LockdownTicks)
	for _, p := range e.world.People {
		if !p.Alive || p.Home != door {
			continue
		}
		a := e.action(p.ID)
		if p.Position == door {
			*a = hold
			continue
		}
		if !e.walkTo(p, a, door, hold) {
			*a = entity.Walking(nil, hold)
		}
	}
}

// throwParty 让 host 和他的熟人到 host 家聚会。被封锁的人不赴约。
func (e *Engine) throwParty(host *entity.Person) {
	guests := append([]entity.PersonID{host.ID}, host.Habits.Acquaintances...)
	for _, id := range guests {
		g := e.world.MustPerson(id)
		if !g.Alive {
			continue
		}
		a := e.action(id)
		if a.Confined() {
			continue
		}
		e.walkTo(g, a, host.Home, entity.Partying(e.rules.PartyTicks))
	}
}

// gather 召集离 pos 最近的一批空闲居民到 pos 聚会。
func (e *Engine) gather(pos entity.Position) {
	type candidate struct {
		p    *entity.Person
		dist int
	}
	var crowd []candidate
	for _, p := range e.world.People {
		if p.Alive && e.action(p.ID).Idle() {
			crowd = append(crowd, candidate{p: p, dist: p.Position.Manhattan(pos)})
		}
	}
	slices.SortFunc(crowd, func(a, b candidate) int {
		if c := cmp.Compare(a.dist, b.dist); c != 0 {
			return c
		}
		return cmp.Compare(a.p.ID, b.p.ID)
	})
	if len(crowd) > e.rules.SocialImpulseCrowd {
		crowd = crowd[:e.rules.SocialImpulseCrowd]
	}
	for _, c := range crowd {
		e.walkTo(c.p, e.action(c.p.ID), pos, entity.Partying(e.rules.SocialImpulseTicks))
	}
}
