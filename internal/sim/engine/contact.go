package engine

import (
	"Outbreak/internal/protocol"
	"Outbreak/internal/sim/entity"
)

// cellIndex 按格子分组的存活居民。order 是格子第一次出现的顺序，遍历结果稳定。
type cellIndex struct {
	order []entity.Position
	cells map[entity.Position][]entity.PersonID
}

func (e *Engine) indexPositions() *cellIndex {
	idx := &cellIndex{cells: make(map[entity.Position][]entity.PersonID)}
	for _, p := range e.world.People {
		if !p.Alive {
			continue
		}
		members, seen := idx.cells[p.Position]
		if !seen {
			idx.order = append(idx.order, p.Position)
		}
		idx.cells[p.Position] = append(members, p.ID)
	}
	return idx
}

// contactPartner 是接触开始时对方状态的快照，同一格里先被感染的人不会在同一轮里传给别人。
type contactPartner struct {
	id       entity.PersonID
	infected bool
	mask     float64
}

// spread 对同格的人评估接触。冷却窗口到了的人和同格每个人各接触一次，评估完才记下接触时间。
func (e *Engine) spread(idx *cellIndex) {
	var partners []contactPartner
	for _, cell := range idx.order {
		members := idx.cells[cell]
		if len(members) < 2 {
			continue
		}
		partners = partners[:0]
		for _, id := range members {
			other := e.world.MustPerson(id)
			partners = append(partners, contactPartner{id: id, infected: other.Infected, mask: other.Habits.Mask})
		}
		for _, id := range members {
			p := e.world.MustPerson(id)
			if e.tick-p.TickLastTouched < e.rules.ContactCooldownTicks {
				continue
			}
			for _, partner := range partners {
				if partner.id != id {
					e.contact(p, partner)
				}
			}
			p.TickLastTouched = e.tick
		}
	}
}

func (e *Engine) contact(p *entity.Person, other contactPartner) {
	if other.infected && !p.Infected && e.rng.Float64() < e.infectionChance(p, other) {
		p.Infected = true
		p.TickInfected = e.tick
		e.emit(protocol.InfectedUpdate(p.ID, true))
	}
	if p.Habits.SocialScore > e.rng.Float64() && !p.Habits.Knows(other.id) {
		e.befriend(p, e.world.MustPerson(other.id))
	}
}

// infectionChance 是 p 被 other 传染的概率。
func (e *Engine) infectionChance(p *entity.Person, other contactPartner) float64 {
	chance := e.rules.BaseInfectionChance
	if !p.Sex {
		chance *= 0.9
	}
	if p.Infected && p.Tested {
		chance *= 0.05
	}
	if p.Habits.Mask > e.rng.Float64() {
		if other.mask > e.rng.Float64() {
			chance /= 2
		} else {
			chance /= 10
		}
	}
	chance *= 1 + float64(p.Age)/100
	if p.Vaccinated {
		chance *= 0.05
	}
	return chance
}

func (e *Engine) befriend(a, b *entity.Person) {
	if a.ID == b.ID {
		return
	}
	if a.Habits.AddAcquaintance(b.ID) {
		e.emit(protocol.HabitsUpdate(a.ID, a.Habits))
	}
	if b.Habits.AddAcquaintance(a.ID) {
		e.emit(protocol.HabitsUpdate(b.ID, b.Habits))
	}
}

// progressInfections 处理病程超过期限的感染者：按年龄概率死亡，否则痊愈。
func (e *Engine) progressInfections() {
	for _, p := range e.world.People {
		if !p.Alive || !p.Infected || e.tick-p.TickInfected <= e.rules.InfectionDurationTicks {
			continue
		}
		if e.rng.Float64() < float64(p.Age)/500 {
			p.Alive = false
			e.emit(protocol.LifeStatusUpdate(p.ID, false))
			continue
		}
		p.Infected = false
		e.emit(protocol.InfectedUpdate(p.ID, false))
	}
}
