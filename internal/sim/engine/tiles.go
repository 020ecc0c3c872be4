package engine

import (
	"slices"

	"Outbreak/internal/protocol"
	"Outbreak/internal/sim/entity"
	"Outbreak/modules/kit/errx"
)

// setTile 是模拟内修改地图的唯一入口：维护登记表，可走性变化时让寻路缓存失效，并产生增量。
func (e *Engine) setTile(pos entity.Position, t entity.Tile) {
	before, ok := e.world.Map.At(pos)
	if !ok {
		panic(errx.ErrInvariant.WithData("pos", pos.String()).WithData("op", "set_tile"))
	}
	e.world.Map.Set(pos, t)
	if before.Walkable() != t.Walkable() {
		e.paths.Invalidate()
	}
	e.unregister(pos)
	e.register(pos, t)
	e.emit(protocol.TileUpdate(pos, t))
}

func (e *Engine) register(pos entity.Position, t entity.Tile) {
	switch t.Kind {
	case entity.TileTestCenter:
		e.testCenters[pos] = struct{}{}
	case entity.TileVaccineCenter:
		e.vaccineCenters[pos] = struct{}{}
	}
	if t.Timed() {
		e.timed[pos] = struct{}{}
	}
}

func (e *Engine) unregister(pos entity.Position) {
	delete(e.testCenters, pos)
	delete(e.vaccineCenters, pos)
	delete(e.timed, pos)
}

// tickTimers 递减所有带计时的格子，归零时门解锁、宣传点消失。
// 中间的递减不下发，客户端只在放置和到期时收到格子更新。
func (e *Engine) tickTimers() {
	if len(e.timed) == 0 {
		return
	}
	positions := make([]entity.Position, 0, len(e.timed))
	for pos := range e.timed {
		positions = append(positions, pos)
	}
	slices.SortFunc(positions, comparePositions)
	for _, pos := range positions {
		t, _ := e.world.Map.At(pos)
		if t.Timer > 1 {
			t.Timer--
			e.world.Map.Set(pos, t)
			continue
		}
		e.setTile(pos, t.Expired())
	}
}

func comparePositions(a, b entity.Position) int {
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	default:
		return 0
	}
}

// visitCenters 让站在检测点的人完成检测，站在疫苗点且不排斥疫苗的人接种。
func (e *Engine) visitCenters(idx *cellIndex) {
	for _, cell := range idx.order {
		_, test := e.testCenters[cell]
		_, vaccine := e.vaccineCenters[cell]
		if !test && !vaccine {
			continue
		}
		for _, id := range idx.cells[cell] {
			p := e.world.MustPerson(id)
			if test && !p.Tested {
				p.Tested = true
				e.emit(protocol.TestedUpdate(id, true))
			}
			if vaccine && !p.Vaccinated && p.Habits.VaccineBias >= 0 {
				p.Vaccinated = true
				e.emit(protocol.VaccinatedUpdate(id, true))
			}
		}
	}
}

// applyCampaigns 经过口罩宣传点的人开始戴口罩，经过反疫苗宣传点的人摘下口罩并拒绝接种。
func (e *Engine) applyCampaigns(idx *cellIndex) {
	for _, cell := range idx.order {
		t, _ := e.world.Map.At(cell)
		if t.Kind != entity.TileMaskCampaign && t.Kind != entity.TileAntivaxCampaign {
			continue
		}
		for _, id := range idx.cells[cell] {
			p := e.world.MustPerson(id)
			changed := false
			if t.Kind == entity.TileMaskCampaign && p.Habits.Mask != 1 {
				p.Habits.Mask = 1
				changed = true
			}
			if t.Kind == entity.TileAntivaxCampaign && (p.Habits.Mask != 0 || p.Habits.VaccineBias != -1) {
				p.Habits.Mask = 0
				p.Habits.VaccineBias = -1
				changed = true
			}
			if changed {
				e.emit(protocol.HabitsUpdate(id, p.Habits))
			}
		}
	}
}
