package entity

import (
	"Outbreak/modules/kit/errx"
)

type LocationKind uint8

const (
	LocationHome LocationKind = iota
	LocationJob
)

// Location 是门所通向的场所：住宅或某类工作场所。
type Location struct {
	Kind LocationKind `msgpack:"kind"`
	Job  JobType      `msgpack:"job"`
}

// Place 把门的位置和它通向的场所绑在一起，便于按固定顺序序列化。
type Place struct {
	Position Position `msgpack:"pos"`
	Location Location `msgpack:"loc"`
}

// World 持有地图、模拟时间和全部人口。People 按 PersonID 下标存放，死亡的人也留在数组里。
type World struct {
	Time   Time      `msgpack:"time"`
	Map    *Map      `msgpack:"map"`
	People []*Person `msgpack:"people"`
	Places []Place   `msgpack:"places"`

	locations    map[Position]Location
	jobLocations map[JobType][]Position
}

func NewWorld(m *Map, places []Place, people []*Person) *World {
	w := &World{Map: m, People: people, Places: places}
	w.Reindex()
	return w
}

// Reindex 从 Places 重建位置索引，反序列化之后必须调用。
func (w *World) Reindex() {
	w.locations = make(map[Position]Location, len(w.Places))
	w.jobLocations = make(map[JobType][]Position)
	for _, pl := range w.Places {
		w.locations[pl.Position] = pl.Location
		if pl.Location.Kind == LocationJob {
			w.jobLocations[pl.Location.Job] = append(w.jobLocations[pl.Location.Job], pl.Position)
		}
	}
}

func (w *World) Location(p Position) (Location, bool) {
	l, ok := w.locations[p]
	return l, ok
}

// JobLocations 返回某类工作场所的位置，调用方只读。
func (w *World) JobLocations(j JobType) []Position {
	return w.jobLocations[j]
}

func (w *World) Person(id PersonID) (*Person, bool) {
	if int(id) >= len(w.People) {
		return nil, false
	}
	return w.People[id], true
}

// MustPerson 用于内部保存的 id，查不到说明状态已经损坏，直接 panic，由会话边界 recover。
func (w *World) MustPerson(id PersonID) *Person {
	p, ok := w.Person(id)
	if !ok {
		panic(errx.ErrInvariant.WithData("person_id", id).WithData("population", len(w.People)))
	}
	return p
}

// Census 返回总人口和当前存活的感染人数。
func (w *World) Census() (total, infected int) {
	for _, p := range w.People {
		if p.Alive && p.Infected {
			infected++
		}
	}
	return len(w.People), infected
}

func (w *World) Clone() *World {
	people := make([]*Person, len(w.People))
	for i, p := range w.People {
		people[i] = p.Clone()
	}
	places := make([]Place, len(w.Places))
	copy(places, w.Places)
	out := NewWorld(w.Map.Clone(), places, people)
	out.Time = w.Time
	return out
}
