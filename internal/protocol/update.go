package protocol

import (
	"Outbreak/internal/sim/entity"
)

type UpdateKind uint8

const (
	UpdateSetWorld UpdateKind = iota + 1
	UpdateTile
	UpdatePerson
	UpdateWinner
)

type PersonUpdateKind uint8

const (
	PersonPosition PersonUpdateKind = iota + 1
	PersonInfected
	PersonLifeStatus
	PersonHabits
	PersonTested
	PersonVaccinated
)

// PersonUpdate 是单个居民的一项变化。Flag 承载 Infected/LifeStatus/Tested/Vaccinated 的新值。
type PersonUpdate struct {
	Kind     PersonUpdateKind `msgpack:"kind"`
	ID       entity.PersonID  `msgpack:"id"`
	Position entity.Position  `msgpack:"pos"`
	Flag     bool             `msgpack:"flag"`
	Habits   *entity.Habits   `msgpack:"habits,omitempty"`
}

// StateUpdate 是下发给客户端的一条增量。SetWorld 整体替换客户端世界，只在开局发送一次。
type StateUpdate struct {
	Kind     UpdateKind      `msgpack:"kind"`
	World    *entity.World   `msgpack:"world,omitempty"`
	Position entity.Position `msgpack:"pos"`
	Tile     entity.Tile     `msgpack:"tile"`
	Person   *PersonUpdate   `msgpack:"person,omitempty"`
	Winner   Side            `msgpack:"winner,omitempty"`
}

func SetWorld(w *entity.World) StateUpdate {
	return StateUpdate{Kind: UpdateSetWorld, World: w}
}

func TileUpdate(p entity.Position, t entity.Tile) StateUpdate {
	return StateUpdate{Kind: UpdateTile, Position: p, Tile: t}
}

func PositionUpdate(id entity.PersonID, p entity.Position) StateUpdate {
	return personUpdate(PersonUpdate{Kind: PersonPosition, ID: id, Position: p})
}

func InfectedUpdate(id entity.PersonID, infected bool) StateUpdate {
	return personUpdate(PersonUpdate{Kind: PersonInfected, ID: id, Flag: infected})
}

func LifeStatusUpdate(id entity.PersonID, alive bool) StateUpdate {
	return personUpdate(PersonUpdate{Kind: PersonLifeStatus, ID: id, Flag: alive})
}

// HabitsUpdate 复制一份 habits，之后对原对象的修改不影响已生成的增量。
func HabitsUpdate(id entity.PersonID, h entity.Habits) StateUpdate {
	c := h.Clone()
	return personUpdate(PersonUpdate{Kind: PersonHabits, ID: id, Habits: &c})
}

func TestedUpdate(id entity.PersonID, tested bool) StateUpdate {
	return personUpdate(PersonUpdate{Kind: PersonTested, ID: id, Flag: tested})
}

func VaccinatedUpdate(id entity.PersonID, vaccinated bool) StateUpdate {
	return personUpdate(PersonUpdate{Kind: PersonVaccinated, ID: id, Flag: vaccinated})
}

func WinnerUpdate(s Side) StateUpdate {
	return StateUpdate{Kind: UpdateWinner, Winner: s}
}

func personUpdate(u PersonUpdate) StateUpdate {
	return StateUpdate{Kind: UpdatePerson, Person: &u}
}
