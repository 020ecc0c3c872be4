package engine

import (
	"math/rand/v2"

	"Outbreak/internal/protocol"
	"Outbreak/internal/sim/entity"
)

const (
	virus     = Player1
	president = Player2
)

// quietRules 关掉随机出行，居民只在指令驱动下移动。
func quietRules() Rules {
	r := DefaultRules()
	r.CommuteChance = 0
	r.ShoppingChance = 0
	return r
}

func resident(id entity.PersonID, home, at entity.Position) *entity.Person {
	return &entity.Person{ID: id, Alive: true, Age: 30, Sex: true, Home: home, Position: at}
}

// openWorld 是一块 w x h 的空地，places 里的位置被设成门。
func openWorld(w, h int, places []entity.Place, people ...*entity.Person) *entity.World {
	m := entity.NewMap(w, h, entity.EmptyTile())
	for _, pl := range places {
		m.Set(pl.Position, entity.DoorTile())
	}
	return entity.NewWorld(m, places, people)
}

func home(p entity.Position) entity.Place {
	return entity.Place{Position: p, Location: entity.Location{Kind: entity.LocationHome}}
}

func newEngine(w *entity.World, rules Rules) *Engine {
	return New(w, Options{
		Rules: rules,
		Rand:  rand.New(rand.NewPCG(1, 2)),
		Sides: [2]protocol.Side{protocol.SideVirus, protocol.SidePresident},
	})
}

func (e *Engine) fund(s Slot, money uint32) {
	e.players[s].Money = money
}

func countUpdates(updates []protocol.StateUpdate, kind protocol.PersonUpdateKind) int {
	n := 0
	for _, u := range updates {
		if u.Kind == protocol.UpdatePerson && u.Person.Kind == kind {
			n++
		}
	}
	return n
}
