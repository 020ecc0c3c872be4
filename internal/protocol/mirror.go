package protocol

import (
	"fmt"

	"Outbreak/internal/sim/entity"
)

// Mirror 是客户端一侧的世界副本：收到 SetWorld 后逐帧应用增量。
type Mirror struct {
	World  *entity.World
	Winner Side
	Tick   uint64
	Money  uint32
	Side   Side
}

// ApplyPayload 应用一整帧并同步金钱、阵营和时间。
func (m *Mirror) ApplyPayload(p *NetworkPayload) error {
	world, winner, err := Apply(m.World, p.Updates)
	if err != nil {
		return err
	}
	m.World = world
	if winner != SideNone {
		m.Winner = winner
	}
	m.Tick = p.TickCount
	m.Money = p.Money
	m.Side = p.Side
	if m.World != nil {
		m.World.Time = entity.TimeFromTicks(p.TickCount)
	}
	return nil
}

// Apply 把一批增量应用到 w 上，返回应用后的世界（SetWorld 会换成新世界）和本批里宣布的胜者。
func Apply(w *entity.World, updates []StateUpdate) (*entity.World, Side, error) {
	winner := SideNone
	for i, u := range updates {
		switch u.Kind {
		case UpdateSetWorld:
			if u.World == nil {
				return w, winner, fmt.Errorf("update %d: empty set_world", i)
			}
			w = u.World
			continue
		case UpdateWinner:
			winner = u.Winner
			continue
		}
		if w == nil {
			return w, winner, fmt.Errorf("update %d: delta before set_world", i)
		}
		switch u.Kind {
		case UpdateTile:
			if !w.Map.Set(u.Position, u.Tile) {
				return w, winner, fmt.Errorf("update %d: tile %v out of bounds", i, u.Position)
			}
		case UpdatePerson:
			if err := applyPerson(w, u.Person); err != nil {
				return w, winner, fmt.Errorf("update %d: %w", i, err)
			}
		default:
			return w, winner, fmt.Errorf("update %d: unknown kind %d", i, u.Kind)
		}
	}
	return w, winner, nil
}

func applyPerson(w *entity.World, u *PersonUpdate) error {
	if u == nil {
		return fmt.Errorf("empty person update")
	}
	p, ok := w.Person(u.ID)
	if !ok {
		return fmt.Errorf("unknown person %d", u.ID)
	}
	switch u.Kind {
	case PersonPosition:
		p.Position = u.Position
	case PersonInfected:
		p.Infected = u.Flag
	case PersonLifeStatus:
		p.Alive = u.Flag
	case PersonHabits:
		if u.Habits == nil {
			return fmt.Errorf("person %d: empty habits", u.ID)
		}
		p.Habits = u.Habits.Clone()
	case PersonTested:
		p.Tested = u.Flag
	case PersonVaccinated:
		p.Vaccinated = u.Flag
	default:
		return fmt.Errorf("person %d: unknown update kind %d", u.ID, u.Kind)
	}
	return nil
}
