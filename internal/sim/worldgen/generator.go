package worldgen

import (
	"errors"
	"math/rand/v2"

	"Outbreak/internal/sim/entity"
)

type Settings struct {
	WidthChunks  int
	HeightChunks int
	Population   int
	Infected     int
	// 连续放置失败这么多次后停止放建筑
	MaxTries   int
	Structures []Structure
}

func DefaultSettings() Settings {
	return Settings{
		WidthChunks:  24,
		HeightChunks: 16,
		Population:   400,
		Infected:     10,
		MaxTries:     10,
		Structures:   DefaultStructures(),
	}
}

var (
	ErrNoDoors = errors.New("worldgen: no doors placed")
	ErrBadSize = errors.New("worldgen: invalid settings")
)

// Generate 用 r 生成一张地图和全部人口，同一个种子得到同一个世界。
func Generate(s Settings, r *rand.Rand) (*entity.World, error) {
	if s.WidthChunks <= 0 || s.HeightChunks <= 0 || s.Population <= 0 || len(s.Structures) == 0 {
		return nil, ErrBadSize
	}
	if s.MaxTries <= 0 {
		s.MaxTries = 10
	}

	m := entity.NewMap(s.WidthChunks*ChunkSize, s.HeightChunks*ChunkSize, entity.EmptyTile())
	placeStructures(m, s, r)

	places := assignLocations(m, r)
	if len(places) == 0 {
		return nil, ErrNoDoors
	}
	var homes []entity.Position
	jobs := make(map[entity.JobType][]entity.Position)
	for _, pl := range places {
		if pl.Location.Kind == entity.LocationHome {
			homes = append(homes, pl.Position)
		} else {
			jobs[pl.Location.Job] = append(jobs[pl.Location.Job], pl.Position)
		}
	}

	people := make([]*entity.Person, s.Population)
	for i := range people {
		home := homes[r.IntN(len(homes))]
		job := entity.Job{Type: entity.RandomJobType(r)}
		if locs := jobs[job.Type]; len(locs) > 0 {
			loc := locs[r.IntN(len(locs))]
			job.Location = &loc
		}
		people[i] = entity.NewPerson(r, entity.PersonID(i), home, job)
	}
	connect(people, r)
	seedInfection(people, s.Infected, r)

	return entity.NewWorld(m, places, people), nil
}

func placeStructures(m *entity.Map, s Settings, r *rand.Rand) {
	used := make([][]bool, s.WidthChunks)
	for i := range used {
		used[i] = make([]bool, s.HeightChunks)
	}
	for fails := 0; fails < s.MaxTries; {
		st := s.Structures[r.IntN(len(s.Structures))]
		w, h := st.Size()
		if w > s.WidthChunks || h > s.HeightChunks {
			fails++
			continue
		}
		cx, cy := r.IntN(s.WidthChunks-w+1), r.IntN(s.HeightChunks-h+1)
		if !fits(used, st, cx, cy) {
			fails++
			continue
		}
		fails = 0
		for _, part := range st.Parts {
			used[cx+part.DX][cy+part.DY] = true
			ox, oy := (cx+part.DX)*ChunkSize, (cy+part.DY)*ChunkSize
			for y := 0; y < ChunkSize; y++ {
				for x := 0; x < ChunkSize; x++ {
					m.Set(entity.Pos(ox+x, oy+y), part.Chunk.tile(x, y))
				}
			}
		}
	}
}

func fits(used [][]bool, st Structure, cx, cy int) bool {
	for _, part := range st.Parts {
		if used[cx+part.DX][cy+part.DY] {
			return false
		}
	}
	return true
}

// assignLocations 给每扇门分配一个场所：一半住宅，一半随机职业的工作场所，至少保证一处住宅。
func assignLocations(m *entity.Map, r *rand.Rand) []entity.Place {
	var places []entity.Place
	hasHome := false
	m.Each(func(p entity.Position, t entity.Tile) {
		if t.Kind != entity.TileDoor {
			return
		}
		loc := entity.Location{Kind: entity.LocationHome}
		if r.IntN(2) == 0 {
			loc = entity.Location{Kind: entity.LocationJob, Job: entity.RandomJobType(r)}
		} else {
			hasHome = true
		}
		places = append(places, entity.Place{Position: p, Location: loc})
	})
	if !hasHome && len(places) > 0 {
		places[0].Location = entity.Location{Kind: entity.LocationHome}
	}
	return places
}

// connect 给每个人随机结识 2~4 个熟人，关系是双向的。
func connect(people []*entity.Person, r *rand.Rand) {
	if len(people) < 2 {
		return
	}
	for _, p := range people {
		n := 2 + r.IntN(3)
		for i := 0; i < n; i++ {
			other := people[r.IntN(len(people))]
			if other.ID == p.ID {
				continue
			}
			p.Habits.AddAcquaintance(other.ID)
			other.Habits.AddAcquaintance(p.ID)
		}
	}
}

func seedInfection(people []*entity.Person, n int, r *rand.Rand) {
	n = min(n, len(people))
	for _, i := range r.Perm(len(people))[:n] {
		people[i].Infected = true
	}
}
