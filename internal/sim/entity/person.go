package entity

import (
	"math/rand/v2"
	"slices"
)

// PersonID 是人口数组里的下标，生成后不变。
type PersonID uint32

// Habits 里的熟人只存 id，查询时回到人口数组里找；列表保持升序。
type Habits struct {
	Mask          float64    `msgpack:"mask"`
	Hygiene       float64    `msgpack:"hygiene"`
	SocialScore   float64    `msgpack:"social"`
	VaccineBias   float64    `msgpack:"vaccine_bias"`
	Acquaintances []PersonID `msgpack:"acq"`
}

func (h *Habits) Knows(id PersonID) bool {
	_, found := slices.BinarySearch(h.Acquaintances, id)
	return found
}

// AddAcquaintance 有序插入，已存在时返回 false。
func (h *Habits) AddAcquaintance(id PersonID) bool {
	i, found := slices.BinarySearch(h.Acquaintances, id)
	if found {
		return false
	}
	h.Acquaintances = slices.Insert(h.Acquaintances, i, id)
	return true
}

func (h Habits) Clone() Habits {
	h.Acquaintances = slices.Clone(h.Acquaintances)
	return h
}

type Person struct {
	ID              PersonID `msgpack:"id"`
	Alive           bool     `msgpack:"alive"`
	Infected        bool     `msgpack:"infected"`
	TickInfected    uint64   `msgpack:"tick_infected"`
	TickLastTouched uint64   `msgpack:"tick_touched"`
	Tested          bool     `msgpack:"tested"`
	Vaccinated      bool     `msgpack:"vaccinated"`
	Age             uint8    `msgpack:"age"`
	Sex             bool     `msgpack:"sex"`
	Job             Job      `msgpack:"job"`
	Position        Position `msgpack:"pos"`
	Home            Position `msgpack:"home"`
	Habits          Habits   `msgpack:"habits"`
}

// NewPerson 随机生成一个住在 home 的居民，初始站在家门口。
func NewPerson(r *rand.Rand, id PersonID, home Position, job Job) *Person {
	return &Person{
		ID:       id,
		Alive:    true,
		Age:      uint8(r.IntN(100)),
		Sex:      r.IntN(2) == 0,
		Job:      job,
		Position: home,
		Home:     home,
		Habits: Habits{
			Mask:        r.Float64(),
			Hygiene:     r.Float64(),
			SocialScore: r.Float64(),
			VaccineBias: r.Float64(),
		},
	}
}

func (p *Person) Clone() *Person {
	out := *p
	out.Habits = p.Habits.Clone()
	if p.Job.Location != nil {
		loc := *p.Job.Location
		out.Job.Location = &loc
	}
	return &out
}

// Quarantined 已确诊的感染者留在家里。
func (p *Person) Quarantined() bool {
	return p.Tested && p.Infected
}
