package model

import (
	"time"

	"Outbreak/internal/history/entity"
)

// MatchDoc 是 mongodb 里的一条对局记录。
type MatchDoc struct {
	ID          int64     `bson:"_id"`
	Player1     string    `bson:"player1"`
	Player2     string    `bson:"player2"`
	Winner      string    `bson:"winner,omitempty"`
	Ticks       uint64    `bson:"ticks"`
	Days        uint32    `bson:"days"`
	Population  int       `bson:"population"`
	Infected    int       `bson:"infected"`
	StartedAt   time.Time `bson:"started_at"`
	EndedAt     time.Time `bson:"ended_at"`
	AbortReason string    `bson:"abort_reason,omitempty"`
}

// Match 是 mysql 表 match_history 的一行。
type Match struct {
	ID          int64     `gorm:"column:id;type:bigint;primaryKey;not null;autoIncrement:false;" json:"id"`
	Player1     string    `gorm:"column:player1;type:varchar(16);comment:一号位阵营;not null;" json:"player1"`
	Player2     string    `gorm:"column:player2;type:varchar(16);comment:二号位阵营;not null;" json:"player2"`
	Winner      string    `gorm:"column:winner;type:varchar(16);comment:胜方，中止为空;" json:"winner"`
	Ticks       uint64    `gorm:"column:ticks;type:bigint UNSIGNED;not null;default:0;" json:"ticks"`
	Days        uint32    `gorm:"column:days;type:int UNSIGNED;not null;default:0;" json:"days"`
	Population  int       `gorm:"column:population;type:int;not null;default:0;" json:"population"`
	Infected    int       `gorm:"column:infected;type:int;comment:结束时存活感染者;not null;default:0;" json:"infected"`
	StartedAt   time.Time `gorm:"column:started_at;type:datetime(3);not null;" json:"started_at"`
	EndedAt     time.Time `gorm:"column:ended_at;type:datetime(3);index;not null;" json:"ended_at"`
	AbortReason string    `gorm:"column:abort_reason;type:varchar(64);" json:"abort_reason"`
}

func (m *Match) TableName() string {
	return "match_history"
}

func RecordToDoc(r *entity.MatchRecord) MatchDoc {
	return MatchDoc{
		ID:          r.ID,
		Player1:     r.Player1,
		Player2:     r.Player2,
		Winner:      r.Winner,
		Ticks:       r.Ticks,
		Days:        r.Days,
		Population:  r.Population,
		Infected:    r.Infected,
		StartedAt:   r.StartedAt,
		EndedAt:     r.EndedAt,
		AbortReason: r.AbortReason,
	}
}

func DocToRecord(d MatchDoc) entity.MatchRecord {
	return entity.MatchRecord{
		ID:          d.ID,
		Player1:     d.Player1,
		Player2:     d.Player2,
		Winner:      d.Winner,
		Ticks:       d.Ticks,
		Days:        d.Days,
		Population:  d.Population,
		Infected:    d.Infected,
		StartedAt:   d.StartedAt,
		EndedAt:     d.EndedAt,
		AbortReason: d.AbortReason,
	}
}

func RecordToRow(r *entity.MatchRecord) *Match {
	return &Match{
		ID:          r.ID,
		Player1:     r.Player1,
		Player2:     r.Player2,
		Winner:      r.Winner,
		Ticks:       r.Ticks,
		Days:        r.Days,
		Population:  r.Population,
		Infected:    r.Infected,
		StartedAt:   r.StartedAt,
		EndedAt:     r.EndedAt,
		AbortReason: r.AbortReason,
	}
}

func RowToRecord(m *Match) entity.MatchRecord {
	return entity.MatchRecord{
		ID:          m.ID,
		Player1:     m.Player1,
		Player2:     m.Player2,
		Winner:      m.Winner,
		Ticks:       m.Ticks,
		Days:        m.Days,
		Population:  m.Population,
		Infected:    m.Infected,
		StartedAt:   m.StartedAt,
		EndedAt:     m.EndedAt,
		AbortReason: m.AbortReason,
	}
}
