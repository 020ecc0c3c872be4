package handler

import (
	"time"

	"Outbreak/internal/history/entity"
)

type MatchRecordResp struct {
	ID          int64     `json:"id"`
	Sides       [2]string `json:"sides"`
	Winner      string    `json:"winner,omitempty"`
	Ticks       uint64    `json:"ticks"`
	Days        uint32    `json:"days"`
	Population  int       `json:"population"`
	Infected    int       `json:"infected"`
	StartedAt   time.Time `json:"started_at"`
	EndedAt     time.Time `json:"ended_at"`
	DurationMs  int64     `json:"duration_ms"`
	AbortReason string    `json:"abort_reason,omitempty"`
}

func toResp(r entity.MatchRecord) MatchRecordResp {
	return MatchRecordResp{
		ID:          r.ID,
		Sides:       [2]string{r.Player1, r.Player2},
		Winner:      r.Winner,
		Ticks:       r.Ticks,
		Days:        r.Days,
		Population:  r.Population,
		Infected:    r.Infected,
		StartedAt:   r.StartedAt,
		EndedAt:     r.EndedAt,
		DurationMs:  r.Duration().Milliseconds(),
		AbortReason: r.AbortReason,
	}
}
