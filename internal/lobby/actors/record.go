package actors

import (
	"cmp"
	"slices"

	"Outbreak/internal/history/entity"
	"Outbreak/internal/match"
	"Outbreak/internal/protocol"
	"Outbreak/internal/shared/actor/messages"
	"Outbreak/modules/kit/errx"
)

// ToRecord 把对局结果转成历史记录。中止的对局不记胜方，只记错误码。
func ToRecord(res match.Result) entity.MatchRecord {
	rec := entity.MatchRecord{
		ID:         res.ID,
		Player1:    res.Sides[0].String(),
		Player2:    res.Sides[1].String(),
		Ticks:      res.Ticks,
		Days:       res.Days,
		Population: res.Population,
		Infected:   res.Infected,
		StartedAt:  res.Started,
		EndedAt:    res.Ended,
	}
	if res.Err != nil {
		rec.AbortReason = errx.Wrap(res.Err, errx.ErrInternal).CodeText()
		return rec
	}
	if res.Winner != protocol.SideNone {
		rec.Winner = res.Winner.String()
	}
	return rec
}

func sortMatches(ms []messages.MatchInfo) {
	slices.SortFunc(ms, func(a, b messages.MatchInfo) int {
		return cmp.Compare(a.ID, b.ID)
	})
}
