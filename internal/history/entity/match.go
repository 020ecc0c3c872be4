package entity

import (
	"errors"
	"time"
)

type MatchID = int64

var ErrMatchNotFound = errors.New("match record not found")

// MatchRecord 是一局结束后的审计记录，只写不读回，不用于恢复对局。
type MatchRecord struct {
	ID      MatchID
	Player1 string // 阵营
	Player2 string
	Winner  string // 中止的对局为空
	Ticks   uint64
	Days    uint32

	Population int
	Infected   int

	StartedAt time.Time
	EndedAt   time.Time
	// 非空表示对局被中止，记录错误码
	AbortReason string
}

func (r MatchRecord) Aborted() bool {
	return r.AbortReason != ""
}

func (r MatchRecord) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}
