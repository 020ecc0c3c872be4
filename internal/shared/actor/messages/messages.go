package messages

import (
	"time"

	"Outbreak/internal/protocol"
)

// FailResp 是 actor 请求失败时的统一应答。
type FailResp struct {
	Code    int
	Message string
}

// Join 把一条新连接放进大厅排队。
type Join struct {
	Conn protocol.FrameConn
}

// ListMatches 查询进行中的对局和排队人数，应答 *MatchList。
type ListMatches struct{}

type MatchInfo struct {
	ID      int64     `json:"id"`
	Sides   [2]string `json:"sides"`
	Remotes [2]string `json:"remotes"`
	Tick    uint64    `json:"tick"`
	Started time.Time `json:"started"`
}

type MatchList struct {
	Matches []MatchInfo `json:"matches"`
	Waiting int         `json:"waiting"`
}

// MatchEnded 由对局协程在 Run 返回后发回大厅。
type MatchEnded struct {
	ID int64
}
