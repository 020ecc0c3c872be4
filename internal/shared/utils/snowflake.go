package utils

import (
	"fmt"
	"sync"
	"time"
)

const (
	// 2026-01-01 00:00:00 UTC，单位毫秒
	idEpochMilli int64 = 1767225600000

	nodeBits uint8 = 10
	seqBits  uint8 = 12

	maxNodeID int64 = -1 ^ (-1 << nodeBits)
	maxSeq    int64 = -1 ^ (-1 << seqBits)

	nodeShift uint8 = seqBits
	timeShift uint8 = nodeBits + seqBits
)

// Snowflake 生成对局 id：毫秒时间 | 节点号 | 序号。多节点部署时 id 全局唯一且大致按开局时间排序。
type Snowflake struct {
	mu     sync.Mutex
	nodeID int64
	lastTS int64
	seq    int64
	now    func() int64
}

func NewSnowflake(nodeID int64) (*Snowflake, error) {
	if nodeID < 0 || nodeID > maxNodeID {
		return nil, fmt.Errorf("snowflake node id out of range [0,%d]: %d", maxNodeID, nodeID)
	}
	return &Snowflake{nodeID: nodeID, now: func() int64 { return time.Now().UnixMilli() }}, nil
}

func (s *Snowflake) NextID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := max(s.now(), s.lastTS) // 时钟回拨时沿用上次时间
	if ts == s.lastTS {
		s.seq = (s.seq + 1) & maxSeq
		if s.seq == 0 {
			// 本毫秒序号用尽
			for ts <= s.lastTS {
				ts = s.now()
			}
		}
	} else {
		s.seq = 0
	}

	s.lastTS = ts
	return ((ts - idEpochMilli) << timeShift) | (s.nodeID << nodeShift) | s.seq
}

// NodeOf 取出 id 里的节点号。
func NodeOf(id int64) int64 {
	return (id >> nodeShift) & maxNodeID
}
