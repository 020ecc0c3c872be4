package entity

import "fmt"

// Time 是模拟时间，1 tick = 1 分钟。
type Time struct {
	Days    uint32 `msgpack:"d"`
	Hours   uint32 `msgpack:"h"`
	Minutes uint32 `msgpack:"m"`
}

func TimeFromTicks(ticks uint64) Time {
	return Time{
		Days:    uint32(ticks / (24 * 60)),
		Hours:   uint32(ticks / 60 % 24),
		Minutes: uint32(ticks % 60),
	}
}

func (t Time) TotalMinutes() uint64 {
	return uint64(t.Days)*24*60 + uint64(t.Hours)*60 + uint64(t.Minutes)
}

func (t Time) String() string {
	return fmt.Sprintf("day %d %02d:%02d", t.Days, t.Hours, t.Minutes)
}
