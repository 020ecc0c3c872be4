package protocol

// NetworkPayload 是服务端每 tick 发给每个玩家的一帧。Side 和 Money 因人而异，Updates 两人相同。
// Timestamp 是 unix 秒。
type NetworkPayload struct {
	Timestamp uint64        `msgpack:"ts"`
	TickCount uint64        `msgpack:"tick"`
	Age       uint64        `msgpack:"age"`
	TickRate  uint8         `msgpack:"rate"`
	Side      Side          `msgpack:"side"`
	Money     uint32        `msgpack:"money"`
	Updates   []StateUpdate `msgpack:"updates"`
}
