package protocol

// Side 是玩家阵营。
type Side uint8

const (
	SideNone Side = iota
	SideVirus
	SidePresident
)

func (s Side) String() string {
	switch s {
	case SideVirus:
		return "virus"
	case SidePresident:
		return "president"
	default:
		return "none"
	}
}

func (s Side) Opponent() Side {
	switch s {
	case SideVirus:
		return SidePresident
	case SidePresident:
		return SideVirus
	default:
		return SideNone
	}
}
