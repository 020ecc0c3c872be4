package entity

type TileKind uint8

const (
	TileEmpty TileKind = iota
	TileBuilding
	TileDoor
	TileRoadBlock
	TileTestCenter
	TileVaccineCenter
	TileMaskCampaign
	TileAntivaxCampaign
)

var tileKindNames = [...]string{
	TileEmpty:           "empty",
	TileBuilding:        "building",
	TileDoor:            "door",
	TileRoadBlock:       "road_block",
	TileTestCenter:      "test_center",
	TileVaccineCenter:   "vaccine_center",
	TileMaskCampaign:    "mask_campaign",
	TileAntivaxCampaign: "antivax_campaign",
}

func (k TileKind) String() string {
	if int(k) < len(tileKindNames) {
		return tileKindNames[k]
	}
	return "unknown"
}

// Tile 是一个格子的内容。Timer 只对门（封锁剩余 tick）和宣传点（剩余 tick）有意义，0 表示没有计时。
type Tile struct {
	Kind  TileKind `msgpack:"k"`
	Timer uint32   `msgpack:"t"`
}

func EmptyTile() Tile { return Tile{Kind: TileEmpty} }
func BuildingTile() Tile { return Tile{Kind: TileBuilding} }
func DoorTile() Tile { return Tile{Kind: TileDoor} }
func RoadBlockTile() Tile { return Tile{Kind: TileRoadBlock} }
func TestCenterTile() Tile { return Tile{Kind: TileTestCenter} }
func VaccineCenterTile() Tile { return Tile{Kind: TileVaccineCenter} }
func LockedDoorTile(ticks uint32) Tile {
	return Tile{Kind: TileDoor, Timer: ticks}
}
func MaskCampaignTile(ticks uint32) Tile {
	return Tile{Kind: TileMaskCampaign, Timer: ticks}
}
func AntivaxCampaignTile(ticks uint32) Tile {
	return Tile{Kind: TileAntivaxCampaign, Timer: ticks}
}

// Walkable 只由格子类型决定：建筑和路障挡路，封锁中的门挡路，其余都能走。
func (t Tile) Walkable() bool {
	switch t.Kind {
	case TileBuilding, TileRoadBlock:
		return false
	case TileDoor:
		return t.Timer == 0
	default:
		return true
	}
}

func (t Tile) Locked() bool {
	return t.Kind == TileDoor && t.Timer > 0
}

// Timed 报告格子是否带倒计时，带倒计时的格子每 tick 递减。
func (t Tile) Timed() bool {
	switch t.Kind {
	case TileDoor, TileMaskCampaign, TileAntivaxCampaign:
		return t.Timer > 0
	default:
		return false
	}
}

// Expired 返回倒计时归零后格子变成什么：门解锁，宣传点消失。
func (t Tile) Expired() Tile {
	switch t.Kind {
	case TileDoor:
		return DoorTile()
	case TileMaskCampaign, TileAntivaxCampaign:
		return EmptyTile()
	default:
		return t
	}
}

func (t Tile) String() string {
	if t.Timer > 0 {
		return t.Kind.String() + "*"
	}
	return t.Kind.String()
}
