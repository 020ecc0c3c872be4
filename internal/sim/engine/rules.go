package engine

import (
	"Outbreak/internal/protocol"
	"Outbreak/internal/sim/entity"
)

// Rules 是一局游戏的全部可调参数，开局时确定，之后不变。
type Rules struct {
	TickRate      uint8
	StartTick     uint64
	PassiveIncome uint32

	ContactCooldownTicks   uint64
	BaseInfectionChance    float64
	InfectionDurationTicks uint64

	// 每 tick 出门上班/下班的概率
	CommuteChance float64
	// 下班后在家时每 tick 去购物的概率
	ShoppingChance float64
	// 购物停留时长 [ShoppingMin, ShoppingMin+ShoppingSpread)
	ShoppingMin    uint64
	ShoppingSpread uint64

	LockdownTicks      uint32
	CampaignTicks      uint32
	PartyTicks         uint32
	SocialImpulseTicks uint32
	SocialImpulseCrowd int

	WinAfterDays uint32
	WinRatio     float64

	Prices map[protocol.CommandKind]uint32
}

func DefaultRules() Rules {
	return Rules{
		TickRate:               10,
		StartTick:              120,
		PassiveIncome:          1,
		ContactCooldownTicks:   20,
		BaseInfectionChance:    0.0015,
		InfectionDurationTicks: 2880,
		CommuteChance:          0.05,
		ShoppingChance:         0.0005,
		ShoppingMin:            90,
		ShoppingSpread:         30,
		LockdownTicks:          1440,
		CampaignTicks:          480,
		PartyTicks:             300,
		SocialImpulseTicks:     120,
		SocialImpulseCrowd:     20,
		WinAfterDays:           3,
		WinRatio:               2.0,
		Prices:                 DefaultPrices(),
	}
}

func DefaultPrices() map[protocol.CommandKind]uint32 {
	return map[protocol.CommandKind]uint32{
		protocol.CmdPartyImpulse:    250,
		protocol.CmdAntivaxCampaign: 800,
		protocol.CmdRoadBlock:       80,
		protocol.CmdSocialImpulse:   180,
		protocol.CmdEconomicCrash:   800,
		protocol.CmdTestCenter:      300,
		protocol.CmdLockdown:        100,
		protocol.CmdVaccineCenter:   600,
		protocol.CmdMaskCampaign:    200,
	}
}

// Price 返回指令价格，未配置的指令按内置价格。
func (r Rules) Price(k protocol.CommandKind) uint32 {
	if p, ok := r.Prices[k]; ok {
		return p
	}
	return DefaultPrices()[k]
}

// TileRule 描述指令对目标格子的要求：格子必须恰好等于 From，执行后变成 To。
type TileRule struct {
	From entity.Tile
	To   entity.Tile
}

// CommandSpec 是一条指令的静态规则。
type CommandSpec struct {
	Kind  protocol.CommandKind
	Sides []protocol.Side
	Price uint32
	Tiles []TileRule
}

func (s CommandSpec) AllowedFor(side protocol.Side) bool {
	for _, allowed := range s.Sides {
		if allowed == side {
			return true
		}
	}
	return false
}

// Transition 查找格子 t 适用的规则。
func (s CommandSpec) Transition(t entity.Tile) (entity.Tile, bool) {
	for _, r := range s.Tiles {
		if r.From == t {
			return r.To, true
		}
	}
	return entity.Tile{}, false
}

var (
	virusOnly     = []protocol.Side{protocol.SideVirus}
	presidentOnly = []protocol.Side{protocol.SidePresident}
	bothSides     = []protocol.Side{protocol.SideVirus, protocol.SidePresident}
)

// Spec 返回指令 k 在当前规则下的完整定义。
func (r Rules) Spec(k protocol.CommandKind) (CommandSpec, bool) {
	spec := CommandSpec{Kind: k, Price: r.Price(k)}
	empty := entity.EmptyTile()
	switch k {
	case protocol.CmdRoadBlock:
		// 路障可以放也可以拆
		spec.Sides = bothSides
		spec.Tiles = []TileRule{
			{From: empty, To: entity.RoadBlockTile()},
			{From: entity.RoadBlockTile(), To: empty},
		}
	case protocol.CmdLockdown:
		spec.Sides = presidentOnly
		spec.Tiles = []TileRule{{From: entity.DoorTile(), To: entity.LockedDoorTile(r.LockdownTicks)}}
	case protocol.CmdTestCenter:
		spec.Sides = presidentOnly
		spec.Tiles = []TileRule{{From: empty, To: entity.TestCenterTile()}}
	case protocol.CmdVaccineCenter:
		spec.Sides = presidentOnly
		spec.Tiles = []TileRule{{From: empty, To: entity.VaccineCenterTile()}}
	case protocol.CmdMaskCampaign:
		spec.Sides = presidentOnly
		spec.Tiles = []TileRule{{From: empty, To: entity.MaskCampaignTile(r.CampaignTicks)}}
	case protocol.CmdAntivaxCampaign:
		spec.Sides = virusOnly
		spec.Tiles = []TileRule{{From: empty, To: entity.AntivaxCampaignTile(r.CampaignTicks)}}
	case protocol.CmdSocialImpulse:
		spec.Sides = virusOnly
		spec.Tiles = []TileRule{{From: empty, To: empty}}
	case protocol.CmdPartyImpulse, protocol.CmdEconomicCrash:
		spec.Sides = virusOnly
	default:
		return CommandSpec{}, false
	}
	return spec, true
}
