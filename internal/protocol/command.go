package protocol

import (
	"Outbreak/internal/sim/entity"
)

type CommandKind uint8

const (
	CmdRoadBlock CommandKind = iota + 1
	CmdLockdown
	CmdTestCenter
	CmdVaccineCenter
	CmdMaskCampaign
	CmdAntivaxCampaign
	CmdSocialImpulse
	CmdPartyImpulse
	CmdEconomicCrash
)

// Target 描述指令作用对象。
type Target uint8

const (
	TargetNone Target = iota
	TargetPosition
	TargetPerson
)

var commandNames = map[CommandKind]string{
	CmdRoadBlock:       "road_block",
	CmdLockdown:        "lockdown",
	CmdTestCenter:      "test_center",
	CmdVaccineCenter:   "vaccine_center",
	CmdMaskCampaign:    "mask_campaign",
	CmdAntivaxCampaign: "antivax_campaign",
	CmdSocialImpulse:   "social_impulse",
	CmdPartyImpulse:    "party_impulse",
	CmdEconomicCrash:   "economic_crash",
}

func (k CommandKind) String() string {
	if name, ok := commandNames[k]; ok {
		return name
	}
	return "unknown"
}

func (k CommandKind) Valid() bool {
	_, ok := commandNames[k]
	return ok
}

func (k CommandKind) Target() Target {
	switch k {
	case CmdPartyImpulse:
		return TargetPerson
	case CmdEconomicCrash:
		return TargetNone
	default:
		return TargetPosition
	}
}

// ParseCommandKind 按配置里的名字（如 road_block）查指令。
func ParseCommandKind(name string) (CommandKind, bool) {
	for k, n := range commandNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// AllCommands 按编号顺序返回全部指令。
func AllCommands() []CommandKind {
	out := make([]CommandKind, 0, len(commandNames))
	for k := CmdRoadBlock; k <= CmdEconomicCrash; k++ {
		out = append(out, k)
	}
	return out
}

// PlayerCommand 是客户端发来的唯一消息。按 Kind 只读取对应的字段。
type PlayerCommand struct {
	Kind     CommandKind     `msgpack:"kind"`
	Position entity.Position `msgpack:"pos"`
	Person   entity.PersonID `msgpack:"person"`
}

func RoadBlock(p entity.Position) PlayerCommand {
	return PlayerCommand{Kind: CmdRoadBlock, Position: p}
}

func Lockdown(p entity.Position) PlayerCommand {
	return PlayerCommand{Kind: CmdLockdown, Position: p}
}

func TestCenter(p entity.Position) PlayerCommand {
	return PlayerCommand{Kind: CmdTestCenter, Position: p}
}

func VaccineCenter(p entity.Position) PlayerCommand {
	return PlayerCommand{Kind: CmdVaccineCenter, Position: p}
}

func MaskCampaign(p entity.Position) PlayerCommand {
	return PlayerCommand{Kind: CmdMaskCampaign, Position: p}
}

func AntivaxCampaign(p entity.Position) PlayerCommand {
	return PlayerCommand{Kind: CmdAntivaxCampaign, Position: p}
}

func SocialImpulse(p entity.Position) PlayerCommand {
	return PlayerCommand{Kind: CmdSocialImpulse, Position: p}
}

func PartyImpulse(id entity.PersonID) PlayerCommand {
	return PlayerCommand{Kind: CmdPartyImpulse, Person: id}
}

func EconomicCrash() PlayerCommand {
	return PlayerCommand{Kind: CmdEconomicCrash}
}
