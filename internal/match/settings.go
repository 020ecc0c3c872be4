package match

import (
	"time"

	"Outbreak/internal/protocol"
	"Outbreak/internal/shared/serverconfig"
	"Outbreak/internal/sim/engine"
	"Outbreak/internal/sim/worldgen"
)

// Settings 是开一局所需的全部参数，开局时从配置快照生成，对局期间不变。
type Settings struct {
	Rules engine.Rules
	World worldgen.Settings
	// 0 表示每局随机
	Seed uint64

	CommandQueueSize  int
	OutboundQueueSize int
	CommandsPerSecond float64
	CommandBurst      int
	WriteStallTimeout time.Duration
	// 分出胜负后等待最后几帧写完的上限
	FlushTimeout time.Duration
}

func DefaultSettings() Settings {
	return Settings{
		Rules:             engine.DefaultRules(),
		World:             worldgen.DefaultSettings(),
		CommandQueueSize:  256,
		OutboundQueueSize: 1000,
		CommandsPerSecond: 20,
		CommandBurst:      10,
		WriteStallTimeout: 2 * time.Second,
		FlushTimeout:      2 * time.Second,
	}
}

// SettingsFromConfig 把配置文件里的 game/economy/net 段映射成对局参数，缺省项沿用内置值。
func SettingsFromConfig(conf serverconfig.Config) Settings {
	s := DefaultSettings()
	g := conf.Game

	if g.TickRate > 0 {
		s.Rules.TickRate = g.TickRate
	}
	s.Rules.StartTick = g.StartTick
	if g.WinAfterDays > 0 {
		s.Rules.WinAfterDays = g.WinAfterDays
	}
	if g.WinRatio > 0 {
		s.Rules.WinRatio = g.WinRatio
	}
	if g.ContactCooldownTicks > 0 {
		s.Rules.ContactCooldownTicks = g.ContactCooldownTicks
	}
	if g.BaseInfectionChance > 0 {
		s.Rules.BaseInfectionChance = g.BaseInfectionChance
	}
	if g.InfectionDurationTicks > 0 {
		s.Rules.InfectionDurationTicks = g.InfectionDurationTicks
	}

	s.Rules.PassiveIncome = conf.Economy.PassiveIncome
	prices := engine.DefaultPrices()
	for name, price := range conf.Economy.Prices {
		if k, ok := protocol.ParseCommandKind(name); ok {
			prices[k] = price
		}
	}
	s.Rules.Prices = prices

	if g.WidthChunks > 0 {
		s.World.WidthChunks = g.WidthChunks
	}
	if g.HeightChunks > 0 {
		s.World.HeightChunks = g.HeightChunks
	}
	if g.Population > 0 {
		s.World.Population = g.Population
	}
	if g.Infected >= 0 {
		s.World.Infected = g.Infected
	}
	if g.MaxTries > 0 {
		s.World.MaxTries = g.MaxTries
	}
	s.Seed = g.Seed

	n := conf.Net
	if n.CommandQueueSize > 0 {
		s.CommandQueueSize = n.CommandQueueSize
	}
	if n.OutboundQueueSize > 0 {
		s.OutboundQueueSize = n.OutboundQueueSize
	}
	if n.CommandsPerSecond > 0 {
		s.CommandsPerSecond = n.CommandsPerSecond
		s.CommandBurst = n.CommandBurst
	}
	if n.WriteStallTimeout > 0 {
		s.WriteStallTimeout = n.WriteStallTimeout
	}
	return s
}

// TickInterval 是两次 tick 之间的目标间隔。
func (s Settings) TickInterval() time.Duration {
	rate := s.Rules.TickRate
	if rate == 0 {
		rate = 1
	}
	return time.Second / time.Duration(rate)
}
