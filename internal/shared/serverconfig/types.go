package serverconfig

import "time"

type Config struct {
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Game    GameConfig    `yaml:"game" mapstructure:"game"`
	Economy EconomyConfig `yaml:"economy" mapstructure:"economy"`
	Net     NetConfig     `yaml:"net" mapstructure:"net"`
	History HistoryConfig `yaml:"history" mapstructure:"history"`
	Admin   AdminConfig   `yaml:"admin" mapstructure:"admin"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

type ServerConfig struct {
	TCPAddr  string `yaml:"tcp_addr" mapstructure:"tcp_addr"`
	HTTPAddr string `yaml:"http_addr" mapstructure:"http_addr"`
	// 节点号，参与对局 id 的生成
	NodeID int64 `yaml:"node_id" mapstructure:"node_id"`
}

type GameConfig struct {
	TickRate     uint8  `yaml:"tick_rate" mapstructure:"tick_rate"`
	StartTick    uint64 `yaml:"start_tick" mapstructure:"start_tick"`
	Seed         uint64 `yaml:"seed" mapstructure:"seed"` // 0 表示每局随机
	WidthChunks  int    `yaml:"width_chunks" mapstructure:"width_chunks"`
	HeightChunks int    `yaml:"height_chunks" mapstructure:"height_chunks"`
	Population   int    `yaml:"population" mapstructure:"population"`
	Infected     int    `yaml:"initial_infected" mapstructure:"initial_infected"`
	MaxTries     int    `yaml:"max_tries" mapstructure:"max_tries"`

	WinAfterDays uint32  `yaml:"win_after_days" mapstructure:"win_after_days"`
	WinRatio     float64 `yaml:"win_ratio" mapstructure:"win_ratio"`

	ContactCooldownTicks   uint64  `yaml:"contact_cooldown_ticks" mapstructure:"contact_cooldown_ticks"`
	BaseInfectionChance    float64 `yaml:"base_infection_chance" mapstructure:"base_infection_chance"`
	InfectionDurationTicks uint64  `yaml:"infection_duration_ticks" mapstructure:"infection_duration_ticks"`
}

type EconomyConfig struct {
	PassiveIncome uint32 `yaml:"passive_income" mapstructure:"passive_income"`
	// 指令名 -> 价格，覆盖内置价格表，例如 road_block: 80
	Prices map[string]uint32 `yaml:"prices" mapstructure:"prices"`
}

type NetConfig struct {
	CommandQueueSize  int           `yaml:"command_queue_size" mapstructure:"command_queue_size"`
	OutboundQueueSize int           `yaml:"outbound_queue_size" mapstructure:"outbound_queue_size"`
	CommandsPerSecond float64       `yaml:"commands_per_second" mapstructure:"commands_per_second"`
	CommandBurst      int           `yaml:"command_burst" mapstructure:"command_burst"`
	MaxFrameSize      uint32        `yaml:"max_frame_size" mapstructure:"max_frame_size"`
	WriteStallTimeout time.Duration `yaml:"write_stall_timeout" mapstructure:"write_stall_timeout"`
}

type HistoryConfig struct {
	Backend string      `yaml:"backend" mapstructure:"backend"` // memory | mongo | mysql
	Mongo   MongoConfig `yaml:"mongodb" mapstructure:"mongodb"`
	MySQL   MySQLConfig `yaml:"mysql" mapstructure:"mysql"`
	Keep    int         `yaml:"keep" mapstructure:"keep"` // memory 后端保留条数
}

type MongoConfig struct {
	URI      string `yaml:"uri" mapstructure:"uri"`
	Database string `yaml:"database" mapstructure:"database"`
}

type MySQLConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	DBName   string `yaml:"dbname" mapstructure:"dbname"`
	Charset  string `yaml:"charset" mapstructure:"charset"`
	MaxIdle  int    `yaml:"max_idle" mapstructure:"max_idle"`
	MaxConn  int    `yaml:"max_conn" mapstructure:"max_conn"`
}

type AdminConfig struct {
	// 为空时管理接口不做鉴权，只建议本地开发使用
	JWTSecret string        `yaml:"jwt_secret" mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl" mapstructure:"token_ttl"`
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"`
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}
