package serverconfig

import (
	"sync/atomic"

	"Outbreak/internal/shared/config"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

var current atomic.Pointer[Config]

// Defaults 是配置文件缺省 key 时的取值。
func Defaults() map[string]any {
	return map[string]any{
		"server.tcp_addr":  ":3000",
		"server.http_addr": ":8080",
		"server.node_id":   1,

		"game.tick_rate":                10,
		"game.start_tick":               120,
		"game.width_chunks":             24,
		"game.height_chunks":            16,
		"game.population":               400,
		"game.initial_infected":         10,
		"game.max_tries":                10,
		"game.win_after_days":           3,
		"game.win_ratio":                2.0,
		"game.contact_cooldown_ticks":   20,
		"game.base_infection_chance":    0.0015,
		"game.infection_duration_ticks": 2880,

		"economy.passive_income": 1,

		"net.command_queue_size":  256,
		"net.outbound_queue_size": 1000,
		"net.commands_per_second": 20,
		"net.command_burst":       10,
		"net.max_frame_size":      16 << 20,
		"net.write_stall_timeout": "2s",

		"history.backend":          "memory",
		"history.keep":             200,
		"history.mongodb.database": "outbreak",
		"history.mysql.charset":    "utf8mb4",

		"admin.token_ttl": "12h",

		"log.level":    "info",
		"log.max_size": 100,
	}
}

// Load 读取配置并开启热更新。热更新只影响之后新开的对局，进行中的对局持有开局时的快照。
func Load(cfgName string, onReload func(Config, error)) (Config, error) {
	path, err := config.Resolve(cfgName)
	if err != nil {
		return Config{}, err
	}
	v, err := config.Load(path, Defaults())
	if err != nil {
		return Config{}, err
	}
	conf, err := decode(v)
	if err != nil {
		return Config{}, err
	}
	current.Store(&conf)

	config.Watch(v, func(v *viper.Viper, _ fsnotify.Event) {
		next, err := decode(v)
		if err == nil {
			current.Store(&next)
		}
		if onReload != nil {
			onReload(next, err)
		}
	})
	return conf, nil
}

// Current 返回最近一次成功加载的配置快照。
func Current() Config {
	if c := current.Load(); c != nil {
		return *c
	}
	return Config{}
}

func decode(v *viper.Viper) (Config, error) {
	var conf Config
	if err := config.Decode(v, &conf); err != nil {
		return Config{}, err
	}
	return conf, nil
}
