package config

import (
	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Load 读取 configPath；defaults 里的 key 在文件缺省时生效。
func Load(configPath string, defaults map[string]any) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	return v, nil
}

// Decode 把当前配置反序列化到 out，支持 "250ms" 这类时长写法和逗号分隔的列表。
func Decode(v *viper.Viper, out any) error {
	return v.Unmarshal(out, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
}

// Watch 监听配置文件变更，每次变更后回调 onChange。
func Watch(v *viper.Viper, onChange func(v *viper.Viper, e fsnotify.Event)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		onChange(v, e)
	})
	v.WatchConfig()
}
