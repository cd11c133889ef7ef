// Package config loads settings from the environment, with an optional yaml
// file underneath. Environment wins.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	DBPath      string   `mapstructure:"db_path"`
	ListenAddr  string   `mapstructure:"listen_addr"`
	CORSOrigins []string `mapstructure:"cors_origins"`

	BotToken  string `mapstructure:"bot_token"`
	BotAPIURL string `mapstructure:"bot_api_url"`
	WebAppURL string `mapstructure:"web_app_url"`

	ChatAuthKey  string `mapstructure:"chat_auth_key"`
	ChatTokenURL string `mapstructure:"chat_token_url"`
	ChatAPIURL   string `mapstructure:"chat_api_url"`
	ChatScope    string `mapstructure:"chat_scope"`

	LogLevel string `mapstructure:"log_level"`
}

// Load reads TASKBOT_* environment variables over an optional config file
// (path may be empty). The legacy unprefixed names the deployment already
// uses are honored as a fallback.
func Load(file string) (*Config, error) {
	v := viper.New()

	v.SetDefault("db_path", "")
	v.SetDefault("listen_addr", ":8000")
	v.SetDefault("cors_origins", []string{
		"https://webtomax.vercel.app",
		"http://localhost:3000",
		"http://localhost:5173",
	})
	v.SetDefault("bot_api_url", "https://botapi.max.ru")
	v.SetDefault("web_app_url", "https://webtomax.vercel.app")
	v.SetDefault("chat_token_url", "https://ngw.devices.sberbank.ru:9443/api/v2/oauth")
	v.SetDefault("chat_api_url", "https://gigachat.devices.sberbank.ru/api/v1/chat/completions")
	v.SetDefault("chat_scope", "GIGACHAT_API_PERS")
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("TASKBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Legacy names predate the TASKBOT_ prefix and are still set in the
	// deployed environment.
	_ = v.BindEnv("bot_token", "TASKBOT_BOT_TOKEN", "MAX_BOT_TOKEN")
	_ = v.BindEnv("web_app_url", "TASKBOT_WEB_APP_URL", "WEB_APP_URL")
	_ = v.BindEnv("chat_auth_key", "TASKBOT_CHAT_AUTH_KEY", "GIGACHAT_CLIENT_SECRET")
	_ = v.BindEnv("db_path", "TASKBOT_DB_PATH", "DATABASE_PATH")

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
