package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config 服务端配置
type Config struct {
	Server ServerConfig `yaml:"server"`
	Redis  RedisConfig  `yaml:"redis"`
	Game   GameConfig   `yaml:"game"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig HTTP/WebSocket 服务器配置
type ServerConfig struct {
	Host           string `yaml:"host"             env:"FIREWORKS_SERVER_HOST"`
	Port           int    `yaml:"port"             env:"FIREWORKS_SERVER_PORT"`
	MaxMessageSize int64  `yaml:"max_message_size" env:"FIREWORKS_SERVER_MAX_MESSAGE_SIZE"` // 单条消息上限（字节）
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `yaml:"addr"     env:"FIREWORKS_REDIS_ADDR"`
	Password string `yaml:"password" env:"FIREWORKS_REDIS_PASSWORD"`
	DB       int    `yaml:"db"       env:"FIREWORKS_REDIS_DB"`
}

// GameConfig 新牌局的默认规则
type GameConfig struct {
	MaxHintTokens       int  `yaml:"max_hint_tokens"       env:"FIREWORKS_GAME_MAX_HINT_TOKENS"`
	MaxFuseTokens       int  `yaml:"max_fuse_tokens"       env:"FIREWORKS_GAME_MAX_FUSE_TOKENS"`
	IncludeMulticolor   bool `yaml:"include_multicolor"    env:"FIREWORKS_GAME_INCLUDE_MULTICOLOR"`
	MulticolorShortDeck bool `yaml:"multicolor_short_deck" env:"FIREWORKS_GAME_MULTICOLOR_SHORT_DECK"`
	MulticolorWildHints bool `yaml:"multicolor_wild_hints" env:"FIREWORKS_GAME_MULTICOLOR_WILD_HINTS"`
	EndlessMode         bool `yaml:"endless_mode"          env:"FIREWORKS_GAME_ENDLESS_MODE"`
	SnapshotTTL         int  `yaml:"snapshot_ttl"          env:"FIREWORKS_GAME_SNAPSHOT_TTL"` // 快照保留时长（分钟）
	IdleTimeout         int  `yaml:"idle_timeout"          env:"FIREWORKS_GAME_IDLE_TIMEOUT"` // 无人在线的牌桌在内存中保留的时长（分钟）
}

// SnapshotTTLDuration 返回快照保留时长
func (c *GameConfig) SnapshotTTLDuration() time.Duration {
	return time.Duration(c.SnapshotTTL) * time.Minute
}

// IdleTimeoutDuration 返回空闲牌桌的保留时长
func (c *GameConfig) IdleTimeoutDuration() time.Duration {
	return time.Duration(c.IdleTimeout) * time.Minute
}

// LogConfig 日志配置
type LogConfig struct {
	Dir string `yaml:"dir" env:"FIREWORKS_LOG_DIR"` // 空则使用 ~/.fireworks
}

// Addr 返回监听地址
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load 加载配置文件, 然后应用环境变量覆盖
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := ApplyEnv(&cfg); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// ApplyEnv overrides fields from FIREWORKS_* environment variables.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// 设置默认值
func (cfg *Config) setDefaults() {
	d := Default()
	if cfg.Server.Host == "" {
		cfg.Server.Host = d.Server.Host
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = d.Server.Port
	}
	if cfg.Server.MaxMessageSize == 0 {
		cfg.Server.MaxMessageSize = d.Server.MaxMessageSize
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = d.Redis.Addr
	}
	if cfg.Game.MaxHintTokens == 0 {
		cfg.Game.MaxHintTokens = d.Game.MaxHintTokens
	}
	if cfg.Game.MaxFuseTokens == 0 {
		cfg.Game.MaxFuseTokens = d.Game.MaxFuseTokens
	}
	if cfg.Game.SnapshotTTL == 0 {
		cfg.Game.SnapshotTTL = d.Game.SnapshotTTL
	}
	if cfg.Game.IdleTimeout == 0 {
		cfg.Game.IdleTimeout = d.Game.IdleTimeout
	}
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           1780,
			MaxMessageSize: 64 * 1024,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Game: GameConfig{
			MaxHintTokens: 8,
			MaxFuseTokens: 3,
			SnapshotTTL:   24 * 60,
			IdleTimeout:   30,
		},
	}
}
