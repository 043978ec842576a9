// Package config 从环境变量（以及可选的 .env 文件）读取应用配置。
// 每一组配置都有 DefaultX() 和 XFromEnv() 两个入口，环境变量优先于默认值。
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"bombarena/pkg/core"
)

// =============================================================================
// 对局参数
// =============================================================================

// GameFromEnv 在 core.DefaultConfig 上叠加环境变量
func GameFromEnv() core.Config {
	cfg := core.DefaultConfig()

	if r := getEnvInt("ARENA_ROWS", 0); r > 0 {
		cfg.Grid.Rows = r
	}
	if c := getEnvInt("ARENA_COLS", 0); c > 0 {
		cfg.Grid.Cols = c
	}
	cfg.Grid.Coverage = getEnvFloat("ARENA_COVERAGE", cfg.Grid.Coverage)
	if p := getEnvInt("ARENA_PLAYERS", 0); p > 0 {
		cfg.Game.Players = core.ClampPlayers(p)
	}
	if s := getEnvInt("ARENA_TIME_LIMIT", -1); s >= 0 {
		cfg.Game.TimeLimit = time.Duration(s) * time.Second
	}
	if ms := getEnvInt("ARENA_FUSE_MS", -1); ms >= 0 {
		cfg.Bomb.Fuse = time.Duration(ms) * time.Millisecond
	}
	if s := os.Getenv("ARENA_AI_STRATEGY"); s != "" {
		cfg.AI.Strategy = core.AIStrategy(strings.ToLower(s))
	}

	return cfg
}

// =============================================================================
// 实时驱动
// =============================================================================

// EngineConfig 实时循环参数
type EngineConfig struct {
	TPS  int   // 每秒 tick 数
	Seed int64 // 0 表示按时间取种子
}

func DefaultEngine() EngineConfig {
	return EngineConfig{
		TPS: core.DefaultTickRate,
	}
}

func EngineFromEnv() EngineConfig {
	cfg := DefaultEngine()

	if tps := getEnvInt("ARENA_TPS", 0); tps > 0 {
		cfg.TPS = tps
	}
	if v := os.Getenv("ARENA_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Seed = seed
		}
	}

	return cfg
}

// TickInterval 相邻两个 tick 的间隔
func (c EngineConfig) TickInterval() time.Duration {
	if c.TPS <= 0 {
		return time.Second / core.DefaultTickRate
	}
	return time.Second / time.Duration(c.TPS)
}

// =============================================================================
// 无头服务
// =============================================================================

// ServerConfig cmd/server 的参数
type ServerConfig struct {
	HTTPAddr string
	Sessions int // 同时运行的模拟局数
}

func DefaultServer() ServerConfig {
	return ServerConfig{
		HTTPAddr: ":8080",
		Sessions: 1,
	}
}

func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if addr := os.Getenv("ARENA_HTTP_ADDR"); addr != "" {
		cfg.HTTPAddr = addr
	}
	if n := getEnvInt("ARENA_SESSIONS", 0); n > 0 {
		cfg.Sessions = n
	}

	return cfg
}

// =============================================================================
// 日志
// =============================================================================

func LogLevelFromEnv() log.Level {
	lvl, err := log.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// =============================================================================
// 汇总
// =============================================================================

// AppConfig 完整配置
type AppConfig struct {
	Game     core.Config
	Engine   EngineConfig
	Server   ServerConfig
	LogLevel log.Level
}

// LoadDotEnv 依次尝试加载 .env 文件，返回是否加载成功
func LoadDotEnv(paths ...string) bool {
	if len(paths) == 0 {
		paths = []string{".env", "../.env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err == nil {
			log.WithField("path", p).Debug("已加载 .env")
			return true
		}
	}
	return false
}

// Load 读取环境变量并校验
func Load() (AppConfig, error) {
	cfg := AppConfig{
		Game:     GameFromEnv(),
		Engine:   EngineFromEnv(),
		Server:   ServerFromEnv(),
		LogLevel: LogLevelFromEnv(),
	}
	if err := cfg.Game.Validate(); err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// =============================================================================
// 工具函数
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
