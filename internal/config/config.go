package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Game     GameConfig     `mapstructure:"game"`
	AI       AIConfig       `mapstructure:"ai"`
	Simulate SimulateConfig `mapstructure:"simulate"`
	NATS     NATSConfig     `mapstructure:"nats"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type AppConfig struct {
	Name      string `mapstructure:"name"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"` // text 或 json
}

type GameConfig struct {
	HumanSeats   []int         `mapstructure:"human_seats"`
	Seed         int64         `mapstructure:"seed"` // 0 表示按时间生成
	SevenPairs   bool          `mapstructure:"seven_pairs"`
	MaxGames     int           `mapstructure:"max_games"`
	EvictTimeout time.Duration `mapstructure:"evict_timeout"`
	EvictEvery   time.Duration `mapstructure:"evict_every"`
}

type AIConfig struct {
	Profile      string                   `mapstructure:"profile"`       // 默认风格
	SeatProfiles map[int]string           `mapstructure:"seat_profiles"` // 按座位指定风格
	Profiles     map[string]ProfileConfig `mapstructure:"profiles"`      // 覆盖或新增风格
	Parallelism  int                      `mapstructure:"parallelism"`
	CacheSize    int64                    `mapstructure:"cache_size"`
}

// ProfileConfig AI 风格参数
type ProfileConfig struct {
	Rollouts           int     `mapstructure:"rollouts"`
	Depth              int     `mapstructure:"depth"`
	AttackBias         float64 `mapstructure:"attack_bias"`
	DefenseBias        float64 `mapstructure:"defense_bias"`
	CallAggressiveness float64 `mapstructure:"call_aggressiveness"`
}

type SimulateConfig struct {
	Games     int `mapstructure:"games"`
	Workers   int `mapstructure:"workers"`
	QueueSize int `mapstructure:"queue_size"`
}

type NATSConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	URL           string        `mapstructure:"url"`
	SubjectPrefix string        `mapstructure:"subject_prefix"`
	MaxReconnects int           `mapstructure:"max_reconnects"`
	ReconnectWait time.Duration `mapstructure:"reconnect_wait"`
}

type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Name            string        `mapstructure:"name"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN 返回 PostgreSQL 连接串
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Name,
	)
}

type RedisConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Host        string        `mapstructure:"host"`
	Port        int           `mapstructure:"port"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	PoolSize    int           `mapstructure:"pool_size"`
	SnapshotTTL time.Duration `mapstructure:"snapshot_ttl"`
}

// Addr 返回 host:port
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// setDefaults 所有配置项的默认值，没有配置文件时也能运行
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "mahjong")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "text")

	v.SetDefault("game.human_seats", []int{0})
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.seven_pairs", true)
	v.SetDefault("game.max_games", 1000)
	v.SetDefault("game.evict_timeout", 30*time.Minute)
	v.SetDefault("game.evict_every", time.Minute)

	v.SetDefault("ai.profile", "balanced")
	v.SetDefault("ai.parallelism", 4)
	v.SetDefault("ai.cache_size", 1<<20)

	v.SetDefault("simulate.games", 100)
	v.SetDefault("simulate.workers", 4)
	v.SetDefault("simulate.queue_size", 64)

	v.SetDefault("nats.enabled", false)
	v.SetDefault("nats.url", "nats://127.0.0.1:4222")
	v.SetDefault("nats.subject_prefix", "mahjong.game")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", 2*time.Second)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "mahjong")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", time.Hour)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.snapshot_ttl", 2*time.Hour)
}

// Load 从指定路径加载配置
// 路径为空或文件不存在时只使用默认值与环境变量（前缀 MAHJONG_）
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("MAHJONG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !isNotExist(err) {
				return nil, fmt.Errorf("读取配置文件失败: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 检查配置取值
func (c *Config) Validate() error {
	for _, seat := range c.Game.HumanSeats {
		if seat < 0 || seat > 3 {
			return fmt.Errorf("game.human_seats: invalid seat %d", seat)
		}
	}
	for seat := range c.AI.SeatProfiles {
		if seat < 0 || seat > 3 {
			return fmt.Errorf("ai.seat_profiles: invalid seat %d", seat)
		}
	}
	if c.Simulate.Workers <= 0 {
		return errors.New("simulate.workers must be positive")
	}
	return nil
}

// isNotExist SetConfigFile 指定的文件不存在时 viper 返回的是 fs 错误
func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
