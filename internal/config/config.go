package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Redis     RedisConfig
	Coaching  CoachingConfig  `mapstructure:"coaching"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	ForceMigrate bool `mapstructure:"-"` // 强制执行数据库迁移
	MigrateOnly  bool `mapstructure:"-"` // 仅迁移模式（迁移后退出）
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

// CoachingConfig 教练引擎的全部可调参数。
// 显式传入各 Service，而不是作为全局状态，保证每次运行可复现、可单测。
type CoachingConfig struct {
	DefaultRepetitions     int     `mapstructure:"default_repetitions"`      // 默认重复次数
	DaysBetweenRepetitions int     `mapstructure:"days_between_repetitions"` // 重复间隔天数
	DefaultTargetAccuracy  float64 `mapstructure:"default_target_accuracy"`  // 目标正确率（%）
	AnalysisPeriodDays     int     `mapstructure:"analysis_period_days"`     // 分析窗口长度（天）
	MaxPriorityAreas       int     `mapstructure:"max_priority_areas"`       // 每次会话读取的薄弱点上限
	StudyPlanThreshold     int     `mapstructure:"study_plan_threshold"`     // 超过该数量的活跃薄弱点时生成学习计划建议
	ResolveStreakRequired  int     `mapstructure:"resolve_streak_required"`  // 连续达标多少次后判定已解决
	DailyCoachingWorkers   int     `mapstructure:"daily_coaching_workers"`   // 每日批处理的并发 worker 数
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("STUDY_COACH")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// JWT
	viper.BindEnv("jwt.secret", "JWT_SECRET")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	// 教练引擎参数缺省值
	viper.SetDefault("coaching.default_repetitions", 5)
	viper.SetDefault("coaching.days_between_repetitions", 3)
	viper.SetDefault("coaching.default_target_accuracy", 85.0)
	viper.SetDefault("coaching.analysis_period_days", 7)
	viper.SetDefault("coaching.max_priority_areas", 10)
	viper.SetDefault("coaching.study_plan_threshold", 5)
	viper.SetDefault("coaching.resolve_streak_required", 2)
	viper.SetDefault("coaching.daily_coaching_workers", 4)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour

	// 生产环境校验 JWT Secret 强度
	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	if cfg.Coaching.DefaultRepetitions <= 0 || cfg.Coaching.DaysBetweenRepetitions <= 0 {
		return nil, fmt.Errorf("coaching repetition settings must be positive")
	}

	return &cfg, nil
}
