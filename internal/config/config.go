package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置结构体（完全匹配config.yaml）
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`   // 服务器配置
	Postgres PostgresConfig `mapstructure:"postgres"` // PostgreSQL配置
	Auth     AuthConfig     `mapstructure:"auth"`     // 认证配置
	App      AppConfig      `mapstructure:"app"`      // 业务配置
	Storage  StorageConfig  `mapstructure:"storage"`  // 上传文件存储配置
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port int    `mapstructure:"port"` // 服务端口
	Mode string `mapstructure:"mode"` // Gin运行模式：debug/release/test
}

// PostgresConfig PostgreSQL数据库配置
type PostgresConfig struct {
	DSN             string        `mapstructure:"dsn"`               // 连接DSN
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    // 最大打开连接数
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // 连接最大存活时间
}

// AuthConfig 认证配置
type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"` // JWT签名密钥
	TokenTTL  time.Duration `mapstructure:"token_ttl"`  // 令牌有效期
}

// AppConfig 业务配置
type AppConfig struct {
	DefaultSportID uint64 `mapstructure:"default_sport_id"` // 发文未指定项目时的默认运动项目ID
	FeedPageSize   int    `mapstructure:"feed_page_size"`   // 信息流默认分页大小
	AdminPageSize  int    `mapstructure:"admin_page_size"`  // 管理端用户列表分页大小
}

// StorageConfig 上传文件存储配置
type StorageConfig struct {
	LocalDir  string `mapstructure:"local_dir"`  // 本地存储目录
	PublicURL string `mapstructure:"public_url"` // 对外访问前缀
}

// LoadConfig 加载配置文件（config/config.yaml），敏感项从 .env 覆盖（不提交 git）
func LoadConfig() (*Config, error) {
	// 1. 加载 .env（若存在），env 中的值会覆盖 config.yaml 中同名字段
	_ = godotenv.Load() // 忽略错误（.env 可不存在）

	// 2. 读取 config.yaml
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	viper.SetTypeByDefaultValue(true)
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 3. 敏感字段：用 env 覆盖（优先级 env > yaml）
	overrideFromEnv(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

// overrideFromEnv 用环境变量覆盖敏感配置
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
}

// applyDefaults 补齐未配置的业务参数
func applyDefaults(cfg *Config) {
	if cfg.App.DefaultSportID == 0 {
		cfg.App.DefaultSportID = 1
	}
	if cfg.App.FeedPageSize <= 0 {
		cfg.App.FeedPageSize = 10
	}
	if cfg.App.AdminPageSize <= 0 {
		cfg.App.AdminPageSize = 20
	}
	if cfg.Auth.TokenTTL <= 0 {
		cfg.Auth.TokenTTL = 72 * time.Hour
	}
	if cfg.Storage.LocalDir == "" {
		cfg.Storage.LocalDir = "./storage/posts"
	}
	if cfg.Storage.PublicURL == "" {
		cfg.Storage.PublicURL = "/storage/posts"
	}
}
