// Package config 统一配置管理
//
// 配置加载优先级（高→低）：
//  1. 环境变量（通过 .env 文件或 shell/systemd 注入）
//  2. YAML 配置文件（configs/{env}.yaml）
//  3. 代码硬编码默认值
//
// 凭据单一数据源：
//
//	密码/密钥只存在 .env 文件中（YAML 中不存储任何密码）。
//	JWT_SECRET、MONGO_ROOT_PASSWORD、REDIS_PASSWORD、MINIO_ROOT_USER/PASSWORD
//	均只从环境变量读取。
//
// 环境：
//   - 开发: APP_ENV=dev（默认）→ configs/dev.yaml
//   - 测试: APP_ENV=test → configs/test.yaml
//   - 生产: APP_ENV=prod → configs/prod.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment 环境类型
type Environment string

const (
	EnvProduction  Environment = "prod"
	EnvTest        Environment = "test"
	EnvDevelopment Environment = "dev"
)

// YAMLConfig YAML 配置文件结构
type YAMLConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	MinIO    MinIOConfig    `yaml:"minio"`
	Auth     AuthConfig     `yaml:"auth"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

// DatabaseConfig MongoDB 配置
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"-"` // 只从 MONGO_ROOT_PASSWORD 环境变量读取
	Name     string `yaml:"name"`
	URI      string `yaml:"uri"` // 直接指定 URI 时优先于 host/port
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	DB       int    `yaml:"db"`
	Password string `yaml:"-"`   // 只从 REDIS_PASSWORD 环境变量读取
	URL      string `yaml:"url"` // 直接指定 URL 时优先于 host/port/db
}

// MinIOConfig MinIO 对象存储配置
type MinIOConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"` // 例如 localhost:9000
	AccessKey string `yaml:"-"`        // 只从 MINIO_ROOT_USER 环境变量读取
	SecretKey string `yaml:"-"`        // 只从 MINIO_ROOT_PASSWORD 环境变量读取
	UseSSL    bool   `yaml:"use_ssl"`
	Bucket    string `yaml:"bucket"`
}

// AuthConfig 认证配置
// JWTSecret 只从 JWT_SECRET 环境变量读取，不存储在 YAML 中
type AuthConfig struct {
	JWTSecret string `yaml:"-"`
	TokenTTL  string `yaml:"token_ttl"` // 例如 "168h"
}

// Config 应用配置（最终使用的配置）
type Config struct {
	Env      Environment
	MongoURI string
	DBName   string
	RedisURL string
	APIPort  string
	MinIO    MinIOConfig
	Auth     AuthConfig
	TokenTTL time.Duration
}

var configPaths = []string{
	"configs",
	"../configs",
	"../../configs",
	"../../../configs",
}

var envPaths = []string{
	".env",
	"../.env",
	"../../.env",
	"../../../.env",
}

// Load 加载配置
// 1. 加载 .env（敏感信息 + APP_ENV）
// 2. 根据 APP_ENV 加载 configs/{env}.yaml
// 3. 环境变量覆盖，构建最终配置
func Load() *Config {
	// 加载 .env
	for _, p := range envPaths {
		if err := godotenv.Load(p); err == nil {
			break
		}
	}

	// 解析环境
	env := parseEnv(getEnv("APP_ENV", "dev"))

	// 加载 YAML 配置
	yamlCfg := loadYAMLConfig(env)

	// 从环境变量获取敏感信息
	yamlCfg.Database.Password = os.Getenv("MONGO_ROOT_PASSWORD")
	yamlCfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	yamlCfg.MinIO.AccessKey = os.Getenv("MINIO_ROOT_USER")
	yamlCfg.MinIO.SecretKey = os.Getenv("MINIO_ROOT_PASSWORD")
	yamlCfg.Auth.JWTSecret = getEnv("JWT_SECRET", "dev-insecure-secret")

	// 构建最终配置
	cfg := &Config{
		Env:      env,
		MongoURI: getEnv("MONGO_URI", buildMongoURI(yamlCfg.Database)),
		DBName:   getEnv("MONGO_DB", yamlCfg.Database.Name),
		APIPort:  getEnv("API_PORT", yamlCfg.Server.Port),
		MinIO:    yamlCfg.MinIO,
		Auth:     yamlCfg.Auth,
		TokenTTL: parseTokenTTL(yamlCfg.Auth.TokenTTL),
	}
	if yamlCfg.Redis.Enabled {
		cfg.RedisURL = getEnv("REDIS_URL", buildRedisURL(yamlCfg.Redis))
	}

	return cfg
}

// loadYAMLConfig 加载 YAML 配置文件
// 加载顺序：默认值 → common.yaml → {env}.yaml
func loadYAMLConfig(env Environment) *YAMLConfig {
	// 1. 初始化默认值
	cfg := &YAMLConfig{
		Server:   ServerConfig{Port: "8080"},
		Database: DatabaseConfig{Host: "localhost", Port: 27017, Name: "raktkosh"},
		Redis:    RedisConfig{Host: "localhost", Port: 6379, DB: 0},
		MinIO:    MinIOConfig{Endpoint: "localhost:9000", Bucket: "raktkosh"},
		Auth:     AuthConfig{TokenTTL: "168h"},
	}

	// 2. 加载 common.yaml（公共配置）
	for _, base := range configPaths {
		path := filepath.Join(base, "common.yaml")
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, cfg)
			break
		}
	}

	// 3. 加载 {env}.yaml（环境特定配置，覆盖公共配置）
	filename := fmt.Sprintf("%s.yaml", env)
	for _, base := range configPaths {
		path := filepath.Join(base, filename)
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, cfg)
			break
		}
	}

	return cfg
}

// buildMongoURI 构建 MongoDB 连接字符串
func buildMongoURI(db DatabaseConfig) string {
	if db.URI != "" {
		return db.URI
	}
	if db.User != "" && db.Password != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s:%d", db.User, db.Password, db.Host, db.Port)
	}
	return fmt.Sprintf("mongodb://%s:%d", db.Host, db.Port)
}

// buildRedisURL 构建 Redis 连接字符串
func buildRedisURL(r RedisConfig) string {
	if r.URL != "" {
		return r.URL
	}
	if r.Password != "" {
		return fmt.Sprintf("redis://:%s@%s:%d/%d", r.Password, r.Host, r.Port, r.DB)
	}
	return fmt.Sprintf("redis://%s:%d/%d", r.Host, r.Port, r.DB)
}

// parseTokenTTL 解析 token 有效期，非法值回退 7 天
func parseTokenTTL(s string) time.Duration {
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return 168 * time.Hour
}

func parseEnv(env string) Environment {
	switch strings.ToLower(env) {
	case "test":
		return EnvTest
	case "prod", "production":
		return EnvProduction
	default:
		return EnvDevelopment
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsTest 是否为测试环境
func (c *Config) IsTest() bool {
	return c.Env == EnvTest
}

// String 返回配置摘要（隐藏密码）
func (c *Config) String() string {
	return fmt.Sprintf("Config{Env: %s, Mongo: %s, DB: %s, Redis: %s, Port: %s}",
		c.Env, maskPassword(c.MongoURI), c.DBName, maskPassword(c.RedisURL), c.APIPort)
}

// maskPassword 隐藏连接串中的密码
func maskPassword(url string) string {
	re := regexp.MustCompile(`(://[^:/@]*:)([^@]+)(@)`)
	return re.ReplaceAllString(url, "${1}***${3}")
}
