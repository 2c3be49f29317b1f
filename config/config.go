// Package config 提供服务配置的加载、校验与热更新，以及模拟任务配置 (SimConfig) 的持久化.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/wyfcoding/montecarlo/logging"
)

// Config 服务顶级配置.
type Config struct {
	Version string        `mapstructure:"version" toml:"version"`
	Server  ServerConfig  `mapstructure:"server"  toml:"server"`
	Log     LogConfig     `mapstructure:"log"     toml:"log"`
	Metrics MetricsConfig `mapstructure:"metrics" toml:"metrics"`
	Tracing TracingConfig `mapstructure:"tracing" toml:"tracing"`
	Engine  EngineConfig  `mapstructure:"engine"  toml:"engine"`
	Cache   CacheConfig   `mapstructure:"cache"   toml:"cache"`
	IDGen   IDGenConfig   `mapstructure:"idgen"   toml:"idgen"`
}

// ServerConfig 服务名、运行环境与 HTTP 监听参数.
type ServerConfig struct {
	Name        string `mapstructure:"name"        toml:"name"        validate:"required"`
	Environment string `mapstructure:"environment" toml:"environment" validate:"oneof=dev test prod"`
	HTTP        struct {
		Addr              string        `mapstructure:"addr"                toml:"addr"`
		Port              int           `mapstructure:"port"                toml:"port"                validate:"required,min=1,max=65535"`
		ReadTimeout       time.Duration `mapstructure:"read_timeout"        toml:"read_timeout"`
		ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" toml:"read_header_timeout"`
		WriteTimeout      time.Duration `mapstructure:"write_timeout"       toml:"write_timeout"`
		IdleTimeout       time.Duration `mapstructure:"idle_timeout"        toml:"idle_timeout"`
		MaxBodyBytes      int64         `mapstructure:"max_body_bytes"      toml:"max_body_bytes"      validate:"min=0"`
		RateLimit         float64       `mapstructure:"rate_limit"          toml:"rate_limit"          validate:"min=0"` // /v1 每秒请求数，0 表示不限流.
		RateBurst         int           `mapstructure:"rate_burst"          toml:"rate_burst"          validate:"min=0"`
	} `mapstructure:"http" toml:"http"`
}

// LogConfig 日志级别、输出与切割策略.
type LogConfig struct {
	Level         string        `mapstructure:"level"          toml:"level"          validate:"omitempty,oneof=debug info warn warning error"`
	File          string        `mapstructure:"file"           toml:"file"`
	Console       bool          `mapstructure:"console"        toml:"console"`
	MaxSize       int           `mapstructure:"max_size"       toml:"max_size"`
	MaxBackups    int           `mapstructure:"max_backups"    toml:"max_backups"`
	MaxAge        int           `mapstructure:"max_age"        toml:"max_age"`
	Compress      bool          `mapstructure:"compress"       toml:"compress"`
	SlowThreshold time.Duration `mapstructure:"slow_threshold" toml:"slow_threshold"` // HTTP 慢请求阈值.
}

// MetricsConfig Prometheus 指标暴露配置.
type MetricsConfig struct {
	Path    string `mapstructure:"path"    toml:"path"`
	Enabled bool   `mapstructure:"enabled" toml:"enabled"`
}

// TracingConfig OpenTelemetry 链路追踪配置.
type TracingConfig struct {
	ServiceName  string  `mapstructure:"service_name"  toml:"service_name"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint" toml:"otlp_endpoint" validate:"required_if=Enabled true"`
	SamplerRatio float64 `mapstructure:"sampler_ratio" toml:"sampler_ratio" validate:"min=0,max=1"`
	Enabled      bool    `mapstructure:"enabled"       toml:"enabled"`
}

// EngineConfig 模拟引擎的并发度与单次请求规模上限，0 表示不限制.
type EngineConfig struct {
	Concurrency int `mapstructure:"concurrency" toml:"concurrency" validate:"min=0"`
	MaxPaths    int `mapstructure:"max_paths"   toml:"max_paths"   validate:"min=0"`
	MaxHorizon  int `mapstructure:"max_horizon" toml:"max_horizon" validate:"min=0"`
}

// CacheConfig 模拟结果本地缓存 (BigCache) 参数.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled" toml:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"     toml:"ttl"`
	Shards  int           `mapstructure:"shards"  toml:"shards"  validate:"omitempty,min=1"`
	MaxMB   int           `mapstructure:"max_mb"  toml:"max_mb"  validate:"min=0"`
}

// IDGenConfig 雪花算法运行 ID 生成器参数.
type IDGenConfig struct {
	StartTime string `mapstructure:"start_time" toml:"start_time"`
	MachineID int64  `mapstructure:"machine_id" toml:"machine_id" validate:"min=0,max=1023"`
}

var (
	mu        sync.Mutex
	vInstance = viper.New()
	onReload  []func(*Config)
	validate  = validator.New()
)

// RegisterReloadHook 注册配置热更新回调.
func RegisterReloadHook(hook func(*Config)) {
	if hook == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	onReload = append(onReload, hook)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.name", "montecarlo")
	v.SetDefault("server.environment", "dev")
	v.SetDefault("server.http.port", 8080)
	v.SetDefault("server.http.read_timeout", 10*time.Second)
	v.SetDefault("server.http.read_header_timeout", 5*time.Second)
	v.SetDefault("server.http.write_timeout", 60*time.Second)
	v.SetDefault("server.http.idle_timeout", 120*time.Second)
	v.SetDefault("server.http.max_body_bytes", 4<<20)
	v.SetDefault("server.http.rate_burst", 8)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.slow_threshold", 2*time.Second)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("tracing.sampler_ratio", 1.0)
	v.SetDefault("engine.max_paths", 1_000_000)
	v.SetDefault("engine.max_horizon", 10_000)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("cache.shards", 64)
	v.SetDefault("cache.max_mb", 256)
	v.SetDefault("idgen.start_time", "2024-01-01")
}

// Load 读取 TOML 配置文件，叠加 APP_ 前缀的环境变量后校验. path 为空时只使用默认值与环境变量.
func Load(path string, conf *Config) error {
	mu.Lock()
	defer mu.Unlock()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config error: %w", err)
		}
	}
	if err := v.Unmarshal(conf); err != nil {
		return fmt.Errorf("unmarshal config error: %w", err)
	}
	if err := validate.Struct(conf); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	vInstance = v
	return nil
}

// Watch 监听最近一次 Load 的配置文件. 变更后重新解析与校验，
// 校验通过才会更新日志级别并触发 RegisterReloadHook 注册的回调.
func Watch(conf *Config) {
	mu.Lock()
	v := vInstance
	mu.Unlock()
	if v == nil || v.ConfigFileUsed() == "" {
		return
	}

	v.OnConfigChange(func(event fsnotify.Event) {
		slog.Info("detecting config change", "file", event.Name)
		const debounceTimeout = 500 * time.Millisecond
		time.Sleep(debounceTimeout)

		var next Config
		if err := v.Unmarshal(&next); err != nil {
			slog.Error("reload config unmarshal failed", "error", err)
			return
		}
		if err := validate.Struct(&next); err != nil {
			slog.Error("reload config validation failed", "error", err)
			return
		}

		mu.Lock()
		*conf = next
		hooks := append([]func(*Config){}, onReload...)
		mu.Unlock()

		logging.SetLevel(next.Log.Level)
		slog.Info("config hot-reloaded and validated successfully")
		for _, hook := range hooks {
			hook(conf)
		}
	})
	v.WatchConfig()
}

// PrintWithMask 脱敏打印当前配置.
func PrintWithMask(conf any) {
	data, err := json.Marshal(conf)
	if err != nil {
		slog.Error("failed to marshal config for printing", "error", err)
		return
	}

	var configMap map[string]any
	if err := json.Unmarshal(data, &configMap); err != nil {
		slog.Error("failed to unmarshal config for masking", "error", err)
		return
	}

	mask(configMap)

	masked, err := json.Marshal(configMap)
	if err != nil {
		slog.Error("failed to marshal masked config", "error", err)
		return
	}
	slog.Info("current effective configuration", "config", string(masked))
}

func mask(configMap map[string]any) {
	sensitiveKeys := []string{"password", "secret", "dsn", "key", "token"}

	for key, val := range configMap {
		if subMap, ok := val.(map[string]any); ok {
			mask(subMap)
			continue
		}
		for _, sensitiveKey := range sensitiveKeys {
			if strings.Contains(strings.ToLower(key), sensitiveKey) {
				configMap[key] = "******"
				break
			}
		}
	}
}
