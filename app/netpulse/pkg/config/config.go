package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

// Config 项目配置结构体
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Search      SearchConfig      `yaml:"search"`
	LLM         LLMConfig         `yaml:"llm"`
	Retry       RetryConfig       `yaml:"retry"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Trending    TrendingConfig    `yaml:"trending"`
	Share       ShareConfig       `yaml:"share"`
	Log         LogConfig         `yaml:"log"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	HTTP HTTPConfig `yaml:"http"`
}

// HTTPConfig HTTP 监听配置
type HTTPConfig struct {
	Addr    string        `yaml:"addr" env:"NETPULSE_HTTP_ADDR" env-default:"0.0.0.0:8000"`
	Timeout time.Duration `yaml:"timeout" env-default:"120s"`
}

// SearchConfig 搜索相关配置
type SearchConfig struct {
	Provider       string        `yaml:"provider" env:"SEARCH_PROVIDER" env-default:"tavily"`
	MaxResultsFast int           `yaml:"max_results_fast" env-default:"4"`
	MaxResultsDeep int           `yaml:"max_results_deep" env-default:"6"`
	OnFailure      string        `yaml:"on_failure" env-default:"degrade"` // degrade or fail
	Enrich         bool          `yaml:"enrich"`
	Tavily         TavilyConfig  `yaml:"tavily"`
	Exa            ExaConfig     `yaml:"exa"`
	SearXNG        SearXNGConfig `yaml:"searxng"`
}

// TavilyConfig Tavily 配置
type TavilyConfig struct {
	APIKey string `yaml:"api_key" env:"TAVILY_API_KEY"`
}

// ExaConfig Exa 配置
type ExaConfig struct {
	APIKey string `yaml:"api_key" env:"EXA_API_KEY"`
}

// SearXNGConfig SearXNG 配置
type SearXNGConfig struct {
	BaseURL string `yaml:"base_url" env:"SEARXNG_BASE_URL"`
	Timeout int    `yaml:"timeout"`
}

// LLMConfig LLM 相关配置
type LLMConfig struct {
	Provider  string `yaml:"provider" env:"LLM_PROVIDER" env-default:"openai"`
	BaseURL   string `yaml:"base_url" env:"LLM_BASE_URL"`
	APIKey    string `yaml:"api_key" env:"LLM_API_KEY"`
	ModelFast string `yaml:"model_fast" env:"LLM_MODEL_FAST"`
	ModelDeep string `yaml:"model_deep" env:"LLM_MODEL_DEEP"`
	MaxTokens int    `yaml:"max_tokens" env-default:"4096"`
}

// RetryConfig 外部调用重试策略
type RetryConfig struct {
	Attempts  int           `yaml:"attempts" env-default:"3"`
	BaseDelay time.Duration `yaml:"base_delay" env-default:"500ms"`
}

// ConcurrencyConfig 并发控制配置
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// TrendingConfig 热门话题配置
type TrendingConfig struct {
	TTL   time.Duration `yaml:"ttl" env-default:"1h"`
	Query string        `yaml:"query" env-default:"important tech news today"`
}

// ShareConfig 分享链接配置
type ShareConfig struct {
	BaseURL   string          `yaml:"base_url" env:"NETPULSE_SHARE_BASE_URL" env-default:"http://localhost:8000/"`
	StateDir  string          `yaml:"state_dir" env:"NETPULSE_STATE_DIR"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Store     StoreConfig     `yaml:"store"`
}

// RateLimitConfig 分享生成的本地速率限制
type RateLimitConfig struct {
	Max    int           `yaml:"max" env-default:"10"`
	Window time.Duration `yaml:"window" env-default:"60s"`
}

// StoreConfig 服务端分享存储 (postgres | sqlite | redis | none)
type StoreConfig struct {
	Driver string        `yaml:"driver" env:"NETPULSE_SHARE_DRIVER" env-default:"none"`
	Source string        `yaml:"source" env:"NETPULSE_SHARE_SOURCE"`
	TTL    time.Duration `yaml:"ttl" env-default:"720h"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level" env:"NETPULSE_LOG_LEVEL" env-default:"info"`
	File  string `yaml:"file"`
}

// MissingKeyError 必需的服务凭据未配置
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("%s is missing", e.Key)
}

// LoadConfig 从指定路径加载配置，环境变量覆盖文件中的值
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg.applyAliases()
	return &cfg, nil
}

// Parse 解析 YAML 内容，随后叠加环境变量与默认值
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("reading env: %w", err)
	}
	cfg.applyAliases()
	return &cfg, nil
}

// Default 返回内置默认配置
func Default() *Config {
	cfg, err := Parse(DefaultConfigYAML)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Marshal 将配置序列化为 YAML，密钥字段会被遮蔽
func (c *Config) Marshal() ([]byte, error) {
	masked := *c
	masked.Search.Tavily.APIKey = mask(c.Search.Tavily.APIKey)
	masked.Search.Exa.APIKey = mask(c.Search.Exa.APIKey)
	masked.LLM.APIKey = mask(c.LLM.APIKey)
	masked.Share.Store.Source = mask(c.Share.Store.Source)
	return yaml.Marshal(&masked)
}

// GetStateDir 返回本地状态目录 (速率限制日志等)
func (c *Config) GetStateDir() string {
	if c.Share.StateDir != "" {
		return c.Share.StateDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".netpulse"
	}
	return home + "/.local/share/netpulse"
}

// applyAliases 兼容旧的环境变量命名
func (c *Config) applyAliases() {
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.Search.Tavily.APIKey == "" {
		c.Search.Tavily.APIKey = os.Getenv("VITE_TAVILY_API_KEY")
	}
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "****"
}
