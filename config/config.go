package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultServerAddr = ":54367"

	ScraperFirecrawl = "firecrawl"
	ScraperBrowser   = "browser"
	ScraperStatic    = "static"

	DefaultFirecrawlBaseURL   = "https://api.firecrawl.dev"
	DefaultBrowserMaxSessions = 2
	DefaultTemperature        = 0.7
)

// Config is the service configuration. Secrets are normally left empty here and
// resolved from the environment (see Resolve).
type Config struct {
	ServerAddr string        `json:"server_addr,omitempty" yaml:"server_addr,omitempty"`
	LLM        *LLMConfig    `json:"llm,omitempty" yaml:"llm,omitempty"`
	Scraper    ScraperConfig `json:"scraper" yaml:"scraper"`
}

// LLMConfig selects the text-generation backend.
type LLMConfig struct {
	Provider    string   `json:"provider,omitempty" yaml:"provider,omitempty"`
	Model       string   `json:"model,omitempty" yaml:"model,omitempty"`
	APIKey      string   `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	APIKeyEnv   string   `json:"api_key_env,omitempty" yaml:"api_key_env,omitempty"`
	BaseURL     string   `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Temperature *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
}

// ScraperConfig selects and tunes the content source.
type ScraperConfig struct {
	Provider  string          `json:"provider,omitempty" yaml:"provider,omitempty"`
	Firecrawl FirecrawlConfig `json:"firecrawl" yaml:"firecrawl"`
	Browser   BrowserConfig   `json:"browser" yaml:"browser"`
}

type FirecrawlConfig struct {
	APIKey    string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	APIKeyEnv string `json:"api_key_env,omitempty" yaml:"api_key_env,omitempty"`
	BaseURL   string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
}

type BrowserConfig struct {
	// Bin is an explicit Chrome/Chromium binary; empty lets rod look one up.
	Bin         string `json:"bin,omitempty" yaml:"bin,omitempty"`
	MaxSessions int    `json:"max_sessions,omitempty" yaml:"max_sessions,omitempty"`
}

// Default returns the configuration used when no file is present: Anthropic for
// generation and the headless browser for scraping.
func Default() Config {
	return Config{
		ServerAddr: DefaultServerAddr,
		LLM:        &LLMConfig{Provider: "anthropic"},
		Scraper: ScraperConfig{
			Provider: ScraperBrowser,
		},
	}
}

// Load reads a JSON or YAML config file (chosen by extension). A missing file is
// not an error; defaults are used instead. The result is always resolved.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := decode(path, data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}
	if err := cfg.Resolve(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadEnv loads .env files into the process environment. Existing variables win.
func LoadEnv(files ...string) {
	_ = godotenv.Load(files...)
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	default:
		return json.Unmarshal(data, cfg)
	}
}

// Resolve fills defaults and pulls secrets from the environment.
func (c *Config) Resolve() error {
	if port := os.Getenv("PORT"); port != "" {
		c.ServerAddr = ":" + port
	}
	if c.ServerAddr == "" {
		c.ServerAddr = DefaultServerAddr
	}

	if c.LLM == nil || c.LLM.Provider == "" {
		return errors.New("llm config missing; please set llm.provider/model/api_key_env in config")
	}
	if err := c.LLM.resolve(); err != nil {
		return err
	}
	return c.Scraper.resolve()
}

var llmDefaults = map[string]struct {
	model   string
	baseURL string
	keyEnv  string
}{
	"anthropic":  {"claude-3-5-sonnet-20241022", "https://api.anthropic.com/v1/", "ANTHROPIC_API_KEY"},
	"openai":     {"gpt-4o-mini", "", "OPENAI_API_KEY"},
	"deepseek":   {"deepseek-chat", "", "DEEPSEEK_API_KEY"},
	"openrouter": {"", "https://openrouter.ai/api/v1/", "OPENROUTER_API_KEY"},
	"mock":       {"mock", "", ""},
}

func (l *LLMConfig) resolve() error {
	def, ok := llmDefaults[l.Provider]
	if !ok {
		return fmt.Errorf("llm provider %s not supported", l.Provider)
	}
	if l.Model == "" {
		l.Model = def.model
	}
	if l.BaseURL == "" {
		l.BaseURL = def.baseURL
	}
	if l.Temperature == nil {
		t := DefaultTemperature
		l.Temperature = &t
	}
	if l.APIKeyEnv == "" {
		l.APIKeyEnv = def.keyEnv
	}
	if l.APIKey == "" && l.APIKeyEnv != "" {
		l.APIKey = os.Getenv(l.APIKeyEnv)
	}
	return nil
}

func (s *ScraperConfig) resolve() error {
	switch s.Provider {
	case "":
		s.Provider = ScraperBrowser
	case ScraperFirecrawl, ScraperBrowser, ScraperStatic:
	default:
		return fmt.Errorf("scraper provider %s not supported", s.Provider)
	}
	if s.Firecrawl.BaseURL == "" {
		s.Firecrawl.BaseURL = DefaultFirecrawlBaseURL
	}
	if s.Firecrawl.APIKeyEnv == "" {
		s.Firecrawl.APIKeyEnv = "FIRECRAWL_API_KEY"
	}
	if s.Firecrawl.APIKey == "" {
		s.Firecrawl.APIKey = os.Getenv(s.Firecrawl.APIKeyEnv)
	}
	if s.Browser.MaxSessions <= 0 {
		s.Browser.MaxSessions = DefaultBrowserMaxSessions
	}
	return nil
}
