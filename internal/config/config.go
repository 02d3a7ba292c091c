package config

import (
	"fmt"
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

// Duration parses human-readable yaml values like "300ms" or "5s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

type Config struct {
	API     API     `yaml:"api"`
	Web     Web     `yaml:"web"`
	Forum   Forum   `yaml:"forum"`
	Session Session `yaml:"session"`
	Log     Log     `yaml:"log"`
}

type API struct {
	BaseURL string   `yaml:"base_url"`
	Timeout Duration `yaml:"timeout"`
}

type Web struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	TemplatePath   string   `yaml:"template_path"`
}

type Forum struct {
	SearchDebounce Duration `yaml:"search_debounce"`
	ErrorTTL       Duration `yaml:"error_ttl"` // error banner visibility window
	DefaultSort    string   `yaml:"default_sort"`
}

type Session struct {
	TokenPath string `yaml:"token_path"`
}

type Log struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}
	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file: " + err.Error())
	}
}

// MustLoad reads public.yaml from configFolder, panicking on any problem.
// Missing optional fields fall back to defaults.
func MustLoad(configFolder string) *Config {
	var cfg Config
	mustLoadPath(path.Join(configFolder, "public.yaml"), &cfg)
	cfg.applyDefaults()

	if cfg.API.BaseURL == "" {
		panic("config: api.base_url is required")
	}
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.API.Timeout == 0 {
		c.API.Timeout = Duration(10 * time.Second)
	}
	if c.Web.Port == 0 {
		c.Web.Port = 8081
	}
	if c.Web.TemplatePath == "" {
		c.Web.TemplatePath = "internal/web/templates"
	}
	if c.Forum.SearchDebounce == 0 {
		c.Forum.SearchDebounce = Duration(300 * time.Millisecond)
	}
	if c.Forum.ErrorTTL == 0 {
		c.Forum.ErrorTTL = Duration(5 * time.Second)
	}
	if c.Forum.DefaultSort == "" {
		c.Forum.DefaultSort = "recent"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}
