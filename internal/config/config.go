package config

import (
	"fmt"
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	Port           int      `yaml:"port"`
	LogLevel       string   `yaml:"log_level"`
	LogJSON        bool     `yaml:"log_json"`
	SecureCookies  bool     `yaml:"secure_cookies"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	JwtTTLSeconds  int      `yaml:"jwt_ttl_seconds"`

	// Storage backends. Accounts: "memory" or "postgres".
	// Banned tokens: "memory", "postgres" or "redis".
	AccountStorage  string `yaml:"account_storage"`
	TokenBanStorage string `yaml:"token_ban_storage"`
}

type Private struct {
	JwtKey string `yaml:"jwt_key"`
	Pg     Pg     `yaml:"pg"`
	Redis  Redis  `yaml:"redis"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

func (c *Config) JwtKey() string {
	return c.Private.JwtKey
}

func (c *Config) JwtTTL() time.Duration {
	return time.Duration(c.Public.JwtTTLSeconds) * time.Second
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file: " + configPath)
	}
	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file: " + configPath)
	}
}

func validate(cfg *Config) {
	if cfg.Public.Port <= 0 {
		panic("config: port must be set")
	}
	if cfg.Public.JwtTTLSeconds <= 0 {
		panic("config: jwt_ttl_seconds must be set")
	}
	switch cfg.Public.AccountStorage {
	case "memory", "postgres":
	default:
		panic(fmt.Sprintf("config: unknown account_storage %q", cfg.Public.AccountStorage))
	}
	switch cfg.Public.TokenBanStorage {
	case "memory", "postgres", "redis":
	default:
		panic(fmt.Sprintf("config: unknown token_ban_storage %q", cfg.Public.TokenBanStorage))
	}
	if cfg.Private.JwtKey == "" {
		panic("config: jwt_key must be set")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{public, private}
	validate(cfg)
	return cfg
}
