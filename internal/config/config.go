package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the full service configuration. Precedence: environment
// variables over file values over defaults.
type Config struct {
	Server struct {
		Addr  string `yaml:"addr"`
		Debug bool   `yaml:"debug"`
	} `yaml:"server"`
	Paths struct {
		Products string `yaml:"products"`
		Content  string `yaml:"content"`
		SQLite   string `yaml:"sqlite"`
	} `yaml:"paths"`
	LLM struct {
		BaseURL        string `yaml:"base_url"`
		APIKey         string `yaml:"api_key"`
		ChatModel      string `yaml:"chat_model"`
		EmbeddingModel string `yaml:"embedding_model"`
	} `yaml:"llm"`
	Recsys struct {
		Overfetch int   `yaml:"overfetch"`
		ColdSeed  int64 `yaml:"cold_seed"`
	} `yaml:"recsys"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Addr = ":8090"
	cfg.Paths.Products = "data/raw/products.csv"
	cfg.Paths.Content = "data/raw/content.csv"
	cfg.Paths.SQLite = "growthai.db"
	cfg.LLM.ChatModel = "gpt-4o-mini"
	cfg.LLM.EmbeddingModel = "text-embedding-3-small"
	cfg.Recsys.Overfetch = 20
	return cfg
}

// Load reads the YAML file at path (missing file is not an error) and then
// applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(b, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setStr(&c.Server.Addr, "GROWTHAI_ADDR")
	setBool(&c.Server.Debug, "GROWTHAI_DEBUG")
	setStr(&c.Paths.Products, "GROWTHAI_PRODUCTS_CSV")
	setStr(&c.Paths.Content, "GROWTHAI_CONTENT_CSV")
	setStr(&c.Paths.SQLite, "GROWTHAI_SQLITE_PATH")
	setStr(&c.LLM.BaseURL, "GROWTHAI_OPENAI_BASE_URL")
	setStr(&c.LLM.APIKey, "GROWTHAI_OPENAI_API_KEY")
	setStr(&c.LLM.ChatModel, "GROWTHAI_CHAT_MODEL")
	setStr(&c.LLM.EmbeddingModel, "GROWTHAI_EMBEDDING_MODEL")
	if v := os.Getenv("GROWTHAI_OVERFETCH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Recsys.Overfetch = n
		}
	}
	if v := os.Getenv("GROWTHAI_COLD_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Recsys.ColdSeed = n
		}
	}
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
