package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"dungeonBot/internal/usecase/commands"
)

const (
	DefaultDatabasePath = "data/dungeonbot.db"
	DefaultPrefix       = ">"
)

type RateLimit struct {
	Messages int           `yaml:"messages" env:"BOT_RATE_MESSAGES"`
	Window   time.Duration `yaml:"window" env:"BOT_RATE_WINDOW"`
}

type Config struct {
	TwitchUsername string   `yaml:"username" env:"TWITCH_BOT_USERNAME"`
	TwitchToken    string   `yaml:"token" env:"TWITCH_BOT_ACCESS_TOKEN"`
	TwitchChannels []string `yaml:"channels" env:"TWITCH_BOT_CHANNELS" envSeparator:","`

	DatabasePath string    `yaml:"database_path" env:"DATABASE_PATH"`
	Prefix       string    `yaml:"prefix" env:"BOT_PREFIX"`
	AdminIDs     []int64   `yaml:"admin_ids" env:"BOT_ADMIN_IDS" envSeparator:","`
	RateLimit    RateLimit `yaml:"rate_limit"`
	FeedAddr     string    `yaml:"feed_addr" env:"BOT_FEED_ADDR"`
	Debug        bool      `yaml:"debug" env:"BOT_DEBUG"`
}

// Load reads .env (if any), then the optional YAML file at path, then lets
// the environment override both.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: env: %w", err)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) normalize() {
	c.TwitchUsername = strings.ToLower(strings.TrimSpace(c.TwitchUsername))
	c.TwitchToken = formatTwitchOAuthToken(c.TwitchToken)
	c.TwitchChannels = sanitizeTwitchChannels(c.TwitchChannels)
	if len(c.TwitchChannels) == 0 && c.TwitchUsername != "" {
		c.TwitchChannels = []string{c.TwitchUsername}
	}

	if strings.TrimSpace(c.DatabasePath) == "" {
		c.DatabasePath = DefaultDatabasePath
	}
	c.Prefix = strings.TrimSpace(c.Prefix)
	if c.Prefix == "" {
		c.Prefix = DefaultPrefix
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.TwitchUsername == "" {
		errs = append(errs, errors.New("TWITCH_BOT_USERNAME is not set"))
	}
	if c.TwitchToken == "" {
		errs = append(errs, errors.New("TWITCH_BOT_ACCESS_TOKEN is not set"))
	}
	if utf8.RuneCountInString(c.Prefix) != 1 {
		errs = append(errs, fmt.Errorf("prefix %q must be a single character", c.Prefix))
	} else if !commands.ValidPrefix(c.PrefixRune()) {
		errs = append(errs, fmt.Errorf("prefix %q must be a symbol, not a letter, digit or space", c.Prefix))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// PrefixRune is the configured command prefix.
func (c *Config) PrefixRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Prefix)
	return r
}

func formatTwitchOAuthToken(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "oauth:") {
		return token
	}
	return "oauth:" + token
}

func sanitizeTwitchChannels(channels []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, ch := range channels {
		ch = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ch)), "#")
		if ch == "" {
			continue
		}
		if _, ok := seen[ch]; ok {
			continue
		}
		seen[ch] = struct{}{}
		out = append(out, ch)
	}
	return out
}
