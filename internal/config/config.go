package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	slackclient "go.mcconachie.co/slack-reactions/internal/slack"
)

// DefaultPath is read when REACTIONS_CONFIG is not set. It may be absent.
const DefaultPath = "config.toml"

// Config all settings
type Config struct {
	Slack    slackclient.Config `toml:"slack"`
	Log      Log                `toml:"log"`
	Channel  string             `toml:"channel"`
	ThreadTS string             `toml:"thread_ts"`
}

// Log holds logger settings
type Log struct {
	Level string `toml:"level"` // debug, info, warn or error
	Dir   string `toml:"dir"`   // daily log files are written here when set
}

// Default returns the settings used when nothing else is configured
func Default() *Config {
	return &Config{
		Slack: slackclient.Config{
			WorkspaceURL: "https://infracloud.slack.com",
			UsersFile:    "slack_users.xlsx",
			ReportFile:   "slack_thread_reactions_messages.xlsx",
			Limit:        slackclient.DefaultLimit,
		},
		Log: Log{Level: "info"},
	}
}

// Load builds the configuration from defaults, the TOML file, a .env file
// and the environment, each overriding the one before.
func Load() (*Config, error) {
	path, explicit := os.LookupEnv("REACTIONS_CONFIG")
	if !explicit {
		path = DefaultPath
	}
	return load(path, explicit, ".env")
}

func load(path string, required bool, envFile string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if required || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	// existing environment variables win over .env entries
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read env file %s: %w", envFile, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if cfg.Slack.Limit <= 0 {
		return nil, fmt.Errorf("LIMIT must be positive, got %d", cfg.Slack.Limit)
	}
	if cfg.Slack.Token == "" {
		return nil, errors.New("SLACK_BOT_TOKEN is not set")
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Slack.Token, "SLACK_BOT_TOKEN")
	setString(&c.Slack.Cookie, "SLACK_COOKIE")
	setString(&c.Slack.WorkspaceURL, "SLACK_WORKSPACE_URL")
	setString(&c.Slack.UsersFile, "SLACK_USERS_FILE")
	setString(&c.Slack.ReportFile, "SLACK_REPORT_FILE")
	setString(&c.Channel, "CHANNEL_ID")
	setString(&c.ThreadTS, "THREAD_TS")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Dir, "LOG_DIR")

	if v := os.Getenv("LIMIT"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LIMIT must be a number: %w", err)
		}
		c.Slack.Limit = limit
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// RequireChannel reports an error when no channel was configured
func (c *Config) RequireChannel() error {
	if c.Channel == "" {
		return errors.New("CHANNEL_ID is not set")
	}
	return nil
}

// RequireThread reports an error when the channel or thread timestamp is missing
func (c *Config) RequireThread() error {
	if err := c.RequireChannel(); err != nil {
		return err
	}
	if c.ThreadTS == "" {
		return errors.New("THREAD_TS is not set")
	}
	return nil
}
