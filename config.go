package main

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const defaultAssessTimeout = 10 * time.Second
const defaultAssessTimeoutSeconds = int(defaultAssessTimeout / time.Second)

type Config struct {
	ListenAddr string `yaml:"listen_addr"`

	AnthropicAPIKey      string `yaml:"anthropic_api_key"`
	LLMModel             string `yaml:"llm_model"`
	AssessTimeoutSeconds int    `yaml:"assess_timeout_seconds"`

	DBPath string `yaml:"db_path"`

	SlackBotToken  string `yaml:"slack_bot_token"`
	AlertChannelID string `yaml:"alert_channel_id"`

	UsageSummarySchedule string `yaml:"usage_summary_schedule"`
	Timezone             string `yaml:"timezone"`

	Location *time.Location `yaml:"-"` // computed from Timezone, not from YAML
}

func LoadConfig() Config {
	var cfg Config

	// Optional .env for local development; real deployments use env vars.
	_ = godotenv.Load()

	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	// Env vars override YAML values
	envOverride(&cfg.ListenAddr, "LISTEN_ADDR")
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.LLMModel, "LLM_MODEL")
	envOverrideInt(&cfg.AssessTimeoutSeconds, "ASSESS_TIMEOUT_SECONDS")
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.AlertChannelID, "ALERT_CHANNEL_ID")
	envOverride(&cfg.UsageSummarySchedule, "USAGE_SUMMARY_SCHEDULE")
	envOverride(&cfg.Timezone, "TIMEZONE")

	// Defaults
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.AssessTimeoutSeconds == 0 {
		cfg.AssessTimeoutSeconds = defaultAssessTimeoutSeconds
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "./triagebot.db"
	}
	if cfg.UsageSummarySchedule == "" {
		cfg.UsageSummarySchedule = "0 7 * * *"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}

	// An absent anthropic_api_key is a supported mode: the classifier then
	// runs rule-only. It is deliberately not a required field.
	if cfg.AnthropicAPIKey == "" {
		log.Printf("WARNING: anthropic_api_key is not set; classifications will be rule-based only")
	}

	if cfg.AssessTimeoutSeconds < 1 {
		log.Fatalf("invalid assess_timeout_seconds '%d': must be >= 1", cfg.AssessTimeoutSeconds)
	}
	if cfg.SlackBotToken != "" && cfg.AlertChannelID == "" {
		log.Fatalf("slack_bot_token is set but alert_channel_id is not (both are required together)")
	}
	if cfg.AlertChannelID != "" && cfg.SlackBotToken == "" {
		log.Fatalf("alert_channel_id is set but slack_bot_token is not (both are required together)")
	}
	if _, err := cron.ParseStandard(cfg.UsageSummarySchedule); err != nil {
		log.Fatalf("invalid usage_summary_schedule '%s': %v", cfg.UsageSummarySchedule, err)
	}

	if strings.EqualFold(cfg.Timezone, "Local") {
		cfg.Location = time.Local
	} else {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			log.Fatalf("invalid timezone '%s': %v", cfg.Timezone, err)
		}
		cfg.Location = loc
	}

	return cfg
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}

func (c Config) SlackConfigured() bool {
	return c.SlackBotToken != "" && c.AlertChannelID != ""
}

func (c Config) AssessmentConfigured() bool {
	return c.AnthropicAPIKey != ""
}
