package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ServiceID string

	HTTPPort int

	DataFilePath string
	StoreTimeout time.Duration

	RedisURL     string
	KafkaBrokers []string

	KafkaTopicSocial   string
	KafkaTopicCollab   string
	KafkaTopicCampaign string

	OutboxPollInterval time.Duration
	OutboxBatchSize    int

	SocialCacheTTL  time.Duration
	SuggestionLimit int
}

type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
	} `yaml:"service"`
	Dependencies struct {
		DataFile           string   `yaml:"data_file"`
		RedisURL           string   `yaml:"redis_url"`
		KafkaBrokers       []string `yaml:"kafka_brokers"`
		KafkaTopicSocial   string   `yaml:"kafka_topic_social"`
		KafkaTopicCollab   string   `yaml:"kafka_topic_collab"`
		KafkaTopicCampaign string   `yaml:"kafka_topic_campaign"`
	} `yaml:"dependencies"`
}

func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:          "M07-Social-Collab-Service",
		HTTPPort:           8087,
		DataFilePath:       "data/social.json",
		StoreTimeout:       5 * time.Second,
		RedisURL:           "redis://localhost:6379/0",
		KafkaTopicSocial:   "social.graph_changed",
		KafkaTopicCollab:   "collab.status_changed",
		KafkaTopicCampaign: "campaign.status_changed",
		OutboxPollInterval: 2 * time.Second,
		OutboxBatchSize:    100,
		SocialCacheTTL:     30 * time.Second,
		SuggestionLimit:    10,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Dependencies.DataFile != "" {
			cfg.DataFilePath = f.Dependencies.DataFile
		}
		if f.Dependencies.RedisURL != "" {
			cfg.RedisURL = f.Dependencies.RedisURL
		}
		if len(f.Dependencies.KafkaBrokers) > 0 {
			cfg.KafkaBrokers = trimNonEmpty(f.Dependencies.KafkaBrokers)
		}
		if f.Dependencies.KafkaTopicSocial != "" {
			cfg.KafkaTopicSocial = f.Dependencies.KafkaTopicSocial
		}
		if f.Dependencies.KafkaTopicCollab != "" {
			cfg.KafkaTopicCollab = f.Dependencies.KafkaTopicCollab
		}
		if f.Dependencies.KafkaTopicCampaign != "" {
			cfg.KafkaTopicCampaign = f.Dependencies.KafkaTopicCampaign
		}
	}

	cfg.DataFilePath = envOrDefault("DATA_FILE", cfg.DataFilePath)
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.KafkaBrokers = envCSV("KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.KafkaTopicSocial = envOrDefault("KAFKA_TOPIC_SOCIAL", cfg.KafkaTopicSocial)
	cfg.KafkaTopicCollab = envOrDefault("KAFKA_TOPIC_COLLAB", cfg.KafkaTopicCollab)
	cfg.KafkaTopicCampaign = envOrDefault("KAFKA_TOPIC_CAMPAIGN", cfg.KafkaTopicCampaign)
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.StoreTimeout = time.Duration(envInt("STORE_TIMEOUT_SECONDS", int(cfg.StoreTimeout.Seconds()))) * time.Second
	cfg.OutboxPollInterval = time.Duration(envInt("OUTBOX_POLL_SECONDS", int(cfg.OutboxPollInterval.Seconds()))) * time.Second
	cfg.OutboxBatchSize = envInt("OUTBOX_BATCH_SIZE", cfg.OutboxBatchSize)
	cfg.SocialCacheTTL = time.Duration(envInt("SOCIAL_CACHE_SECONDS", int(cfg.SocialCacheTTL.Seconds()))) * time.Second
	cfg.SuggestionLimit = envInt("SUGGESTION_LIMIT", cfg.SuggestionLimit)

	if cfg.DataFilePath == "" {
		return Config{}, fmt.Errorf("missing DATA_FILE")
	}
	if cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("missing REDIS_URL")
	}
	return cfg, nil
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envCSV(name string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	items := strings.Split(raw, ",")
	return trimNonEmpty(items)
}

func trimNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
