package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServiceID != "M07-Social-Collab-Service" {
		t.Fatalf("service id: %s", cfg.ServiceID)
	}
	if cfg.HTTPPort != 8087 || cfg.DataFilePath != "data/social.json" {
		t.Fatalf("defaults wrong: %+v", cfg)
	}
	if cfg.OutboxPollInterval != 2*time.Second || cfg.OutboxBatchSize != 100 {
		t.Fatalf("outbox defaults wrong: %+v", cfg)
	}
}

func TestLoadConfigFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	raw := `
service:
  id: m07-test
  http_port: 9999
dependencies:
  data_file: /tmp/doc.json
  redis_url: redis://cache:6379/1
  kafka_brokers: [broker-1:9092, broker-2:9092]
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("HTTP_PORT", "8123")
	t.Setenv("SOCIAL_CACHE_SECONDS", "90")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServiceID != "m07-test" || cfg.DataFilePath != "/tmp/doc.json" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.HTTPPort != 8123 {
		t.Fatalf("env should override file, got %d", cfg.HTTPPort)
	}
	if cfg.SocialCacheTTL != 90*time.Second {
		t.Fatalf("cache ttl: %v", cfg.SocialCacheTTL)
	}
	if len(cfg.KafkaBrokers) != 2 {
		t.Fatalf("brokers: %v", cfg.KafkaBrokers)
	}
}
