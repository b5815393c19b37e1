package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_ENV_VAR", "test_value")
	if value := GetEnv("TEST_ENV_VAR", "default_value"); value != "test_value" {
		t.Errorf("Expected 'test_value', but got '%s'", value)
	}
	if value := GetEnv("NON_EXISTENT_VAR", "default_value"); value != "default_value" {
		t.Errorf("Expected 'default_value', but got '%s'", value)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FORUM_CONFIG", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "forum.yaml")
	yaml := "api_port: \"9090\"\nstore_driver: memory\nkafka_enabled: false\nmongo_database: qa\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FORUM_CONFIG", path)
	t.Setenv("MONGO_DATABASE", "from-env")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ApiPort != "9090" || cfg.StoreDriver != DriverMemory || cfg.KafkaEnabled {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.MongoDatabase != "from-env" {
		t.Errorf("env should override file, got %q", cfg.MongoDatabase)
	}
	if cfg.KafkaBroker != Default().KafkaBroker {
		t.Errorf("untouched keys should keep defaults, got %q", cfg.KafkaBroker)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("FORUM_CONFIG", "")
	t.Setenv("STORE_DRIVER", "postgres")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("FORUM_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
