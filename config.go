package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/AbdulRehman-Syed/task-manager/storage"
)

// config is the process configuration: an optional YAML file overlaid with
// environment variables. Redis is optional; without it the store persists
// to a local JSON file.
type config struct {
	ListenAddr string `yaml:"listenAddr"`
	Redis      string `yaml:"redis"`
	StorageKey string `yaml:"storageKey"`
	DataFile   string `yaml:"dataFile"`
	DeduperTTL string `yaml:"deduperTTL"`
	Debug      bool   `yaml:"debug"`

	deduperTTL time.Duration
}

func defaultConfig() config {
	return config{
		ListenAddr: ":8080",
		StorageKey: storage.DefaultKey,
		DataFile:   storage.DefaultFile,
		DeduperTTL: "24h",
	}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("REDIS_CONNECTION_STRING"); v != "" {
		cfg.Redis = v
	}
	if v := os.Getenv("STORAGE_KEY"); v != "" {
		cfg.StorageKey = v
	}
	if v := os.Getenv("DATA_FILE"); v != "" {
		cfg.DataFile = v
	}
	if v := os.Getenv("DEDUPER_TTL"); v != "" {
		cfg.DeduperTTL = v
	}
	if dbg, err := strconv.ParseBool(os.Getenv("DEBUG")); err == nil {
		cfg.Debug = dbg
	}

	ttl, err := time.ParseDuration(cfg.DeduperTTL)
	if err != nil || ttl <= 0 {
		return config{}, fmt.Errorf("invalid deduper TTL %q", cfg.DeduperTTL)
	}
	cfg.deduperTTL = ttl

	return cfg, nil
}
