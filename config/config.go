package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Remote   RemoteConfig   `yaml:"remote_storage"`
	JWT      JWTConfig      `yaml:"jwt"`
	Quota    QuotaConfig    `yaml:"quota"`
	Trash    TrashConfig    `yaml:"trash"`
	Upload   UploadConfig   `yaml:"upload"`
	Audit    AuditConfig    `yaml:"audit"`
}

type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

type DatabaseConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	Database     string `yaml:"database"`
	Charset      string `yaml:"charset"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

type RedisConfig struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	Password      string `yaml:"password"`
	DB            int    `yaml:"db"`
	UsageCacheTTL int    `yaml:"usage_cache_ttl"`
}

type RemoteConfig struct {
	Endpoint          string `yaml:"endpoint"`
	AccessKey         string `yaml:"access_key"`
	SecretKey         string `yaml:"secret_key"`
	Bucket            string `yaml:"bucket"`
	UseSSL            bool   `yaml:"use_ssl"`
	LinkExpireMinutes int    `yaml:"link_expire_minutes"`
	MaxRetries        int    `yaml:"max_retries"`
	RetryBaseDelayMs  int    `yaml:"retry_base_delay_ms"`
}

type JWTConfig struct {
	Secret      string `yaml:"secret"`
	ExpireHours int    `yaml:"expire_hours"`
}

type QuotaConfig struct {
	DefaultStorageType string `yaml:"default_storage_type"`
	DefaultMaxSizeGB   int64  `yaml:"default_max_size_gb"`
}

type TrashConfig struct {
	RetentionDays   int `yaml:"retention_days"`
	CleanupInterval int `yaml:"cleanup_interval"`
}

type UploadConfig struct {
	MaxFileSize       int64 `yaml:"max_file_size"`
	ProgressChunkSize int64 `yaml:"progress_chunk_size"`
}

type AuditConfig struct {
	Enabled  bool `yaml:"enabled"`
	Interval int  `yaml:"interval"`
}

var AppConfig *Config

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	AppConfig = &cfg
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.Charset == "" {
		cfg.Database.Charset = "utf8mb4"
	}
	if cfg.Remote.LinkExpireMinutes <= 0 {
		cfg.Remote.LinkExpireMinutes = 15
	}
	if cfg.Remote.MaxRetries <= 0 {
		cfg.Remote.MaxRetries = 3
	}
	if cfg.Remote.RetryBaseDelayMs <= 0 {
		cfg.Remote.RetryBaseDelayMs = 200
	}
	if cfg.JWT.ExpireHours <= 0 {
		cfg.JWT.ExpireHours = 24
	}
	if cfg.Quota.DefaultStorageType == "" {
		cfg.Quota.DefaultStorageType = "limited"
	}
	if cfg.Quota.DefaultMaxSizeGB <= 0 {
		cfg.Quota.DefaultMaxSizeGB = 10
	}
	if cfg.Trash.RetentionDays <= 0 {
		cfg.Trash.RetentionDays = 30
	}
	if cfg.Redis.UsageCacheTTL <= 0 {
		cfg.Redis.UsageCacheTTL = 300
	}
	if cfg.Upload.ProgressChunkSize <= 0 {
		cfg.Upload.ProgressChunkSize = 256 * 1024
	}
}
