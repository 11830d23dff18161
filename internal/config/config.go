package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultListenAddr = "127.0.0.1:7414"
	DefaultDBFileName = ".filedrop.db"
	DefaultBlobDir    = ".filedrop-blobs"
	DefaultLogLevel   = "info"

	DefaultUploadMaxFiles            = 10
	DefaultUploadMaxFileBytes  int64 = 10 * 1024 * 1024
	DefaultMultipartMaxMemory  int64 = 8 * 1024 * 1024
	DefaultSessionTTL                = 14 * 24 * time.Hour
	DefaultUploadConcurrency         = 4

	configPathEnvKey = "FILEDROP_CONFIG"
	listenEnvKey     = "FILEDROP_LISTEN"
	dbPathEnvKey     = "FILEDROP_DB"
	blobRootEnvKey   = "FILEDROP_BLOBS"
)

// UploadConfig defines runtime limits for batch uploads.
type UploadConfig struct {
	MaxFilesPerBatch   int      `toml:"max_files_per_batch"`
	MaxFileBytes       int64    `toml:"max_file_bytes"`
	MultipartMaxMemory int64    `toml:"multipart_max_memory"`
	Concurrency        int      `toml:"concurrency"`
	AllowedMediaTypes  []string `toml:"allowed_media_types"`
}

// Config defines runtime configuration for filedrop.
type Config struct {
	ListenAddr      string       `toml:"listen_addr"`
	DBPath          string       `toml:"db_path"`
	BlobRoot        string       `toml:"blob_root"`
	LogLevel        string       `toml:"log_level"`
	SessionTTLHours int          `toml:"session_ttl_hours"`
	Upload          UploadConfig `toml:"upload"`
}

// Default returns default configuration values.
func Default() Config {
	return Config{
		ListenAddr:      DefaultListenAddr,
		LogLevel:        DefaultLogLevel,
		SessionTTLHours: int(DefaultSessionTTL / time.Hour),
		Upload: UploadConfig{
			MaxFilesPerBatch:   DefaultUploadMaxFiles,
			MaxFileBytes:       DefaultUploadMaxFileBytes,
			MultipartMaxMemory: DefaultMultipartMaxMemory,
			Concurrency:        DefaultUploadConcurrency,
		},
	}
}

// SessionTTL returns the configured session lifetime.
func (c Config) SessionTTL() time.Duration {
	if c.SessionTTLHours <= 0 {
		return DefaultSessionTTL
	}
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// Load builds the effective configuration: defaults, then an optional
// config file, then environment overrides.
func Load() (*Config, error) {
	cfg := Default()

	if overridePath := strings.TrimSpace(os.Getenv(configPathEnvKey)); overridePath != "" {
		if err := loadFile(overridePath, &cfg); err != nil {
			return nil, err
		}
	} else if home, err := os.UserHomeDir(); err == nil {
		if _, err := loadFileIfExists(filepath.Join(home, ".filedrop.toml"), &cfg); err != nil {
			return nil, err
		}
	}

	if cfg.DBPath == "" {
		if cwd, err := os.Getwd(); err == nil {
			cfg.DBPath = filepath.Join(cwd, DefaultDBFileName)
		}
	}
	if cfg.BlobRoot == "" {
		cfg.BlobRoot = filepath.Join(filepath.Dir(cfg.DBPath), DefaultBlobDir)
	}

	applyEnvOverrides(&cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if listen := strings.TrimSpace(os.Getenv(listenEnvKey)); listen != "" {
		cfg.ListenAddr = listen
	}
	if dbPath := strings.TrimSpace(os.Getenv(dbPathEnvKey)); dbPath != "" {
		cfg.DBPath = dbPath
		if strings.TrimSpace(os.Getenv(blobRootEnvKey)) == "" {
			cfg.BlobRoot = filepath.Join(filepath.Dir(dbPath), DefaultBlobDir)
		}
	}
	if blobRoot := strings.TrimSpace(os.Getenv(blobRootEnvKey)); blobRoot != "" {
		cfg.BlobRoot = blobRoot
	}
}

func (c *Config) validate() error {
	if c.Upload.MaxFilesPerBatch <= 0 {
		c.Upload.MaxFilesPerBatch = DefaultUploadMaxFiles
	}
	if c.Upload.MaxFileBytes <= 0 {
		c.Upload.MaxFileBytes = DefaultUploadMaxFileBytes
	}
	if c.Upload.MultipartMaxMemory <= 0 {
		c.Upload.MultipartMaxMemory = DefaultMultipartMaxMemory
	}
	if c.Upload.Concurrency <= 0 {
		c.Upload.Concurrency = DefaultUploadConcurrency
	}
	if _, _, err := splitHostPort(c.ListenAddr); err != nil {
		return fmt.Errorf("invalid listen_addr %q: %w", c.ListenAddr, err)
	}
	return nil
}

func splitHostPort(addr string) (string, int, error) {
	i := strings.LastIndexByte(addr, ':')
	if i < 0 {
		return "", 0, fmt.Errorf("missing port")
	}
	port, err := strconv.Atoi(addr[i+1:])
	if err != nil || port <= 0 || port > 65535 {
		return "", 0, fmt.Errorf("bad port")
	}
	return addr[:i], port, nil
}

func loadFile(path string, cfg *Config) error {
	_, err := loadFileIfExists(path, cfg)
	return err
}

func loadFileIfExists(path string, cfg *Config) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if info.IsDir() {
		return false, fmt.Errorf("config path %s is a directory", path)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return false, fmt.Errorf("parse config %s: %w", path, err)
	}
	return true, nil
}
