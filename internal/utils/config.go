package utils

import (
	"os"
	"sync"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

const (
	defaultPort            = 6379
	defaultExpiry          = 60000
	defaultMaxRequestBytes = 4096
)

// Config struct holds application configuration
type Config struct {
	Port            int    `yaml:"port"`
	DefaultExpiry   int    `yaml:"default_expiry"`
	Debug           bool   `yaml:"debug"`
	LogFile         string `yaml:"log_file"`
	MaxRequestBytes int    `yaml:"max_request_bytes"`
}

var (
	configInstance *Config   // Singleton configInstance
	configOnce     sync.Once // Ensures thread-safe initialization
)

// LoadConfig initializes the singleton configInstance
func LoadConfig(filename string) (*Config, error) {
	var err error
	configOnce.Do(func() {
		configInstance, err = loadConfigFromFile(filename)
	})
	if err != nil {
		return nil, err
	}
	return configInstance, nil
}

// loadConfigFromFile reads and parses the config file. A missing file yields defaults.
func loadConfigFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return getDefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "read config %s", filename)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", filename)
	}

	applyDefaults(config)
	return config, nil
}

// GetConfig returns the singleton config configInstance
func GetConfig() (*Config, error) {
	if configInstance == nil {
		return nil, errors.New("config not initialized, call LoadConfig() first")
	}
	return configInstance, nil
}

// getDefaultConfig returns default config values
func getDefaultConfig() *Config {
	return &Config{
		Port:            defaultPort,
		DefaultExpiry:   defaultExpiry,
		MaxRequestBytes: defaultMaxRequestBytes,
	}
}

// applyDefaults ensures missing values get defaults
func applyDefaults(config *Config) {
	if config.Port == 0 {
		config.Port = defaultPort
	}
	if config.DefaultExpiry == 0 {
		config.DefaultExpiry = defaultExpiry
	}
	if config.MaxRequestBytes <= 0 {
		config.MaxRequestBytes = defaultMaxRequestBytes
	}
}
