// Package config defines the data structures related to configuration and
// includes functions for loading, parsing and validating the config.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/amortize/pkg/constants"
	"github.com/spf13/viper"
)

// DateTimeLayout is the month format expected for loan start dates in config files.
const DateTimeLayout = constants.DateTimeLayout

// Configuration holds all configuration for amortize.
type Configuration struct {
	Loans   []Loan        `yaml:"loans"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
	Output  OutputConfig  `yaml:"output,omitempty"`
	Store   StoreConfig   `yaml:"store,omitempty"`
	Cache   CacheConfig   `yaml:"cache,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
}

// StoreConfig locates the saved-loan database.
type StoreConfig struct {
	Path string `yaml:"path,omitempty"`
}

// CacheConfig selects and configures the calculation cache.
type CacheConfig struct {
	Backend    string `yaml:"backend,omitempty"` // memory, redis, none
	Address    string `yaml:"address,omitempty"`
	Password   string `yaml:"password,omitempty"`
	DB         int    `yaml:"db,omitempty"`
	TTLSeconds int    `yaml:"ttlSeconds,omitempty"`
	MaxEntries int    `yaml:"maxEntries,omitempty"` // memory backend only
}

// Cache backends.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
	CacheBackendNone   = "none"
)

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from r, applying the
// same defaults and environment overrides as LoadConfiguration.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %w", err)
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults make every key known to viper so AMORTIZE_* overrides apply.
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("store.path", constants.DefaultStorePath)
	v.SetDefault("cache.backend", CacheBackendMemory)
	v.SetDefault("cache.address", "")
	v.SetDefault("cache.password", "")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.ttlSeconds", constants.DefaultCacheTTLSeconds)
	v.SetDefault("cache.maxEntries", constants.DefaultCacheMaxEntries)
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	return &configuration, nil
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. Problems that make a loan impossible to compute are
// reported as errors when the loan is processed.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if len(c.Loans) == 0 {
		warnings = append(warnings, "No loans configured")
	}

	seen := make(map[string]int)
	for i, loan := range c.Loans {
		name := loan.DisplayName(i)
		if loan.Name == "" {
			warnings = append(warnings, fmt.Sprintf("%s has no name", name))
		} else if first, ok := seen[loan.Name]; ok {
			warnings = append(warnings, fmt.Sprintf("Loan name '%s' is used by loans %d and %d", loan.Name, first+1, i+1))
		} else {
			seen[loan.Name] = i
		}
		warnings = append(warnings, loan.Warnings(name)...)
	}

	switch c.Cache.Backend {
	case "", CacheBackendMemory, CacheBackendNone:
	case CacheBackendRedis:
		if c.Cache.Address == "" {
			warnings = append(warnings, "Redis cache selected without an address, caching will be disabled")
		}
	default:
		warnings = append(warnings, fmt.Sprintf("Unknown cache backend '%s', caching will be disabled", c.Cache.Backend))
	}

	return warnings
}
