// Package cliconfig loads matctl configuration from YAML files and
// MATSIGHT_* environment variables.
package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type S3 struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"accessKey"`
	SecretKey string `mapstructure:"secretKey"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	UseSSL    bool   `mapstructure:"useSSL"`
}

type Config struct {
	BaseURL string `mapstructure:"baseUrl"`
	S3      S3     `mapstructure:"s3"`

	v *viper.Viper // instance-specific viper
}

const (
	EnvPrefix  = "MATSIGHT"
	ConfigRoot = ".matsight"

	BaseUrlKey = "baseUrl"
)

// LoadConfig creates a new Config instance with its own viper
// (no global state).
func LoadConfig(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", cfgFile, err)
		}
	} else {
		// Project config (tracked) - matsight.yaml in current directory
		for _, name := range []string{"matsight.yaml", "matsight.yml", ".matsight.yaml"} {
			if _, err := os.Stat(name); err == nil {
				v.SetConfigFile(name)
				if err := v.ReadInConfig(); err == nil {
					break
				}
			}
		}

		// Local overrides (untracked) - .matsight/config.yaml
		localConfigPath := filepath.Join(ConfigRoot, "config.yaml")
		if _, err := os.Stat(localConfigPath); err == nil {
			v.SetConfigFile(localConfigPath)
			if err := v.MergeInConfig(); err != nil {
				return nil, fmt.Errorf("merging local config: %w", err)
			}
		}
	}

	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.v = v
	return &cfg, nil
}

// GetString returns a string value from the underlying viper instance.
func (c *Config) GetString(key string) string {
	if c.v == nil {
		return ""
	}
	return c.v.GetString(key)
}

// Viper returns the underlying viper instance for flag binding.
func (c *Config) Viper() *viper.Viper {
	return c.v
}

func setDefaults(v *viper.Viper) {
	if !v.IsSet(BaseUrlKey) {
		v.SetDefault(BaseUrlKey, "http://localhost:5000")
	} else {
		normalized := strings.TrimRight(v.GetString(BaseUrlKey), "/")
		v.Set(BaseUrlKey, normalized)
	}

	v.SetDefault("s3.endpoint", "localhost:9000")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "matsight-customer-images")
}

// ConfigFileUsed returns the config file that was used (if any).
func (c *Config) ConfigFileUsed() string {
	if c.v == nil {
		return ""
	}
	return c.v.ConfigFileUsed()
}
