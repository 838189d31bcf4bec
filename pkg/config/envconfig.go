// Package config loads and validates environment configuration for the
// MatSight services. Everything is read once at process start.
package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Detector modes.
const (
	DetectorMock  = "mock"
	DetectorModel = "model"
)

type EnvConfig struct {
	Port        string `envconfig:"PORT" default:"5000"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	S3Endpoint   string `envconfig:"S3_ENDPOINT" default:"localhost:9000"`
	S3AccessKey  string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey  string `envconfig:"S3_SECRET_KEY"`
	S3UseSSL     bool   `envconfig:"S3_USE_SSL" default:"false"`
	S3Region     string `envconfig:"S3_REGION" default:"us-east-1"`
	S3BucketName string `envconfig:"S3_BUCKET_NAME" default:"matsight-customer-images"`

	TableName      string `envconfig:"TABLE_NAME" default:"CustomerImages"`
	ValkeyAddr     string `envconfig:"VALKEY_ADDR" default:"localhost:6379"`
	ValkeyPassword string `envconfig:"VALKEY_PASSWORD"`
	ValkeyDB       int    `envconfig:"VALKEY_DB" default:"0"`

	ModelPath    string `envconfig:"MODEL_PATH" default:"/opt/maskterial/models"`
	ModelCommand string `envconfig:"MODEL_COMMAND" default:"maskterial"`
	DetectorMode string `envconfig:"DETECTOR_MODE" default:"mock"`
}

func ValidateEnv() (*EnvConfig, error) {
	if IsDev() {
		if err := godotenv.Load(); err != nil {
			log.Println("ℹ No .env file found")
		} else {
			log.Println("✓ Loaded .env file")
		}
	}

	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var errors []string

	if cfg.DetectorMode != DetectorMock && cfg.DetectorMode != DetectorModel {
		errors = append(errors, "  ❌ DETECTOR_MODE must be \"mock\" or \"model\"")
	}

	if cfg.S3BucketName == "" {
		errors = append(errors, "  ❌ S3_BUCKET_NAME must not be empty")
	}

	if cfg.TableName == "" {
		errors = append(errors, "  ❌ TABLE_NAME must not be empty")
	}

	if (cfg.S3AccessKey != "" && cfg.S3SecretKey == "") || (cfg.S3AccessKey == "" && cfg.S3SecretKey != "") {
		errors = append(errors, "  ❌ Both S3_ACCESS_KEY and S3_SECRET_KEY must be set together")
	}

	if len(errors) > 0 {
		return nil, fmt.Errorf("environment validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return &cfg, nil
}

func MaskSecret(secret string) string {
	if secret == "" {
		return "<not set>"
	}
	if len(secret) <= 8 {
		return "***"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}

func (c *EnvConfig) Print(fmtr func(string, ...interface{})) {
	fmtr("📋 Configuration:\n")
	fmtr("  Environment: %s\n", c.Environment)
	fmtr("  Port: %s\n", c.Port)
	fmtr("  Object store: %s (bucket=%s, region=%s, ssl=%t)\n", c.S3Endpoint, c.S3BucketName, c.S3Region, c.S3UseSSL)
	fmtr("  Access key: %s\n", MaskSecret(c.S3AccessKey))
	fmtr("  Table: %s @ %s (db=%d)\n", c.TableName, c.ValkeyAddr, c.ValkeyDB)
	fmtr("  Valkey password: %s\n", MaskSecret(c.ValkeyPassword))
	fmtr("  Detector: %s\n", c.DetectorMode)

	if c.DetectorMode == DetectorModel {
		fmtr("  Model: %s (command: %s)\n", c.ModelPath, c.ModelCommand)
	}
}
