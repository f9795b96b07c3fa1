package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Database holds the relational store settings.
type Database struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Cloudinary holds the image host settings used for unsigned uploads.
type Cloudinary struct {
	CloudName    string
	UploadPreset string
	Folder       string
	APIURL       string
	Timeout      time.Duration
}

// RabbitMQ holds the optional event broker settings.
type RabbitMQ struct {
	URL   string
	Queue string
}

// Enabled reports whether event publishing is configured.
func (r RabbitMQ) Enabled() bool {
	return r.URL != ""
}

// Config is the full application configuration.
type Config struct {
	AppPort        string
	UploadMaxBytes int
	Database       Database
	Cloudinary     Cloudinary
	RabbitMQ       RabbitMQ
}

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("UPLOAD_MAX_BYTES", 10<<20)

	v.SetDefault("DATABASE_DRIVER", "mysql")
	v.SetDefault("DATABASE_DSN", "root:root@tcp(127.0.0.1:3306)/schools?charset=utf8mb4&parseTime=True&loc=Local")
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_CONN_MAX_LIFETIME", time.Hour)

	v.SetDefault("CLOUDINARY_API_URL", "https://api.cloudinary.com/v1_1")
	v.SetDefault("CLOUDINARY_TIMEOUT", 30*time.Second)

	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_QUEUE", "school_events")
}

// Load reads the configuration from the environment and, when CONFIG_FILE
// is set, from that file.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	cfg := &Config{
		AppPort:        v.GetString("APP_PORT"),
		UploadMaxBytes: v.GetInt("UPLOAD_MAX_BYTES"),
		Database: Database{
			Driver:          strings.ToLower(v.GetString("DATABASE_DRIVER")),
			DSN:             v.GetString("DATABASE_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Cloudinary: Cloudinary{
			CloudName:    firstSet(v, "CLOUDINARY_CLOUD_NAME", "NEXT_PUBLIC_CLOUDINARY_CLOUD_NAME"),
			UploadPreset: firstSet(v, "CLOUDINARY_UPLOAD_PRESET", "NEXT_PUBLIC_CLOUDINARY_UPLOAD_PRESET"),
			Folder:       firstSet(v, "CLOUDINARY_FOLDER", "NEXT_PUBLIC_CLOUDINARY_FOLDER"),
			APIURL:       strings.TrimRight(v.GetString("CLOUDINARY_API_URL"), "/"),
			Timeout:      v.GetDuration("CLOUDINARY_TIMEOUT"),
		},
		RabbitMQ: RabbitMQ{
			URL:   v.GetString("RABBITMQ_URL"),
			Queue: v.GetString("RABBITMQ_QUEUE"),
		},
	}
	return cfg, nil
}

// Validate reports settings the service cannot run without.
func (c *Config) Validate() error {
	var errs []error
	if c.Cloudinary.CloudName == "" {
		errs = append(errs, errors.New("CLOUDINARY_CLOUD_NAME is required"))
	}
	if c.Cloudinary.UploadPreset == "" {
		errs = append(errs, errors.New("CLOUDINARY_UPLOAD_PRESET is required"))
	}
	if c.Cloudinary.Folder == "" {
		errs = append(errs, errors.New("CLOUDINARY_FOLDER is required"))
	}
	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite", "memory":
	default:
		errs = append(errs, fmt.Errorf("unsupported DATABASE_DRIVER %q", c.Database.Driver))
	}
	if c.UploadMaxBytes <= 0 {
		errs = append(errs, errors.New("UPLOAD_MAX_BYTES must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

func firstSet(v *viper.Viper, keys ...string) string {
	for _, k := range keys {
		if s := v.GetString(k); s != "" {
			return s
		}
	}
	return ""
}
