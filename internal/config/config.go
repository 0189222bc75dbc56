package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	homedir "github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port         int               `yaml:"port"`
		APIKeys      map[string]string `yaml:"apiKeys"` // client name -> key; empty disables auth
		AllowOrigins []string          `yaml:"allowOrigins"`
		RateLimit    struct {
			Capacity   int `yaml:"capacity"`
			RefillRate int `yaml:"refillRate"`
		} `yaml:"rateLimit"`
	} `yaml:"server"`

	Analyzer struct {
		Provider  string        `yaml:"provider"` // local | openai | gemini
		StepDelay time.Duration `yaml:"stepDelay"`
		OpenAI    struct {
			APIKey  string `yaml:"apiKey"`
			Model   string `yaml:"model"`
			BaseURL string `yaml:"baseURL"`
		} `yaml:"openai"`
		Gemini struct {
			APIKey string `yaml:"apiKey"`
			Model  string `yaml:"model"`
		} `yaml:"gemini"`
	} `yaml:"analyzer"`

	History struct {
		Limit int `yaml:"limit"`
	} `yaml:"history"`

	Gate struct {
		RequireUnlock bool          `yaml:"requireUnlock"`
		FollowURL     string        `yaml:"followURL"`
		ConsentDelay  time.Duration `yaml:"consentDelay"`
	} `yaml:"gate"`

	Storage struct {
		Driver string `yaml:"driver"` // memory | sqlite | mysql | postgres | minio

		SQLite struct {
			Path string `yaml:"path"`
		} `yaml:"sqlite"`

		Database struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			User     string `yaml:"user"`
			Password string `yaml:"password"`
			Name     string `yaml:"name"`
			SSLMode  string `yaml:"sslMode"`

			MaxOpenConns    int           `yaml:"maxOpenConns"`
			MaxIdleConns    int           `yaml:"maxIdleConns"`
			ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
		} `yaml:"database"`

		Minio struct {
			Endpoint   string `yaml:"endpoint"`
			AccessKey  string `yaml:"accessKey"`
			SecretKey  string `yaml:"secretKey"`
			BucketName string `yaml:"bucketName"`
			Region     string `yaml:"region"`
			UseSSL     bool   `yaml:"useSSL"`
		} `yaml:"minio"`
	} `yaml:"storage"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // text | json
	} `yaml:"log"`
}

// Load baca file config.yaml. A missing file is not an error: defaults and
// environment overrides still apply.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, err
	}

	cfg.applyEnvOverrides()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.Analyzer.OpenAI.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Analyzer.Gemini.APIKey = v
	} else if v := os.Getenv("API_KEY"); v != "" && c.Analyzer.Gemini.APIKey == "" {
		c.Analyzer.Gemini.APIKey = v
	}
	if v := os.Getenv("AUDIT_PROVIDER"); v != "" {
		c.Analyzer.Provider = v
	}
	if v := os.Getenv("AUDIT_STORAGE"); v != "" {
		c.Storage.Driver = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// ApplyDefaults fills every zero value that has a sensible default.
func (c *Config) ApplyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if len(c.Server.AllowOrigins) == 0 {
		c.Server.AllowOrigins = []string{"*"}
	}
	if c.Server.RateLimit.Capacity == 0 {
		c.Server.RateLimit.Capacity = 30
	}
	if c.Server.RateLimit.RefillRate == 0 {
		c.Server.RateLimit.RefillRate = 1
	}
	c.Analyzer.Provider = strings.ToLower(strings.TrimSpace(c.Analyzer.Provider))
	if c.Analyzer.Provider == "" {
		c.Analyzer.Provider = "local"
	}
	if c.History.Limit <= 0 {
		c.History.Limit = 5
	}
	if c.Gate.FollowURL == "" {
		c.Gate.FollowURL = "https://www.instagram.com/yaz.salaq"
	}
	if c.Gate.ConsentDelay == 0 {
		c.Gate.ConsentDelay = 1500 * time.Millisecond
	}
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	if c.Storage.Driver == "" {
		c.Storage.Driver = "sqlite"
	}
	if c.Storage.Driver == "sqlite" && c.Storage.SQLite.Path == "" {
		c.Storage.SQLite.Path = defaultSQLitePath()
	}
	if c.Storage.Database.SSLMode == "" {
		c.Storage.Database.SSLMode = "disable"
	}
	if c.Storage.Minio.BucketName == "" {
		c.Storage.Minio.BucketName = "growthaudit"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate rejects combinations that cannot work at runtime.
func (c *Config) Validate() error {
	switch c.Analyzer.Provider {
	case "local", "openai", "gemini":
	default:
		return fmt.Errorf("unsupported analyzer provider: %s", c.Analyzer.Provider)
	}
	switch c.Storage.Driver {
	case "memory", "sqlite", "mysql", "postgres", "minio":
	default:
		return fmt.Errorf("unsupported storage driver: %s", c.Storage.Driver)
	}
	if c.History.Limit > 100 {
		return fmt.Errorf("history.limit too large: %d (max 100)", c.History.Limit)
	}
	return nil
}

func defaultSQLitePath() string {
	home, err := homedir.Dir()
	if err != nil {
		return "growthaudit.db"
	}
	return filepath.Join(home, ".growthaudit.db")
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	db := c.Storage.Database
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		db.User,
		db.Password,
		db.Host,
		db.Port,
		db.Name,
	)
}

// PostgresDSN builds a lib/pq connection string.
func (c *Config) PostgresDSN() string {
	db := c.Storage.Database
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		db.Host,
		db.Port,
		db.User,
		db.Password,
		db.Name,
		db.SSLMode,
	)
}
