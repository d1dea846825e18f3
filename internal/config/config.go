package config

import (
	"fmt"
	"time"
)

type Config struct {
	Env       string          `koanf:"env"`
	LogLevel  string          `koanf:"log_level"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Diagnosis DiagnosisConfig `koanf:"diagnosis"`
	Redis     RedisConfig     `koanf:"redis"`
}

type ServerConfig struct {
	Host         string   `koanf:"host"`
	Port         string   `koanf:"port"`
	AllowOrigins []string `koanf:"allow_origins"`
}

type CatalogConfig struct {
	Server ServerConfig `koanf:"server"`
	Mongo  MongoConfig  `koanf:"mongo"`
}

type MongoConfig struct {
	URI            string        `koanf:"uri"`
	Database       string        `koanf:"database"`
	Collection     string        `koanf:"collection"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
}

type DiagnosisConfig struct {
	Server      ServerConfig `koanf:"server"`
	Model       ModelConfig  `koanf:"model"`
	MaxBodySize string       `koanf:"max_body_size"`
}

// ModelConfig describes the classifier artifact and its fixed preprocessing.
// Labels are matched to output indices in training order.
type ModelConfig struct {
	Path           string    `koanf:"path"`
	RuntimeLibrary string    `koanf:"runtime_library"`
	InputName      string    `koanf:"input_name"`
	OutputName     string    `koanf:"output_name"`
	ImageSize      int       `koanf:"image_size"`
	NumOutputs     int       `koanf:"num_outputs"`
	Labels         []string  `koanf:"labels"`
	Mean           []float64 `koanf:"mean"`
	Std            []float64 `koanf:"std"`
}

type RedisConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Host     string        `koanf:"host"`
	Port     string        `koanf:"port"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"`
	TTL      time.Duration `koanf:"ttl"`
}

// New returns the built-in defaults.
func New() *Config {
	return &Config{
		Env:      "development",
		LogLevel: "info",
		Catalog: CatalogConfig{
			Server: ServerConfig{
				Host:         "0.0.0.0",
				Port:         "8000",
				AllowOrigins: []string{"http://localhost:3000"},
			},
			Mongo: MongoConfig{
				URI:            "mongodb://localhost:27017",
				Database:       "farm_database",
				Collection:     "items",
				ConnectTimeout: 5 * time.Second,
			},
		},
		Diagnosis: DiagnosisConfig{
			Server: ServerConfig{
				Host:         "0.0.0.0",
				Port:         "8001",
				AllowOrigins: []string{"*"},
			},
			Model: ModelConfig{
				Path:       "models/myopia_classifier.onnx",
				InputName:  "input",
				OutputName: "output",
				ImageSize:  224,
				NumOutputs: 2,
				Labels:     []string{"Myopia", "Normal"},
				Mean:       []float64{0.485, 0.456, 0.406},
				Std:        []float64{0.229, 0.224, 0.225},
			},
			MaxBodySize: "20M",
		},
		Redis: RedisConfig{
			Enabled: false,
			Host:    "localhost",
			Port:    "6379",
			DB:      0,
			TTL:     24 * time.Hour,
		},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Addr joins host and port for the listener.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

func (c *Config) Validate() error {
	if c.Catalog.Server.Port == "" || c.Diagnosis.Server.Port == "" {
		return fmt.Errorf("%w: server port must not be empty", ErrInvalidConfig)
	}
	if c.Catalog.Mongo.URI == "" {
		return fmt.Errorf("%w: catalog.mongo.uri must not be empty", ErrInvalidConfig)
	}
	if c.Catalog.Mongo.Database == "" || c.Catalog.Mongo.Collection == "" {
		return fmt.Errorf("%w: catalog.mongo database and collection are required", ErrInvalidConfig)
	}
	m := c.Diagnosis.Model
	if m.ImageSize <= 0 {
		return fmt.Errorf("%w: diagnosis.model.image_size must be positive", ErrInvalidConfig)
	}
	if m.NumOutputs <= 0 {
		return fmt.Errorf("%w: diagnosis.model.num_outputs must be positive", ErrInvalidConfig)
	}
	if len(m.Mean) != 3 || len(m.Std) != 3 {
		return fmt.Errorf("%w: diagnosis.model mean and std need exactly 3 channels", ErrInvalidConfig)
	}
	for _, s := range m.Std {
		if s == 0 {
			return fmt.Errorf("%w: diagnosis.model.std must not contain zero", ErrInvalidConfig)
		}
	}
	return nil
}
