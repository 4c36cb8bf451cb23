package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	TrafficForge TrafficForgeConfig `yaml:"trafficforge"`
}

// TrafficForgeConfig is the project configuration.
type TrafficForgeConfig struct {
	Generator GeneratorConfig `yaml:"generator"`
	Output    OutputConfig    `yaml:"output"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// GeneratorConfig controls the event synthesizer and emission loop.
type GeneratorConfig struct {
	Seed      int64   `yaml:"seed"`
	Campaigns int     `yaml:"campaigns"`
	Count     int64   `yaml:"count"` // 0 = unbounded streaming mode
	Rate      float64 `yaml:"rate"`  // events/sec, streaming mode only
}

// OutputConfig controls the event sink.
type OutputConfig struct {
	Mode  string            `yaml:"mode"` // stdout|file|http|redis
	File  FileOutputConfig  `yaml:"file"`
	HTTP  HTTPOutputConfig  `yaml:"http"`
	Redis RedisOutputConfig `yaml:"redis"`
}

// FileOutputConfig config for local JSONL output. Paths ending in .gz are
// gzip-compressed.
type FileOutputConfig struct {
	Path string `yaml:"path"`
}

// HTTPOutputConfig config for posting events to a remote collector.
type HTTPOutputConfig struct {
	URL       string            `yaml:"url"`
	Timeout   time.Duration     `yaml:"timeout"`
	BatchSize int               `yaml:"batch_size"`
	Headers   map[string]string `yaml:"headers"`
}

// RedisOutputConfig config for pushing events onto a Redis list queue.
type RedisOutputConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// LoggingConfig controls logging output.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`
	File    string `yaml:"file"`
	Console bool   `yaml:"console"`
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
