// File: config/config.go
// License: Apache-2.0

// Package config loads tweaklib settings from defaults, an optional YAML
// file and TWEAKLIB_* environment variables, in that order.
package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/frobnicators/tweaklib/internal/logging"
	"github.com/frobnicators/tweaklib/ipc"
	"github.com/frobnicators/tweaklib/server"
)

// EnvPrefix prefixes every environment override, e.g. TWEAKLIB_SERVER_PORT.
const EnvPrefix = "TWEAKLIB"

// Config represents the application configuration
type Config struct {
	Server  ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Static  StaticConfig   `yaml:"static" envconfig:"STATIC"`
	Logging logging.Config `yaml:"logging" envconfig:"LOGGING"`
}

// ServerConfig contains listener and connection settings
type ServerConfig struct {
	Host           string `yaml:"host" envconfig:"HOST"`
	Port           int    `yaml:"port" envconfig:"PORT"`
	MaxSlots       int    `yaml:"max_slots" envconfig:"MAX_SLOTS"`
	ReadBufferSize int    `yaml:"read_buffer_size" envconfig:"READ_BUFFER_SIZE"`
	IPCMaxPayload  int    `yaml:"ipc_max_payload" envconfig:"IPC_MAX_PAYLOAD"`
	Protocol       string `yaml:"protocol" envconfig:"PROTOCOL"`
}

// StaticConfig controls the bundled web UI
type StaticConfig struct {
	// Dir overrides embedded files with same-named files on disk.
	Dir string `yaml:"dir" envconfig:"DIR"`
}

// Load loads configuration from file and environment variables
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Default returns a Config with default values
func Default() *Config {
	d := server.DefaultConfig()
	return &Config{
		Server: ServerConfig{
			Host:           d.Host,
			Port:           d.Port,
			MaxSlots:       d.MaxSlots,
			ReadBufferSize: d.ReadBufferSize,
			IPCMaxPayload:  d.IPCMaxPayload,
			Protocol:       d.Protocol,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.MaxSlots < 1 {
		return fmt.Errorf("max_slots must be positive, got %d", c.Server.MaxSlots)
	}
	if c.Server.ReadBufferSize < 1024 {
		return fmt.Errorf("read_buffer_size must be at least 1024, got %d", c.Server.ReadBufferSize)
	}
	if c.Server.IPCMaxPayload < ipc.HandleSize {
		return fmt.Errorf("ipc_max_payload must hold at least one handle, got %d", c.Server.IPCMaxPayload)
	}
	if c.Server.Protocol == "" {
		return fmt.Errorf("protocol is required")
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid logging format: %s (must be json or text)", c.Logging.Format)
	}
	if c.Static.Dir != "" {
		if fi, err := os.Stat(c.Static.Dir); err != nil || !fi.IsDir() {
			return fmt.Errorf("static dir %q is not a directory", c.Static.Dir)
		}
	}
	return nil
}

// Address returns the server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ServerConfig converts c into the server package configuration.
func (c *Config) ServerConfig() *server.Config {
	sc := server.DefaultConfig()
	sc.Host = c.Server.Host
	sc.Port = c.Server.Port
	sc.MaxSlots = c.Server.MaxSlots
	sc.ReadBufferSize = c.Server.ReadBufferSize
	sc.IPCMaxPayload = c.Server.IPCMaxPayload
	sc.Protocol = c.Server.Protocol
	sc.StaticDir = c.Static.Dir
	return sc
}
