package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// ServerConfig represents the complete server configuration: one process,
// one tournament, no per-table or per-bot blocks.
type ServerConfig struct {
	Server     ServerSettings     `hcl:"server,block"`
	Tournament TournamentSettings `hcl:"tournament,block"`
}

// ServerSettings contains server-level configuration.
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// TournamentSettings configures the single tournament this process hosts.
type TournamentSettings struct {
	LobbyDebounce   string `hcl:"lobby_debounce,optional"`
	ActionTimeout   string `hcl:"action_timeout,optional"`
	lobbyDebounce   time.Duration
	actionTimeout   time.Duration
}

// DefaultServerConfig returns the configuration used when no file is
// present on disk.
func DefaultServerConfig() *ServerConfig {
	cfg := &ServerConfig{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8765,
			LogLevel: "info",
		},
		Tournament: TournamentSettings{
			LobbyDebounce: "5s",
			ActionTimeout: "30s",
		},
	}
	_ = cfg.Validate()
	return cfg
}

// LoadServerConfig loads server configuration from an HCL file, falling
// back to DefaultServerConfig if filename does not exist.
func LoadServerConfig(filename string) (*ServerConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultServerConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ServerConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	if config.Server.Address == "" {
		config.Server.Address = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8765
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}
	if config.Tournament.LobbyDebounce == "" {
		config.Tournament.LobbyDebounce = "5s"
	}
	if config.Tournament.ActionTimeout == "" {
		config.Tournament.ActionTimeout = "30s"
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate parses the configured durations and checks bounds, caching the
// parsed durations for LobbyDebounce/ActionTimeout.
func (c *ServerConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	debounce, err := time.ParseDuration(c.Tournament.LobbyDebounce)
	if err != nil {
		return fmt.Errorf("invalid lobby_debounce: %w", err)
	}
	timeout, err := time.ParseDuration(c.Tournament.ActionTimeout)
	if err != nil {
		return fmt.Errorf("invalid action_timeout: %w", err)
	}
	c.Tournament.lobbyDebounce = debounce
	c.Tournament.actionTimeout = timeout
	return nil
}

// LobbyDebounceDuration returns the parsed lobby debounce duration.
func (t TournamentSettings) LobbyDebounceDuration() time.Duration {
	return t.lobbyDebounce
}

// ActionTimeoutDuration returns the parsed per-action timeout duration.
func (t TournamentSettings) ActionTimeoutDuration() time.Duration {
	return t.actionTimeout
}

// GetServerAddress returns the full server address to listen on.
func (c *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
