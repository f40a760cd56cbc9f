package server

import (
	"time"

	"github.com/umputun/newsdigest/pkg/config"
)

// ConfigAdapter adapts config.Config to server.ConfigProvider interface
type ConfigAdapter struct {
	cfg *config.Config
}

// NewConfigAdapter creates a new config adapter
func NewConfigAdapter(cfg *config.Config) *ConfigAdapter {
	return &ConfigAdapter{cfg: cfg}
}

// GetServerConfig returns listen address and timeout
func (c *ConfigAdapter) GetServerConfig() (listen string, timeout time.Duration) {
	return c.cfg.Server.Listen, c.cfg.Server.Timeout
}

// GetBaseURL returns the public base URL used in the RSS view
func (c *ConfigAdapter) GetBaseURL() string {
	return c.cfg.Server.BaseURL
}
