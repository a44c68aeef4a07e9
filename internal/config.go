package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/starford/sikabut/internal/portal"
	"github.com/starford/sikabut/internal/relay"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Upstream UpstreamConfig    `yaml:"upstream"`
	Portal   PortalConfig      `yaml:"portal"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Upstream.Validate(); err != nil {
		return fmt.Errorf("upstream: %w", err)
	}
	if err := c.Portal.Validate(); err != nil {
		return fmt.Errorf("portal: %w", err)
	}
	return nil
}

// RequireUpstream fails unless an upstream URL is configured. Commands that
// run the relay in-process call it.
func (c *Config) RequireUpstream() error {
	if strings.TrimSpace(c.Upstream.URL) == "" {
		return errors.New("upstream.url is required")
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// UpstreamConfig describes the external record service the relay calls.
type UpstreamConfig struct {
	URL     string        `yaml:"url"`
	Param   string        `yaml:"param"`
	Timeout time.Duration `yaml:"timeout"`
}

// Validate validates the upstream configuration. An empty URL is accepted
// here; see Config.RequireUpstream.
func (c *UpstreamConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.URL, is.RequestURL, validation.By(httpURL)),
		validation.Field(&c.Param, validation.Required),
		validation.Field(&c.Timeout, validation.Required, validation.Min(time.Second), validation.Max(2*time.Minute)),
	)
}

// PortalConfig configures the terminal lookup UI.
type PortalConfig struct {
	RelayURL string          `yaml:"relay_url"`
	Timeout  time.Duration   `yaml:"timeout"`
	History  HistoryConfig   `yaml:"history"`
	Branding portal.Branding `yaml:"branding"`
}

// Validate validates the portal configuration.
func (c *PortalConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.RelayURL, is.RequestURL, validation.By(httpURL)),
		validation.Field(&c.Timeout, validation.Required, validation.Min(time.Second), validation.Max(2*time.Minute)),
	); err != nil {
		return err
	}
	if nf := c.Branding.Copy.NotFound; nf != "" && strings.Count(nf, "%s") != 1 {
		return fmt.Errorf("branding.copy.not_found must contain exactly one %%s: %q", nf)
	}
	return c.History.Validate()
}

// HistoryConfig configures the recent-searches store.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	Limit   int    `yaml:"limit"`
}

// Validate validates the history configuration.
func (c *HistoryConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.When(c.Enabled, validation.Required)),
		validation.Field(&c.Limit, validation.Required, validation.Min(1), validation.Max(20)),
	)
}

func httpURL(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("must be an absolute http(s) URL")
	}
	return nil
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Upstream: UpstreamConfig{
			Param:   relay.DefaultParam,
			Timeout: relay.DefaultTimeout,
		},
		Portal: PortalConfig{
			RelayURL: "http://localhost:8080/api/proxy",
			Timeout:  20 * time.Second,
			History: HistoryConfig{
				Enabled: true,
				Path:    "./sikabut.db",
				Limit:   6,
			},
		},
	}
}
