// Package config loads the sommelier configuration file and wraps viper in
// the read-only view plugins receive.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sommia/sommelier/pkg/plugin"
)

// Compile-time interface guard.
var _ plugin.Config = (*Config)(nil)

// Config is a read-only view over a viper instance.
type Config struct {
	v *viper.Viper
}

// New wraps an existing viper instance. A nil instance yields an empty
// Config returning zero values.
func New(v *viper.Viper) *Config {
	if v == nil {
		v = viper.New()
	}
	return &Config{v: v}
}

// Load reads the configuration file at path (YAML), applies defaults, and
// binds SOMMIA_-prefixed environment variable overrides. An empty path loads
// defaults only.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("SOMMIA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
	}

	return New(v), nil
}

// setDefaults registers the out-of-the-box configuration.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("store.path", "sommelier.db")

	v.SetDefault("plugins.cellar.enabled", true)
	v.SetDefault("plugins.carte.enabled", true)
	v.SetDefault("plugins.sommelier.enabled", true)

	// The LLM plugin is opt-in: the deterministic reasoning path is the
	// required baseline, Ollama only enriches it.
	v.SetDefault("plugins.ollama.enabled", false)
	v.SetDefault("plugins.ollama.base_url", "http://127.0.0.1:11434")
	v.SetDefault("plugins.ollama.model", "llama3.1:8b")
	v.SetDefault("plugins.ollama.timeout", "6s")
	v.SetDefault("plugins.ollama.requests_per_second", 2.0)
}

func (c *Config) GetString(key string) string          { return c.v.GetString(key) }
func (c *Config) GetInt(key string) int                { return c.v.GetInt(key) }
func (c *Config) GetBool(key string) bool              { return c.v.GetBool(key) }
func (c *Config) GetFloat64(key string) float64        { return c.v.GetFloat64(key) }
func (c *Config) GetDuration(key string) time.Duration { return c.v.GetDuration(key) }
func (c *Config) GetStringSlice(key string) []string   { return c.v.GetStringSlice(key) }
func (c *Config) IsSet(key string) bool                { return c.v.IsSet(key) }

// Sub returns the subtree rooted at key. Missing keys yield an empty Config
// rather than nil so plugins can read defaults without nil checks.
func (c *Config) Sub(key string) plugin.Config {
	sub := c.v.Sub(key)
	if sub == nil {
		sub = viper.New()
	}
	return New(sub)
}

// Unmarshal decodes the configuration into a struct.
func (c *Config) Unmarshal(target any) error {
	return c.v.Unmarshal(target)
}

// Set overrides a value. Intended for tests and the CLI flags bridge.
func (c *Config) Set(key string, value any) {
	c.v.Set(key, value)
}
