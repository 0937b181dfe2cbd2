package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestConfigGetString(t *testing.T) {
	v := viper.New()
	v.Set("name", "test")
	cfg := New(v)

	if got := cfg.GetString("name"); got != "test" {
		t.Errorf("GetString('name') = %q, want %q", got, "test")
	}
}

func TestConfigGetInt(t *testing.T) {
	v := viper.New()
	v.Set("port", 8080)
	cfg := New(v)

	if got := cfg.GetInt("port"); got != 8080 {
		t.Errorf("GetInt('port') = %d, want %d", got, 8080)
	}
}

func TestConfigGetBool(t *testing.T) {
	v := viper.New()
	v.Set("enabled", true)
	cfg := New(v)

	if got := cfg.GetBool("enabled"); !got {
		t.Error("GetBool('enabled') = false, want true")
	}
}

func TestConfigGetFloat64(t *testing.T) {
	v := viper.New()
	v.Set("budget_window.low", 0.7)
	cfg := New(v)

	if got := cfg.GetFloat64("budget_window.low"); got != 0.7 {
		t.Errorf("GetFloat64('budget_window.low') = %v, want 0.7", got)
	}
}

func TestConfigGetDuration(t *testing.T) {
	v := viper.New()
	v.Set("timeout", "5s")
	cfg := New(v)

	want := 5 * time.Second
	if got := cfg.GetDuration("timeout"); got != want {
		t.Errorf("GetDuration('timeout') = %v, want %v", got, want)
	}
}

func TestConfigIsSet(t *testing.T) {
	v := viper.New()
	v.Set("exists", true)
	cfg := New(v)

	if !cfg.IsSet("exists") {
		t.Error("IsSet('exists') = false, want true")
	}
	if cfg.IsSet("missing") {
		t.Error("IsSet('missing') = true, want false")
	}
}

func TestConfigSub(t *testing.T) {
	v := viper.New()
	v.Set("plugins.cellar.enabled", true)
	v.Set("plugins.cellar.seed_path", "wines.csv")
	cfg := New(v)

	sub := cfg.Sub("plugins.cellar")
	if sub == nil {
		t.Fatal("Sub('plugins.cellar') = nil")
	}
	if got := sub.GetBool("enabled"); !got {
		t.Error("sub.GetBool('enabled') = false, want true")
	}
	if got := sub.GetString("seed_path"); got != "wines.csv" {
		t.Errorf("sub.GetString('seed_path') = %q, want %q", got, "wines.csv")
	}
}

func TestConfigSubMissing(t *testing.T) {
	v := viper.New()
	cfg := New(v)

	sub := cfg.Sub("nonexistent")
	if sub == nil {
		t.Fatal("Sub('nonexistent') should return empty Config, not nil")
	}
	// Should return zero values without panic.
	if got := sub.GetString("anything"); got != "" {
		t.Errorf("empty config GetString() = %q, want empty", got)
	}
}

func TestConfigUnmarshal(t *testing.T) {
	v := viper.New()
	v.Set("host", "localhost")
	v.Set("port", 9090)
	cfg := New(v)

	var target struct {
		Host string `mapstructure:"host"`
		Port int    `mapstructure:"port"`
	}
	if err := cfg.Unmarshal(&target); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if target.Host != "localhost" {
		t.Errorf("Host = %q, want %q", target.Host, "localhost")
	}
	if target.Port != 9090 {
		t.Errorf("Port = %d, want %d", target.Port, 9090)
	}
}

func TestNilViper(t *testing.T) {
	cfg := New(nil)
	// Should not panic and return zero values.
	if got := cfg.GetString("key"); got != "" {
		t.Errorf("nil viper GetString() = %q, want empty", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load('') error = %v", err)
	}
	if got := cfg.GetString("server.port"); got != "8080" {
		t.Errorf("default server.port = %q, want %q", got, "8080")
	}
	if !cfg.GetBool("plugins.sommelier.enabled") {
		t.Error("plugins.sommelier.enabled default = false, want true")
	}
	if cfg.GetBool("plugins.ollama.enabled") {
		t.Error("plugins.ollama.enabled default = true, want false (opt-in)")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sommelier.yaml")
	content := []byte("server:\n  port: \"9999\"\nplugins:\n  carte:\n    enabled: false\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%q) error = %v", path, err)
	}
	if got := cfg.GetString("server.port"); got != "9999" {
		t.Errorf("server.port = %q, want %q", got, "9999")
	}
	if cfg.GetBool("plugins.carte.enabled") {
		t.Error("plugins.carte.enabled = true, want false from file")
	}
	// Defaults still apply for keys the file omits.
	if got := cfg.GetString("store.path"); got != "sommelier.db" {
		t.Errorf("store.path = %q, want default", got)
	}
}
