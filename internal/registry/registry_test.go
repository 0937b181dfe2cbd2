package registry

import (
	"context"
	"testing"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/sommia/sommelier/internal/config"
	"github.com/sommia/sommelier/pkg/plugin"
)

// fakePlugin is a minimal plugin recording lifecycle calls.
type fakePlugin struct {
	name    string
	roles   []string
	inited  bool
	started bool
	stopped bool
	store   plugin.Store
	bus     plugin.EventBus
}

func (f *fakePlugin) Name() string    { return f.name }
func (f *fakePlugin) Version() string { return "0.1.0" }
func (f *fakePlugin) Init(cfg plugin.Config, logger *zap.Logger) error {
	f.inited = true
	return nil
}
func (f *fakePlugin) Start(ctx context.Context) error { f.started = true; return nil }
func (f *fakePlugin) Stop() error                     { f.stopped = true; return nil }
func (f *fakePlugin) Roles() []string                 { return f.roles }
func (f *fakePlugin) AttachStore(s plugin.Store)      { f.store = s }
func (f *fakePlugin) AttachBus(b plugin.EventBus)     { f.bus = b }

func testConfig(t *testing.T, kv map[string]any) plugin.Config {
	t.Helper()
	v := viper.New()
	for k, val := range kv {
		v.Set(k, val)
	}
	return config.New(v)
}

func TestRegisterDuplicate(t *testing.T) {
	r := New(zap.NewNop())
	if err := r.Register(&fakePlugin{name: "cellar"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(&fakePlugin{name: "cellar"}); err == nil {
		t.Fatal("expected error registering duplicate plugin name")
	}
}

func TestLifecycle(t *testing.T) {
	r := New(zap.NewNop())
	p := &fakePlugin{name: "cellar"}
	if err := r.Register(p); err != nil {
		t.Fatalf("Register: %v", err)
	}

	cfg := testConfig(t, map[string]any{"plugins.cellar.enabled": true})
	if err := r.InitAll(cfg); err != nil {
		t.Fatalf("InitAll: %v", err)
	}
	if !p.inited {
		t.Error("plugin not initialized")
	}

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	if !p.started {
		t.Error("plugin not started")
	}

	r.StopAll()
	if !p.stopped {
		t.Error("plugin not stopped")
	}
}

func TestDisabledPluginSkipped(t *testing.T) {
	r := New(zap.NewNop())
	p := &fakePlugin{name: "ollama"}
	if err := r.Register(p); err != nil {
		t.Fatalf("Register: %v", err)
	}

	cfg := testConfig(t, map[string]any{"plugins.ollama.enabled": false})
	if err := r.InitAll(cfg); err != nil {
		t.Fatalf("InitAll: %v", err)
	}
	if p.inited {
		t.Error("disabled plugin was initialized")
	}

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	if p.started {
		t.Error("disabled plugin was started")
	}
	if r.Enabled("ollama") {
		t.Error("Enabled('ollama') = true for disabled plugin")
	}
}

func TestResolveByRole(t *testing.T) {
	r := New(zap.NewNop())
	cellar := &fakePlugin{name: "cellar", roles: []string{"cellar"}}
	carte := &fakePlugin{name: "carte"}
	if err := r.Register(cellar); err != nil {
		t.Fatalf("Register cellar: %v", err)
	}
	if err := r.Register(carte); err != nil {
		t.Fatalf("Register carte: %v", err)
	}

	cfg := testConfig(t, map[string]any{
		"plugins.cellar.enabled": true,
		"plugins.carte.enabled":  true,
	})
	if err := r.InitAll(cfg); err != nil {
		t.Fatalf("InitAll: %v", err)
	}

	got := r.ResolveByRole("cellar")
	if len(got) != 1 || got[0].Name() != "cellar" {
		t.Errorf("ResolveByRole('cellar') = %v, want [cellar]", got)
	}
	if got := r.ResolveByRole("llm"); len(got) != 0 {
		t.Errorf("ResolveByRole('llm') = %v, want empty", got)
	}
}

func TestResolveByRoleExcludesDisabled(t *testing.T) {
	r := New(zap.NewNop())
	p := &fakePlugin{name: "ollama", roles: []string{"llm"}}
	if err := r.Register(p); err != nil {
		t.Fatalf("Register: %v", err)
	}

	cfg := testConfig(t, map[string]any{"plugins.ollama.enabled": false})
	if err := r.InitAll(cfg); err != nil {
		t.Fatalf("InitAll: %v", err)
	}

	if got := r.ResolveByRole("llm"); len(got) != 0 {
		t.Errorf("ResolveByRole('llm') = %v, want empty for disabled plugin", got)
	}
}

func TestBindAttachesDependencies(t *testing.T) {
	r := New(zap.NewNop())
	p := &fakePlugin{name: "cellar"}
	if err := r.Register(p); err != nil {
		t.Fatalf("Register: %v", err)
	}

	bus := &recordingBus{}
	r.Bind(nil, bus)

	if p.bus == nil {
		t.Error("Bind did not attach the event bus")
	}
	if p.store != nil {
		t.Error("Bind attached a nil store")
	}
}

// recordingBus is a no-op plugin.EventBus.
type recordingBus struct{}

func (b *recordingBus) Publish(ctx context.Context, e plugin.Event) error { return nil }
func (b *recordingBus) PublishAsync(ctx context.Context, e plugin.Event) {}
func (b *recordingBus) Subscribe(topic string, h plugin.EventHandler) func() {
	return func() {}
}
func (b *recordingBus) SubscribeAll(h plugin.EventHandler) func() { return func() {} }
