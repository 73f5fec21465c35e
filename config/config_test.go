package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, `
listen_addr: ":8080"
log_level: debug
supabase_url: https://example.supabase.co
supabase_service_key: key-from-file
provider_base_url: http://ai.internal
autosave_interval: 90s
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":8080" || cfg.LogLevel != "debug" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.AutosaveInterval != 90*time.Second {
		t.Errorf("autosave = %v, want 90s", cfg.AutosaveInterval)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
supabase_url: https://file.supabase.co
supabase_service_key: file-key
provider_base_url: http://file.internal
`)
	t.Setenv("SUPABASE_URL", "https://env.supabase.co")
	t.Setenv("AUTOSAVE_INTERVAL", "45s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SupabaseURL != "https://env.supabase.co" {
		t.Errorf("supabase url = %q, want env value", cfg.SupabaseURL)
	}
	if cfg.SupabaseServiceKey != "file-key" {
		t.Errorf("service key = %q, want file value kept", cfg.SupabaseServiceKey)
	}
	if cfg.AutosaveInterval != 45*time.Second {
		t.Errorf("autosave = %v", cfg.AutosaveInterval)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://env.supabase.co")
	t.Setenv("SUPABASE_SERVICE_KEY", "env-key")
	t.Setenv("AI_PROVIDER_URL", "http://ai.internal")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":3000" {
		t.Errorf("listen addr default = %q", cfg.ListenAddr)
	}
	if cfg.AutosaveInterval != 2*time.Minute {
		t.Errorf("autosave default = %v", cfg.AutosaveInterval)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_SERVICE_KEY", "")
	t.Setenv("AI_PROVIDER_URL", "")
	if _, err := Load(""); err == nil {
		t.Fatal("Load succeeded without required settings")
	}
}

func TestLoadInvalidAutosave(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://env.supabase.co")
	t.Setenv("SUPABASE_SERVICE_KEY", "env-key")
	t.Setenv("AI_PROVIDER_URL", "http://ai.internal")
	t.Setenv("AUTOSAVE_INTERVAL", "not-a-duration")
	if _, err := Load(""); err == nil {
		t.Fatal("Load accepted an invalid duration")
	}
}
