package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.Backend != "memory" {
		t.Errorf("Backend = %q, want memory", cfg.Backend)
	}
	if cfg.TablePrefix != "gotodo_" {
		t.Errorf("TablePrefix = %q, want gotodo_", cfg.TablePrefix)
	}
	if cfg.TemplatesPath != "./templates" {
		t.Errorf("TemplatesPath = %q, want ./templates", cfg.TemplatesPath)
	}
}

func TestDefaultConfig_EnvOverride(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("STORE_BACKEND", "postgres")

	cfg := DefaultConfig()
	if cfg.Port != "9999" {
		t.Errorf("Port = %q, want 9999", cfg.Port)
	}
	if cfg.Backend != "postgres" {
		t.Errorf("Backend = %q, want postgres", cfg.Backend)
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "port: \"3000\"\nbackend: mysql\nsession_secret: file-secret-that-is-long-enough!!\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "3000" {
		t.Errorf("Port = %q, want 3000", cfg.Port)
	}
	if cfg.Backend != "mysql" {
		t.Errorf("Backend = %q, want mysql", cfg.Backend)
	}
	// Values absent from the file keep their defaults.
	if cfg.TablePrefix != "gotodo_" {
		t.Errorf("TablePrefix = %q, want gotodo_", cfg.TablePrefix)
	}
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Backend != "memory" {
		t.Errorf("Backend = %q, want memory", cfg.Backend)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig("/does/not/exist.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadConfig_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("port: [unterminated"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

func TestOpenStore_UnknownBackend(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = "oracle"
	if _, err := openStore(cfg); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestLoadTemplates(t *testing.T) {
	dir := t.TempDir()
	page := `<title>{{.Title}}</title>`
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte(page), 0o600); err != nil {
		t.Fatalf("write template: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skipped"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	tmpl, err := loadTemplates(dir)
	if err != nil {
		t.Fatalf("loadTemplates: %v", err)
	}
	if tmpl.Lookup("index.html") == nil {
		t.Fatal("index.html not loaded")
	}
	if tmpl.Lookup("notes.txt") != nil {
		t.Fatal("non-html file was loaded")
	}
}
