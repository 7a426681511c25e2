package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/posquery/pkg/errors"
	"github.com/matzehuels/posquery/pkg/integrations"
	"github.com/matzehuels/posquery/pkg/integrations/odoo/odootest"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFileConfig(t *testing.T) {
	path := writeConfig(t, `
url = "https://erp.example.com"
database = "prod"
username = "pos"
password = "secret"
protocol = "jsonrpc"
timeout = "15s"
`)

	fc, err := loadFileConfig(path, true)
	if err != nil {
		t.Fatalf("loadFileConfig() error: %v", err)
	}
	want := fileConfig{
		URL:      "https://erp.example.com",
		Database: "prod",
		Username: "pos",
		Password: "secret",
		Protocol: "jsonrpc",
		Timeout:  duration{15 * time.Second},
	}
	if fc != want {
		t.Errorf("loadFileConfig() = %+v, want %+v", fc, want)
	}
}

func TestLoadFileConfigErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.toml")

	if _, err := loadFileConfig(missing, false); err != nil {
		t.Errorf("missing default file should be ignored, got %v", err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing explicit file", missing},
		{"unknown key", writeConfig(t, `uri = "https://erp.example.com"`)},
		{"bad duration", writeConfig(t, `timeout = "soon"`)},
		{"bad syntax", writeConfig(t, `url = `)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadFileConfig(tt.path, true)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("loadFileConfig() error = %v, want %s", err, errors.ErrCodeInvalidConfig)
			}
		})
	}
}

func TestResolveConfigFlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, `
url = "https://erp.example.com"
database = "prod"
username = "pos"
password = "secret"
timeout = "15s"
`)

	c := &CLI{}
	c.conn.configPath = path
	c.conn.database = "staging"
	c.conn.protocol = "jsonrpc"
	c.conn.timeout = 3 * time.Second

	cfg, err := c.resolveConfig()
	if err != nil {
		t.Fatalf("resolveConfig() error: %v", err)
	}
	if cfg.URL != "https://erp.example.com" || cfg.Username != "pos" || cfg.Password != "secret" {
		t.Errorf("file values lost: %+v", cfg)
	}
	if cfg.Database != "staging" || cfg.Protocol != integrations.ProtocolJSONRPC || cfg.Timeout != 3*time.Second {
		t.Errorf("flag values not applied: %+v", cfg)
	}
}

func TestSearchWithConfigFile(t *testing.T) {
	srv := odootest.NewServer(odootest.Catalog()...)
	defer srv.Close()

	path := writeConfig(t, `
url = "`+srv.URL+`"
database = "test"
username = "admin"
password = "admin"
`)

	out, _, err := execute(t, "--config", path, "search", "--code", "TEST001")
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if out != testProductCard {
		t.Errorf("output = %q", out)
	}
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	out, _, err := execute(t, "--config", path, "config", "path")
	if err != nil {
		t.Fatalf("config path error: %v", err)
	}
	if strings.TrimSpace(out) != path {
		t.Errorf("config path = %q, want %q", out, path)
	}

	if _, _, err := execute(t, "--config", path, "config", "init"); err != nil {
		t.Fatalf("config init error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}

	// The template must itself be a valid config.
	if _, err := loadFileConfig(path, true); err != nil {
		t.Errorf("template does not load: %v", err)
	}

	if _, _, err := execute(t, "--config", path, "config", "init"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("second init error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
	if _, _, err := execute(t, "--config", path, "config", "init", "--force"); err != nil {
		t.Errorf("init --force error: %v", err)
	}
}

func TestConfigPathDefault(t *testing.T) {
	out, _, err := execute(t, "config", "path")
	if err != nil {
		t.Fatalf("config path error: %v", err)
	}
	want := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), appName, configFileName)
	if strings.TrimSpace(out) != want {
		t.Errorf("config path = %q, want %q", out, want)
	}
}

func TestResolveConfigWarnsOnReadablePassword(t *testing.T) {
	path := writeConfig(t, `password = "secret"`)
	if err := os.Chmod(path, 0o644); err != nil {
		t.Fatal(err)
	}

	var errOut strings.Builder
	c := &CLI{Err: &errOut}
	c.conn.configPath = path
	if _, err := c.resolveConfig(); err != nil {
		t.Fatalf("resolveConfig() error: %v", err)
	}
	if !strings.Contains(errOut.String(), "readable by other users") {
		t.Errorf("stderr = %q, want permission warning", errOut.String())
	}
}
