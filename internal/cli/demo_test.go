package cli

import (
	"strings"
	"testing"

	"github.com/matzehuels/posquery/pkg/integrations/odoo/odootest"
)

func TestDemo(t *testing.T) {
	srv := odootest.NewServer(odootest.Catalog()...)
	defer srv.Close()

	out, _, err := execute(t, connArgs(srv, "demo")...)
	if err != nil {
		t.Fatalf("demo error: %v", err)
	}

	want := `
=== Search by product code ===

Product Code: TEST001
Name: Test Product
Retail Price: 10.00
POS Price: Same as retail
---

=== Search by product name ===

Product Code: FURN-0001
Name: Office Chair
Retail Price: 120.50
POS Price: 99.90
---

Product Code: FURN-0003
Name: Kids CHAIR
Retail Price: 30.00
POS Price: Same as retail
---
`
	if out != want {
		t.Errorf("output =\n%s\nwant\n%s", out, want)
	}
}

func TestDemoFailuresExitZero(t *testing.T) {
	srv := odootest.NewServer(odootest.Catalog()...)
	defer srv.Close()

	t.Run("rejected credentials", func(t *testing.T) {
		out, _, err := execute(t, "--url", srv.URL, "--db", odootest.Database, "--password", "wrong", "demo")
		if err != nil {
			t.Fatalf("demo returned error %v, want nil", err)
		}
		if !strings.HasPrefix(out, "Error: AUTHENTICATION_FAILED") {
			t.Errorf("output = %q", out)
		}
		if strings.Contains(out, "===") {
			t.Error("no search should run after a failed login")
		}
	})

	t.Run("unreachable server", func(t *testing.T) {
		closed := odootest.NewServer()
		closed.Close()

		out, _, err := execute(t, connArgs(closed, "demo")...)
		if err != nil {
			t.Fatalf("demo returned error %v, want nil", err)
		}
		if !strings.HasPrefix(out, "Error: AUTHENTICATION_FAILED") || !strings.Contains(out, "network error") {
			t.Errorf("output = %q", out)
		}
	})
}

func TestDemoConfigPlaceholders(t *testing.T) {
	c := &CLI{}
	cfg := c.demoConfig()
	if cfg.URL != demoURL || cfg.Database != demoDatabase || cfg.Username != demoUsername || cfg.Password != demoPassword {
		t.Errorf("demoConfig() = %+v, want placeholders", cfg)
	}

	c.conn.url = "http://erp.test"
	if got := c.demoConfig().URL; got != "http://erp.test" {
		t.Errorf("URL = %q, want flag value", got)
	}
}
