package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/posquery/pkg/integrations"
	"github.com/matzehuels/posquery/pkg/integrations/odoo"
)

// Placeholder connection used by the demo command. These are not real
// credentials; pass --url, --db, --user and --password to point the demo at
// an actual server.
const (
	demoURL      = "http://your-odoo-server"
	demoDatabase = "your-database"
	demoUsername = "your-username"
	demoPassword = "your-password"
)

var demoSearches = []struct {
	title string
	query odoo.ProductQuery
}{
	{"Search by product code", odoo.ProductQuery{Code: "TEST001"}},
	{"Search by product name", odoo.ProductQuery{Name: "Chair"}},
}

func (c *CLI) demoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run two example searches against a placeholder server",
		Long: `Authenticate with placeholder settings and run two example searches:
by code "TEST001" and by name "Chair". Each match is printed as a card.

The config file is not read. Connection flags replace the placeholders.
Failures are reported as "Error: ..." and the command still exits 0.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The demo reports its own failures and never fails the process.
			c.runDemo(cmd.Context(), c.demoConfig())
			return nil
		},
	}
}

func (c *CLI) demoConfig() odoo.Config {
	return odoo.Config{
		URL:      firstNonEmpty(c.conn.url, demoURL),
		Database: firstNonEmpty(c.conn.database, demoDatabase),
		Username: firstNonEmpty(c.conn.username, demoUsername),
		Password: firstNonEmpty(c.conn.password, demoPassword),
		Protocol: integrations.Protocol(c.conn.protocol),
		Timeout:  c.conn.timeout,
	}
}

// runDemo prints the example searches to c.Out. The first error ends the
// demo and is printed with its code.
func (c *CLI) runDemo(ctx context.Context, cfg odoo.Config) {
	if err := demo(ctx, c.Out, cfg, loggerFromContext(ctx)); err != nil {
		fmt.Fprintf(c.Out, "Error: %v\n", err)
	}
}

func demo(ctx context.Context, w io.Writer, cfg odoo.Config, logger *log.Logger) error {
	client, err := odoo.Dial(ctx, cfg, odoo.WithLogger(logger))
	if err != nil {
		return err
	}

	for _, s := range demoSearches {
		fmt.Fprintf(w, "\n=== %s ===\n", s.title)
		products, err := client.SearchProducts(ctx, s.query)
		if err != nil {
			return err
		}
		for _, p := range products {
			fmt.Fprintln(w)
			if err := writeCard(w, p); err != nil {
				return err
			}
		}
	}
	return nil
}
