package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/posquery/pkg/integrations"
	"github.com/matzehuels/posquery/pkg/integrations/odoo"
)

func (c *CLI) pingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check the server version and the configured credentials",
		Long: `Ask the server for its version, then authenticate with the configured
credentials. No product data is read.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.resolveConfig()
			if err != nil {
				return err
			}
			return c.runPing(cmd.Context(), cfg)
		},
	}
}

func (c *CLI) runPing(ctx context.Context, cfg odoo.Config) error {
	logger := loggerFromContext(ctx)

	spinner := newSpinner(ctx, c.Err, "Contacting "+cfg.URL+"...")
	spinner.Start()

	info, err := odoo.ServerVersion(ctx, cfg, odoo.WithLogger(logger))
	if err != nil {
		spinner.StopWithError("Server unreachable")
		return err
	}
	client, err := odoo.Dial(ctx, cfg, odoo.WithLogger(logger))
	if err != nil {
		spinner.StopWithError("Authentication failed")
		return err
	}
	spinner.StopWithSuccess("Connected")

	protocol, _ := integrations.ParseProtocol(string(cfg.Protocol))
	s := client.Session()
	printKeyValue(c.Out, "Server", s.URL)
	printKeyValue(c.Out, "Version", info.String())
	printKeyValue(c.Out, "Protocol", string(protocol))
	printKeyValue(c.Out, "Database", s.Database)
	printKeyValue(c.Out, "User", fmt.Sprintf("%s (uid %d)", s.Username, s.UID))
	return nil
}
