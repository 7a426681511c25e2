package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/posquery/pkg/integrations/odoo"
)

func (c *CLI) browseCommand() *cobra.Command {
	var opts searchOpts

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Search POS products and browse the results interactively",
		Long: `Run one search and open the results in an interactive list.
Takes the same filters as 'posquery search'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			q, err := opts.query()
			if err != nil {
				return err
			}
			cfg, err := c.resolveConfig()
			if err != nil {
				return err
			}
			products, err := c.search(ctx, cfg, q)
			if err != nil {
				return err
			}

			model := NewProductListModel(browseTitle(q, len(products)), products)
			_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			if err != nil {
				return fmt.Errorf("run browser: %w", err)
			}
			return nil
		},
	}

	opts.addFlags(cmd)
	return cmd
}

func browseTitle(q odoo.ProductQuery, n int) string {
	switch {
	case q.Code != "" && q.Name != "":
		return fmt.Sprintf("%d products matching code %q and name %q", n, q.Code, q.Name)
	case q.Code != "":
		return fmt.Sprintf("%d products matching code %q", n, q.Code)
	case q.Name != "":
		return fmt.Sprintf("%d products matching name %q", n, q.Name)
	default:
		return fmt.Sprintf("%d POS products", n)
	}
}
