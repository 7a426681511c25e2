package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/posquery/pkg/errors"
	"github.com/matzehuels/posquery/pkg/integrations/odoo"
)

// searchOpts holds the command-line flags shared by search and browse.
type searchOpts struct {
	code   string // substring of the internal reference
	name   string // substring of the product name
	format string // output format (search only)
}

// query validates the search terms and converts them to a product query.
func (o *searchOpts) query() (odoo.ProductQuery, error) {
	if err := errors.ValidateSearchTerm("code", o.code); err != nil {
		return odoo.ProductQuery{}, err
	}
	if err := errors.ValidateSearchTerm("name", o.name); err != nil {
		return odoo.ProductQuery{}, err
	}
	return odoo.ProductQuery{Code: o.code, Name: o.name}, nil
}

func (o *searchOpts) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.code, "code", "c", "", "match products whose internal code contains this text")
	cmd.Flags().StringVarP(&o.name, "name", "n", "", "match products whose name contains this text")
}

func (c *CLI) searchCommand() *cobra.Command {
	opts := searchOpts{format: formatCard}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search POS products by code and/or name",
		Long: `Search the products available in the point of sale.

Both filters are optional, case-insensitive substring matches. With no
filter every POS product is listed. Results keep the server's order.

Examples:
  posquery search --code TEST001
  posquery search --name chair --format table
  posquery search --code FURN --name office --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSearch(cmd.Context(), opts)
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: "+strings.Join(outputFormats, ", "))
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return outputFormats, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func (c *CLI) runSearch(ctx context.Context, opts searchOpts) error {
	if err := validateFormat(opts.format); err != nil {
		return err
	}
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

	if len(products) == 0 && opts.format != formatJSON {
		printInfo(c.Err, "No products found")
		printDetail(c.Err, "Filter: %s", odoo.ProductDomain(q))
		return nil
	}
	return writeProducts(c.Out, opts.format, products)
}

// search authenticates and runs one product query.
func (c *CLI) search(ctx context.Context, cfg odoo.Config, q odoo.ProductQuery) ([]odoo.Product, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	spinner := newSpinner(ctx, c.Err, "Searching "+cfg.URL+"...")
	spinner.Start()
	defer spinner.Stop()

	client, err := odoo.Dial(ctx, cfg, odoo.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	products, err := client.SearchProducts(ctx, q)
	if err != nil {
		return nil, err
	}

	spinner.Stop()
	prog.done(fmt.Sprintf("Found %d products", len(products)))
	return products, nil
}
