package odoo_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/posquery/pkg/integrations"
	"github.com/matzehuels/posquery/pkg/integrations/odoo"
	"github.com/matzehuels/posquery/pkg/integrations/odoo/odootest"
)

func ExampleProductDomain() {
	fmt.Println(odoo.ProductDomain(odoo.ProductQuery{}))
	fmt.Println(odoo.ProductDomain(odoo.ProductQuery{Code: "TEST001"}))
	// Output:
	// [("available_in_pos", "=", true)]
	// [("available_in_pos", "=", true), ("default_code", "ilike", "TEST001")]
}

func ExampleClient_SearchProducts() {
	srv := odootest.NewServer(odootest.Catalog()...)
	defer srv.Close()

	ctx := context.Background()
	client, err := odoo.Dial(ctx, srv.Config(integrations.ProtocolXMLRPC))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	products, err := client.SearchProducts(ctx, odoo.ProductQuery{Name: "chair"})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	for _, p := range products {
		fmt.Printf("%s  %-12s  %s\n", p.DisplayCode(), p.DisplayName(), p.DisplayPOSPrice())
	}
	// Output:
	// FURN-0001  Office Chair  99.90
	// FURN-0003  Kids CHAIR    Same as retail
}
