// Package pkg provides the libraries behind posquery.
//
// # Overview
//
// posquery reads the point-of-sale product catalog of an Odoo ERP server. The
// pkg directory is organized into:
//
//  1. [integrations] - Wire transports (XML-RPC, JSON-RPC) shared by ERP clients
//  2. [integrations/odoo] - Session, query filter and product records
//  3. [errors] - Structured error codes and input validation
//  4. [observability] - Hooks around every remote call
//  5. [buildinfo] - Version information injected at build time
//
// # Architecture
//
//	odoo.Config
//	     ↓
//	odoo.Dial  ──  common.authenticate  ──→  Session
//	     ↓
//	Client.SearchProducts  ──  object.execute_kw(product.product, search_read)
//	     ↓
//	[]odoo.Product  (display defaults applied at print time)
//
// # Quick Start
//
//	import "github.com/matzehuels/posquery/pkg/integrations/odoo"
//
//	client, err := odoo.Dial(ctx, odoo.Config{
//	    URL:      "https://erp.example.com",
//	    Database: "prod",
//	    Username: "pos-reader",
//	    Password: apiKey,
//	})
//	if err != nil {
//	    return err
//	}
//	products, err := client.SearchProducts(ctx, odoo.ProductQuery{Code: "TEST001"})
package pkg
