// Package odoo provides a read-only client for the product catalog of an
// Odoo ERP server.
//
// # Overview
//
// A [Client] is created by [Dial], which authenticates once and keeps the
// resulting [Session] for its lifetime. The only query is
// [Client.SearchProducts], which lists products available in the point of
// sale, optionally narrowed by internal code and/or name.
//
// # Usage
//
//	client, err := odoo.Dial(ctx, odoo.Config{
//	    URL:      "https://erp.example.com",
//	    Database: "prod",
//	    Username: "pos-reader",
//	    Password: apiKey,
//	})
//	if err != nil {
//	    return err // AUTHENTICATION_FAILED or INVALID_CONFIG
//	}
//
//	products, err := client.SearchProducts(ctx, odoo.ProductQuery{Name: "chair"})
//	for _, p := range products {
//	    fmt.Println(p.DisplayCode(), p.DisplayName(), p.DisplayPOSPrice())
//	}
//
// # Filters
//
// [ProductDomain] builds the filter sent to the server. It always starts with
// [POSEligible]; code and name constraints are case-insensitive substring
// matches appended in that order when non-empty.
//
// # Records
//
// Each result is decoded into a [Product]. Fields the server reports as
// false, or does not send at all, are nil. The Display* methods substitute
// "N/A", "0.00" or "Same as retail" at display time.
//
// # Errors
//
// Failures carry a code from [errors]: INVALID_CONFIG before any call,
// AUTHENTICATION_FAILED from [Dial], QUERY_FAILED from searches. The
// transport error or server fault stays reachable with errors.Is/As.
//
// [errors]: github.com/matzehuels/posquery/pkg/errors
package odoo
