// Package integrations provides the remote-procedure transport used to talk
// to an Odoo ERP server.
//
// # Overview
//
// The ERP exposes the same services over two wire formats:
//
//   - XML-RPC: one endpoint per service, <base>/xmlrpc/2/<service>
//   - JSON-RPC: a single endpoint, <base>/jsonrpc, with the service named in params
//
// Both are hidden behind the [Caller] interface:
//
//	caller, err := integrations.NewCaller(integrations.ProtocolXMLRPC, "https://erp.example.com", nil)
//	var uid any
//	err = caller.Call(ctx, "common", "authenticate", []any{db, user, pwd, map[string]any{}}, &uid)
//
// Domain clients live in subpackages:
//
//   - [odoo]: catalog queries against the product.product model
//
// # Errors
//
// Transport failures wrap [ErrNetwork] (or [ErrNotFound] for a 404), decoding
// failures wrap [ErrProtocol], and faults raised by the server are returned as
// *[FaultError]. Callers are never retried.
//
// # Instrumentation
//
// Every call is reported to the hooks registered with
// [observability.SetRPCHooks].
//
// [odoo]: github.com/matzehuels/posquery/pkg/integrations/odoo
// [observability.SetRPCHooks]: github.com/matzehuels/posquery/pkg/observability.SetRPCHooks
package integrations
