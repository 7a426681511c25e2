// Package odootest provides an in-memory ERP server for tests.
//
// The server speaks both XML-RPC (/xmlrpc/2/<service>) and JSON-RPC
// (/jsonrpc), authenticates a single user, and answers search_read on
// product.product by evaluating the received domain against a fixed catalog.
//
//	srv := odootest.NewServer(odootest.Catalog()...)
//	defer srv.Close()
//
//	client, err := odoo.Dial(ctx, srv.Config(integrations.ProtocolXMLRPC))
package odootest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/posquery/pkg/integrations"
	"github.com/matzehuels/posquery/pkg/integrations/odoo"
)

// Default credentials accepted by a new Server.
const (
	Database = "test"
	Username = "admin"
	Password = "admin"
	UID      = 2
	Version  = "17.0"
)

// Fault codes returned by the server.
const (
	FaultInvalidQuery = 1
	FaultNoSuchModel  = 2
	FaultAccessDenied = 3
)

// Product is a catalog entry held by the server.
type Product struct {
	ID             int64
	Name           string
	Code           string   // empty is reported as false
	ListPrice      float64
	CostPrice      float64
	POSPrice       *float64 // nil omits the field from records
	AvailableInPOS bool
}

// Price returns a pointer to v, for [Product.POSPrice].
func Price(v float64) *float64 { return &v }

// Catalog returns a small fixture catalog:
//   - one POS product with code TEST001
//   - two POS products whose names contain "chair" in different cases
//   - one chair that is not available in the POS
//   - one POS product without an internal code
func Catalog() []Product {
	return []Product{
		{ID: 1, Name: "Test Product", Code: "TEST001", ListPrice: 10, CostPrice: 4, AvailableInPOS: true},
		{ID: 2, Name: "Office Chair", Code: "FURN-0001", ListPrice: 120.5, CostPrice: 70, POSPrice: Price(99.9), AvailableInPOS: true},
		{ID: 3, Name: "Garden Chair", Code: "FURN-0002", ListPrice: 45, CostPrice: 20, AvailableInPOS: false},
		{ID: 4, Name: "Desk", Code: "FURN-0100", ListPrice: 250, CostPrice: 150, AvailableInPOS: true},
		{ID: 5, Name: "Kids CHAIR", Code: "FURN-0003", ListPrice: 30, CostPrice: 12, AvailableInPOS: true},
		{ID: 6, Name: "Gift Card", ListPrice: 25, AvailableInPOS: true},
	}
}

// Call is a request received by the server, after decoding.
// Integers decode as int64 (XML-RPC) or float64 (JSON-RPC).
type Call struct {
	Protocol integrations.Protocol
	Service  string
	Method   string
	Args     []any
}

// Server is a fake ERP backed by httptest.Server.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	products []Product
	calls    []Call
}

// NewServer starts a server holding products.
func NewServer(products ...Product) *Server {
	s := &Server{products: slices.Clone(products)}

	r := chi.NewRouter()
	r.Post("/xmlrpc/2/{service}", s.handleXMLRPC)
	r.Post("/jsonrpc", s.handleJSONRPC)

	s.Server = httptest.NewServer(r)
	return s
}

// Config returns a connection config with the server's credentials.
func (s *Server) Config(protocol integrations.Protocol) odoo.Config {
	return odoo.Config{
		URL:      s.URL,
		Database: Database,
		Username: Username,
		Password: Password,
		Protocol: protocol,
	}
}

// Calls returns the calls received so far, in order.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.calls)
}

func (s *Server) record(call Call) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
}

// dispatch executes one call and returns its result or a fault.
func (s *Server) dispatch(service, method string, args []any) (any, *integrations.FaultError) {
	switch service + "." + method {
	case "common.version":
		return map[string]any{
			"server_version":      Version,
			"server_version_info": []any{int64(17), int64(0), int64(0), "final", int64(0), ""},
			"protocol_version":    int64(1),
		}, nil
	case "common.authenticate":
		if len(args) < 3 {
			return nil, fault(FaultInvalidQuery, "authenticate() takes at least 3 arguments")
		}
		if args[0] == Database && args[1] == Username && args[2] == Password {
			return int64(UID), nil
		}
		return false, nil
	case "object.execute_kw":
		return s.executeKw(args)
	default:
		return nil, fault(FaultInvalidQuery, fmt.Sprintf("method %q not found on service %q", method, service))
	}
}

func (s *Server) executeKw(args []any) (any, *integrations.FaultError) {
	if len(args) < 5 {
		return nil, fault(FaultInvalidQuery, "execute_kw() takes at least 5 arguments")
	}
	uid, _ := toInt64(args[1])
	if args[0] != Database || uid != UID || args[2] != Password {
		return nil, fault(FaultAccessDenied, "Access Denied")
	}
	if args[3] != odoo.ProductModel {
		return nil, fault(FaultNoSuchModel, fmt.Sprintf("Object %v doesn't exist", args[3]))
	}
	if args[4] != "search_read" {
		return nil, fault(FaultInvalidQuery, fmt.Sprintf("method %v is not supported", args[4]))
	}

	var domain []any
	if len(args) > 5 {
		positional, _ := args[5].([]any)
		if len(positional) > 0 {
			domain, _ = positional[0].([]any)
		}
	}
	var fields []string
	if len(args) > 6 {
		kwargs, _ := args[6].(map[string]any)
		list, _ := kwargs["fields"].([]any)
		for _, f := range list {
			if name, ok := f.(string); ok {
				fields = append(fields, name)
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records := []any{}
	for _, p := range s.products {
		ok, f := matches(p, domain)
		if f != nil {
			return nil, f
		}
		if ok {
			records = append(records, toRecord(p, fields))
		}
	}
	return records, nil
}

func matches(p Product, domain []any) (bool, *integrations.FaultError) {
	for _, term := range domain {
		triple, ok := term.([]any)
		if !ok || len(triple) != 3 {
			return false, fault(FaultInvalidQuery, fmt.Sprintf("Invalid leaf %v", term))
		}
		field, _ := triple[0].(string)
		op, _ := triple[1].(string)

		var value any
		switch field {
		case odoo.FieldAvailableInPOS:
			value = p.AvailableInPOS
		case odoo.FieldCode:
			value = p.Code
		case odoo.FieldName:
			value = p.Name
		default:
			return false, fault(FaultInvalidQuery, fmt.Sprintf("Invalid field %q in leaf %v", field, term))
		}

		switch op {
		case "=":
			if value != triple[2] {
				return false, nil
			}
		case "ilike":
			needle, ok := triple[2].(string)
			hay, _ := value.(string)
			if !ok {
				return false, fault(FaultInvalidQuery, fmt.Sprintf("ilike needs a string, got %v", triple[2]))
			}
			if hay == "" || !strings.Contains(strings.ToLower(hay), strings.ToLower(needle)) {
				return false, nil
			}
		default:
			return false, fault(FaultInvalidQuery, fmt.Sprintf("Invalid operator %q in leaf %v", op, term))
		}
	}
	return true, nil
}

func toRecord(p Product, fields []string) map[string]any {
	all := map[string]any{
		odoo.FieldName:      p.Name,
		odoo.FieldCode:      false,
		odoo.FieldListPrice: p.ListPrice,
		odoo.FieldCostPrice: p.CostPrice,
	}
	if p.Code != "" {
		all[odoo.FieldCode] = p.Code
	}
	if p.POSPrice != nil {
		all[odoo.FieldPOSPrice] = *p.POSPrice
	}

	rec := map[string]any{"id": p.ID}
	if len(fields) == 0 {
		for k, v := range all {
			rec[k] = v
		}
		return rec
	}
	for _, f := range fields {
		if v, ok := all[f]; ok {
			rec[f] = v
		}
	}
	return rec
}

func fault(code int, msg string) *integrations.FaultError {
	return &integrations.FaultError{Code: code, Message: msg}
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	http.Error(w, err.Error(), status)
}
