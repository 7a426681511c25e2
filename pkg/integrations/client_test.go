package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/posquery/pkg/observability"
)

const xmlIntResponse = `<?xml version="1.0"?>
<methodResponse><params><param><value><int>7</int></value></param></params></methodResponse>`

const xmlFaultResponse = `<?xml version="1.0"?>
<methodResponse><fault><value><struct>
<member><name>faultCode</name><value><int>3</int></value></member>
<member><name>faultString</name><value><string>Access Denied</string></value></member>
</struct></value></fault></methodResponse>`

func TestParseProtocol(t *testing.T) {
	tests := []struct {
		input   string
		want    Protocol
		wantErr bool
	}{
		{"", ProtocolXMLRPC, false},
		{"xmlrpc", ProtocolXMLRPC, false},
		{"XMLRPC", ProtocolXMLRPC, false},
		{" jsonrpc ", ProtocolJSONRPC, false},
		{"soap", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseProtocol(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseProtocol(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseProtocol(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewCaller(t *testing.T) {
	c, err := NewCaller(ProtocolXMLRPC, "http://erp", nil)
	if err != nil {
		t.Fatalf("NewCaller(xmlrpc) error: %v", err)
	}
	if _, ok := c.(*XMLRPCCaller); !ok {
		t.Errorf("NewCaller(xmlrpc) = %T, want *XMLRPCCaller", c)
	}

	c, err = NewCaller(ProtocolJSONRPC, "http://erp", nil)
	if err != nil {
		t.Fatalf("NewCaller(jsonrpc) error: %v", err)
	}
	if _, ok := c.(*JSONRPCCaller); !ok {
		t.Errorf("NewCaller(jsonrpc) = %T, want *JSONRPCCaller", c)
	}

	if _, err := NewCaller("soap", "http://erp", nil); err == nil {
		t.Error("NewCaller(soap) should fail")
	}
}

func TestNewClientDefaultTimeout(t *testing.T) {
	c := NewClient(ProtocolXMLRPC, "http://erp", nil)
	if c.http == nil {
		t.Fatal("NewClient() http client is nil")
	}
	if c.http.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", c.http.Timeout, DefaultTimeout)
	}
	if c.BaseURL() != "http://erp" {
		t.Errorf("BaseURL() = %q", c.BaseURL())
	}
	if c.Protocol() != ProtocolXMLRPC {
		t.Errorf("Protocol() = %q", c.Protocol())
	}
}

func TestNewHTTPClient(t *testing.T) {
	if got := NewHTTPClient(3 * time.Second).Timeout; got != 3*time.Second {
		t.Errorf("NewHTTPClient(3s).Timeout = %v", got)
	}
	if got := NewHTTPClient(-1).Timeout; got != DefaultTimeout {
		t.Errorf("NewHTTPClient(-1).Timeout = %v, want %v", got, DefaultTimeout)
	}
}

func TestJoinURL(t *testing.T) {
	tests := []struct {
		base, path, want string
	}{
		{"http://erp", "jsonrpc", "http://erp/jsonrpc"},
		{"http://erp/", "/jsonrpc", "http://erp/jsonrpc"},
		{"https://example.com/odoo", "xmlrpc/2/common", "https://example.com/odoo/xmlrpc/2/common"},
	}
	for _, tt := range tests {
		if got := JoinURL(tt.base, tt.path); got != tt.want {
			t.Errorf("JoinURL(%q, %q) = %q, want %q", tt.base, tt.path, got, tt.want)
		}
	}
}

func TestXMLRPCCall(t *testing.T) {
	var gotPath, gotBody, gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Write([]byte(xmlIntResponse))
	}))
	defer server.Close()

	c := &XMLRPCCaller{Client: NewClient(ProtocolXMLRPC, server.URL, server.Client())}

	var uid any
	err := c.Call(context.Background(), "common", "authenticate",
		[]any{"prod", "admin", "secret", map[string]any{}}, &uid)
	if err != nil {
		t.Fatalf("Call() error: %v", err)
	}

	if gotPath != "/xmlrpc/2/common" {
		t.Errorf("path = %q, want /xmlrpc/2/common", gotPath)
	}
	if gotContentType != "text/xml" {
		t.Errorf("content type = %q, want text/xml", gotContentType)
	}
	if !strings.Contains(gotBody, "<methodName>authenticate</methodName>") {
		t.Errorf("body missing methodName: %s", gotBody)
	}
	if !strings.Contains(gotBody, "prod") || !strings.Contains(gotBody, "secret") {
		t.Errorf("body missing params: %s", gotBody)
	}
	if uid != int64(7) {
		t.Errorf("uid = %#v, want int64(7)", uid)
	}
}

func TestXMLRPCFault(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(xmlFaultResponse))
	}))
	defer server.Close()

	c := &XMLRPCCaller{Client: NewClient(ProtocolXMLRPC, server.URL, server.Client())}

	var reply any
	err := c.Call(context.Background(), "object", "execute_kw", []any{"prod"}, &reply)

	var fault *FaultError
	if !errors.As(err, &fault) {
		t.Fatalf("Call() error = %v (%T), want *FaultError", err, err)
	}
	if fault.Code != 3 || fault.Message != "Access Denied" {
		t.Errorf("fault = %+v, want {3 Access Denied}", fault)
	}
}

func TestXMLRPCMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>maintenance</html>"))
	}))
	defer server.Close()

	c := &XMLRPCCaller{Client: NewClient(ProtocolXMLRPC, server.URL, server.Client())}

	var reply []map[string]any
	err := c.Call(context.Background(), "object", "execute_kw", nil, &reply)
	if err == nil {
		t.Fatal("Call() should fail on a non XML-RPC body")
	}
}

func TestJSONRPCCall(t *testing.T) {
	var got jsonRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/jsonrpc" {
			t.Errorf("path = %q, want /jsonrpc", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      got.ID,
			"result":  []map[string]any{{"id": 1, "name": "Chair"}},
		})
	}))
	defer server.Close()

	c := &JSONRPCCaller{Client: NewClient(ProtocolJSONRPC, server.URL, server.Client())}

	var rows []map[string]any
	err := c.Call(context.Background(), "object", "execute_kw", []any{"prod", 2, "pwd"}, &rows)
	if err != nil {
		t.Fatalf("Call() error: %v", err)
	}

	if got.JSONRPC != "2.0" || got.Method != "call" {
		t.Errorf("envelope = %+v", got)
	}
	if got.Params.Service != "object" || got.Params.Method != "execute_kw" {
		t.Errorf("params = %+v", got.Params)
	}
	if len(got.Params.Args) != 3 {
		t.Errorf("args = %v, want 3 entries", got.Params.Args)
	}
	if got.ID == "" {
		t.Error("request id should not be empty")
	}
	if len(rows) != 1 || rows[0]["name"] != "Chair" {
		t.Errorf("rows = %v", rows)
	}
}

func TestJSONRPCError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req jsonRequest
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"error": map[string]any{
				"code":    200,
				"message": "Odoo Server Error",
				"data":    map[string]any{"name": "odoo.exceptions.AccessDenied", "message": "Access Denied"},
			},
		})
	}))
	defer server.Close()

	c := &JSONRPCCaller{Client: NewClient(ProtocolJSONRPC, server.URL, server.Client())}

	var reply any
	err := c.Call(context.Background(), "object", "execute_kw", nil, &reply)

	var fault *FaultError
	if !errors.As(err, &fault) {
		t.Fatalf("Call() error = %v, want *FaultError", err)
	}
	if fault.Message != "Access Denied" {
		t.Errorf("fault message = %q, want data.message", fault.Message)
	}
	if fault.Code != 200 {
		t.Errorf("fault code = %d, want 200", fault.Code)
	}
}

func TestJSONRPCMismatchedID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jsonrpc":"2.0","id":"other","result":1}`))
	}))
	defer server.Close()

	c := &JSONRPCCaller{Client: NewClient(ProtocolJSONRPC, server.URL, server.Client())}

	var reply any
	err := c.Call(context.Background(), "common", "version", nil, &reply)
	if !errors.Is(err, ErrProtocol) {
		t.Errorf("Call() error = %v, want ErrProtocol", err)
	}
}

func TestCallStatusErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"not found", http.StatusNotFound, ErrNotFound},
		{"server error", http.StatusInternalServerError, ErrNetwork},
		{"bad gateway", http.StatusBadGateway, ErrNetwork},
		{"forbidden", http.StatusForbidden, ErrNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			for _, p := range Protocols {
				c, _ := NewCaller(p, server.URL, server.Client())
				var reply any
				err := c.Call(context.Background(), "common", "version", nil, &reply)
				if !errors.Is(err, tt.want) {
					t.Errorf("%s: Call() error = %v, want %v", p, err, tt.want)
				}
			}
		})
	}
}

func TestCallConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	c, _ := NewCaller(ProtocolXMLRPC, url, nil)
	var reply any
	err := c.Call(context.Background(), "common", "version", nil, &reply)
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("Call() error = %v, want ErrNetwork", err)
	}
}

func TestCallContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(xmlIntResponse))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c, _ := NewCaller(ProtocolXMLRPC, server.URL, server.Client())
	var reply any
	err := c.Call(ctx, "common", "version", nil, &reply)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Call() error = %v, want context.Canceled in chain", err)
	}
}

func TestCallReportsHooks(t *testing.T) {
	observability.Reset()
	defer observability.Reset()

	hooks := &recordingHooks{}
	observability.SetRPCHooks(hooks)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(xmlFaultResponse))
	}))
	defer server.Close()

	c, _ := NewCaller(ProtocolXMLRPC, server.URL, server.Client())
	var reply any
	_ = c.Call(context.Background(), "object", "execute_kw", nil, &reply)

	if len(hooks.calls) != 1 {
		t.Fatalf("OnCall invoked %d times, want 1", len(hooks.calls))
	}
	call := hooks.calls[0]
	if call.Protocol != "xmlrpc" || call.Service != "object" || call.Method != "execute_kw" {
		t.Errorf("call = %+v", call)
	}
	if call.Endpoint != server.URL+"/xmlrpc/2/object" {
		t.Errorf("endpoint = %q", call.Endpoint)
	}
	if len(hooks.errs) != 1 || hooks.errs[0] == nil {
		t.Errorf("OnResult should receive the fault, got %v", hooks.errs)
	}
}

func TestFaultErrorMessage(t *testing.T) {
	if got := (&FaultError{Code: 1, Message: "boom"}).Error(); got != "remote fault 1: boom" {
		t.Errorf("Error() = %q", got)
	}
	if got := (&FaultError{Message: "boom"}).Error(); got != "remote fault: boom" {
		t.Errorf("Error() = %q", got)
	}
}

type recordingHooks struct {
	calls []observability.Call
	errs  []error
}

func (h *recordingHooks) OnCall(_ context.Context, call observability.Call) {
	h.calls = append(h.calls, call)
}

func (h *recordingHooks) OnResult(_ context.Context, _ observability.Call, _ time.Duration, err error) {
	h.errs = append(h.errs, err)
}
