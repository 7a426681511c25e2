package integrations

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/matzehuels/posquery/pkg/observability"
)

// Protocol selects the wire format used to talk to the ERP.
type Protocol string

const (
	// ProtocolXMLRPC speaks XML-RPC on /xmlrpc/2/<service>.
	ProtocolXMLRPC Protocol = "xmlrpc"

	// ProtocolJSONRPC speaks JSON-RPC 2.0 on /jsonrpc.
	ProtocolJSONRPC Protocol = "jsonrpc"
)

// Protocols lists the supported protocols, default first.
var Protocols = []Protocol{ProtocolXMLRPC, ProtocolJSONRPC}

// ParseProtocol converts a protocol name to a [Protocol].
// Matching is case-insensitive; an empty string selects [ProtocolXMLRPC].
func ParseProtocol(s string) (Protocol, error) {
	switch Protocol(strings.ToLower(strings.TrimSpace(s))) {
	case "", ProtocolXMLRPC:
		return ProtocolXMLRPC, nil
	case ProtocolJSONRPC:
		return ProtocolJSONRPC, nil
	default:
		return "", fmt.Errorf("unsupported protocol %q (want xmlrpc or jsonrpc)", s)
	}
}

// Caller issues remote procedure calls against one ERP server.
//
// Call invokes method on service with positional args and decodes the result
// into reply, which must be a pointer. Transport failures wrap [ErrNetwork] or
// [ErrNotFound]; server-side faults are returned as *[FaultError].
//
// Implementations never retry: every failure is returned to the caller.
type Caller interface {
	Call(ctx context.Context, service, method string, args []any, reply any) error
}

// NewCaller creates a Caller for the given protocol and server base URL.
// If httpClient is nil, [NewHTTPClient] with [DefaultTimeout] is used.
func NewCaller(protocol Protocol, baseURL string, httpClient *http.Client) (Caller, error) {
	c := NewClient(protocol, baseURL, httpClient)
	switch protocol {
	case ProtocolXMLRPC:
		return &XMLRPCCaller{Client: c}, nil
	case ProtocolJSONRPC:
		return &JSONRPCCaller{Client: c}, nil
	default:
		return nil, fmt.Errorf("unsupported protocol %q", protocol)
	}
}

// Client provides the HTTP plumbing shared by all protocol callers.
// It posts request bodies, checks status codes and reports calls to
// [observability.RPC] hooks.
type Client struct {
	http     *http.Client
	baseURL  string
	protocol Protocol
}

// NewClient creates a Client posting to baseURL.
// Pass nil for httpClient to use [NewHTTPClient] with the default timeout.
func NewClient(protocol Protocol, baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient(0)
	}
	return &Client{
		http:     httpClient,
		baseURL:  baseURL,
		protocol: protocol,
	}
}

// BaseURL returns the server base URL the client posts to.
func (c *Client) BaseURL() string { return c.baseURL }

// Protocol returns the wire protocol of the client.
func (c *Client) Protocol() Protocol { return c.protocol }

// observe runs fn between the OnCall and OnResult hooks.
func (c *Client) observe(ctx context.Context, endpoint, service, method string, fn func() error) error {
	call := observability.Call{
		Protocol: string(c.protocol),
		Endpoint: endpoint,
		Service:  service,
		Method:   method,
	}
	hooks := observability.RPC()
	hooks.OnCall(ctx, call)
	start := time.Now()
	err := fn()
	hooks.OnResult(ctx, call, time.Since(start), err)
	return err
}

// post sends body to url and returns the full response body.
func (c *Client) post(ctx context.Context, url, contentType string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrNetwork, err)
	}
	return data, nil
}
