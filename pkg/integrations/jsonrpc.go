package integrations

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

const jsonContentType = "application/json"

// JSONRPCCaller implements [Caller] over JSON-RPC 2.0.
//
// All services share one endpoint, <base>/jsonrpc. The service and method are
// carried in the params of a "call" request, and each request gets a fresh
// UUID that the response must echo.
type JSONRPCCaller struct {
	*Client
}

type jsonRequest struct {
	JSONRPC string     `json:"jsonrpc"`
	Method  string     `json:"method"`
	Params  jsonParams `json:"params"`
	ID      string     `json:"id"`
}

type jsonParams struct {
	Service string `json:"service"`
	Method  string `json:"method"`
	Args    []any  `json:"args"`
}

type jsonResponse struct {
	ID     string          `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *jsonError      `json:"error"`
}

type jsonError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    *struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	} `json:"data"`
}

// fault prefers the server-side exception message over the generic envelope
// message ("Odoo Server Error").
func (e *jsonError) fault() *FaultError {
	msg := e.Message
	if e.Data != nil && e.Data.Message != "" {
		msg = e.Data.Message
	}
	return &FaultError{Code: e.Code, Message: msg}
}

// Call implements [Caller].
func (c *JSONRPCCaller) Call(ctx context.Context, service, method string, args []any, reply any) error {
	endpoint := JoinURL(c.baseURL, "jsonrpc")
	return c.observe(ctx, endpoint, service, method, func() error {
		if args == nil {
			args = []any{}
		}
		req := jsonRequest{
			JSONRPC: "2.0",
			Method:  "call",
			Params:  jsonParams{Service: service, Method: method, Args: args},
			ID:      uuid.NewString(),
		}
		body, err := json.Marshal(req)
		if err != nil {
			return fmt.Errorf("encode %s.%s: %w", service, method, err)
		}

		data, err := c.post(ctx, endpoint, jsonContentType, body)
		if err != nil {
			return err
		}

		var resp jsonResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return fmt.Errorf("%w: decode %s.%s response: %w", ErrProtocol, service, method, err)
		}
		if resp.ID != req.ID {
			return fmt.Errorf("%w: response id %q does not match request id %q", ErrProtocol, resp.ID, req.ID)
		}
		if resp.Error != nil {
			return resp.Error.fault()
		}
		if len(resp.Result) == 0 {
			return fmt.Errorf("%w: %s.%s response has neither result nor error", ErrProtocol, service, method)
		}
		if err := json.Unmarshal(resp.Result, reply); err != nil {
			return fmt.Errorf("%w: decode %s.%s result: %w", ErrProtocol, service, method, err)
		}
		return nil
	})
}
