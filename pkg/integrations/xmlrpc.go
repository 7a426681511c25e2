package integrations

import (
	"context"
	"errors"
	"fmt"

	"github.com/kolo/xmlrpc"
)

const xmlContentType = "text/xml"

// XMLRPCCaller implements [Caller] over XML-RPC.
//
// Each service is a separate endpoint: a call to service "common" is posted
// to <base>/xmlrpc/2/common with the method as methodName.
type XMLRPCCaller struct {
	*Client
}

// Call implements [Caller].
func (c *XMLRPCCaller) Call(ctx context.Context, service, method string, args []any, reply any) error {
	endpoint := JoinURL(c.baseURL, "xmlrpc/2/"+service)
	return c.observe(ctx, endpoint, service, method, func() error {
		body, err := xmlrpc.EncodeMethodCall(method, args...)
		if err != nil {
			return fmt.Errorf("encode %s.%s: %w", service, method, err)
		}

		data, err := c.post(ctx, endpoint, xmlContentType, body)
		if err != nil {
			return err
		}

		resp := xmlrpc.Response(data)
		if err := resp.Err(); err != nil {
			var fault xmlrpc.FaultError
			if errors.As(err, &fault) {
				return &FaultError{Code: fault.Code, Message: fault.String}
			}
			return fmt.Errorf("%w: decode fault: %w", ErrProtocol, err)
		}
		if err := resp.Unmarshal(reply); err != nil {
			return fmt.Errorf("%w: decode %s.%s response: %w", ErrProtocol, service, method, err)
		}
		return nil
	})
}
