package integrations

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds a single remote call when the caller does not set one.
const DefaultTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when the server has no endpoint at the requested path.
	// For an ERP this usually means the RPC interface is disabled or the base URL is wrong.
	ErrNotFound = errors.New("endpoint not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, non-200 responses).
	ErrNetwork = errors.New("network error")

	// ErrProtocol is returned when a response cannot be decoded as the expected protocol.
	ErrProtocol = errors.New("protocol error")
)

// FaultError is a fault raised by the remote server while executing a call.
// Both XML-RPC faults and JSON-RPC error objects are normalized to it.
type FaultError struct {
	Code    int    // Fault code reported by the server (0 if none)
	Message string // Server-side description of the failure
}

// Error implements the error interface.
func (e *FaultError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("remote fault %d: %s", e.Code, e.Message)
	}
	return "remote fault: " + e.Message
}

// NewHTTPClient creates an HTTP client with the given per-request timeout.
// A zero or negative timeout uses [DefaultTimeout].
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// JoinURL appends path to base, collapsing duplicate slashes at the seam.
//
//	JoinURL("https://erp.example.com/", "/xmlrpc/2/common")
//	// "https://erp.example.com/xmlrpc/2/common"
func JoinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
