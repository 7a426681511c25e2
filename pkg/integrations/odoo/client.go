package odoo

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/posquery/pkg/errors"
	"github.com/matzehuels/posquery/pkg/integrations"
)

// Remote services and methods.
const (
	serviceCommon = "common"
	serviceObject = "object"

	methodAuthenticate = "authenticate"
	methodVersion      = "version"
	methodExecuteKw    = "execute_kw"
	methodSearchRead   = "search_read"
)

// ErrInvalidCredentials is the cause of an authentication error when the
// server answered but rejected the login. Use errors.Is to tell it apart
// from an unreachable server.
var ErrInvalidCredentials = stderrors.New("invalid credentials")

// Session is the authenticated identity of a [Client].
// It is created once by [Dial] and never changes.
type Session struct {
	URL      string // Server base address
	Database string // Database the session is bound to
	Username string // Login used to authenticate
	UID      int64  // User id returned by the server, always positive

	password string
}

// Client queries the product catalog of one ERP database.
//
// A Client only exists in the authenticated state: [Dial] either returns a
// Client holding a valid [Session] or an error. It issues calls one at a time
// and holds no mutable state, so it is safe for concurrent use.
type Client struct {
	caller  integrations.Caller
	session Session
	logger  *log.Logger
}

// Option configures [Dial] and [ServerVersion].
type Option func(*options)

type options struct {
	httpClient *http.Client
	caller     integrations.Caller
	logger     *log.Logger
}

// WithHTTPClient sets the HTTP client used by the transport.
// It overrides Config.Timeout.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithCaller replaces the transport entirely. Config.Protocol, Config.Timeout
// and [WithHTTPClient] are then ignored.
func WithCaller(c integrations.Caller) Option {
	return func(o *options) { o.caller = c }
}

// WithLogger sets a logger for debug output. Without it the client is silent.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(cfg Config, opts []Option) (*options, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard)
	}
	if o.caller != nil {
		return o, nil
	}

	protocol, err := integrations.ParseProtocol(string(cfg.Protocol))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid protocol")
	}
	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = integrations.NewHTTPClient(cfg.Timeout)
	}
	caller, err := integrations.NewCaller(protocol, cfg.URL, httpClient)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "create transport")
	}
	o.caller = caller
	return o, nil
}

// Dial validates cfg, authenticates against the server and returns a Client
// bound to the resulting session.
//
// Returns:
//   - an [errors.ErrCodeInvalidConfig] error if cfg is incomplete
//   - an [errors.ErrCodeAuthentication] error if the server rejects the
//     credentials (cause [ErrInvalidCredentials]) or cannot be reached
//     (cause wraps [integrations.ErrNetwork] or *[integrations.FaultError])
//
// No Client is returned on error.
func Dial(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o, err := buildOptions(cfg, opts)
	if err != nil {
		return nil, err
	}
	return authenticate(ctx, cfg, o)
}

func authenticate(ctx context.Context, cfg Config, o *options) (*Client, error) {
	args := []any{cfg.Database, cfg.Username, cfg.Password, map[string]any{}}

	var reply any
	if err := o.caller.Call(ctx, serviceCommon, methodAuthenticate, args, &reply); err != nil {
		return nil, errors.Wrap(errors.ErrCodeAuthentication, err,
			"authenticate %s on database %s", cfg.Username, cfg.Database)
	}

	uid, ok := toInt64(reply)
	if !ok || uid <= 0 {
		return nil, errors.Wrap(errors.ErrCodeAuthentication, ErrInvalidCredentials,
			"login %s rejected by database %s", cfg.Username, cfg.Database)
	}

	o.logger.Debug("authenticated", "url", cfg.URL, "db", cfg.Database, "user", cfg.Username, "uid", uid)

	return &Client{
		caller: o.caller,
		session: Session{
			URL:      cfg.URL,
			Database: cfg.Database,
			Username: cfg.Username,
			UID:      uid,
			password: cfg.Password,
		},
		logger: o.logger,
	}, nil
}

// Session returns the session the client was authenticated with.
func (c *Client) Session() Session { return c.session }

// SearchProducts returns the POS-eligible products matching q.
//
// It issues exactly one search_read call on [ProductModel] with the domain
// built by [ProductDomain] and the fields from [ProductFields]. Results keep
// the server's order; no pagination is applied, so the server's default
// result limit (if any) applies. Nothing is cached: every call re-queries.
//
// Any failure is returned as an [errors.ErrCodeQuery] error wrapping the
// transport error or *[integrations.FaultError].
func (c *Client) SearchProducts(ctx context.Context, q ProductQuery) ([]Product, error) {
	domain := ProductDomain(q)
	args := []any{
		c.session.Database,
		c.session.UID,
		c.session.password,
		ProductModel,
		methodSearchRead,
		[]any{domain.Args()},
		map[string]any{"fields": ProductFields()},
	}

	var reply any
	if err := c.caller.Call(ctx, serviceObject, methodExecuteKw, args, &reply); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQuery, err, "search %s", ProductModel)
	}

	rows, ok := reply.([]any)
	if !ok && reply != nil {
		return nil, errors.New(errors.ErrCodeQuery, "search %s: unexpected result type %T", ProductModel, reply)
	}
	products := make([]Product, 0, len(rows))
	for _, row := range rows {
		rec, ok := row.(map[string]any)
		if !ok {
			return nil, errors.New(errors.ErrCodeQuery, "search %s: unexpected record type %T", ProductModel, row)
		}
		products = append(products, DecodeProduct(rec))
	}

	c.logger.Debug("searched products", "domain", domain.String(), "results", len(products))
	return products, nil
}

// VersionInfo describes the ERP server software.
type VersionInfo struct {
	ServerVersion   string // e.g. "17.0"
	ProtocolVersion int    // RPC protocol revision
}

// ServerVersion asks the server for its version. It needs no credentials,
// so only cfg.URL, cfg.Protocol and cfg.Timeout are used.
func ServerVersion(ctx context.Context, cfg Config, opts ...Option) (*VersionInfo, error) {
	if err := errors.ValidateServerURL(cfg.URL); err != nil {
		return nil, err
	}
	o, err := buildOptions(cfg, opts)
	if err != nil {
		return nil, err
	}

	var raw any
	if err := o.caller.Call(ctx, serviceCommon, methodVersion, []any{}, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQuery, err, "fetch server version from %s", cfg.URL)
	}
	reply, _ := raw.(map[string]any)

	info := &VersionInfo{}
	if v, ok := reply["server_version"].(string); ok {
		info.ServerVersion = v
	}
	if v, ok := toInt64(reply["protocol_version"]); ok {
		info.ProtocolVersion = int(v)
	}
	if info.ServerVersion == "" {
		return nil, errors.New(errors.ErrCodeQuery, "server at %s did not report a version", cfg.URL)
	}

	o.logger.Debug("server version", "url", cfg.URL, "version", info.ServerVersion)
	return info, nil
}

// String formats the version for display.
func (v VersionInfo) String() string {
	return fmt.Sprintf("%s (protocol %d)", v.ServerVersion, v.ProtocolVersion)
}
