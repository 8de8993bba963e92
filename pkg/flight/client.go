// Package flight runs SQL over the coordinator's Arrow Flight SQL endpoint
// and returns rows as maps, the same shape the REST job API produces.
package flight

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/flight/flightsql"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/agentstation/dremio/pkg/errors"
	"github.com/agentstation/dremio/pkg/logging"
)

// Config describes how to reach and authenticate to the endpoint.
type Config struct {
	Host string
	Port int
	TLS  bool
	// Verify checks the server certificate when TLS is on.
	Verify bool

	// Username and Password use the Flight basic-auth handshake.
	Username string
	Password string
	// Token is sent as a bearer token instead of the handshake.
	Token string

	DialOptions []grpc.DialOption
}

// Client is a connected Flight SQL client.
type Client struct {
	sql  *flightsql.Client
	auth metadata.MD
}

// Dial connects and authenticates.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Host == "" || cfg.Port == 0 {
		return nil, errors.NewConfigError("flight", "host and port are required", nil)
	}
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	creds := insecure.NewCredentials()
	if cfg.TLS {
		creds = credentials.NewTLS(&tls.Config{InsecureSkipVerify: !cfg.Verify}) //nolint:gosec // opt-in via configuration
	}
	opts := append([]grpc.DialOption{grpc.WithTransportCredentials(creds)}, cfg.DialOptions...)

	sqlClient, err := flightsql.NewClient(addr, nil, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("flight dial %s: %w: %w", addr, errors.ErrNotImplemented, err)
	}
	c := &Client{sql: sqlClient, auth: metadata.MD{}}

	switch {
	case cfg.Token != "":
		c.auth.Set("authorization", "Bearer "+cfg.Token)
	case cfg.Username != "":
		authCtx, err := sqlClient.Client.AuthenticateBasicToken(ctx, cfg.Username, cfg.Password)
		if err != nil {
			_ = sqlClient.Close()
			return nil, &errors.AuthenticationError{Method: "basic", Message: "flight handshake failed", Err: classify("handshake", err)}
		}
		if md, ok := metadata.FromOutgoingContext(authCtx); ok {
			c.auth = md.Copy()
		}
	}

	logging.FromContext(ctx).Debug().Str("addr", addr).Bool("tls", cfg.TLS).Msg("flight client ready")
	return c, nil
}

// Close releases the connection.
func (c *Client) Close() error {
	return c.sql.Close()
}

func (c *Client) withAuth(ctx context.Context) context.Context {
	if len(c.auth) == 0 {
		return ctx
	}
	return metadata.NewOutgoingContext(ctx, metadata.Join(c.auth, outgoing(ctx)))
}

func outgoing(ctx context.Context) metadata.MD {
	md, _ := metadata.FromOutgoingContext(ctx)
	return md
}

// Query runs sql and reads every endpoint of the result.
func (c *Client) Query(ctx context.Context, sql string) ([]map[string]any, error) {
	ctx = c.withAuth(ctx)

	info, err := c.sql.Execute(ctx, sql)
	if err != nil {
		return nil, classify("execute", err)
	}

	var rows []map[string]any
	for _, ep := range info.Endpoint {
		rdr, err := c.sql.DoGet(ctx, ep.Ticket)
		if err != nil {
			return nil, classify("fetch", err)
		}
		for rdr.Next() {
			rows = append(rows, RecordRows(rdr.Record())...)
		}
		err = rdr.Err()
		rdr.Release()
		if err != nil {
			return nil, classify("read", err)
		}
	}

	logging.FromContext(ctx).Debug().Int("rows", len(rows)).Msg("flight query finished")
	return rows, nil
}

// RecordRows converts a record batch into one map per row keyed by
// column name. Values use their JSON-friendly Go form.
func RecordRows(rec arrow.RecordBatch) []map[string]any {
	schema := rec.Schema()
	n := int(rec.NumRows())
	rows := make([]map[string]any, n)
	for i := range rows {
		rows[i] = make(map[string]any, rec.NumCols())
	}
	for c, col := range rec.Columns() {
		name := schema.Field(c).Name
		for i := range n {
			rows[i][name] = col.GetOneForMarshal(i)
		}
	}
	return rows
}

// classify maps gRPC status codes onto the client's error kinds. An
// endpoint that is down or does not speak Flight SQL maps to
// errors.ErrNotImplemented so callers can fall back to REST.
func classify(op string, err error) error {
	kind := errors.ErrUnknown
	switch status.Code(err) {
	case codes.Unauthenticated:
		kind = errors.ErrUnauthorized
	case codes.PermissionDenied:
		kind = errors.ErrPermissionDenied
	case codes.NotFound:
		kind = errors.ErrNotFound
	case codes.InvalidArgument:
		kind = errors.ErrBadRequest
	case codes.Unavailable, codes.Unimplemented:
		kind = errors.ErrNotImplemented
	case codes.DeadlineExceeded:
		kind = errors.ErrTimeout
	case codes.Canceled:
		kind = errors.ErrCanceled
	}
	return fmt.Errorf("flight %s: %w: %w", op, kind, err)
}
