package dremio

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"

	"github.com/agentstation/dremio/pkg/constants"
	"github.com/agentstation/dremio/pkg/errors"
)

// Option is a function that configures a Client.
type Option func(*options) error

// options holds the configuration for a Client.
type options struct {
	hostname string
	port     int
	baseURL  string // overrides hostname/port/ssl for REST
	ssl      bool
	verify   bool

	authType string
	username string
	password string
	token    string

	flightPort        int // 0 disables Flight
	flightDialOptions []grpc.DialOption

	timeout      time.Duration
	pollInterval time.Duration
	maxWait      time.Duration
	rateLimit    float64
	burst        int
	httpClient   *http.Client

	logger *zerolog.Logger
}

// defaults returns options for a local coordinator with basic auth.
func defaults() *options {
	return &options{
		hostname:     constants.DefaultHostname,
		port:         constants.DefaultPort,
		verify:       true,
		authType:     constants.DefaultAuthType,
		username:     constants.DefaultUsername,
		password:     constants.DefaultPassword,
		flightPort:   constants.DefaultFlightPort,
		timeout:      constants.DefaultHTTPTimeout,
		pollInterval: constants.DefaultPollInterval,
		rateLimit:    constants.DefaultRateLimit,
		burst:        constants.BurstSize,
	}
}

// apply applies the given options, stopping at the first error.
func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (o *options) restURL() string {
	if o.baseURL != "" {
		return o.baseURL
	}
	scheme := "http"
	if o.ssl {
		scheme = "https"
	}
	return scheme + "://" + net.JoinHostPort(o.hostname, strconv.Itoa(o.port))
}

// WithHost sets the coordinator host and REST port.
func WithHost(hostname string, port int) Option {
	return func(o *options) error {
		if hostname == "" {
			return errors.NewValidationError("hostname", hostname, "must not be empty")
		}
		if port <= 0 || port > 65535 {
			return errors.NewValidationError("port", port, "must be between 1 and 65535")
		}
		o.hostname = hostname
		o.port = port
		return nil
	}
}

// WithBaseURL points REST calls at url verbatim, e.g. a test server.
// Flight still uses the configured host.
func WithBaseURL(url string) Option {
	return func(o *options) error {
		o.baseURL = url
		return nil
	}
}

// WithTLS turns on TLS for REST and Flight. verify=false skips
// certificate verification.
func WithTLS(verify bool) Option {
	return func(o *options) error {
		o.ssl = true
		o.verify = verify
		return nil
	}
}

// WithBasicAuth logs in with a username and password.
func WithBasicAuth(username, password string) Option {
	return func(o *options) error {
		o.authType = "basic"
		o.username = username
		o.password = password
		return nil
	}
}

// WithToken authenticates with a personal access token.
func WithToken(pat string) Option {
	return func(o *options) error {
		if pat == "" {
			return errors.NewValidationError("token", "", "must not be empty")
		}
		o.authType = "pat"
		o.token = pat
		return nil
	}
}

// WithoutAuth sends requests without credentials.
func WithoutAuth() Option {
	return func(o *options) error {
		o.authType = "none"
		return nil
	}
}

// WithFlight sets the Arrow Flight port used by Query.
func WithFlight(port int, dialOpts ...grpc.DialOption) Option {
	return func(o *options) error {
		if port <= 0 || port > 65535 {
			return errors.NewValidationError("flight.port", port, "must be between 1 and 65535")
		}
		o.flightPort = port
		o.flightDialOptions = dialOpts
		return nil
	}
}

// WithoutFlight routes every query through the REST job API.
func WithoutFlight() Option {
	return func(o *options) error {
		o.flightPort = 0
		return nil
	}
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) error {
		o.timeout = d
		return nil
	}
}

// WithPollInterval sets the delay between job status polls.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return errors.NewValidationError("pollInterval", d, "must be positive")
		}
		o.pollInterval = d
		return nil
	}
}

// WithMaxWait bounds how long a single job is polled.
func WithMaxWait(d time.Duration) Option {
	return func(o *options) error {
		o.maxWait = d
		return nil
	}
}

// WithRateLimit throttles requests to perSecond with the given burst.
// Zero disables throttling.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(o *options) error {
		o.rateLimit = perSecond
		o.burst = burst
		return nil
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) error {
		o.httpClient = hc
		return nil
	}
}

// WithLogger attaches logger to every call made by the client.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}
