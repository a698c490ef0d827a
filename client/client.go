// Package client is a typed Go client of the calview event API.
package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cyp0633/calview/calendar"
	"github.com/cyp0633/calview/internal/httpclient"
)

// Errors returned by the client; they match the server's status codes.
var (
	ErrInvalid            = httpclient.ErrBadRequest
	ErrUnauthorized       = httpclient.ErrUnauthorized
	ErrForbidden          = httpclient.ErrForbidden
	ErrNotFound           = httpclient.ErrNotFound
	ErrPreconditionFailed = httpclient.ErrPreconditionFailed
)

// EventClient defines the event API operations
type EventClient interface {
	ReadEvents() EventQuery
	GetEvent(ctx context.Context, id string) (ev calendar.Event, etag string, err error)
	CreateEvent(ctx context.Context, ev calendar.Event) (created calendar.Event, etag string, err error)
	UpdateEvent(ctx context.Context, ev calendar.Event, etag string) (updated calendar.Event, newEtag string, err error)
	DeleteEvent(ctx context.Context, id string, etag string) error
	AddException(ctx context.Context, id string, date string) (calendar.Event, error)
	FindOverlaps(ctx context.Context, draft calendar.Event) ([]calendar.Event, error)
	ExportEvents(ctx context.Context) ([]calendar.Event, error)
}

type eventClient struct {
	httpClient httpclient.HttpClientWrapper
}

// Config holds configuration for New
type Config struct {
	Client   *http.Client
	Logger   *slog.Logger
	Username string
	Password string
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

// New creates a client of the API served at location, e.g.
// "http://localhost:8080/". Credentials, if set, are sent as HTTP Basic auth.
func New(location string, cfg *Config) (EventClient, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	baseURL, err := url.Parse(location)
	if err != nil || baseURL.Host == "" || (baseURL.Scheme != "http" && baseURL.Scheme != "https") {
		return nil, fmt.Errorf("invalid URL %q", location)
	}
	if !strings.HasSuffix(baseURL.Path, "/") {
		baseURL.Path += "/"
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{}
	}
	if cfg.Username != "" {
		// Copy so the caller's client keeps its transport.
		withAuth := *client
		withAuth.Transport = httpclient.NewBasicAuthTransport(cfg.Username, cfg.Password, client.Transport, logger)
		client = &withAuth
	}

	wrapper, err := httpclient.NewHttpClientWrapper(client, *baseURL, logger)
	if err != nil {
		return nil, err
	}
	return NewEventClient(wrapper), nil
}

// NewEventClient creates a client over an existing wrapper
func NewEventClient(httpClient httpclient.HttpClientWrapper) EventClient {
	return &eventClient{httpClient: httpClient}
}
