package httpclient

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
)

// maxLoggedBody caps how much of a body is copied into debug logs.
const maxLoggedBody = 4 << 10

// BasicAuthTransport implements http.RoundTripper and adds Basic Auth
// authentication to outgoing requests.
type BasicAuthTransport struct {
	Username  string
	Password  string
	Transport http.RoundTripper
	Logger    *slog.Logger
}

// NewBasicAuthTransport creates a new BasicAuthTransport with the given
// credentials and optional underlying transport. If transport is nil,
// http.DefaultTransport will be used.
func NewBasicAuthTransport(username, password string, transport http.RoundTripper, logger *slog.Logger) *BasicAuthTransport {
	if transport == nil {
		transport = http.DefaultTransport
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &BasicAuthTransport{
		Username:  username,
		Password:  password,
		Transport: transport,
		Logger:    logger,
	}
}

// RoundTrip implements the http.RoundTripper interface. It adds Basic Auth
// credentials to a clone of the request and delegates to the underlying
// transport.
func (t *BasicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Username == "" {
		return nil, errors.New("basic auth username cannot be empty")
	}
	if t.Transport == nil {
		return nil, errors.New("transport cannot be nil")
	}

	debug := t.Logger.Enabled(req.Context(), slog.LevelDebug)

	out := req.Clone(req.Context())
	if debug && req.Body != nil && req.GetBody != nil {
		if body, err := req.GetBody(); err == nil {
			t.Logger.Debug("outgoing request",
				"method", out.Method,
				"url", out.URL.String(),
				"body", peek(body))
		}
	} else if debug {
		t.Logger.Debug("outgoing request",
			"method", out.Method,
			"url", out.URL.String())
	}

	out.SetBasicAuth(t.Username, t.Password)
	resp, err := t.Transport.RoundTrip(out)

	if err == nil && resp != nil && debug {
		respBody := ""
		if resp.Body != nil {
			bodyBytes, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()
			resp.Body = io.NopCloser(bytes.NewReader(bodyBytes))
			if readErr == nil {
				respBody = truncate(bodyBytes)
			}
		}

		t.Logger.Debug("incoming response",
			"status", resp.Status,
			"body", respBody)
	}

	return resp, err
}

func peek(body io.ReadCloser) string {
	defer body.Close()
	data, _ := io.ReadAll(io.LimitReader(body, maxLoggedBody+1))
	return truncate(data)
}

func truncate(data []byte) string {
	if len(data) > maxLoggedBody {
		return string(data[:maxLoggedBody]) + "..."
	}
	return string(data)
}
