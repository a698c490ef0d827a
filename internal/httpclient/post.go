package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// DoPOST sends in as JSON and decodes the response into out.
func (c *httpClientWrapper) DoPOST(ctx context.Context, urlStr string, in, out any) (string, error) {
	data, err := json.Marshal(in)
	if err != nil {
		c.logger.Debug("failed to marshal body", "error", err)
		return "", fmt.Errorf("failed to marshal POST body: %w", err)
	}

	c.logger.Debug("starting POST request",
		"url", urlStr,
		"data_length", len(data))

	resp, err := c.do(ctx, http.MethodPost, urlStr, bytes.NewReader(data), map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := decode(resp, out); err != nil {
		return "", err
	}

	etag := resp.Header.Get("ETag")
	c.logger.Debug("POST request complete",
		"status", resp.Status,
		"etag", etag)
	return etag, nil
}
