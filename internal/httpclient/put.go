package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// DoPUT replaces a resource. A non-empty etag is sent as If-Match.
func (c *httpClientWrapper) DoPUT(ctx context.Context, urlStr string, etag string, in, out any) (newEtag string, err error) {
	data, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("failed to marshal PUT body: %w", err)
	}

	c.logger.Debug("starting PUT request",
		"url", urlStr,
		"etag", etag,
		"data_length", len(data))

	headers := map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
	if etag != "" {
		headers["If-Match"] = etag
	}

	resp, err := c.do(ctx, http.MethodPut, urlStr, bytes.NewReader(data), headers)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := decode(resp, out); err != nil {
		return "", err
	}

	newEtag = resp.Header.Get("ETag")
	c.logger.Debug("PUT request complete",
		"status", resp.Status,
		"new_etag", newEtag)
	return newEtag, nil
}
