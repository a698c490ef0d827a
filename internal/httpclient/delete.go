package httpclient

import (
	"context"
	"net/http"
)

// DoDELETE sends a DELETE request with If-Match header for optimistic locking
func (c *httpClientWrapper) DoDELETE(ctx context.Context, urlStr string, etag string) error {
	c.logger.Debug("starting DELETE request",
		"url", urlStr,
		"etag", etag)

	var headers map[string]string
	if etag != "" {
		headers = map[string]string{"If-Match": etag}
	}

	resp, err := c.do(ctx, http.MethodDelete, urlStr, nil, headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	c.logger.Debug("DELETE request complete", "status", resp.Status)
	return nil
}
