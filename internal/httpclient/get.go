package httpclient

import (
	"context"
	"io"
	"net/http"
)

// DoGET fetches a JSON resource and returns its ETag, if any.
func (c *httpClientWrapper) DoGET(ctx context.Context, urlStr string, out any) (string, error) {
	c.logger.Debug("starting GET request", "url", urlStr)

	resp, err := c.do(ctx, http.MethodGet, urlStr, nil, map[string]string{"Accept": "application/json"})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := decode(resp, out); err != nil {
		return "", err
	}
	return resp.Header.Get("ETag"), nil
}

// DoGETRaw fetches a resource as is, e.g. a calendar export.
func (c *httpClientWrapper) DoGETRaw(ctx context.Context, urlStr string) ([]byte, error) {
	c.logger.Debug("starting raw GET request", "url", urlStr)

	resp, err := c.do(ctx, http.MethodGet, urlStr, nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}
