package notesdk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

func (c *Client) url(path string) string {
	return c.BaseURL + path
}

// doRequest sends a request the way a browser on our own origin would.
func (c *Client) doRequest(
	ctx context.Context,
	method, path string,
	body io.Reader,
	headers map[string]string,
	cookies []*http.Cookie,
) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	site := c.FetchSite
	if site == "" {
		site = "same-origin"
	}
	req.Header.Set("Sec-Fetch-Site", site)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

func (c *Client) doForm(ctx context.Context, path string, form url.Values, cookies []*http.Cookie) (*http.Response, error) {
	return c.doRequest(ctx, http.MethodPost, path, strings.NewReader(form.Encode()), map[string]string{
		"Content-Type": "application/x-www-form-urlencoded",
		"Origin":       c.BaseURL,
	}, cookies)
}

func readBody(resp *http.Response, expectedStatus int) (string, error) {
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != expectedStatus {
		return "", &APIError{
			StatusCode: resp.StatusCode,
			Location:   resp.Header.Get("Location"),
			Body:       string(b),
		}
	}
	return string(b), nil
}

func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	body, err := readBody(resp, expectedStatus)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(body), target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
