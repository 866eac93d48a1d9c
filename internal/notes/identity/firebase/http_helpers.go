package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/aussiebroadwan/notes/internal/notes/identity"
)

// apiError is Google's error envelope:
// {"error":{"code":400,"message":"INVALID_OOB_CODE","status":"INVALID_ARGUMENT"}}
type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// postJSON sends body as JSON and decodes a 200 response into out.
// Transport failures and 5xx responses become ProviderUnavailable; other
// statuses become failKind carrying Google's error message as Code.
func postJSON(ctx context.Context, c *http.Client, endpoint string, body, out any, op string, failKind identity.Kind) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return identity.Wrap(failKind, op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return identity.Wrap(failKind, op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	return do(c, req, out, op, failKind)
}

func getJSON(ctx context.Context, c *http.Client, endpoint string, out any, op string, failKind identity.Kind) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return identity.Wrap(failKind, op, err)
	}
	return do(c, req, out, op, failKind)
}

func do(c *http.Client, req *http.Request, out any, op string, failKind identity.Kind) error {
	resp, err := c.Do(req)
	if err != nil {
		return identity.Wrap(identity.KindProviderUnavailable, op, redact(err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return identity.Wrap(identity.KindProviderUnavailable, op, err)
	}

	if resp.StatusCode != http.StatusOK {
		kind := failKind
		if resp.StatusCode >= http.StatusInternalServerError {
			kind = identity.KindProviderUnavailable
		}
		var env apiError
		_ = json.Unmarshal(raw, &env)
		return &identity.Error{
			Kind: kind,
			Op:   op,
			Code: env.Error.Message,
			Err:  fmt.Errorf("status %d", resp.StatusCode),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return identity.Wrap(failKind, op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// redact strips the query string from transport errors; it carries the
// web API key.
func redact(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		if u, perr := url.Parse(uerr.URL); perr == nil {
			u.RawQuery = ""
			return &url.Error{Op: uerr.Op, URL: u.String(), Err: uerr.Err}
		}
	}
	return err
}

// withKey appends the web API key to a public endpoint.
func (p *Provider) withKey(base, path string) string {
	return base + path + "?key=" + url.QueryEscape(p.cfg.WebAPIKey)
}
