// Package eventapi is a client for the conference service's internal HTTP
// endpoints. Most of them speak JSON; a few only exist as HTML pages or HTML
// fragments that have to be scraped.
package eventapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/eventops/confctl/internal/logging"
)

// ErrTokenExpired means the service bounced the request to its login page.
// The stored token is no longer valid.
var ErrTokenExpired = errors.New("token has expired")

// RemoteError is a request that came back with an unexpected status.
type RemoteError struct {
	Method string
	URL    string
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s %s failed with %d: %s", e.Method, e.URL, e.Status, e.Body)
}

type Client struct {
	base  *url.URL
	token string
	http  *http.Client
	log   logging.Logger
}

func NewClient(baseURL, token string, log logging.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", baseURL, err)
	}

	return &Client{
		base:  u,
		token: token,
		log:   log,
		http: &http.Client{
			// Redirects carry meaning here (expired tokens bounce to the
			// login page, group edits answer with a 302), so never follow.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}, nil
}

type request struct {
	method     string
	path       string
	query      url.Values
	form       url.Values
	jsonBody   any
	multipart  func(w *multipart.Writer) error
	expect     int // defaults to 200
	ignoreCode bool
}

// pageURL resolves a service path against the configured base URL.
func (c *Client) pageURL(path string) string {
	u := *c.base
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	return u.String()
}

func (c *Client) do(ctx context.Context, r request) ([]byte, *http.Response, error) {
	u := *c.base
	u.Path = strings.TrimSuffix(u.Path, "/") + r.path
	if r.query != nil {
		u.RawQuery = r.query.Encode()
	}

	var body io.Reader
	var contentType string
	switch {
	case r.jsonBody != nil:
		b, err := json.Marshal(r.jsonBody)
		if err != nil {
			return nil, nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	case r.form != nil:
		body = strings.NewReader(r.form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case r.multipart != nil:
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		if err := r.multipart(mw); err != nil {
			return nil, nil, fmt.Errorf("build multipart body: %w", err)
		}
		if err := mw.Close(); err != nil {
			return nil, nil, fmt.Errorf("build multipart body: %w", err)
		}
		body = &buf
		contentType = mw.FormDataContentType()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), body)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	c.log.Debug(ctx, "request", "method", r.method, "url", u.String())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%s %s: %w", r.method, u.String(), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("%s %s: read response: %w", r.method, u.String(), err)
	}

	if loc := resp.Header.Get("Location"); strings.Contains(loc, "/login/") {
		return nil, nil, ErrTokenExpired
	}

	expect := r.expect
	if expect == 0 {
		expect = http.StatusOK
	}
	if !r.ignoreCode && resp.StatusCode != expect {
		return data, resp, &RemoteError{
			Method: r.method,
			URL:    u.String(),
			Status: resp.StatusCode,
			Body:   excerpt(data),
		}
	}

	return data, resp, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	data, _, err := c.do(ctx, request{method: http.MethodGet, path: path, query: query})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response from %s: %w", path, err)
	}
	return nil
}

func excerpt(body []byte) string {
	const max = 500
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
