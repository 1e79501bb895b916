// Package testkit drives an http.Handler in tests and decodes the JSON
// envelope it answers with.
//
//	api := testkit.New(t, handler).As(token)
//	res := api.Post("/api/cart", map[string]any{"productId": id, "quantity": 1})
//	res.AssertStatus(http.StatusOK)
//	var cart services.CartView
//	res.Data(&cart)
package testkit

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Client sends requests straight to a handler.
type Client struct {
	t       *testing.T
	handler http.Handler
	token   string
	headers http.Header
}

func New(t *testing.T, handler http.Handler) *Client {
	return &Client{t: t, handler: handler, headers: http.Header{}}
}

// As returns a copy of the client that sends token as a bearer token.
func (c *Client) As(token string) *Client {
	cp := *c
	cp.token = token
	cp.headers = c.headers.Clone()
	return &cp
}

// With returns a copy of the client that also sends the given header.
func (c *Client) With(key, value string) *Client {
	cp := *c
	cp.headers = c.headers.Clone()
	cp.headers.Set(key, value)
	return &cp
}

func (c *Client) Get(path string) *Response            { return c.Do(http.MethodGet, path, nil) }
func (c *Client) Post(path string, body any) *Response { return c.Do(http.MethodPost, path, body) }
func (c *Client) Put(path string, body any) *Response  { return c.Do(http.MethodPut, path, body) }
func (c *Client) Delete(path string) *Response         { return c.Do(http.MethodDelete, path, nil) }

// Do sends a request. A []byte body is sent as is; anything else non-nil
// is JSON-encoded.
func (c *Client) Do(method, path string, body any) *Response {
	c.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		reader = bytes.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(c.t, err, "testkit: encode %s %s body", method, path)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil && c.headers.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		req.Header[k] = v
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	return &Response{t: c.t, Code: rec.Code, Header: rec.Header(), Body: rec.Body.Bytes(), label: method + " " + path}
}

// Response is a recorded reply.
type Response struct {
	t      *testing.T
	label  string
	Code   int
	Header http.Header
	Body   []byte
}

type envelope struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func (r *Response) envelope() envelope {
	r.t.Helper()
	var env envelope
	require.NoError(r.t, json.Unmarshal(r.Body, &env), "[%s] response is not a JSON envelope\nbody: %s", r.label, r.Body)
	return env
}

// AssertStatus checks the HTTP status code and returns r.
func (r *Response) AssertStatus(code int) *Response {
	r.t.Helper()
	assert.Equal(r.t, code, r.Code, "[%s] status mismatch\nbody: %s", r.label, r.Body)
	return r
}

// Data decodes the envelope's data field into dest.
func (r *Response) Data(dest any) {
	r.t.Helper()
	env := r.envelope()
	require.NoError(r.t, json.Unmarshal(env.Data, dest), "[%s] decode data\nbody: %s", r.label, r.Body)
}

func (r *Response) Message() string {
	r.t.Helper()
	return r.envelope().Message
}

// Errors returns the field errors of a validation failure.
func (r *Response) Errors() map[string]string {
	r.t.Helper()
	return r.envelope().Errors
}
