// Package clients holds the HTTP JSON clients for the upstream
// message, story and user services. Every upstream payload travels in
// a {"message","data"} envelope. Failures surface as UpstreamError;
// nothing here retries or synthesizes partial results.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrUpstream tags every collaborator failure for errors.Is checks.
var ErrUpstream = errors.New("upstream failure")

// UpstreamError describes a failed call to an upstream service.
type UpstreamError struct {
	Service string
	Status  int
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s upstream: status %d", e.Service, e.Status)
	}
	return fmt.Sprintf("%s upstream: %v", e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() error { return ErrUpstream }

// envelope is the response wrapper shared by all upstream services.
type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

const defaultRequestTimeout = 15 * time.Second

// httpAPI is the shared plumbing under the typed clients.
type httpAPI struct {
	service string
	baseURL string
	client  *http.Client
}

func newHTTPAPI(service, baseURL string, client *http.Client) httpAPI {
	if client == nil {
		client = &http.Client{Timeout: defaultRequestTimeout}
	}
	return httpAPI{service: service, baseURL: baseURL, client: client}
}

func (a httpAPI) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+path, nil)
	if err != nil {
		return &UpstreamError{Service: a.service, Err: err}
	}
	return a.do(req, out)
}

func (a httpAPI) postJSON(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &UpstreamError{Service: a.service, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return &UpstreamError{Service: a.service, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	return a.do(req, out)
}

func (a httpAPI) do(req *http.Request, out any) error {
	resp, err := a.client.Do(req)
	if err != nil {
		return &UpstreamError{Service: a.service, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		io.Copy(io.Discard, resp.Body)
		return &UpstreamError{Service: a.service, Status: resp.StatusCode}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &UpstreamError{Service: a.service, Err: fmt.Errorf("decode envelope: %w", err)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &UpstreamError{Service: a.service, Err: fmt.Errorf("decode payload: %w", err)}
	}
	return nil
}
