// Package projectsapi reads the project catalogue from a remote backend.
package projectsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/samirrijal/geodash/internal/core/domain"
)

// ProjectsPath is the listing endpoint relative to the backend base URL.
const ProjectsPath = "/api/v1/projects"

// StatusError reports a non-2xx response.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.Status)
}

// Client implements ports.ProjectSource over HTTP.
type Client struct {
	url     string
	timeout time.Duration
	http    *fasthttp.Client
}

// NewClient returns a client for the backend at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		url:     strings.TrimRight(baseURL, "/") + ProjectsPath,
		timeout: timeout,
		http: &fasthttp.Client{
			Name:                "geodash-dashboard",
			MaxIdleConnDuration: 30 * time.Second,
		},
	}
}

// ListProjects fetches the full project list.
func (c *Client) ListProjects(ctx context.Context) ([]domain.Project, error) {
	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	// fasthttp has no context support; the request runs on its own
	// goroutine, which owns and releases req/resp.
	done := make(chan response, 1)
	go func() { done <- c.do(deadline) }()

	var r response
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r = <-done:
	}
	if r.err != nil {
		return nil, fmt.Errorf("fetch projects: %w", r.err)
	}
	if r.status < 200 || r.status > 299 {
		return nil, &StatusError{Status: r.status}
	}

	var projects []domain.Project
	if err := json.Unmarshal(r.body, &projects); err != nil {
		return nil, fmt.Errorf("decode projects: %w", err)
	}
	if projects == nil {
		projects = []domain.Project{}
	}
	return projects, nil
}

type response struct {
	status int
	body   []byte
	err    error
}

func (c *Client) do(deadline time.Time) response {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")

	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return response{err: err}
	}
	return response{
		status: resp.StatusCode(),
		body:   append([]byte(nil), resp.Body()...),
	}
}
