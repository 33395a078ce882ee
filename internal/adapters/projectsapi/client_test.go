package projectsapi

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/samirrijal/geodash/internal/core/domain"
)

// newTestClient serves handler over an in-memory listener.
func newTestClient(t *testing.T, handler fasthttp.RequestHandler) *Client {
	t.Helper()
	ln := fasthttputil.NewInmemoryListener()
	srv := &fasthttp.Server{Handler: handler}
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() { _ = ln.Close() })

	c := NewClient("http://backend.test/", 2*time.Second)
	c.http.Dial = func(addr string) (net.Conn, error) { return ln.Dial() }
	return c
}

func TestClient_ListProjects(t *testing.T) {
	c := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		if string(ctx.Path()) != "/api/v1/projects" {
			ctx.SetStatusCode(fasthttp.StatusNotFound)
			return
		}
		ctx.SetContentType("application/json")
		ctx.SetBodyString(`[{"id":1,"name":"Rustaveli Ave Road Repair","latitude":41.6979,"longitude":44.7973,
			"budget_allocated":500000,"budget_spent":450000,"start_date":"2023-01-15",
			"expected_completion_date":"2024-06-30","status":"On Track","funding_source":"Local"}]`)
	})

	projects, err := c.ListProjects(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("expected 1 project, got %d", len(projects))
	}
	p := projects[0]
	if p.Status != domain.StatusOnTrack || p.FundingSource != domain.FundingLocal {
		t.Errorf("unexpected enums: %q %q", p.Status, p.FundingSource)
	}
	if p.BudgetSpent != 450000 {
		t.Errorf("expected budget_spent 450000, got %v", p.BudgetSpent)
	}
}

func TestClient_ListProjects_Empty(t *testing.T) {
	c := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetBodyString(`[]`)
	})
	projects, err := c.ListProjects(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if projects == nil || len(projects) != 0 {
		t.Errorf("expected empty non-nil list, got %v", projects)
	}
}

func TestClient_ListProjects_StatusError(t *testing.T) {
	c := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusBadGateway)
	})

	_, err := c.ListProjects(context.Background())
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Status != 502 {
		t.Errorf("expected 502, got %d", se.Status)
	}
	if se.Error() != "HTTP error! status: 502" {
		t.Errorf("unexpected message %q", se.Error())
	}
}

func TestClient_ListProjects_BadJSON(t *testing.T) {
	c := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetBodyString(`{"message":"Hello from the Backend API!"}`)
	})
	if _, err := c.ListProjects(context.Background()); err == nil {
		t.Error("expected decode error")
	}
}

func TestClient_ListProjects_Canceled(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		<-release
		ctx.SetBodyString(`[]`)
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.ListProjects(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestClient_ListProjects_Unreachable(t *testing.T) {
	c := NewClient("http://backend.test", time.Second)
	c.http.Dial = func(addr string) (net.Conn, error) { return nil, errors.New("connection refused") }
	if _, err := c.ListProjects(context.Background()); err == nil {
		t.Error("expected transport error")
	}
}
