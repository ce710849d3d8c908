package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/esteticaio/api/component"
	apperrors "github.com/esteticaio/api/errors"
	"github.com/esteticaio/api/logger"
	"github.com/esteticaio/api/server/middleware"
)

func newTestServer(checker func(ctx context.Context) []component.Health) *Server {
	return newTestServerOn(8000, checker)
}

func newTestServerOn(port int, checker func(ctx context.Context) []component.Health) *Server {
	s := New(Config{Host: "127.0.0.1", Port: port}, logger.Nop())
	s.ApplyDefaults("test-service", checker)
	return s
}

func serve(s *Server, method, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(method, path, nil))
	return rr
}

func TestDefaultEndpoints(t *testing.T) {
	s := newTestServer(nil)

	for _, path := range []string{"/health", "/alive", "/ready", "/info"} {
		rr := serve(s, http.MethodGet, path)
		if rr.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rr.Code)
		}
		if rr.Header().Get(middleware.HeaderRequestID) == "" {
			t.Errorf("GET %s: missing request id header", path)
		}
	}
}

func TestHealth_Unhealthy(t *testing.T) {
	s := newTestServer(func(context.Context) []component.Health {
		return []component.Health{{Name: "database", Status: component.StatusUnhealthy}}
	})
	if rr := serve(s, http.MethodGet, "/health"); rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rr.Code)
	}
}

func TestNoRouteAndNoMethod(t *testing.T) {
	s := newTestServer(nil)
	s.GinEngine().GET("/things", func(c *gin.Context) { RespondOK(c, gin.H{}) })

	tests := []struct {
		method, path string
		status       int
		code         apperrors.ErrorCode
	}{
		{http.MethodGet, "/missing", http.StatusNotFound, apperrors.ErrCodeNotFound},
		{http.MethodPut, "/things", http.StatusMethodNotAllowed, ""},
	}
	for _, tt := range tests {
		rr := serve(s, tt.method, tt.path)
		if rr.Code != tt.status {
			t.Errorf("%s %s = %d, want %d", tt.method, tt.path, rr.Code, tt.status)
			continue
		}
		var resp apperrors.ErrorResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s %s: body is not an error envelope: %v", tt.method, tt.path, err)
		}
		if tt.code != "" && resp.Error.Code != tt.code {
			t.Errorf("code = %s, want %s", resp.Error.Code, tt.code)
		}
	}
}

func TestRespondList(t *testing.T) {
	s := newTestServer(nil)
	s.GinEngine().GET("/items", func(c *gin.Context) { RespondList(c, []string{"a", "b"}) })

	rr := serve(s, http.MethodGet, "/items")
	var resp DataResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Meta == nil || resp.Meta.Total != 2 {
		t.Errorf("meta = %+v", resp.Meta)
	}
}

// freePort asks the kernel for an unused port.
func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func TestStartStop(t *testing.T) {
	s := newTestServerOn(freePort(t), nil)
	sc := NewComponent(s)

	if h := sc.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("health before start = %s", h.Status)
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Errorf("Stop() before Start() = %v", err)
	}

	if err := sc.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	defer sc.Stop(context.Background())

	if h := sc.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Errorf("health after start = %s", h.Status)
	}

	resp, err := http.Get("http://" + s.Addr() + "/alive")
	if err != nil {
		t.Fatalf("GET /alive failed: %v", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	if err := sc.Stop(context.Background()); err != nil {
		t.Errorf("Stop() failed: %v", err)
	}
}

func TestRoutes_APIFirst(t *testing.T) {
	s := newTestServer(nil)
	s.GinEngine().DELETE("/users/:id", func(c *gin.Context) {})
	s.GinEngine().GET("/users/:id", func(c *gin.Context) {})

	routes := NewComponent(s).Routes()
	if len(routes) < 2 {
		t.Fatalf("routes = %v", routes)
	}
	if routes[0].Path != "/users/:id" || routes[0].Method != http.MethodGet {
		t.Errorf("first route = %+v", routes[0])
	}
	if routes[1].Method != http.MethodDelete {
		t.Errorf("second route = %+v", routes[1])
	}
	if last := routes[len(routes)-1]; !systemPaths[last.Path] {
		t.Errorf("last route %s should be a system path", last.Path)
	}
}

func TestFormatHandlerName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"github.com/esteticaio/api/api.(*Handler).Token-fm", "Handler.Token"},
		{"github.com/esteticaio/api/server/endpoint.Health.func1", "health"},
		{"github.com/esteticaio/api/server/endpoint.Liveness.func1", "liveness"},
	}
	for _, tt := range tests {
		if got := formatHandlerName(tt.in); got != tt.want {
			t.Errorf("formatHandlerName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.Addr() != "0.0.0.0:8000" {
		t.Errorf("Addr() = %s", cfg.Addr())
	}

	cfg.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("expected port validation error")
	}
}

func TestComponent_SetupRunsBeforeStart(t *testing.T) {
	s := newTestServerOn(freePort(t), nil)
	var setupSawStarted bool
	sc := NewComponent(s).OnSetup(func(_ context.Context, srv *Server) error {
		setupSawStarted = srv.started()
		srv.GinEngine().GET("/late", func(c *gin.Context) { RespondOK(c, gin.H{}) })
		return nil
	})
	if err := sc.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	defer sc.Stop(context.Background())

	if setupSawStarted {
		t.Error("setup should run before the listener is bound")
	}
	if rr := serve(s, http.MethodGet, "/late"); rr.Code != http.StatusOK {
		t.Errorf("GET /late = %d", rr.Code)
	}
}

func TestComponent_SetupErrorAborts(t *testing.T) {
	s := newTestServer(nil)
	sc := NewComponent(s).OnSetup(func(context.Context, *Server) error {
		return errors.New("no database")
	})
	if err := sc.Start(context.Background()); err == nil {
		t.Fatal("expected setup error")
	}
	if s.started() {
		t.Error("server must not listen after a failed setup")
	}
}
