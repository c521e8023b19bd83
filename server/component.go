package server

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/userauth/component"
)

const componentName = "http-server"

var (
	_ component.Component     = (*Component)(nil)
	_ component.Describable   = (*Component)(nil)
	_ component.RouteProvider = (*Component)(nil)
)

// probePaths are the operational routes mounted by RegisterDefaultEndpoints.
var probePaths = map[string]bool{
	"/":            true,
	"/favicon.ico": true,
	"/health":      true,
	"/ready":       true,
	"/alive":       true,
	"/info":        true,
}

var methodRank = map[string]int{"GET": 0, "POST": 1, "PUT": 2, "PATCH": 3, "DELETE": 4}

// Component runs a Server under the application lifecycle.
type Component struct {
	server *Server
}

// NewComponent wraps s.
func NewComponent(s *Server) *Component {
	return &Component{server: s}
}

// Name returns the component name.
func (c *Component) Name() string { return componentName }

// Start binds the listener and serves in the background.
func (c *Component) Start(ctx context.Context) error { return c.server.Start(ctx) }

// Stop drains in-flight requests.
func (c *Component) Stop(ctx context.Context) error { return c.server.Stop(ctx) }

// Health is unhealthy until the listener is bound.
func (c *Component) Health(_ context.Context) component.Health {
	c.server.mu.Lock()
	bound := c.server.listener != nil
	c.server.mu.Unlock()

	if !bound {
		return component.Unhealthy(componentName, "not listening")
	}
	return component.Healthy(componentName, "listening on %s", c.server.Addr())
}

// Describe summarizes the listener, base path and login rate limit.
func (c *Component) Describe() component.Description {
	cfg := c.server.config
	limit := "off"
	if !cfg.RateLimit.Disabled {
		limit = fmt.Sprintf("%d/min", cfg.RateLimit.RequestsPerMinute)
	}
	return component.Description{
		Name:    "HTTP Server",
		Type:    "server",
		Details: fmt.Sprintf("%s base=%s auth-limit=%s", c.server.Addr(), cfg.BasePath, limit),
		Port:    cfg.Port,
	}
}

// Routes lists the registered routes for the startup summary: account API
// routes first by path, then the probes.
func (c *Component) Routes() []component.Route {
	info := c.server.engine.Routes()
	slices.SortFunc(info, func(a, b gin.RouteInfo) int {
		if pa, pb := probePaths[a.Path], probePaths[b.Path]; pa != pb {
			if pa {
				return 1
			}
			return -1
		}
		return cmp.Or(cmp.Compare(a.Path, b.Path), cmp.Compare(rank(a.Method), rank(b.Method)))
	})

	routes := make([]component.Route, 0, len(info))
	for _, r := range info {
		h := handlerName(r.Handler)
		if probePaths[r.Path] {
			h += " (system)"
		}
		routes = append(routes, component.Route{Method: r.Method, Path: r.Path, Handler: h})
	}
	return routes
}

func rank(method string) int {
	if r, ok := methodRank[method]; ok {
		return r
	}
	return len(methodRank)
}

// handlerName shortens Gin's handler symbol:
// "github.com/kbukum/userauth/user.(*Handler).Login-fm" becomes
// "Handler.Login" and the closure "endpoint.Health.func1" becomes "health".
func handlerName(symbol string) string {
	name := strings.TrimSuffix(symbol, "-fm")
	name = name[strings.LastIndex(name, "/")+1:]
	name = strings.NewReplacer("(*", "", ")", "").Replace(name)

	parts := strings.Split(name, ".")
	if strings.HasPrefix(parts[len(parts)-1], "func") {
		for i := len(parts) - 1; i >= 0; i-- {
			if !strings.HasPrefix(parts[i], "func") {
				return strings.ToLower(parts[i])
			}
		}
	}
	if len(parts) > 1 && strings.ToLower(parts[0]) == parts[0] {
		parts = parts[1:]
	}
	return strings.Join(parts, ".")
}
