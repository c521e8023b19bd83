package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/kbukum/userauth/component"
)

// Summary prints the startup banner: infrastructure, routes and health.
type Summary struct {
	service string
	version string
	out     io.Writer
}

// NewSummary creates a summary that writes to out (stdout when nil).
func NewSummary(service, version string, out io.Writer) *Summary {
	if out == nil {
		out = os.Stdout
	}
	return &Summary{service: service, version: version, out: out}
}

// Display prints the banner for the components in registry.
func (s *Summary) Display(ctx context.Context, registry *component.Registry, took time.Duration) {
	fmt.Fprintf(s.out, "\n%s v%s started in %s\n", s.service, s.version, took.Round(time.Millisecond))
	if registry == nil {
		fmt.Fprintln(s.out)
		return
	}

	tw := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	var routes []component.Route

	section(tw, "Infrastructure")
	for _, c := range registry.All() {
		d := component.Description{Name: c.Name()}
		if dd, ok := c.(component.Describable); ok {
			d = dd.Describe()
			if d.Name == "" {
				d.Name = c.Name()
			}
		}
		port := ""
		if d.Port > 0 {
			port = fmt.Sprintf(":%d", d.Port)
		}
		fmt.Fprintf(tw, "  %s\t[%s]\t%s\t%s\n", d.Name, d.Type, d.Details, port)

		if rp, ok := c.(component.RouteProvider); ok {
			routes = append(routes, rp.Routes()...)
		}
	}

	if len(routes) > 0 {
		section(tw, fmt.Sprintf("Routes (%d)", len(routes)))
		for _, r := range routes {
			fmt.Fprintf(tw, "  %s\t%s\t-> %s\n", r.Method, r.Path, r.Handler)
		}
	}

	section(tw, "Health")
	for _, h := range registry.HealthAll(ctx) {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", h.Name, strings.ToLower(string(h.Status)), h.Message)
	}
	_ = tw.Flush()
	fmt.Fprintln(s.out)
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n", title)
}
