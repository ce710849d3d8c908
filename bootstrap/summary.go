package bootstrap

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/esteticaio/api/component"
)

// Setting is a key/value line shown in the startup summary.
type Setting struct {
	Key   string
	Value string
}

// Summary tracks and displays the application bootstrap process.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	settings        []Setting
	out             io.Writer
}

// NewSummary creates a summary that writes to out. A nil out discards it.
func NewSummary(serviceName, version string, out io.Writer) *Summary {
	return &Summary{serviceName: serviceName, version: version, out: out}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// TrackSetting records a configuration line. Callers mask secrets first.
func (s *Summary) TrackSetting(key, value string) {
	s.settings = append(s.settings, Setting{Key: key, Value: value})
}

// Display prints the summary with infrastructure, routes and live health
// collected from the registry.
func (s *Summary) Display(ctx context.Context, registry *component.Registry) {
	if s.out == nil {
		return
	}
	var b strings.Builder
	s.render(ctx, &b, registry)
	_, _ = io.WriteString(s.out, b.String())
}

func (s *Summary) render(ctx context.Context, b *strings.Builder, registry *component.Registry) {
	fmt.Fprintf(b, "\n🚀 %s v%s started in %.2fs\n", s.serviceName, s.version, s.startupDuration.Seconds())

	if len(s.settings) > 0 {
		fmt.Fprintf(b, "\n⚙️  Settings\n")
		for i, st := range s.settings {
			fmt.Fprintf(b, "   %s %s: %s\n", treePrefix(i, len(s.settings)), st.Key, st.Value)
		}
	}

	if registry == nil {
		b.WriteString("\n")
		return
	}

	var infra []component.Description
	var routes []component.Route
	for _, c := range registry.All() {
		if d, ok := c.(component.Describable); ok {
			desc := d.Describe()
			if desc.Name == "" {
				desc.Name = c.Name()
			}
			infra = append(infra, desc)
		}
		if rp, ok := c.(component.RouteProvider); ok {
			routes = append(routes, rp.Routes()...)
		}
	}

	if len(infra) > 0 {
		fmt.Fprintf(b, "\n📊 Infrastructure\n")
		for i, d := range infra {
			details := d.Details
			if d.Port > 0 && !strings.HasSuffix(details, fmt.Sprintf(":%d", d.Port)) {
				details = fmt.Sprintf("%s (:%d)", details, d.Port)
			}
			fmt.Fprintf(b, "   %s %s [%s]: %s\n", treePrefix(i, len(infra)), d.Name, d.Type, details)
		}
	}

	if len(routes) > 0 {
		fmt.Fprintf(b, "\n🌐 Routes (%d)\n", len(routes))
		for i, r := range routes {
			fmt.Fprintf(b, "   %s %-7s %s → %s\n", treePrefix(i, len(routes)), r.Method, r.Path, r.Handler)
		}
	}

	health := registry.HealthAll(ctx)
	if len(health) > 0 {
		fmt.Fprintf(b, "\n🏥 Health Check\n")
		for i, h := range health {
			msg := ""
			if h.Message != "" {
				msg = " (" + h.Message + ")"
			}
			fmt.Fprintf(b, "   %s %s %s: %s%s\n", treePrefix(i, len(health)), healthStatusIcon(h.Status), h.Name, h.Status, msg)
		}
	}
	b.WriteString("\n")
}

func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func healthStatusIcon(status component.HealthStatus) string {
	switch status {
	case component.StatusHealthy:
		return "✅"
	case component.StatusDegraded:
		return "⚠️"
	case component.StatusUnhealthy:
		return "❌"
	default:
		return "❓"
	}
}
