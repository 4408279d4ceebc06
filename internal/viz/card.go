package viz

import (
	"errors"
	"fmt"
	"strings"

	"github.com/san-kum/thermocycle/internal/cycle"
	"github.com/san-kum/thermocycle/internal/metrics"
)

// ResultCard renders the integrals and engine figures of one run.
func ResultCard(title string, r cycle.Result, perf metrics.Performance) string {
	var b strings.Builder
	b.WriteString(Title.Render(title) + "\n")

	for _, m := range metrics.Report(r, perf) {
		b.WriteString(fmt.Sprintf("%s %s\n",
			MetricLabel.Render(fmt.Sprintf("%-17s", m.Name())),
			MetricValue.Render(formatMetric(m))))
	}
	b.WriteString(fmt.Sprintf("%s %s\n",
		MetricLabel.Render(fmt.Sprintf("%-17s", "theoretical")),
		MetricValue.Render(r.Theoretical.String())))
	b.WriteString(MetricLabel.Render(fmt.Sprintf("at %.0f rpm", perf.RPM)))

	return Panel.Render(b.String())
}

func formatMetric(m metrics.Metric) string {
	switch m.Unit() {
	case "":
		if m.Name() == "efficiency" {
			return fmt.Sprintf("%.2f%%", m.Value()*100)
		}
		return fmt.Sprintf("%.2e", m.Value())
	default:
		return formatSI(m.Value()) + " " + m.Unit()
	}
}

// ErrorCard names the failure class and the leg where it happened.
func ErrorCard(err error) string {
	class := "error"
	switch {
	case errors.Is(err, cycle.ErrInvalidConfiguration):
		class = "invalid configuration"
	case errors.Is(err, cycle.ErrPhysicalInfeasibility):
		class = "physically infeasible"
	case errors.Is(err, cycle.ErrConvergence):
		class = "no convergence"
	}

	body := ErrorStyle.Render(class) + "\n"
	var legErr *cycle.LegError
	if errors.As(err, &legErr) {
		body += MetricLabel.Render("leg ") + MetricValue.Render(legErr.Leg) + "\n"
	}
	body += Subtle.Render(err.Error())
	return Panel.Render(body)
}
