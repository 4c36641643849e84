package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/outputs"
)

// styleFunc is a single-string styling function.
type styleFunc func(string) string

// sf wraps a lipgloss.Style into a styleFunc.
func sf(s lipgloss.Style) styleFunc {
	return func(str string) string { return s.Render(str) }
}

func renderView(m Model) string {
	var b strings.Builder

	renderHeader(&b, m)
	renderProgressBar(&b, m)
	renderPhases(&b, m)

	if len(m.Resources) > 0 {
		renderResources(&b, m)
	}

	if m.RollingBack || m.RollbackDone {
		renderRollback(&b, m)
	}

	renderFooter(&b, m)

	return b.String()
}

func renderHeader(b *strings.Builder, m Model) {
	title := fmt.Sprintf("cloudtemplate: %s", m.StackName)
	if m.Region != "" {
		title += fmt.Sprintf(" (%s)", m.Region)
	}
	b.WriteString(titleStyle.Render(title))

	status := " "
	switch {
	case m.Done:
		status += readyStyle.Render("Ready")
	case m.Err != nil:
		status += failedStyle.Render(fmt.Sprintf("Error: %v", m.Err))
	case m.RollingBack:
		status += activeStyle.Render(currentSpinner(m.SpinnerFrame)+" ") + warningStyle.Render("Rolling back")
	default:
		status += activeStyle.Render(currentSpinner(m.SpinnerFrame)+" ") + dimStyle.Render("Applying...")
	}
	b.WriteString(status)
	b.WriteString("\n")
}

func renderProgressBar(b *strings.Builder, m Model) {
	progress := calculateProgress(m)
	barWidth := 40
	if m.Width > 0 && m.Width < 80 {
		barWidth = m.Width - 30
		if barWidth < 10 {
			barWidth = 10
		}
	}
	filled := int(float64(barWidth) * progress)
	if filled > barWidth {
		filled = barWidth
	}

	bar := progressBarFull.Render(strings.Repeat("█", filled)) +
		progressBarEmpty.Render(strings.Repeat("░", barWidth-filled))

	pct := int(progress * 100)
	eta := ""
	if m.EstimatedRemaining > 0 {
		eta = fmt.Sprintf(" ETA %s", formatDuration(m.EstimatedRemaining))
	}
	if m.PerformanceScale != 0 && m.PerformanceScale != 1.0 {
		eta += fmt.Sprintf("  speed x%.2f", m.PerformanceScale)
	}

	fmt.Fprintf(b, "  %s %d%%%s\n", bar, pct, eta)
}

func renderPhases(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Phases"))
	b.WriteString("\n")

	for _, phase := range m.Phases {
		icon, style := phaseIcon(phase, m.SpinnerFrame)
		dur := ""
		switch {
		case phase.Done || phase.Err != nil:
			dur = formatDuration(phase.Duration)
		case phase.Active:
			dur = formatDuration(time.Since(phase.StartedAt))
		}
		fmt.Fprintf(b, "    %s %-18s %s\n", style(icon), style(phase.Name), dimStyle.Render(dur))
		if phase.Err != nil {
			fmt.Fprintf(b, "        %s\n", failedStyle.Render(phase.Err.Error()))
		}
	}
}

func renderResources(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Resources"))
	b.WriteString("\n")

	for _, r := range m.Resources {
		style := readyStyle.Render
		switch r.Action {
		case "creating":
			style = activeStyle.Render
		case "exists":
			style = dimStyle.Render
		case "deleted":
			style = warningStyle.Render
		}
		id := r.ID
		if id == "" {
			id = r.Name
		}
		fmt.Fprintf(b, "    %-8s %-18s %s\n", style(r.Action), r.Type, dimStyle.Render(id))
	}
}

func renderRollback(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Rollback"))
	b.WriteString("\n")

	switch {
	case m.RollingBack:
		fmt.Fprintf(b, "    %s %s\n", activeStyle.Render(currentSpinner(m.SpinnerFrame)), m.RollbackDetail)
	case m.RollbackFailed:
		fmt.Fprintf(b, "    %s %s\n", failedStyle.Render(crossMark), failedStyle.Render(m.RollbackDetail))
	default:
		fmt.Fprintf(b, "    %s %s\n", readyStyle.Render(checkMark), m.RollbackDetail)
	}
}

func renderFooter(b *strings.Builder, m Model) {
	elapsed := formatDuration(time.Since(m.StartTime))
	parts := []string{fmt.Sprintf("elapsed: %s", elapsed)}
	if m.LastLog != "" {
		parts = append(parts, m.LastLog)
	}
	b.WriteString(footerStyle.Render(fmt.Sprintf("  %s  |  q: quit", strings.Join(parts, "  |  "))))
	b.WriteString("\n")
}

// RenderOutputs renders the outputs record of a finished apply.
func RenderOutputs(r *outputs.Record) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("cloudtemplate: %s", r.Stack)))
	b.WriteString(" " + readyStyle.Render("Ready"))
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("  Outputs"))
	b.WriteString("\n")

	rows := []struct{ name, value string }{
		{"security group", r.SecurityGroupID},
		{"instance", r.InstanceID},
		{"db instance", r.DBInstanceID},
		{"load balancer", r.LoadBalancerARN},
		{"dns name", r.LoadBalancerDNSName},
		{"target group", r.TargetGroupARN},
		{"listener", r.ListenerARN},
		{"autoscaling group", r.AutoScalingGroupName},
	}
	for _, row := range rows {
		if row.value == "" {
			continue
		}
		fmt.Fprintf(&b, "    %-18s %s\n", row.name, row.value)
	}
	b.WriteString(footerStyle.Render(fmt.Sprintf("  run %s", r.RunID)))
	b.WriteString("\n")
	return b.String()
}

// Helper functions

func phaseIcon(phase PhaseRow, frame int) (string, styleFunc) {
	switch {
	case phase.Err != nil:
		return crossMark, sf(failedStyle)
	case phase.Done:
		return checkMark, sf(readyStyle)
	case phase.Active:
		return currentSpinner(frame), sf(activeStyle)
	default:
		return pending, sf(dimStyle)
	}
}

func currentSpinner(frame int) string {
	if len(spinnerFrames) == 0 {
		return spinner
	}
	if frame < 0 {
		frame = -frame
	}
	return spinnerFrames[frame%len(spinnerFrames)]
}

func calculateProgress(m Model) float64 {
	if m.Done {
		return 1.0
	}
	if len(m.Phases) == 0 {
		return 0
	}
	done := 0
	for _, p := range m.Phases {
		if p.Done {
			done++
		}
	}
	return float64(done) / float64(len(m.Phases))
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
