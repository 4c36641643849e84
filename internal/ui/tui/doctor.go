package tui

import (
	"fmt"
	"strings"

	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/orchestration"
)

// RenderDoctor renders doctor results once using lipgloss.
func RenderDoctor(results []orchestration.CheckResult, stackName, region string) string {
	var b strings.Builder

	title := fmt.Sprintf("cloudtemplate doctor: %s", stackName)
	if region != "" {
		title += fmt.Sprintf(" (%s)", region)
	}
	b.WriteString(titleStyle.Render(title))
	if orchestration.Healthy(results) {
		b.WriteString(" " + readyStyle.Render("Ready"))
	} else {
		b.WriteString(" " + failedStyle.Render("Not ready"))
	}
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("  Checks"))
	b.WriteString("\n")
	for _, r := range results {
		icon, style := checkIcon(r.Status)
		fmt.Fprintf(&b, "    %s %-22s %s\n", style(icon), style(r.Name), dimStyle.Render(r.Detail))
	}
	return b.String()
}

func checkIcon(status orchestration.CheckStatus) (string, styleFunc) {
	switch status {
	case orchestration.CheckOK:
		return checkMark, sf(readyStyle)
	case orchestration.CheckWarn:
		return warnMark, sf(warningStyle)
	default:
		return crossMark, sf(failedStyle)
	}
}
