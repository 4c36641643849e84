package tui

import (
	"fmt"
	"strings"

	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/provisioning"
)

// RenderPlan renders the planned calls in order.
func RenderPlan(steps []provisioning.PlannedStep, stackName, region string) string {
	var b strings.Builder

	title := fmt.Sprintf("cloudtemplate plan: %s", stackName)
	if region != "" {
		title += fmt.Sprintf(" (%s)", region)
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	phase := ""
	for i, step := range steps {
		if step.Phase != phase {
			phase = step.Phase
			b.WriteString(sectionStyle.Render("  " + phase))
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "    %s %s\n", activeStyle.Render(fmt.Sprintf("%d.", i+1)), step.Action)
		for _, p := range step.Params {
			fmt.Fprintf(&b, "         %-16s %s\n", dimStyle.Render(p.Name), p.Value)
		}
	}

	b.WriteString(footerStyle.Render(fmt.Sprintf("  %d calls, nothing was changed", len(steps))))
	b.WriteString("\n")
	return b.String()
}
