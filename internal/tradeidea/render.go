package tradeidea

import (
	"fmt"
	"strings"
)

const (
	noCatalysts = "No recent news catalysts identified."
	noRisks     = "No material risks flagged by the screen."
)

// Markdown renders the idea with its sections in fixed order.
func (i Idea) Markdown() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", i.Title)

	sb.WriteString("## Investment Thesis\n\n")
	sb.WriteString(i.Thesis)
	sb.WriteString("\n\n")

	sb.WriteString("## Reasons to Buy\n\n")
	writeBullets(&sb, "- ", i.Reasons, "")

	sb.WriteString("## Key Metrics\n\n")
	sb.WriteString("| Metric | Value |\n|---|---|\n")
	for _, row := range i.Metrics {
		fmt.Fprintf(&sb, "| %s | %s |\n", row.Name, row.Value)
	}
	sb.WriteString("\n")

	sb.WriteString("## Catalysts\n\n")
	writeBullets(&sb, "- ", i.Catalysts, noCatalysts)

	sb.WriteString("## Risks\n\n")
	writeBullets(&sb, "- ", i.Risks, noRisks)

	if len(i.RelatedAssets) > 0 {
		sb.WriteString("## Related Assets\n\n")
		writeBullets(&sb, "- ", i.RelatedAssets, "")
	}

	sb.WriteString("## Conclusion\n\n")
	fmt.Fprintf(&sb, "**%s** · Horizon: %s\n\n", i.Recommendation, i.Horizon)
	sb.WriteString(i.Conclusion)
	sb.WriteString("\n")

	if !i.GeneratedAt.IsZero() {
		fmt.Fprintf(&sb, "\n_Generated %s_\n", i.GeneratedAt.Format("Jan 02, 2006 15:04 MST"))
	}
	return sb.String()
}

// PlainText renders the idea without markdown markup.
func (i Idea) PlainText() string {
	var sb strings.Builder

	sb.WriteString(i.Title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", len(i.Title)))
	sb.WriteString("\n\n")

	sb.WriteString("INVESTMENT THESIS\n")
	sb.WriteString(i.Thesis)
	sb.WriteString("\n\n")

	sb.WriteString("REASONS TO BUY\n")
	writeBullets(&sb, "* ", i.Reasons, "")

	sb.WriteString("KEY METRICS\n")
	width := 0
	for _, row := range i.Metrics {
		if len(row.Name) > width {
			width = len(row.Name)
		}
	}
	for _, row := range i.Metrics {
		fmt.Fprintf(&sb, "  %-*s  %s\n", width, row.Name, row.Value)
	}
	sb.WriteString("\n")

	sb.WriteString("CATALYSTS\n")
	writeBullets(&sb, "* ", i.Catalysts, noCatalysts)

	sb.WriteString("RISKS\n")
	writeBullets(&sb, "* ", i.Risks, noRisks)

	if len(i.RelatedAssets) > 0 {
		sb.WriteString("RELATED ASSETS\n")
		writeBullets(&sb, "* ", i.RelatedAssets, "")
	}

	sb.WriteString("CONCLUSION\n")
	sb.WriteString(i.Conclusion)
	sb.WriteString("\n")
	return sb.String()
}

func writeBullets(sb *strings.Builder, prefix string, items []string, empty string) {
	if len(items) == 0 && empty != "" {
		sb.WriteString(empty)
		sb.WriteString("\n\n")
		return
	}
	for _, item := range items {
		sb.WriteString(prefix)
		sb.WriteString(item)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}
