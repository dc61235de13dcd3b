package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Hannlytics/rams-generator/internal/domain"
	"github.com/Hannlytics/rams-generator/internal/domain/rules"
	"github.com/charmbracelet/lipgloss"
)

// ── Warm site palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	info    = lipgloss.Color("#8B949E") // soft blue-gray
	lime    = lipgloss.Color("#A3E635")
	orange  = lipgloss.Color("#FB923C")
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	gradeColors = map[string]lipgloss.Color{
		"A+": success,
		"A":  success,
		"B":  lime,
		"C":  warning,
		"D":  orange,
		"F":  danger,
	}

	bandLabels = map[domain.ComplianceBand]string{
		domain.BandCompliant:    "Compliant",
		domain.BandReviewNeeded: "Review needed",
		domain.BandNonCompliant: "Non-compliant",
	}

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	critTagStyle  = lipgloss.NewStyle().Foreground(danger).Bold(true).Underline(true)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	infoTagStyle  = lipgloss.NewStyle().Foreground(info)
	fieldStyle    = lipgloss.NewStyle().Foreground(dim)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	hintStyle     = lipgloss.NewStyle().Foreground(dim).Italic(true)
	sectionStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderReport formats a validation report for the terminal.
func RenderReport(report *domain.ValidationReport) string {
	var b strings.Builder

	// ── Header ──
	title := headerStyle.Render("RAMS compliance")
	subtitle := dimStyle.Render(subtitleFor(report.Metadata))
	color := gradeColor(report.Grade)
	scoreStyled := lipgloss.NewStyle().Bold(true).Foreground(color).
		Render(fmt.Sprintf("%d / 100", report.ComplianceScore))
	gradeStyled := lipgloss.NewStyle().Bold(true).Foreground(color).Render(report.Grade)
	band := dimStyle.Render(bandLabel(report.Band))

	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + scoreStyled + "  " + gradeStyled + "\n" + band))
	b.WriteString("\n\n")

	b.WriteString("  " + coloredBar(report.ComplianceScore, 40) + "\n\n")
	b.WriteString("  " + titleStyle.Render(report.Summary) + "\n")
	b.WriteString("  " + separatorLine + "\n\n")

	// ── Findings ──
	if len(report.Suggestions) == 0 {
		b.WriteString("  " + passStyle.Render("No issues found.") + "\n")
	} else {
		fmt.Fprintf(&b, "  %s  %s  %s\n\n",
			titleStyle.Render("Findings"),
			errorTagStyle.Render(fmt.Sprintf("%d errors", report.ErrorCount)),
			warnTagStyle.Render(fmt.Sprintf("%d warnings", report.WarningCount)))
		for _, s := range sortBySeverity(report.Suggestions) {
			renderSuggestion(&b, s)
		}
	}

	// ── Recommendations ──
	if len(report.Recommendations) > 0 {
		b.WriteString("\n  " + sectionStyle.Render("Recommendations") + "\n")
		for _, r := range report.Recommendations {
			b.WriteString("    " + warnStyle.Render("›") + " " + r + "\n")
		}
	}

	// ── AI ──
	b.WriteString("\n")
	renderAI(&b, report.AI)

	b.WriteString("\n  " + hintStyle.Render("Have a competent person review this RAMS before work commences.") + "\n")
	return b.String()
}

func subtitleFor(m domain.ReportMetadata) string {
	if m.Step != 0 {
		return fmt.Sprintf("Step %d · %d regulations", m.Step, len(m.RegulationsChecked))
	}
	return fmt.Sprintf("Full form · %d regulations", len(m.RegulationsChecked))
}

func renderSuggestion(b *strings.Builder, s domain.Suggestion) {
	ref := s.ID
	if ref == "" {
		ref = string(s.Source)
	}
	fmt.Fprintf(b, "    %s %s %s\n", severityTag(s.Severity), fieldStyle.Render(s.Field), faintStyle.Render(ref))
	fmt.Fprintf(b, "          %s\n", s.Message)
	if s.Suggestion != "" {
		fmt.Fprintf(b, "          %s\n", dimStyle.Render(s.Suggestion))
	}
	if s.HasFix() {
		fmt.Fprintf(b, "          %s\n", passStyle.Render("auto-fix available"))
	}
}

func renderAI(b *strings.Builder, ai domain.AugmentResult) {
	label := "AI " + string(ai.Status)
	switch ai.Status {
	case domain.AugmentOK:
		label = passStyle.Render(label)
		if ai.LatencyMS > 0 {
			label += "  " + faintStyle.Render(fmt.Sprintf("%dms", ai.LatencyMS))
		}
	case domain.AugmentDegraded:
		label = warnStyle.Render(label)
	default:
		label = dimStyle.Render(label)
	}
	b.WriteString("  " + label)
	if ai.Reason != "" {
		b.WriteString("  " + dimStyle.Render(ai.Reason))
	}
	b.WriteString("\n")
	for _, n := range ai.Notices {
		b.WriteString("    " + dimStyle.Render("· "+n) + "\n")
	}
}

// RenderFixPlan formats an auto-fix pass.
func RenderFixPlan(plan *domain.FixPlan, dryRun bool) string {
	var b strings.Builder

	heading := "Auto-fix"
	if dryRun {
		heading += " (dry run)"
	}
	before := lipgloss.NewStyle().Foreground(scoreColor(plan.ScoreBefore)).Render(fmt.Sprintf("%d", plan.ScoreBefore))
	after := lipgloss.NewStyle().Bold(true).Foreground(scoreColor(plan.ScoreAfter)).Render(fmt.Sprintf("%d", plan.ScoreAfter))
	fmt.Fprintf(&b, "\n  %s  %s → %s\n\n", titleStyle.Render(heading), before, after)

	if len(plan.Applied) > 0 {
		verb := "Applied"
		if dryRun {
			verb = "Would apply"
		}
		fmt.Fprintf(&b, "  %s %s\n", sectionStyle.Render(verb), dimStyle.Render(fmt.Sprintf("(%d)", len(plan.Applied))))
		for _, a := range plan.Applied {
			fmt.Fprintf(&b, "    %s %s  %s\n", passStyle.Render("●"), fieldStyle.Render(a.Field), a.Description)
		}
	}
	if len(plan.Instructions) > 0 {
		b.WriteString("\n")
		fmt.Fprintf(&b, "  %s %s\n", sectionStyle.Render("Needs attention"), dimStyle.Render(fmt.Sprintf("(%d)", len(plan.Instructions))))
		for _, in := range plan.Instructions {
			fmt.Fprintf(&b, "    %s %s  %s\n", severityTag(in.Priority), fieldStyle.Render(in.Field), in.Message)
		}
	}
	if len(plan.Applied) == 0 && len(plan.Instructions) == 0 {
		b.WriteString("  " + passStyle.Render("Nothing to fix.") + "\n")
	}
	return b.String()
}

// RenderRules lists the rule table grouped by regulation.
func RenderRules(infos []rules.Info) string {
	var b strings.Builder
	var current domain.Regulation
	for _, r := range infos {
		if r.Regulation != current {
			current = r.Regulation
			fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render(current.Title()))
		}
		fix := ""
		if r.AutoFix {
			fix = passStyle.Render(" fix")
		}
		fmt.Fprintf(&b, "    %s %s %s%s\n", padRight(r.ID, 8), severityTag(r.Severity), fieldStyle.Render(padRight(r.Field, 22)), fix)
		fmt.Fprintf(&b, "             %s\n", dimStyle.Render(r.Message))
	}
	return b.String()
}

// RenderHistory shows recorded scores for one form, oldest first, with the
// change since the previous run.
func RenderHistory(form string, entries []domain.ScoreEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s  %s\n\n", titleStyle.Render("Score history"), dimStyle.Render(form))

	if len(entries) == 0 {
		b.WriteString("  " + dimStyle.Render("No recorded runs. Use rams validate --record.") + "\n")
		return b.String()
	}

	for i, e := range entries {
		delta := ""
		if i > 0 {
			switch d := e.Score - entries[i-1].Score; {
			case d > 0:
				delta = passStyle.Render(fmt.Sprintf("+%d", d))
			case d < 0:
				delta = errorTagStyle.Render(fmt.Sprintf("%d", d))
			}
		}
		commit := ""
		if e.CommitHash != "" {
			commit = faintStyle.Render(e.CommitHash)
		}
		grade := lipgloss.NewStyle().Bold(true).Foreground(gradeColor(e.Grade)).Render(padRight(e.Grade, 2))
		fmt.Fprintf(&b, "  %s  %s %3d %s  %s %s\n",
			dimStyle.Render(e.Timestamp.Local().Format("2006-01-02 15:04")),
			coloredBar(e.Score, 20), e.Score, grade, padRight(delta, 4), commit)
	}
	return b.String()
}

func severityTag(s domain.Severity) string {
	switch s {
	case domain.SeverityCritical:
		return critTagStyle.Render("crit")
	case domain.SeverityHigh:
		return errorTagStyle.Render("high")
	case domain.SeverityMedium:
		return warnTagStyle.Render("med ")
	default:
		return infoTagStyle.Render("low ")
	}
}

// sortBySeverity returns a copy ordered most serious first; ties keep
// their evaluation order.
func sortBySeverity(in []domain.Suggestion) []domain.Suggestion {
	out := slices.Clone(in)
	slices.SortStableFunc(out, func(a, b domain.Suggestion) int {
		return b.Severity.Rank() - a.Severity.Rank()
	})
	return out
}

func coloredBar(score, width int) string {
	filled := max(0, min(score*width/100, width))
	empty := width - filled

	color := scoreColor(score)
	filledStr := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	emptyStr := lipgloss.NewStyle().Foreground(faint).Render(strings.Repeat("░", empty))
	return filledStr + emptyStr
}

func scoreColor(score int) lipgloss.Color {
	switch {
	case score >= 80:
		return success
	case score >= 60:
		return lime
	case score >= 40:
		return warning
	default:
		return danger
	}
}

func bandLabel(b domain.ComplianceBand) string {
	if l, ok := bandLabels[b]; ok {
		return l
	}
	return string(b)
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func gradeColor(grade string) lipgloss.Color {
	if c, ok := gradeColors[grade]; ok {
		return c
	}
	return fg
}
