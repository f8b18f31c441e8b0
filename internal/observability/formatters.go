// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/skill-monitor/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintCorpus outputs the size of the extracted corpus.
func (p *Printer) PrintCorpus(listings, skipped int, extracted []types.ExtractedListing) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Listings:  %d\n", listings))
	sb.WriteString(fmt.Sprintf("Skipped:   %d\n", skipped))

	categories := map[string]int{}
	order := []string{}
	for _, e := range extracted {
		if categories[e.Category] == 0 {
			order = append(order, e.Category)
		}
		categories[e.Category]++
	}
	if len(order) > 0 {
		sb.WriteString("\nCategories:\n")
		for _, c := range order {
			sb.WriteString(fmt.Sprintf("  • %s: %d\n", c, categories[c]))
		}
	}

	p.printBox("LISTING CORPUS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMatrix outputs the top rows of the competency matrix.
func (p *Printer) PrintMatrix(rows []types.CompetencyMatrixRow) {
	if len(rows) == 0 {
		p.printBox("COMPETENCY MATRIX", "No skills found in the corpus")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Skills in market: %d\n\n", len(rows)))

	count := min(len(rows), maxItemsToShow*2)
	for i := 0; i < count; i++ {
		r := rows[i]
		mark := " "
		if r.UserHas {
			mark = "✓"
		}
		sb.WriteString(fmt.Sprintf("%s %-22s %3d  %6.2f%%  %s\n",
			mark, truncate(r.Skill, 22), r.FrequencyMarket, r.PercentageMarket, r.Importance))
	}
	if len(rows) > count {
		sb.WriteString(fmt.Sprintf("... and %d more skills\n", len(rows)-count))
	}

	p.printBox("COMPETENCY MATRIX", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAnalysis outputs clusters and trend buckets.
func (p *Printer) PrintAnalysis(analysis *types.MarketAnalysis) {
	if analysis == nil {
		return
	}

	var sb strings.Builder
	if len(analysis.Clusters) > 0 {
		sb.WriteString("Role clusters:\n")
		for _, c := range analysis.Clusters {
			sb.WriteString(fmt.Sprintf("  • %s  strength %d, coverage %.0f%%\n", c.Name, c.Strength, c.Coverage*100))
		}
		sb.WriteString("\n")
	}

	buckets := []struct {
		label  string
		skills []types.TrendSkill
	}{
		{"Explosive", analysis.Trends.Explosive},
		{"Hot", analysis.Trends.Hot},
		{"Stable", analysis.Trends.Stable},
	}
	for _, b := range buckets {
		if len(b.skills) == 0 {
			continue
		}
		names := make([]string, 0, len(b.skills))
		for _, s := range b.skills {
			names = append(names, s.Skill)
		}
		sb.WriteString(fmt.Sprintf("%s: %s\n", b.label, strings.Join(names, ", ")))
	}

	if len(analysis.Seniority) > 0 {
		sb.WriteString("\nSeniority:\n")
		for _, s := range analysis.Seniority {
			sb.WriteString(fmt.Sprintf("  • %s: %d\n", s.ExperienceLevel, s.Listings))
		}
	}

	p.printBox("MARKET ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintGap outputs the coverage of a user's skills against market demand.
func (p *Printer) PrintGap(report *types.GapReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("User:      %s\n", report.UserID))
	sb.WriteString(fmt.Sprintf("Coverage:  %d / %d\n", report.CoverageCount, report.TotalDemanded))
	sb.WriteString(fmt.Sprintf("Gaps:      %d\n", report.GapCount))

	writeList(&sb, "Covered", report.SkillsCovered)
	writeList(&sb, "Missing", report.SkillsMissing)
	writeList(&sb, "Not in demand", report.SkillsUnused)

	p.printBox("SKILL GAP", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRecommendation outputs the learning plan.
func (p *Printer) PrintRecommendation(rec *types.Recommendation) {
	if rec == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("User:       %s\n", rec.UserID))
	sb.WriteString(fmt.Sprintf("Next step:  %s\n", rec.NextStep))

	writeList(&sb, "Critical", rec.SkillsCritical)
	writeList(&sb, "Reinforce", rec.SkillsToReinforce)

	if len(rec.MatchedResources) > 0 {
		sb.WriteString("\nResources:\n")
		count := min(len(rec.MatchedResources), maxItemsToShow)
		for i := 0; i < count; i++ {
			r := rec.MatchedResources[i]
			if r.IsFallback() {
				sb.WriteString(fmt.Sprintf("  %s\n", r.Message))
				continue
			}
			sb.WriteString(fmt.Sprintf("  • %s: %s (%s)\n", r.Skill, r.CourseName, r.Platform))
		}
		if len(rec.MatchedResources) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(rec.MatchedResources)-maxItemsToShow))
		}
	}

	for _, m := range rec.ObjectiveMatches {
		sb.WriteString(fmt.Sprintf("\nPath %s: %s\n", m.Path, strings.Join(m.SkillsRecommended, ", ")))
	}

	p.printBox("RECOMMENDATION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintProfile outputs a user profile and its latest recommendation.
func (p *Printer) PrintProfile(profile *types.UserProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("User:       %s\n", profile.UserID))
	sb.WriteString(fmt.Sprintf("Name:       %s\n", profile.Name))
	if profile.Career != "" {
		sb.WriteString(fmt.Sprintf("Career:     %s\n", profile.Career))
	}
	if profile.ExperienceLevel != "" {
		sb.WriteString(fmt.Sprintf("Level:      %s (%d years)\n", profile.ExperienceLevel, profile.ExperienceYears))
	}
	sb.WriteString(fmt.Sprintf("Generated:  %d recommendations\n", profile.RecommendationsGenerated))

	writeList(&sb, "Current skills", profile.SkillsCurrent)
	writeList(&sb, "Target skills", profile.SkillsTarget)
	writeList(&sb, "Objectives", profile.Objectives)

	if n := len(profile.RecommendationHistory); n > 0 {
		last := profile.RecommendationHistory[n-1]
		sb.WriteString(fmt.Sprintf("\nLast step:  %s\n", last.NextStep))
	}

	p.printBox("PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintScores outputs the per-skill scores of a profile.
func (p *Printer) PrintScores(scores []types.SkillScore) {
	if len(scores) == 0 {
		return
	}

	var sb strings.Builder
	for _, s := range scores {
		sb.WriteString(fmt.Sprintf("%-28s %3d  %s\n", truncate(s.Skill, 28), s.Score, s.Category))
	}

	p.printBox("SKILL SCORES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintInvariantViolation reports a market table value that had to be clamped.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintInvariantViolation(err error) {
	if err == nil {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ MARKET TABLE CONSISTENT")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}
	p.printBox("INVARIANT VIOLATION", "⚠ "+err.Error())
}

func writeList(sb *strings.Builder, label string, values []string) {
	if len(values) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("\n%s:\n", label))
	count := min(len(values), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", values[i]))
	}
	if len(values) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(values)-maxItemsToShow))
	}
}
