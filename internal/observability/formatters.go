// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/creator-pitch/internal/ranking"
	"github.com/jonathan/creator-pitch/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintCreator outputs the enriched creator profile.
func (p *Printer) PrintCreator(c *types.CreatorProfile) {
	if c == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Handle:    @%s\n", c.Handle))
	if c.Fullname != "" {
		sb.WriteString(fmt.Sprintf("Name:      %s\n", c.Fullname))
	}
	sb.WriteString(fmt.Sprintf("Followers: %s\n", c.Followers))
	sb.WriteString(fmt.Sprintf("Niche:     %s\n", c.Niche))
	sb.WriteString(fmt.Sprintf("Avg Views: %s\n", c.AvgViews))
	if c.EngagementRate != nil {
		sb.WriteString(fmt.Sprintf("Engagement: %.2f%%\n", *c.EngagementRate*100))
	}
	if len(c.TopContentThemes) > 0 {
		sb.WriteString(fmt.Sprintf("Themes:    %s\n", strings.Join(c.TopContentThemes, ", ")))
	}

	p.printBox("CREATOR PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintBrands outputs brand matches with their fit score and the baseline
// deal value for a creator with the given follower count.
func (p *Printer) PrintBrands(brands []types.BrandMatch, followers string) {
	if len(brands) == 0 {
		p.printBox("BRAND MATCHES", "No brands matched.")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Matched %d brands:\n\n", len(brands)))

	count := min(len(brands), maxItemsToShow)
	for i := 0; i < count; i++ {
		b := brands[i]
		sb.WriteString(fmt.Sprintf("%3d  %s (%s)\n", b.FitScore, b.Name, b.Domain))
		if b.Industry != "" {
			sb.WriteString(fmt.Sprintf("     %s\n", b.Industry))
		}
		sb.WriteString(fmt.Sprintf("     Value: %s\n", ranking.EstimateValue(b.FitScore, followers)))
		if b.FitReason != "" {
			sb.WriteString(fmt.Sprintf("     %s\n", truncate(b.FitReason, 60)))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(brands) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more brands", len(brands)-maxItemsToShow))
	}

	p.printBox("BRAND MATCHES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintStrategy outputs the overall narrative and one block per brand.
func (p *Printer) PrintStrategy(s *types.StrategyResult) {
	if s == nil {
		return
	}

	p.printBox("PR STRATEGY", wrap(s.OverallStrategy, boxWidth-4))

	for _, bs := range s.BrandStrategies {
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("Angle:   %s\n", bs.PitchAngle))
		sb.WriteString(fmt.Sprintf("Subject: %s\n", bs.SubjectLine))
		sb.WriteString(fmt.Sprintf("Value:   %s\n", bs.EstimatedValue))
		if len(bs.ContentFormats) > 0 {
			sb.WriteString(fmt.Sprintf("Formats: %s\n", strings.Join(bs.ContentFormats, ", ")))
		}
		if len(bs.TalkingPoints) > 0 {
			sb.WriteString("Talking points:\n")
			for _, tp := range bs.TalkingPoints {
				sb.WriteString(fmt.Sprintf("  • %s\n", tp))
			}
		}
		if bs.PitchScript != "" {
			sb.WriteString("\n")
			sb.WriteString(wrap(bs.PitchScript, boxWidth-4))
		}
		p.printBox(strings.ToUpper(bs.BrandName), strings.TrimSuffix(sb.String(), "\n"))
	}
}

// PrintSummary outputs a creator summary.
func (p *Printer) PrintSummary(s *types.CreatorSummary) {
	if s == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(wrap(s.Summary, boxWidth-4))
	sb.WriteString("\n")
	if len(s.Strengths) > 0 {
		sb.WriteString("\nStrengths:\n")
		for _, st := range s.Strengths {
			sb.WriteString(fmt.Sprintf("  • %s\n", st))
		}
	}
	if s.AudienceInsight != "" {
		sb.WriteString("\nAudience:\n")
		sb.WriteString(wrap(s.AudienceInsight, boxWidth-4))
		sb.WriteString("\n")
	}
	if len(s.IdealBrandCategories) > 0 {
		sb.WriteString(fmt.Sprintf("\nIdeal categories: %s\n", strings.Join(s.IdealBrandCategories, ", ")))
	}

	p.printBox("CREATOR SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}

// wrap breaks text into lines of at most width runes on word boundaries.
func wrap(text string, width int) string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if len([]rune(line))+1+len([]rune(w)) > width {
				lines = append(lines, line)
				line = w
				continue
			}
			line += " " + w
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
