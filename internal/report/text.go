package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"slocguard/internal/model"
)

// TextFormatter 面向终端输出，默认只列出警告与失败。
type TextFormatter struct {
	Color bool
	// Verbose 为 true 时连通过的文件也逐行列出。
	Verbose bool
	// Quiet 为 true 时只输出失败项与汇总。
	Quiet bool
}

var (
	styleFail  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	styleWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	stylePass  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleFaint = lipgloss.NewStyle().Faint(true)
)

// Write 渲染文本报告。
func (f *TextFormatter) Write(writer io.Writer, report *model.Report) error {
	for _, finding := range report.Findings {
		if !f.shouldShow(finding) {
			continue
		}
		if _, err := fmt.Fprintln(writer, f.renderFinding(finding)); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(writer, f.renderSummary(report.Summary)); err != nil {
		return err
	}
	return nil
}

// shouldShow 决定一条结论是否出现在文本输出中。
func (f *TextFormatter) shouldShow(finding model.Finding) bool {
	switch finding.Severity {
	case model.SeverityFail:
		return true
	case model.SeverityWarn:
		return !f.Quiet
	}
	return f.Verbose && !f.Quiet
}

// renderFinding 渲染单条结论。
func (f *TextFormatter) renderFinding(finding model.Finding) string {
	var builder strings.Builder

	builder.WriteString(f.badge(finding.Severity))
	builder.WriteString(" ")
	builder.WriteString(finding.Path)
	builder.WriteString("  ")
	builder.WriteString(describeFinding(finding))

	if finding.Category == model.CategoryGrandfathered {
		builder.WriteString(f.faint("  [grandfathered]"))
	}
	if finding.Category == model.CategoryWorsened {
		builder.WriteString(f.faint("  [worsened from baseline]"))
	}
	if finding.Reason != "" {
		builder.WriteString("\n")
		builder.WriteString(f.faint("      reason: " + finding.Reason))
	}
	for _, suggestion := range finding.Suggestions {
		builder.WriteString("\n")
		builder.WriteString(f.faint("      hint: " + suggestion))
	}
	return builder.String()
}

// renderSummary 渲染汇总行。
func (f *TextFormatter) renderSummary(summary model.Summary) string {
	line := fmt.Sprintf("checked %d files: %d passed, %d failed, %d warnings",
		summary.TotalFiles, summary.Passed, summary.Failed, summary.Warnings)
	if summary.Grandfathered > 0 {
		line += fmt.Sprintf(" (%d grandfathered)", summary.Grandfathered)
	}
	if f.Color {
		if summary.Failed > 0 {
			return styleFail.Render(line)
		}
		if summary.Warnings > 0 {
			return styleWarn.Render(line)
		}
		return stylePass.Render(line)
	}
	return line
}

// badge 渲染严重级别标签。
func (f *TextFormatter) badge(severity model.Severity) string {
	switch severity {
	case model.SeverityFail:
		if f.Color {
			return styleFail.Render("FAIL")
		}
		return "FAIL"
	case model.SeverityWarn:
		if f.Color {
			return styleWarn.Render("WARN")
		}
		return "WARN"
	}
	if f.Color {
		return stylePass.Render("  OK")
	}
	return "  OK"
}

// faint 渲染弱化文本。
func (f *TextFormatter) faint(text string) string {
	if f.Color {
		return styleFaint.Render(text)
	}
	return text
}

// describeFinding 给出结论的人类可读描述，各格式共用。
func describeFinding(finding model.Finding) string {
	switch finding.Kind {
	case model.KindContent:
		return fmt.Sprintf("%d lines (limit %d)", finding.Actual, finding.Limit)
	case model.KindFileCount:
		return fmt.Sprintf("%d files in directory (limit %d)", finding.Actual, finding.Limit)
	case model.KindDirCount:
		return fmt.Sprintf("%d subdirectories (limit %d)", finding.Actual, finding.Limit)
	case model.KindMaxDepth:
		return fmt.Sprintf("depth %d (limit %d)", finding.Actual, finding.Limit)
	case model.KindDisallowedFile:
		return withDetail("file not in the allow list", finding.Detail)
	case model.KindDeniedFile:
		return withDetail("file matches a deny rule", finding.Detail)
	case model.KindDeniedDir:
		return withDetail("directory matches a deny rule", finding.Detail)
	case model.KindNaming:
		return withDetail("file name violates the naming pattern", finding.Detail)
	case model.KindMissingSibling:
		return withDetail("required sibling file is missing", finding.Detail)
	}
	return string(finding.Kind)
}

// withDetail 在描述后追加细节。
func withDetail(description string, detail string) string {
	if detail == "" {
		return description
	}
	return description + ": " + detail
}
