package report

import (
	"fmt"
	"io"
	"strings"

	"slocguard/internal/model"
)

// MarkdownFormatter 输出适合贴进 PR 评论的表格。
type MarkdownFormatter struct{}

// Write 渲染 Markdown 报告。
func (f *MarkdownFormatter) Write(writer io.Writer, report *model.Report) error {
	var builder strings.Builder

	builder.WriteString("## sloc-guard report\n\n")
	builder.WriteString(fmt.Sprintf(
		"checked %d files: %d passed, %d failed, %d warnings",
		report.Summary.TotalFiles, report.Summary.Passed,
		report.Summary.Failed, report.Summary.Warnings))
	if report.Summary.Grandfathered > 0 {
		builder.WriteString(fmt.Sprintf(" (%d grandfathered)", report.Summary.Grandfathered))
	}
	builder.WriteString("\n\n")

	rows := 0
	for _, finding := range report.Findings {
		if finding.Severity == model.SeverityOK {
			continue
		}
		if rows == 0 {
			builder.WriteString("| Severity | Path | Finding | Reason |\n")
			builder.WriteString("| --- | --- | --- | --- |\n")
		}
		rows++
		builder.WriteString(fmt.Sprintf("| %s | `%s` | %s | %s |\n",
			strings.ToUpper(string(finding.Severity)),
			finding.Path,
			escapePipes(describeFinding(finding)),
			escapePipes(finding.Reason)))
	}
	if rows == 0 {
		builder.WriteString("No findings.\n")
	}

	_, err := io.WriteString(writer, builder.String())
	return err
}

// escapePipes 转义表格分隔符。
func escapePipes(text string) string {
	return strings.ReplaceAll(text, "|", "\\|")
}
