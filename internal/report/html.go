package report

import (
	"fmt"
	"html"
	"io"
	"strings"

	"slocguard/internal/model"
)

// HTMLFormatter 输出自包含的单页报告。
type HTMLFormatter struct{}

// Write 渲染 HTML 报告。
func (f *HTMLFormatter) Write(writer io.Writer, report *model.Report) error {
	var builder strings.Builder

	builder.WriteString(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>sloc-guard report</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 0.4rem 0.6rem; text-align: left; }
.fail { color: #b00020; font-weight: bold; }
.warn { color: #9a6700; font-weight: bold; }
.summary { margin-bottom: 1rem; }
</style>
</head>
<body>
<h1>sloc-guard report</h1>
`)

	builder.WriteString(fmt.Sprintf(
		`<p class="summary">checked %d files: %d passed, %d failed, %d warnings (%d grandfathered)</p>`,
		report.Summary.TotalFiles, report.Summary.Passed,
		report.Summary.Failed, report.Summary.Warnings,
		report.Summary.Grandfathered))
	builder.WriteString("\n")

	rows := 0
	for _, finding := range report.Findings {
		if finding.Severity == model.SeverityOK {
			continue
		}
		if rows == 0 {
			builder.WriteString("<table>\n<tr><th>Severity</th><th>Path</th><th>Finding</th><th>Reason</th></tr>\n")
		}
		rows++
		builder.WriteString(fmt.Sprintf(
			`<tr><td class="%s">%s</td><td><code>%s</code></td><td>%s</td><td>%s</td></tr>`,
			html.EscapeString(string(finding.Severity)),
			html.EscapeString(strings.ToUpper(string(finding.Severity))),
			html.EscapeString(finding.Path),
			html.EscapeString(describeFinding(finding)),
			html.EscapeString(finding.Reason)))
		builder.WriteString("\n")
	}
	if rows > 0 {
		builder.WriteString("</table>\n")
	} else {
		builder.WriteString("<p>No findings.</p>\n")
	}

	builder.WriteString("</body>\n</html>\n")

	_, err := io.WriteString(writer, builder.String())
	return err
}
