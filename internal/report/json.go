package report

import (
	"encoding/json"
	"io"

	"slocguard/internal/model"
)

// JSONFormatter 输出机器可读报告，字段布局是对外契约。
type JSONFormatter struct{}

// Write 渲染 JSON 报告。
func (f *JSONFormatter) Write(writer io.Writer, report *model.Report) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
