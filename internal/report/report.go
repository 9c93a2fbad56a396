// Package report 把检查结果渲染为各种输出格式。
// text 面向终端，json/sarif/markdown/html 面向工具链与评审页面。
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"slocguard/internal/errs"
	"slocguard/internal/model"
)

// Formatter 把一份报告写入输出流。
type Formatter interface {
	Write(writer io.Writer, report *model.Report) error
}

// 输出格式名。
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatSARIF    = "sarif"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// New 按格式名构造 Formatter。
func New(format string, color bool) (Formatter, error) {
	switch format {
	case FormatText, "":
		return &TextFormatter{Color: color}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	case FormatSARIF:
		return &SARIFFormatter{}, nil
	case FormatMarkdown:
		return &MarkdownFormatter{}, nil
	case FormatHTML:
		return &HTMLFormatter{}, nil
	}
	return nil, errs.Config(
		fmt.Sprintf("unknown output format %q", format),
		"",
		"use one of: text, json, sarif, markdown, html",
	)
}

// ColorEnabled 按 --color 取值与输出目标决定是否着色。
func ColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if file, ok := writer.(*os.File); ok {
		return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
	}
	return false
}

// errorRecord 是写往 stderr 的机器可读错误记录。
type errorRecord struct {
	ErrorType  string `json:"error_type"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}
