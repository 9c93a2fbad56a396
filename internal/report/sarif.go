package report

import (
	"encoding/json"
	"fmt"
	"io"

	"slocguard/internal/model"
)

// SARIFFormatter 输出 SARIF 2.1.0，供代码评审平台内联展示。
// 只导出警告与失败，通过的文件不产生 result。
type SARIFFormatter struct{}

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name  string      `json:"name"`
	Rules []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysical `json:"physicalLocation"`
}

type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

// ruleDescriptions 是各检查种类的一句话描述。
var ruleDescriptions = map[model.Kind]string{
	model.KindContent:        "effective source lines exceed the configured limit",
	model.KindFileCount:      "directory holds more files than allowed",
	model.KindDirCount:       "directory holds more subdirectories than allowed",
	model.KindMaxDepth:       "directory nesting exceeds the allowed depth",
	model.KindDisallowedFile: "file is not covered by the allow list",
	model.KindDeniedFile:     "file matches a deny rule",
	model.KindDeniedDir:      "directory matches a deny rule",
	model.KindNaming:         "file name violates the naming pattern",
	model.KindMissingSibling: "required sibling file is missing",
}

// Write 渲染 SARIF 报告。
func (f *SARIFFormatter) Write(writer io.Writer, report *model.Report) error {
	seen := make(map[model.Kind]bool)
	var ruleList []sarifRule
	var results []sarifResult

	for _, finding := range report.Findings {
		if finding.Severity == model.SeverityOK {
			continue
		}
		if !seen[finding.Kind] {
			seen[finding.Kind] = true
			ruleList = append(ruleList, sarifRule{
				ID:               string(finding.Kind),
				ShortDescription: sarifMessage{Text: ruleDescriptions[finding.Kind]},
			})
		}

		level := "warning"
		if finding.Severity == model.SeverityFail {
			level = "error"
		}

		text := fmt.Sprintf("%s: %s", finding.Path, describeFinding(finding))
		if finding.Reason != "" {
			text += " (" + finding.Reason + ")"
		}

		results = append(results, sarifResult{
			RuleID:  string(finding.Kind),
			Level:   level,
			Message: sarifMessage{Text: text},
			Locations: []sarifLocation{{
				PhysicalLocation: sarifPhysical{
					ArtifactLocation: sarifArtifact{URI: finding.Path},
				},
			}},
		})
	}

	if results == nil {
		results = []sarifResult{}
	}

	log := sarifLog{
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		Version: "2.1.0",
		Runs: []sarifRun{{
			Tool:    sarifTool{Driver: sarifDriver{Name: "sloc-guard", Rules: ruleList}},
			Results: results,
		}},
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(log)
}
