package model

// Severity 表示单条结论的严重级别。
type Severity string

// 严重级别取值。
const (
	SeverityOK   Severity = "ok"
	SeverityWarn Severity = "warn"
	SeverityFail Severity = "fail"
)

// Category 表示结论相对基线的分类。
type Category string

// 基线分类取值。
const (
	CategoryNew           Category = "new"
	CategoryGrandfathered Category = "grandfathered"
	CategoryWorsened      Category = "worsened"
)

// Kind 表示结论对应的检查种类。
type Kind string

// 检查种类取值。content 是内容行数检查，其余为结构检查。
const (
	KindContent        Kind = "content"
	KindFileCount      Kind = "file_count"
	KindDirCount       Kind = "dir_count"
	KindMaxDepth       Kind = "max_depth"
	KindDisallowedFile Kind = "disallowed_file"
	KindDeniedFile     Kind = "denied_file"
	KindDeniedDir      Kind = "denied_dir"
	KindNaming         Kind = "naming_convention"
	KindMissingSibling Kind = "missing_sibling"
)

// Finding 表示一条检查结论。
//
// Actual/Limit 对内容检查是有效行数与行数上限，
// 对结构检查是实际计数与对应限制。
type Finding struct {
	Path     string   `json:"path"`
	Kind     Kind     `json:"kind"`
	Actual   int      `json:"actual"`
	Limit    int      `json:"limit"`
	Severity Severity `json:"severity"`
	Category Category `json:"category"`
	Reason   string   `json:"reason,omitempty"`
	// Detail 携带触发细节，例如命中的 deny 模式或期望的命名正则。
	Detail      string   `json:"detail,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
	// Stats/RawStats 仅内容检查填充。
	// Stats 是 skip 设置生效后的统计，RawStats 是原始统计。
	Stats    *LineStats `json:"stats,omitempty"`
	RawStats *LineStats `json:"raw_stats,omitempty"`
}

// IsFailed 判断结论是否为失败。
func (f Finding) IsFailed() bool {
	return f.Severity == SeverityFail
}

// IsWarning 判断结论是否为警告。
func (f Finding) IsWarning() bool {
	return f.Severity == SeverityWarn
}

// Summary 是一次检查的汇总计数，字段名是对外 JSON 契约的一部分。
type Summary struct {
	TotalFiles    int `json:"total_files"`
	Passed        int `json:"passed"`
	Failed        int `json:"failed"`
	Warnings      int `json:"warnings"`
	Grandfathered int `json:"grandfathered"`
}

// Report 是 check 命令的完整输出模型。
type Report struct {
	Summary  Summary     `json:"summary"`
	Findings []Finding   `json:"findings"`
	Errors   []ScanError `json:"errors,omitempty"`
}
