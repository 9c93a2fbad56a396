// Package config 提供 v2 TOML 配置的模型、加载与校验。
// 加载支持 extends 链（预设名、相对路径、HTTPS 地址），
// 显式声明的数组整体替换默认值而不是合并。
package config

// CurrentVersion 是当前配置格式版本。
const CurrentVersion = "2"

// DefaultFileName 是配置发现使用的约定文件名。
const DefaultFileName = ".sloc-guard.toml"

// Config 是配置文件的顶层模型。
// 可选字段用指针表达“未设置”，以便 extends 合并时区分缺省与显式零值。
type Config struct {
	Version string `toml:"version"`
	Extends string `toml:"extends"`

	Scanner   ScannerConfig   `toml:"scanner"`
	Content   ContentConfig   `toml:"content"`
	Structure StructureConfig `toml:"structure"`
	Baseline  BaselineConfig  `toml:"baseline"`
	Trend     TrendConfig     `toml:"trend"`
	Stats     StatsConfig     `toml:"stats"`

	Languages map[string]LanguageConfig `toml:"languages"`
}

// ScannerConfig 控制文件枚举。
type ScannerConfig struct {
	// Exclude 整体替换默认排除列表；.git/** 无论如何都会被剪除。
	Exclude      *[]string `toml:"exclude"`
	Gitignore    *bool     `toml:"gitignore"`
	IncludePaths *[]string `toml:"include_paths"`
}

// ContentConfig 是内容限制配置。
type ContentConfig struct {
	MaxLines      *int      `toml:"max_lines"`
	Extensions    *[]string `toml:"extensions"`
	Exclude       *[]string `toml:"exclude"`
	SkipComments  *bool     `toml:"skip_comments"`
	SkipBlank     *bool     `toml:"skip_blank"`
	WarnThreshold *float64  `toml:"warn_threshold"`

	Rules     []ContentRule     `toml:"rules"`
	Overrides []ContentOverride `toml:"overrides"`
}

// ContentRule 是一条 glob 内容规则。
type ContentRule struct {
	Pattern       string   `toml:"pattern"`
	MaxLines      *int     `toml:"max_lines"`
	WarnThreshold *float64 `toml:"warn_threshold"`
	SkipComments  *bool    `toml:"skip_comments"`
	SkipBlank     *bool    `toml:"skip_blank"`
	Reason        string   `toml:"reason"`
	Expires       string   `toml:"expires"`
}

// ContentOverride 是一条显式路径豁免。
type ContentOverride struct {
	Path     string `toml:"path"`
	MaxLines int    `toml:"max_lines"`
	Reason   string `toml:"reason"`
	Expires  string `toml:"expires"`
}

// StructureConfig 是目录结构限制配置。
type StructureConfig struct {
	MaxFiles      *int     `toml:"max_files"`
	MaxDirs       *int     `toml:"max_dirs"`
	MaxDepth      *int     `toml:"max_depth"`
	WarnThreshold *float64 `toml:"warn_threshold"`

	DenyExtensions []string `toml:"deny_extensions"`
	DenyPatterns   []string `toml:"deny_patterns"`
	DenyFiles      []string `toml:"deny_files"`

	Rules     []StructureRule     `toml:"rules"`
	Overrides []StructureOverride `toml:"overrides"`
}

// StructureRule 是一条按目录作用域匹配的结构规则。
type StructureRule struct {
	Scope         string `toml:"scope"`
	MaxFiles      *int   `toml:"max_files"`
	MaxDirs       *int   `toml:"max_dirs"`
	MaxDepth      *int   `toml:"max_depth"`
	RelativeDepth bool   `toml:"relative_depth"`

	AllowExtensions []string `toml:"allow_extensions"`
	AllowPatterns   []string `toml:"allow_patterns"`
	AllowFiles      []string `toml:"allow_files"`
	AllowDirs       []string `toml:"allow_dirs"`

	FileNamingPattern string `toml:"file_naming_pattern"`

	RequireSibling *SiblingConfig `toml:"require_sibling"`

	DenyExtensions []string `toml:"deny_extensions"`
	DenyPatterns   []string `toml:"deny_patterns"`
	DenyFiles      []string `toml:"deny_files"`
	DenyDirs       []string `toml:"deny_dirs"`

	WarnThreshold *float64 `toml:"warn_threshold"`
	WarnFilesAt   *int     `toml:"warn_files_at"`
	WarnDirsAt    *int     `toml:"warn_dirs_at"`

	Reason  string `toml:"reason"`
	Expires string `toml:"expires"`
}

// SiblingConfig 是伴生文件要求。
type SiblingConfig struct {
	Pattern  string `toml:"pattern"`
	Template string `toml:"template"`
}

// StructureOverride 是显式目录豁免。
type StructureOverride struct {
	Path     string `toml:"path"`
	MaxFiles *int   `toml:"max_files"`
	MaxDirs  *int   `toml:"max_dirs"`
	MaxDepth *int   `toml:"max_depth"`
	Reason   string `toml:"reason"`
}

// BaselineConfig 控制基线棘轮。
type BaselineConfig struct {
	Path string `toml:"path"`
	Mode string `toml:"mode"`
}

// TrendConfig 控制检查结果的趋势历史采集。
type TrendConfig struct {
	Enabled      bool `toml:"enabled"`
	HistoryLimit int  `toml:"history_limit"`
}

// StatsConfig 控制 stats 命令输出。
type StatsConfig struct {
	Report StatsReportConfig `toml:"report"`
}

// StatsReportConfig 是 stats 报表参数。
type StatsReportConfig struct {
	// TopFiles 是“最大文件”清单的条数，0 表示不输出。
	TopFiles int `toml:"top_files"`
}

// LanguageConfig 是用户自定义语言，后缀冲突时覆盖内置语言。
type LanguageConfig struct {
	Extensions   []string      `toml:"extensions"`
	LineComments []string      `toml:"line_comments"`
	Blocks       []BlockConfig `toml:"blocks"`
	DoubleQuote  bool          `toml:"double_quote"`
	// SingleQuote 取值 none/string/char。
	SingleQuote string `toml:"single_quote"`
	RawStrings  bool   `toml:"raw_strings"`
	Backtick    bool   `toml:"backtick"`
}

// BlockConfig 是一组块注释定界符。
type BlockConfig struct {
	Start       string `toml:"start"`
	End         string `toml:"end"`
	Nested      bool   `toml:"nested"`
	AtLineStart bool   `toml:"at_line_start"`
}
