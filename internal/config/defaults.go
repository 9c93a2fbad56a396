package config

// 全局默认值，与 `sloc-guard init` 生成的模板保持一致。
const (
	DefaultMaxLines      = 500
	DefaultWarnThreshold = 0.9
)

// DefaultExclude 是默认排除模式。
var DefaultExclude = []string{
	".git/**",
	"node_modules/**",
	"vendor/**",
	"target/**",
	"dist/**",
	"build/**",
}

// DefaultExtensions 是默认进入内容检查的后缀。
var DefaultExtensions = []string{
	"go", "rs", "py", "js", "jsx", "ts", "tsx",
	"c", "h", "cpp", "hpp", "java", "kt", "swift",
	"rb", "lua", "php", "sh", "sql",
}

// Default 返回一份完全展开的默认配置。
// 加载链的最底层永远是它，用户配置逐层覆盖。
func Default() *Config {
	maxLines := DefaultMaxLines
	warn := DefaultWarnThreshold
	yes := true

	exclude := append([]string(nil), DefaultExclude...)
	extensions := append([]string(nil), DefaultExtensions...)

	return &Config{
		Version: CurrentVersion,
		Scanner: ScannerConfig{
			Exclude:   &exclude,
			Gitignore: &yes,
		},
		Content: ContentConfig{
			MaxLines:      &maxLines,
			Extensions:    &extensions,
			SkipComments:  &yes,
			SkipBlank:     &yes,
			WarnThreshold: &warn,
		},
		Baseline: BaselineConfig{
			Path: ".sloc-guard-baseline.json",
			Mode: "off",
		},
		Trend: TrendConfig{
			HistoryLimit: 100,
		},
		Stats: StatsConfig{
			Report: StatsReportConfig{TopFiles: 10},
		},
	}
}
