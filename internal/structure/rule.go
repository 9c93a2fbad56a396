// Package structure 实现目录结构限制检查。
// 检查对象是扫描阶段采集的每目录直接子项清单与深度，
// 不读取任何文件内容。
package structure

// Unlimited 是“无限制”哨兵值，配置中写 -1 表示关闭对应检查。
const Unlimited = -1

// SiblingRule 表示同目录伴生文件要求。
// Pattern 命中的每个文件都必须存在 Template 展开后的兄弟文件，
// 模板中的 {stem} 会被替换为源文件的主名。
type SiblingRule struct {
	Pattern  string
	Template string
}

// Rule 是一条按 glob 作用域匹配目录的结构规则。
// 未设置的计数字段继承全局默认。
type Rule struct {
	Scope string

	MaxFiles *int
	MaxDirs  *int
	MaxDepth *int
	// RelativeDepth 为 true 时 MaxDepth 从模式基准目录起算，
	// 基准是 Scope 中第一个通配符之前的组件。
	RelativeDepth bool

	AllowExtensions []string
	AllowPatterns   []string
	AllowFiles      []string
	AllowDirs       []string

	// FileNamingPattern 是文件名必须满足的正则。
	FileNamingPattern string

	RequireSibling *SiblingRule

	DenyExtensions []string
	DenyPatterns   []string
	DenyFiles      []string
	DenyDirs       []string

	WarnThreshold *float64
	WarnFilesAt   *int
	WarnDirsAt    *int

	Reason  string
	Expires string
}

// Override 是显式目录豁免，按整组件后缀匹配，优先级高于规则。
type Override struct {
	Path     string
	MaxFiles *int
	MaxDirs  *int
	MaxDepth *int
	Reason   string
}

// Globals 是结构检查的全局默认值，nil 表示未启用对应检查。
type Globals struct {
	MaxFiles      *int
	MaxDirs       *int
	MaxDepth      *int
	WarnThreshold *float64
}
