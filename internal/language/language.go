// Package language 维护“文件后缀 → 注释语法描述”的注册中心。
// 描述信息供分类器驱动单遍状态机，支持用户自定义语言覆盖内置语言。
package language

// SingleQuoteMode 表示单引号在该语言中的语义。
type SingleQuoteMode int

// 单引号语义取值。
const (
	// SingleQuoteNone 表示单引号不构成字面量（如 Swift、Markdown）。
	SingleQuoteNone SingleQuoteMode = iota
	// SingleQuoteString 表示单引号是字符串定界符（如 Python、Lua）。
	SingleQuoteString
	// SingleQuoteChar 表示单引号是字符字面量（如 Rust、C、Go）。
	SingleQuoteChar
)

// BlockMarker 描述一组块注释定界符。
// 三引号 docstring 与 Lua 长括号同样用 BlockMarker 表达，
// docstring 的 Start 与 End 相同。
type BlockMarker struct {
	Start string
	End   string
	// Nested 为 true 时块注释支持嵌套（Rust、Swift、Kotlin）。
	Nested bool
	// AtLineStart 为 true 时起止标记必须位于行首（Ruby 的 =begin/=end）。
	AtLineStart bool
}

// CommentSyntax 是单语言的完整注释语法描述。
type CommentSyntax struct {
	// LineMarkers 是单行注释起始标记，按声明序匹配。
	LineMarkers []string
	// BlockMarkers 是块注释定界符，按声明序匹配。
	BlockMarkers []BlockMarker
	// DoubleQuote 为 true 时双引号是字符串定界符。
	DoubleQuote bool
	// SingleQuote 描述单引号语义。
	SingleQuote SingleQuoteMode
	// RawStrings 为 true 时启用 Rust 风格原始字符串（r"…"、r#"…"#、br"…"）。
	RawStrings bool
	// Backtick 为 true 时反引号是字符串定界符（Go 原始字符串、JS 模板字符串）。
	Backtick bool
}

// Language 表示一种已注册语言。
type Language struct {
	Name string
	// Extensions 是不含点号的小写后缀列表。
	Extensions []string
	Syntax     CommentSyntax
}
