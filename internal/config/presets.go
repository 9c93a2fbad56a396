package config

// presets 是可被 extends 引用的内置预设。
// 预设只覆盖差异字段，其余仍落到默认值。
var presets = map[string]string{
	"default": `
version = "2"
`,
	"strict": `
version = "2"

[content]
max_lines = 300
warn_threshold = 0.8

[structure]
max_files = 30
max_depth = 6
`,
	"relaxed": `
version = "2"

[content]
max_lines = 800
warn_threshold = 0.95
`,
}

// Preset 返回内置预设的 TOML 文本。
func Preset(name string) (string, bool) {
	text, ok := presets[name]
	return text, ok
}

// PresetNames 返回全部预设名，供错误提示使用。
func PresetNames() []string {
	return []string{"default", "relaxed", "strict"}
}
