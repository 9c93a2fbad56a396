package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig 是测试辅助函数，在目录下写出一个 TOML 文件。
func writeConfig(t *testing.T, dir string, name string, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestLoadAppliesDefaults 验证未设置的字段落到内置默认值。
func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), DefaultFileName, `version = "2"`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultMaxLines, *cfg.Content.MaxLines)
	assert.Equal(t, DefaultWarnThreshold, *cfg.Content.WarnThreshold)
	assert.True(t, *cfg.Content.SkipComments)
	assert.True(t, *cfg.Scanner.Gitignore)
	assert.Equal(t, "off", cfg.Baseline.Mode)
}

// TestLoadRejectsUnknownKeys 验证未知键报配置错误。
func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, t.TempDir(), DefaultFileName, `
version = "2"
[content]
max_linez = 300
`)

	_, err := Load(path)
	assert.Error(t, err)
}

// TestLoadRejectsWrongVersion 验证版本不符报错。
func TestLoadRejectsWrongVersion(t *testing.T) {
	path := writeConfig(t, t.TempDir(), DefaultFileName, `version = "1"`)

	_, err := Load(path)
	assert.Error(t, err)
}

// TestExtendsLocalFile 验证本地 extends 的字段覆盖与数组整体替换。
func TestExtendsLocalFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "base.toml", `
version = "2"
[content]
max_lines = 400
extensions = ["go", "rs"]
[[content.rules]]
pattern = "base/**"
max_lines = 100
`)
	path := writeConfig(t, dir, DefaultFileName, `
version = "2"
extends = "./base.toml"
[content]
extensions = ["py"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	// 标量继承自父级，数组被子级整体替换。
	assert.Equal(t, 400, *cfg.Content.MaxLines)
	assert.Equal(t, []string{"py"}, *cfg.Content.Extensions)
	require.Len(t, cfg.Content.Rules, 1)
	assert.Equal(t, "base/**", cfg.Content.Rules[0].Pattern)
}

// TestExtendsPreset 验证预设名 extends。
func TestExtendsPreset(t *testing.T) {
	path := writeConfig(t, t.TempDir(), DefaultFileName, `
version = "2"
extends = "strict"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 300, *cfg.Content.MaxLines)
	assert.Equal(t, 0.8, *cfg.Content.WarnThreshold)
}

// TestExtendsCycleDetected 验证循环 extends 报错。
func TestExtendsCycleDetected(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "a.toml", `
version = "2"
extends = "./b.toml"
`)
	writeConfig(t, dir, "b.toml", `
version = "2"
extends = "./a.toml"
`)

	_, err := Load(filepath.Join(dir, "a.toml"))
	assert.Error(t, err)
}

// TestExtendsRejectsNonHTTPS 验证远程 extends 只接受 HTTPS。
func TestExtendsRejectsNonHTTPS(t *testing.T) {
	path := writeConfig(t, t.TempDir(), DefaultFileName, `
version = "2"
extends = "http://example.com/base.toml"
`)

	_, err := Load(path)
	assert.Error(t, err)
}

// TestDiscoverWalksUp 验证配置向上发现。
func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, DefaultFileName, `version = "2"`)
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found, ok := Discover(nested)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, DefaultFileName), found)
}

// TestValidateCatchesRuleErrors 验证 Validate 走到规则编译。
func TestValidateCatchesRuleErrors(t *testing.T) {
	path := writeConfig(t, t.TempDir(), DefaultFileName, `
version = "2"
[[content.rules]]
pattern = "src/["
max_lines = 100
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Error(t, cfg.Validate())
}

// TestValidateBaselineMode 验证非法棘轮模式被拒绝。
func TestValidateBaselineMode(t *testing.T) {
	path := writeConfig(t, t.TempDir(), DefaultFileName, `
version = "2"
[baseline]
mode = "sometimes"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Error(t, cfg.Validate())
}

// TestCustomLanguageConversion 验证自定义语言解析与注册。
func TestCustomLanguageConversion(t *testing.T) {
	path := writeConfig(t, t.TempDir(), DefaultFileName, `
version = "2"
[languages.zig]
extensions = ["zig"]
line_comments = ["//"]
double_quote = true
single_quote = "char"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	registry, replaced, err := cfg.LanguageRegistry()
	require.NoError(t, err)
	assert.Empty(t, replaced)

	lang, ok := registry.ByExtension("zig")
	require.True(t, ok)
	assert.Equal(t, "zig", lang.Name)
	assert.Equal(t, []string{"//"}, lang.Syntax.LineMarkers)
}

// TestCustomLanguageBadSingleQuote 验证非法 single_quote 取值报错。
func TestCustomLanguageBadSingleQuote(t *testing.T) {
	path := writeConfig(t, t.TempDir(), DefaultFileName, `
version = "2"
[languages.odd]
extensions = ["odd"]
single_quote = "maybe"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	_, _, err = cfg.LanguageRegistry()
	assert.Error(t, err)
}

// TestTemplateParses 验证 init 模板本身是合法配置。
func TestTemplateParses(t *testing.T) {
	cfg, err := LoadText(Template, t.TempDir())
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, CurrentVersion, cfg.Version)
}
