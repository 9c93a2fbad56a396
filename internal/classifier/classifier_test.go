package classifier

import (
	"strings"
	"testing"

	"slocguard/internal/language"
	"slocguard/internal/model"
)

// syntaxFor 是测试辅助函数，从内置注册中心取出某后缀的语法描述。
func syntaxFor(t *testing.T, ext string) *language.CommentSyntax {
	t.Helper()

	lang, ok := language.NewRegistry().ByExtension(ext)
	if !ok {
		t.Fatalf("no builtin language for extension %q", ext)
	}
	return &lang.Syntax
}

// classifyText 是测试辅助函数，分类一段文本并确保未命中 ignore-file。
func classifyText(t *testing.T, ext string, content string) model.LineStats {
	t.Helper()

	stats, ignored := ClassifyString(syntaxFor(t, ext), content)
	if ignored {
		t.Fatalf("unexpected ignore-file hit")
	}
	return stats
}

// TestGoInlineCodeAndComment 验证代码与注释混排的行计入代码桶。
func TestGoInlineCodeAndComment(t *testing.T) {
	content := "package main\n" +
		"func main() {\n" +
		"    x := 1 // comment\n" +
		"}\n"

	stats := classifyText(t, "go", content)

	if stats.Total != 4 || stats.Code != 4 || stats.Comment != 0 || stats.Blank != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

// TestGoStringContainsCommentToken 验证字符串内的 // 不会误判为注释。
func TestGoStringContainsCommentToken(t *testing.T) {
	content := "s := \"hello // world\"\n"

	stats := classifyText(t, "go", content)

	if stats.Code != 1 || stats.Comment != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

// TestGoUnterminatedStringRunsToEOF 验证未闭合字符串延续到文件末尾而不报错。
func TestGoUnterminatedStringRunsToEOF(t *testing.T) {
	content := "s := \"abc\n" +
		"// still inside the string\n"

	stats := classifyText(t, "go", content)

	if stats.Total != 2 || stats.Code != 2 || stats.Comment != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

// TestRustNestedBlockComment 验证嵌套块注释的深度计数。
func TestRustNestedBlockComment(t *testing.T) {
	content := "/* outer\n" +
		"/* inner */\n" +
		"still comment */\n" +
		"fn main() {}\n"

	stats := classifyText(t, "rs", content)

	if stats.Total != 4 || stats.Code != 1 || stats.Comment != 3 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

// TestRustRawStringSpansLines 验证原始字符串跨行时行内标记不生效。
func TestRustRawStringSpansLines(t *testing.T) {
	content := "let s = r\"line one\n" +
		"// not a comment\n" +
		"\";\n" +
		"let x = 1;\n"

	stats := classifyText(t, "rs", content)

	if stats.Total != 4 || stats.Code != 4 || stats.Comment != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

// TestRustRawStringHashCount 验证带 # 的原始字符串只被同数量 # 闭合。
func TestRustRawStringHashCount(t *testing.T) {
	content := "let s = r#\"quote \" inside\"#;\n" +
		"// comment\n"

	stats := classifyText(t, "rs", content)

	if stats.Total != 2 || stats.Code != 1 || stats.Comment != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

// TestRustLifetimeIsNotCharLiteral 验证生命周期标注的撇号不开启字符字面量。
func TestRustLifetimeIsNotCharLiteral(t *testing.T) {
	content := "fn f<'a>(x: &'a str) -> &'a str { x }\n" +
		"// comment\n"

	stats := classifyText(t, "rs", content)

	if stats.Total != 2 || stats.Code != 1 || stats.Comment != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

// TestPythonDocstring 验证三引号 docstring 按块注释统计。
func TestPythonDocstring(t *testing.T) {
	content := "def f():\n" +
		"    \"\"\"doc\n" +
		"    more\n" +
		"    \"\"\"\n" +
		"    return 1\n"

	stats := classifyText(t, "py", content)

	if stats.Total != 5 || stats.Code != 2 || stats.Comment != 3 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

// TestPythonHashInsideString 验证字符串内的 # 不是注释。
func TestPythonHashInsideString(t *testing.T) {
	content := "pattern = \"src/** # glob\"\n" +
		"# real comment\n"

	stats := classifyText(t, "py", content)

	if stats.Total != 2 || stats.Code != 1 || stats.Comment != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

// TestRubyBeginEndComment 验证行首锚定的 =begin/=end 块注释。
func TestRubyBeginEndComment(t *testing.T) {
	content := "=begin\n" +
		"comment body\n" +
		"=end\n" +
		"puts \"ok\"\n"

	stats := classifyText(t, "rb", content)

	if stats.Total != 4 || stats.Code != 1 || stats.Comment != 3 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

// TestRubyBeginNotAtLineStart 验证非行首的 =begin 不开启块注释。
func TestRubyBeginNotAtLineStart(t *testing.T) {
	content := "x = :a # =begin in a comment\n" +
		"puts x\n"

	stats := classifyText(t, "rb", content)

	if stats.Total != 2 || stats.Code != 2 || stats.Comment != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

// TestLuaBlockBeatsLineMarker 验证行首 --[[ 优先于 -- 单行注释。
func TestLuaBlockBeatsLineMarker(t *testing.T) {
	content := "--[[ block\n" +
		"still ]]\n" +
		"-- line comment\n" +
		"print(\"ok\")\n"

	stats := classifyText(t, "lua", content)

	if stats.Total != 4 || stats.Code != 1 || stats.Comment != 3 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

// TestIgnoreNextDirective 验证 ignore-next N 恰好覆盖随后 N 行。
func TestIgnoreNextDirective(t *testing.T) {
	content := "x := 1\n" +
		"// sloc-guard:ignore-next 2\n" +
		"gen1()\n" +
		"gen2()\n"

	stats := classifyText(t, "go", content)

	if stats.Code != 1 || stats.Comment != 1 || stats.Ignored != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

// TestIgnoreNextInvalidArgument 验证非法参数使指令退化为普通注释。
func TestIgnoreNextInvalidArgument(t *testing.T) {
	content := "// sloc-guard:ignore-next abc\n" +
		"x := 1\n"

	stats := classifyText(t, "go", content)

	if stats.Code != 1 || stats.Comment != 1 || stats.Ignored != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

// TestIgnoreStartEndRegion 验证区间忽略，标记行自身不计入区间。
func TestIgnoreStartEndRegion(t *testing.T) {
	content := "code1()\n" +
		"// sloc-guard:ignore-start\n" +
		"big1()\n" +
		"\n" +
		"// sloc-guard:ignore-end\n" +
		"code2()\n"

	stats := classifyText(t, "go", content)

	if stats.Code != 2 || stats.Comment != 2 || stats.Ignored != 2 || stats.Blank != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

// TestIgnoreFileDirective 验证前 10 行内的 ignore-file 短路整个文件。
func TestIgnoreFileDirective(t *testing.T) {
	content := "// sloc-guard:ignore-file\n" +
		"package main\n"

	stats, ignored := ClassifyString(syntaxFor(t, "go"), content)

	if !ignored {
		t.Fatalf("expected ignore-file hit")
	}
	if stats.Total != 0 {
		t.Fatalf("expected empty stats, got %+v", stats)
	}
}

// TestIgnoreFileOutsideWindow 验证第 10 行之后的 ignore-file 不生效。
func TestIgnoreFileOutsideWindow(t *testing.T) {
	content := strings.Repeat("x := 1\n", 10) +
		"// sloc-guard:ignore-file\n"

	stats, ignored := ClassifyString(syntaxFor(t, "go"), content)

	if ignored {
		t.Fatalf("directive outside the window must not trigger")
	}
	if stats.Total != 11 || stats.Code != 10 || stats.Comment != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

// TestDirectiveInsideStringIgnored 验证字符串中的指令文本不生效。
func TestDirectiveInsideStringIgnored(t *testing.T) {
	content := "s := \"// sloc-guard:ignore-file\"\n" +
		"x := 1\n"

	stats, ignored := ClassifyString(syntaxFor(t, "go"), content)

	if ignored {
		t.Fatalf("directive text inside a string must not trigger")
	}
	if stats.Code != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

// TestBucketSumInvariant 验证四个桶之和恒等于总行数。
func TestBucketSumInvariant(t *testing.T) {
	content := "package main\n" +
		"\n" +
		"// comment\n" +
		"// sloc-guard:ignore-next 1\n" +
		"generated()\n" +
		"func main() {}\n"

	stats := classifyText(t, "go", content)

	if stats.Total != stats.Code+stats.Comment+stats.Blank+stats.Ignored {
		t.Fatalf("bucket sum mismatch: %+v", stats)
	}
	if stats.Total != 6 {
		t.Fatalf("unexpected total: %+v", stats)
	}
}

// TestNoTrailingNewline 验证末行缺失换行符时仍被统计。
func TestNoTrailingNewline(t *testing.T) {
	content := "x := 1\ny := 2"

	stats := classifyText(t, "go", content)

	if stats.Total != 2 || stats.Code != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

// TestPlainTextSyntax 验证空语法描述下非空行全部计为代码。
func TestPlainTextSyntax(t *testing.T) {
	stats, ignored := ClassifyString(&language.CommentSyntax{}, "alpha\n\nbeta\n")

	if ignored {
		t.Fatalf("plain text cannot hit ignore-file")
	}
	if stats.Total != 3 || stats.Code != 2 || stats.Blank != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
