package language

import "testing"

// TestByExtensionNormalization 验证后缀查找大小写不敏感且可带点号。
func TestByExtensionNormalization(t *testing.T) {
	registry := NewRegistry()

	for _, ext := range []string{"go", ".go", ".GO", "Go"} {
		lang, ok := registry.ByExtension(ext)
		if !ok || lang.Name != "Go" {
			t.Fatalf("lookup %q failed: ok=%v", ext, ok)
		}
	}
}

// TestByPathUsesFileExtension 验证按路径查找取文件后缀。
func TestByPathUsesFileExtension(t *testing.T) {
	registry := NewRegistry()

	lang, ok := registry.ByPath("src/deep/dir/parser.rs")
	if !ok || lang.Name != "Rust" {
		t.Fatalf("unexpected lookup result: ok=%v", ok)
	}

	if _, ok := registry.ByPath("README"); ok {
		t.Fatalf("extensionless path must not resolve")
	}
}

// TestRegisterCustomOverridesBuiltin 验证自定义语言接管后缀并产生覆盖记录。
func TestRegisterCustomOverridesBuiltin(t *testing.T) {
	registry := NewRegistry()

	replaced := registry.Register(Language{
		Name:       "MyRust",
		Extensions: []string{"rs", "myrs"},
		Syntax:     CommentSyntax{LineMarkers: []string{";;"}},
	})

	if len(replaced) != 1 {
		t.Fatalf("unexpected replacement count: %d", len(replaced))
	}
	if replaced[0].Extension != "rs" || replaced[0].OldName != "Rust" || replaced[0].NewName != "MyRust" {
		t.Fatalf("unexpected replacement: %+v", replaced[0])
	}

	lang, ok := registry.ByExtension("rs")
	if !ok || lang.Name != "MyRust" {
		t.Fatalf("custom language did not take over the extension")
	}
}

// TestLanguagesSortedByName 验证语言清单按名称排序且无重复。
func TestLanguagesSortedByName(t *testing.T) {
	registry := NewRegistry()
	items := registry.Languages()

	if len(items) == 0 {
		t.Fatalf("empty language list")
	}
	seen := make(map[string]bool)
	for index, item := range items {
		if seen[item.Name] {
			t.Fatalf("duplicate language %q", item.Name)
		}
		seen[item.Name] = true
		if index > 0 && items[index-1].Name >= item.Name {
			t.Fatalf("list not sorted at %q", item.Name)
		}
	}
}
