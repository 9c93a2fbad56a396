package language

import (
	"path/filepath"
	"sort"
	"strings"
)

// Replacement 记录一次“自定义语言覆盖内置语言”事件。
// 运行层据此输出一行提示。
type Replacement struct {
	Extension string
	OldName   string
	NewName   string
}

// Registry 管理语言注册与后缀映射。
// 构造完成后不可变，可被全部 worker 并发共享。
type Registry struct {
	languages []Language
	byExt     map[string]int
}

// NewRegistry 创建并注册全部内置语言。
func NewRegistry() *Registry {
	registry := &Registry{
		byExt: make(map[string]int),
	}
	for _, item := range builtinLanguages() {
		registry.register(item)
	}
	return registry
}

// register 登记一种语言，返回被覆盖的后缀记录。
func (r *Registry) register(lang Language) []Replacement {
	var replaced []Replacement

	index := len(r.languages)
	r.languages = append(r.languages, lang)

	for _, ext := range lang.Extensions {
		key := normalizeExtension(ext)
		if previous, ok := r.byExt[key]; ok && r.languages[previous].Name != lang.Name {
			replaced = append(replaced, Replacement{
				Extension: key,
				OldName:   r.languages[previous].Name,
				NewName:   lang.Name,
			})
		}
		r.byExt[key] = index
	}

	return replaced
}

// Register 注册用户自定义语言。
// 后缀与内置语言冲突时，自定义条目获胜，并返回覆盖清单。
func (r *Registry) Register(lang Language) []Replacement {
	return r.register(lang)
}

// ByExtension 根据后缀查找语言，后缀大小写不敏感、可带点号。
func (r *Registry) ByExtension(ext string) (*Language, bool) {
	index, ok := r.byExt[normalizeExtension(ext)]
	if !ok {
		return nil, false
	}
	return &r.languages[index], true
}

// ByPath 根据文件路径后缀查找语言。
func (r *Registry) ByPath(path string) (*Language, bool) {
	return r.ByExtension(filepath.Ext(path))
}

// Languages 返回按名称排序的已注册语言清单。
// 后注册的同名条目覆盖先注册的展示项。
func (r *Registry) Languages() []Language {
	byName := make(map[string]Language)
	for _, item := range r.languages {
		byName[item.Name] = item
	}

	result := make([]Language, 0, len(byName))
	for _, item := range byName {
		extensions := append([]string(nil), item.Extensions...)
		sort.Strings(extensions)
		item.Extensions = extensions
		result = append(result, item)
	}

	sort.Slice(result, func(i int, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// normalizeExtension 统一后缀形式：小写、不含点号。
func normalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
