// Package rules 实现内容限制的分层规则解析。
// 优先级自高到低：显式路径 override、规则列表（后声明者胜出）、全局默认。
package rules

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"slocguard/internal/errs"
)

// expiresLayout 是 expires 字段的日期格式。
const expiresLayout = "2006-01-02"

// Rule 是一条 glob 内容规则，未设置的字段继承全局默认。
type Rule struct {
	Pattern       string
	MaxLines      *int
	WarnThreshold *float64
	SkipComments  *bool
	SkipBlank     *bool
	Reason        string
	// Expires 形如 2026-01-02，过期后规则不再参与匹配。
	Expires string
}

// Override 是一条显式路径豁免，永远携带人类可读的理由。
type Override struct {
	Path     string
	MaxLines int
	Reason   string
	Expires  string
}

// Globals 是内容检查的全局默认值。
type Globals struct {
	MaxLines      int
	WarnThreshold float64
	SkipComments  bool
	SkipBlank     bool
	// Extensions 是内容检查的后缀允许清单（小写、无点号）。
	Extensions []string
	// Exclude 命中的文件永不进入内容检查。
	Exclude []string
}

// Limits 是对某个路径解析出的生效限制。
type Limits struct {
	MaxLines       int
	WarnThreshold  float64
	SkipComments   bool
	SkipBlank      bool
	OverrideReason string
	// Source 标注胜出来源，供 explain 输出（default / rule[i] / override[i]）。
	Source string
}

// Resolver 是编译后的内容规则解析器，构造后不可变。
type Resolver struct {
	globals    Globals
	rules      []Rule
	overrides  []Override
	extensions map[string]struct{}
	now        func() time.Time
}

// NewResolver 校验并编译规则。
// glob 语法错误与阈值越界在此处一次性暴露。
func NewResolver(globals Globals, ruleList []Rule, overrides []Override) (*Resolver, error) {
	if err := validateThreshold(globals.WarnThreshold, "content.warn_threshold"); err != nil {
		return nil, err
	}
	if globals.MaxLines < 0 {
		return nil, errs.Rule("negative max_lines", fmt.Sprintf("content.max_lines = %d", globals.MaxLines))
	}

	for index, rule := range ruleList {
		source := fmt.Sprintf("content.rules[%d]", index)
		if !doublestar.ValidatePattern(rule.Pattern) {
			return nil, errs.Rule("invalid glob pattern", fmt.Sprintf("%s: %q", source, rule.Pattern))
		}
		if rule.WarnThreshold != nil {
			if err := validateThreshold(*rule.WarnThreshold, source); err != nil {
				return nil, err
			}
		}
		if rule.MaxLines != nil && *rule.MaxLines < 0 {
			return nil, errs.Rule("negative max_lines", fmt.Sprintf("%s: %d", source, *rule.MaxLines))
		}
		if err := validateExpires(rule.Expires, source); err != nil {
			return nil, err
		}
	}

	for index, override := range overrides {
		source := fmt.Sprintf("content.overrides[%d]", index)
		if override.MaxLines < 0 {
			return nil, errs.Rule("negative max_lines", fmt.Sprintf("%s: %d", source, override.MaxLines))
		}
		if err := validateExpires(override.Expires, source); err != nil {
			return nil, err
		}
	}

	for _, pattern := range globals.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errs.Rule("invalid glob pattern", fmt.Sprintf("content.exclude: %q", pattern))
		}
	}

	extensions := make(map[string]struct{}, len(globals.Extensions))
	for _, ext := range globals.Extensions {
		extensions[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}

	return &Resolver{
		globals:    globals,
		rules:      ruleList,
		overrides:  overrides,
		extensions: extensions,
		now:        time.Now,
	}, nil
}

// Resolve 返回路径的生效限制，任何路径都恰好有一个结果。
func (r *Resolver) Resolve(path string) Limits {
	normalized := NormalizePath(path)

	if index, ok := r.matchOverride(normalized); ok {
		override := r.overrides[index]
		return Limits{
			MaxLines:       override.MaxLines,
			WarnThreshold:  r.globals.WarnThreshold,
			SkipComments:   r.globals.SkipComments,
			SkipBlank:      r.globals.SkipBlank,
			OverrideReason: override.Reason,
			Source:         fmt.Sprintf("content.overrides[%d]", index),
		}
	}

	if index, ok := r.matchRule(normalized); ok {
		rule := r.rules[index]
		limits := Limits{
			MaxLines:      r.globals.MaxLines,
			WarnThreshold: r.globals.WarnThreshold,
			SkipComments:  r.globals.SkipComments,
			SkipBlank:     r.globals.SkipBlank,
			Source:        fmt.Sprintf("content.rules[%d]", index),
		}
		if rule.MaxLines != nil {
			limits.MaxLines = *rule.MaxLines
		}
		if rule.WarnThreshold != nil {
			limits.WarnThreshold = *rule.WarnThreshold
		}
		if rule.SkipComments != nil {
			limits.SkipComments = *rule.SkipComments
		}
		if rule.SkipBlank != nil {
			limits.SkipBlank = *rule.SkipBlank
		}
		return limits
	}

	return Limits{
		MaxLines:      r.globals.MaxLines,
		WarnThreshold: r.globals.WarnThreshold,
		SkipComments:  r.globals.SkipComments,
		SkipBlank:     r.globals.SkipBlank,
		Source:        "default",
	}
}

// ShouldProcess 判断文件是否进入内容检查。
// content.exclude 永远优先；其余条件是后缀允许、规则命中或 override 命中三者任一。
func (r *Resolver) ShouldProcess(path string) bool {
	normalized := NormalizePath(path)

	if r.isExcluded(normalized) {
		return false
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(normalized), "."))
	if _, ok := r.extensions[ext]; ok {
		return true
	}
	if _, ok := r.matchRule(normalized); ok {
		return true
	}
	if _, ok := r.matchOverride(normalized); ok {
		return true
	}
	return false
}

// isExcluded 判断路径是否命中 content.exclude。
func (r *Resolver) isExcluded(normalized string) bool {
	for _, pattern := range r.globals.Exclude {
		if globMatch(pattern, normalized) {
			return true
		}
	}
	return false
}

// matchOverride 返回第一个命中的 override 下标。
// 匹配规则是整组件后缀：src/lib.rs 命中 any/prefix/src/lib.rs，
// 但不命中 src/my_lib.rs。
func (r *Resolver) matchOverride(normalized string) (int, bool) {
	for index, override := range r.overrides {
		if r.expired(override.Expires) {
			continue
		}
		if SuffixMatch(normalized, NormalizePath(override.Path)) {
			return index, true
		}
	}
	return 0, false
}

// matchRule 返回最后一个命中的规则下标（后声明者胜出）。
func (r *Resolver) matchRule(normalized string) (int, bool) {
	winner := -1
	for index, rule := range r.rules {
		if r.expired(rule.Expires) {
			continue
		}
		if globMatch(rule.Pattern, normalized) {
			winner = index
		}
	}
	if winner < 0 {
		return 0, false
	}
	return winner, true
}

// expired 判断 expires 日期是否已过。空串表示永不过期。
func (r *Resolver) expired(expires string) bool {
	if expires == "" {
		return false
	}
	deadline, err := time.Parse(expiresLayout, expires)
	if err != nil {
		return false
	}
	return r.now().After(deadline.Add(24 * time.Hour))
}

// NormalizePath 统一路径分隔符为正斜杠。
func NormalizePath(path string) string {
	return strings.ReplaceAll(filepath.ToSlash(path), "\\", "/")
}

// SuffixMatch 判断 path 是否以 suffix 的整组件结尾。
func SuffixMatch(path string, suffix string) bool {
	if path == suffix {
		return true
	}
	return strings.HasSuffix(path, "/"+suffix)
}

// globMatch 对展示路径与文件名分别尝试 glob 匹配。
// 文件名维度让 *.gen.go 这类模式符合直觉。
func globMatch(pattern string, normalized string) bool {
	if ok, err := doublestar.Match(pattern, normalized); err == nil && ok {
		return true
	}
	base := normalized
	if slash := strings.LastIndex(normalized, "/"); slash >= 0 {
		base = normalized[slash+1:]
	}
	if ok, err := doublestar.Match(pattern, base); err == nil && ok {
		return true
	}
	return false
}

// validateThreshold 校验警告阈值在 [0,1] 区间。
func validateThreshold(value float64, source string) error {
	if value < 0 || value > 1 {
		return errs.Rule("warn_threshold out of range [0,1]", fmt.Sprintf("%s = %v", source, value))
	}
	return nil
}

// validateExpires 校验 expires 日期格式。
func validateExpires(expires string, source string) error {
	if expires == "" {
		return nil
	}
	if _, err := time.Parse(expiresLayout, expires); err != nil {
		return errs.Rule("invalid expires date", fmt.Sprintf("%s: %q (want YYYY-MM-DD)", source, expires))
	}
	return nil
}
