package structure

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"slocguard/internal/errs"
	"slocguard/internal/model"
	"slocguard/internal/rules"
	"slocguard/internal/scanner"
)

// Violation 是一条结构违规，IsWarning 为 true 时只是接近限制的预警。
type Violation struct {
	Path        string
	Type        model.Kind
	Actual      int
	Limit       int
	IsWarning   bool
	Reason      string
	RulePattern string
	// Detail 携带触发细节（命中的 deny 模式、期望的命名正则或伴生模板）。
	Detail string
}

// Checker 是编译后的结构检查器，构造后不可变。
type Checker struct {
	globals   Globals
	rules     []Rule
	overrides []Override
	naming    []*regexp.Regexp
	now       func() time.Time
}

// NewChecker 校验并编译结构规则。
func NewChecker(globals Globals, ruleList []Rule, overrides []Override) (*Checker, error) {
	if err := validateLimit(globals.MaxFiles, "structure.max_files"); err != nil {
		return nil, err
	}
	if err := validateLimit(globals.MaxDirs, "structure.max_dirs"); err != nil {
		return nil, err
	}
	if err := validateLimit(globals.MaxDepth, "structure.max_depth"); err != nil {
		return nil, err
	}
	if globals.WarnThreshold != nil && (*globals.WarnThreshold < 0 || *globals.WarnThreshold > 1) {
		return nil, errs.Rule("warn_threshold out of range [0,1]",
			fmt.Sprintf("structure.warn_threshold = %v", *globals.WarnThreshold))
	}

	naming := make([]*regexp.Regexp, len(ruleList))
	for index, rule := range ruleList {
		source := fmt.Sprintf("structure.rules[%d]", index)
		if !doublestar.ValidatePattern(rule.Scope) {
			return nil, errs.Rule("invalid glob pattern", fmt.Sprintf("%s: %q", source, rule.Scope))
		}
		if err := validateLimit(rule.MaxFiles, source); err != nil {
			return nil, err
		}
		if err := validateLimit(rule.MaxDirs, source); err != nil {
			return nil, err
		}
		if err := validateLimit(rule.MaxDepth, source); err != nil {
			return nil, err
		}
		if rule.WarnThreshold != nil && (*rule.WarnThreshold < 0 || *rule.WarnThreshold > 1) {
			return nil, errs.Rule("warn_threshold out of range [0,1]",
				fmt.Sprintf("%s = %v", source, *rule.WarnThreshold))
		}
		if rule.FileNamingPattern != "" {
			compiled, err := regexp.Compile(rule.FileNamingPattern)
			if err != nil {
				return nil, errs.Rule("invalid naming regex",
					fmt.Sprintf("%s: %q: %v", source, rule.FileNamingPattern, err))
			}
			naming[index] = compiled
		}
	}

	for index, override := range overrides {
		source := fmt.Sprintf("structure.overrides[%d]", index)
		if err := validateLimit(override.MaxFiles, source); err != nil {
			return nil, err
		}
		if err := validateLimit(override.MaxDirs, source); err != nil {
			return nil, err
		}
		if err := validateLimit(override.MaxDepth, source); err != nil {
			return nil, err
		}
	}

	return &Checker{
		globals:   globals,
		rules:     ruleList,
		overrides: overrides,
		naming:    naming,
		now:       time.Now,
	}, nil
}

// Enabled 判断结构检查是否启用。
// 任一全局限制或任一规则/豁免存在即启用。
func (c *Checker) Enabled() bool {
	return c.globals.MaxFiles != nil || c.globals.MaxDirs != nil || c.globals.MaxDepth != nil ||
		len(c.rules) > 0 || len(c.overrides) > 0
}

// Check 对全部目录求值，返回按 (路径, 类型) 稳定排序的违规列表。
func (c *Checker) Check(dirs map[string]*scanner.DirInfo) []Violation {
	var violations []Violation

	for path, info := range dirs {
		violations = append(violations, c.checkDir(path, info)...)
	}

	sort.Slice(violations, func(i int, j int) bool {
		if violations[i].Path != violations[j].Path {
			return violations[i].Path < violations[j].Path
		}
		return violations[i].Type < violations[j].Type
	})

	return violations
}

// effective 是对某个目录解析出的生效限制。
type effective struct {
	maxFiles int
	maxDirs  int
	maxDepth int
	depth    int

	warnThreshold *float64
	warnFilesAt   *int
	warnDirsAt    *int

	reason      string
	rulePattern string
	// rule 是胜出的规则（若有），allow/deny/naming/sibling 列表取自于它。
	rule      *Rule
	ruleIndex int
}

// resolve 按 override > 规则（后声明者胜出）> 全局 的顺序得到生效限制。
func (c *Checker) resolve(path string, depth int) effective {
	normalized := rules.NormalizePath(path)

	eff := effective{
		maxFiles:      limitOf(c.globals.MaxFiles),
		maxDirs:       limitOf(c.globals.MaxDirs),
		maxDepth:      limitOf(c.globals.MaxDepth),
		depth:         depth,
		warnThreshold: c.globals.WarnThreshold,
		ruleIndex:     -1,
	}

	// 规则列表后声明者胜出，字段级回退到全局。
	for index := range c.rules {
		rule := &c.rules[index]
		if c.expired(rule.Expires) {
			continue
		}
		if !scopeMatch(rule.Scope, normalized) {
			continue
		}
		eff.rule = rule
		eff.ruleIndex = index
	}

	if eff.rule != nil {
		rule := eff.rule
		eff.rulePattern = rule.Scope
		eff.reason = rule.Reason
		if rule.MaxFiles != nil {
			eff.maxFiles = *rule.MaxFiles
		}
		if rule.MaxDirs != nil {
			eff.maxDirs = *rule.MaxDirs
		}
		if rule.MaxDepth != nil {
			eff.maxDepth = *rule.MaxDepth
		}
		if rule.WarnThreshold != nil {
			eff.warnThreshold = rule.WarnThreshold
		}
		eff.warnFilesAt = rule.WarnFilesAt
		eff.warnDirsAt = rule.WarnDirsAt

		// 相对深度从模式基准目录起算。
		if rule.RelativeDepth {
			eff.depth = depth - patternBaseDepth(rule.Scope)
			if eff.depth < 0 {
				eff.depth = 0
			}
		}
	}

	// override 按整组件后缀匹配，压制规则与全局的计数字段。
	for _, override := range c.overrides {
		if !rules.SuffixMatch(normalized, rules.NormalizePath(override.Path)) {
			continue
		}
		if override.MaxFiles != nil {
			eff.maxFiles = *override.MaxFiles
		}
		if override.MaxDirs != nil {
			eff.maxDirs = *override.MaxDirs
		}
		if override.MaxDepth != nil {
			eff.maxDepth = *override.MaxDepth
		}
		if override.Reason != "" {
			eff.reason = override.Reason
		}
		break
	}

	return eff
}

// checkDir 对单个目录执行全部结构检查。
func (c *Checker) checkDir(path string, info *scanner.DirInfo) []Violation {
	eff := c.resolve(path, info.Stats.Depth)
	var violations []Violation

	violations = append(violations,
		c.countCheck(path, model.KindFileCount, info.Stats.FileCount, eff.maxFiles, eff.warnFilesAt, eff, "")...)
	violations = append(violations,
		c.countCheck(path, model.KindDirCount, info.Stats.DirCount, eff.maxDirs, eff.warnDirsAt, eff, "")...)

	if eff.maxDepth != Unlimited && eff.depth > eff.maxDepth {
		violations = append(violations, Violation{
			Path:        path,
			Type:        model.KindMaxDepth,
			Actual:      eff.depth,
			Limit:       eff.maxDepth,
			Reason:      eff.reason,
			RulePattern: eff.rulePattern,
		})
	}

	if eff.rule != nil {
		violations = append(violations, c.listChecks(path, info, eff)...)
	}

	return violations
}

// countCheck 执行单个计数限制检查，hard 限制未超时再评估预警。
func (c *Checker) countCheck(path string, kind model.Kind, actual int, limit int, warnAt *int, eff effective, detail string) []Violation {
	if limit != Unlimited && actual > limit {
		return []Violation{{
			Path:        path,
			Type:        kind,
			Actual:      actual,
			Limit:       limit,
			Reason:      eff.reason,
			RulePattern: eff.rulePattern,
			Detail:      detail,
		}}
	}

	warn := false
	if warnAt != nil && actual >= *warnAt {
		warn = true
	}
	if !warn && eff.warnThreshold != nil && limit > 0 &&
		float64(actual) >= float64(limit)**eff.warnThreshold {
		warn = true
	}
	if warn {
		return []Violation{{
			Path:        path,
			Type:        kind,
			Actual:      actual,
			Limit:       limit,
			IsWarning:   true,
			Reason:      eff.reason,
			RulePattern: eff.rulePattern,
			Detail:      detail,
		}}
	}

	return nil
}

// listChecks 执行允许清单、命名约定、deny 清单和伴生文件检查。
func (c *Checker) listChecks(path string, info *scanner.DirInfo, eff effective) []Violation {
	rule := eff.rule
	var violations []Violation

	hasAllow := len(rule.AllowExtensions) > 0 || len(rule.AllowPatterns) > 0 || len(rule.AllowFiles) > 0

	for _, name := range info.Files {
		child := path + "/" + name

		if hasAllow && !allowed(rule, name) {
			violations = append(violations, Violation{
				Path:        child,
				Type:        model.KindDisallowedFile,
				Actual:      1,
				Reason:      eff.reason,
				RulePattern: rule.Scope,
			})
		}

		if matcher := c.naming[eff.ruleIndex]; matcher != nil && !matcher.MatchString(name) {
			violations = append(violations, Violation{
				Path:        child,
				Type:        model.KindNaming,
				Actual:      1,
				Reason:      eff.reason,
				RulePattern: rule.Scope,
				Detail:      rule.FileNamingPattern,
			})
		}

		if pattern, denied := fileDeniedByRule(rule, name); denied {
			violations = append(violations, Violation{
				Path:        child,
				Type:        model.KindDeniedFile,
				Actual:      1,
				Reason:      eff.reason,
				RulePattern: rule.Scope,
				Detail:      pattern,
			})
		}

		if rule.RequireSibling != nil {
			if missing, expected := siblingMissing(rule.RequireSibling, name, info.Files); missing {
				violations = append(violations, Violation{
					Path:        child,
					Type:        model.KindMissingSibling,
					Actual:      1,
					Limit:       1,
					Reason:      eff.reason,
					RulePattern: rule.Scope,
					Detail:      expected,
				})
			}
		}
	}

	for _, name := range info.Dirs {
		child := path + "/" + name

		if len(rule.AllowDirs) > 0 && !nameMatchesAny(rule.AllowDirs, name) {
			violations = append(violations, Violation{
				Path:        child,
				Type:        model.KindDisallowedFile,
				Actual:      1,
				Reason:      eff.reason,
				RulePattern: rule.Scope,
			})
		}

		if nameMatchesAny(rule.DenyDirs, name) {
			violations = append(violations, Violation{
				Path:        child,
				Type:        model.KindDeniedDir,
				Actual:      1,
				Reason:      eff.reason,
				RulePattern: rule.Scope,
			})
		}
	}

	return violations
}

// allowed 判断文件名是否命中任一允许条件。
func allowed(rule *Rule, name string) bool {
	ext := filepath.Ext(name)
	for _, allowedExt := range rule.AllowExtensions {
		if strings.EqualFold(allowedExt, ext) || strings.EqualFold(allowedExt, strings.TrimPrefix(ext, ".")) {
			return true
		}
	}
	if nameMatchesAny(rule.AllowPatterns, name) {
		return true
	}
	for _, allowedFile := range rule.AllowFiles {
		if allowedFile == name {
			return true
		}
	}
	return false
}

// fileDeniedByRule 判断文件名是否命中规则级 deny 清单。
func fileDeniedByRule(rule *Rule, name string) (string, bool) {
	ext := filepath.Ext(name)
	if ext != "" {
		for _, denied := range rule.DenyExtensions {
			if strings.EqualFold(denied, ext) || strings.EqualFold(denied, strings.TrimPrefix(ext, ".")) {
				return denied, true
			}
		}
	}
	for _, pattern := range rule.DenyFiles {
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return pattern, true
		}
	}
	for _, pattern := range rule.DenyPatterns {
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return pattern, true
		}
	}
	return "", false
}

// siblingMissing 判断伴生文件是否缺失，返回期望的文件名。
func siblingMissing(sibling *SiblingRule, name string, files []string) (bool, string) {
	if ok, err := doublestar.Match(sibling.Pattern, name); err != nil || !ok {
		return false, ""
	}

	stem := strings.TrimSuffix(name, filepath.Ext(name))
	expected := strings.ReplaceAll(sibling.Template, "{stem}", stem)

	// 文件自身就是期望产物时视为满足，避免模板自引用循环。
	if expected == name {
		return false, ""
	}

	for _, candidate := range files {
		if candidate == expected {
			return false, ""
		}
	}
	return true, expected
}

// nameMatchesAny 判断名字是否命中任一 glob。
func nameMatchesAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

// scopeMatch 判断目录路径是否命中规则作用域。
func scopeMatch(scope string, normalized string) bool {
	if ok, err := doublestar.Match(scope, normalized); err == nil && ok {
		return true
	}
	// 作用域不含通配符时退化为整组件后缀匹配。
	if !strings.ContainsAny(scope, "*?[{") {
		return rules.SuffixMatch(normalized, rules.NormalizePath(scope))
	}
	return false
}

// patternBaseDepth 计算模式基准目录深度：第一个通配符之前的组件数。
func patternBaseDepth(scope string) int {
	depth := 0
	for _, component := range strings.Split(rules.NormalizePath(scope), "/") {
		if strings.ContainsAny(component, "*?[{") {
			break
		}
		depth++
	}
	return depth
}

// limitOf 把可选限制折算为具体值，nil 视为无限制。
func limitOf(value *int) int {
	if value == nil {
		return Unlimited
	}
	return *value
}

// expired 判断 expires 日期是否已过。
func (c *Checker) expired(expires string) bool {
	if expires == "" {
		return false
	}
	deadline, err := time.Parse("2006-01-02", expires)
	if err != nil {
		return false
	}
	return c.now().After(deadline.Add(24 * time.Hour))
}

// validateLimit 校验限制值：-1 哨兵或非负数。
func validateLimit(value *int, source string) error {
	if value != nil && *value < Unlimited {
		return errs.Rule("negative limit (only -1 sentinel allowed)",
			fmt.Sprintf("%s = %d", source, *value))
	}
	return nil
}
