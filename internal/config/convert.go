package config

import (
	"fmt"
	"sort"

	"slocguard/internal/errs"
	"slocguard/internal/language"
	"slocguard/internal/rules"
	"slocguard/internal/scanner"
	"slocguard/internal/structure"
)

// ContentGlobals 导出内容检查全局默认值。
// 调用前配置必须已叠加默认值，指针字段不会为 nil。
func (c *Config) ContentGlobals() rules.Globals {
	globals := rules.Globals{
		MaxLines:      *c.Content.MaxLines,
		WarnThreshold: *c.Content.WarnThreshold,
		SkipComments:  *c.Content.SkipComments,
		SkipBlank:     *c.Content.SkipBlank,
	}
	if c.Content.Extensions != nil {
		globals.Extensions = *c.Content.Extensions
	}
	if c.Content.Exclude != nil {
		globals.Exclude = *c.Content.Exclude
	}
	return globals
}

// ContentRules 导出内容规则列表。
func (c *Config) ContentRules() []rules.Rule {
	list := make([]rules.Rule, 0, len(c.Content.Rules))
	for _, rule := range c.Content.Rules {
		list = append(list, rules.Rule{
			Pattern:       rule.Pattern,
			MaxLines:      rule.MaxLines,
			WarnThreshold: rule.WarnThreshold,
			SkipComments:  rule.SkipComments,
			SkipBlank:     rule.SkipBlank,
			Reason:        rule.Reason,
			Expires:       rule.Expires,
		})
	}
	return list
}

// ContentOverrides 导出内容豁免列表。
func (c *Config) ContentOverrides() []rules.Override {
	list := make([]rules.Override, 0, len(c.Content.Overrides))
	for _, override := range c.Content.Overrides {
		list = append(list, rules.Override{
			Path:     override.Path,
			MaxLines: override.MaxLines,
			Reason:   override.Reason,
			Expires:  override.Expires,
		})
	}
	return list
}

// ContentResolver 编译内容规则解析器。
func (c *Config) ContentResolver() (*rules.Resolver, error) {
	return rules.NewResolver(c.ContentGlobals(), c.ContentRules(), c.ContentOverrides())
}

// StructureChecker 编译结构检查器。
func (c *Config) StructureChecker() (*structure.Checker, error) {
	globals := structure.Globals{
		MaxFiles:      c.Structure.MaxFiles,
		MaxDirs:       c.Structure.MaxDirs,
		MaxDepth:      c.Structure.MaxDepth,
		WarnThreshold: c.Structure.WarnThreshold,
	}

	ruleList := make([]structure.Rule, 0, len(c.Structure.Rules))
	for _, rule := range c.Structure.Rules {
		converted := structure.Rule{
			Scope:             rule.Scope,
			MaxFiles:          rule.MaxFiles,
			MaxDirs:           rule.MaxDirs,
			MaxDepth:          rule.MaxDepth,
			RelativeDepth:     rule.RelativeDepth,
			AllowExtensions:   rule.AllowExtensions,
			AllowPatterns:     rule.AllowPatterns,
			AllowFiles:        rule.AllowFiles,
			AllowDirs:         rule.AllowDirs,
			FileNamingPattern: rule.FileNamingPattern,
			DenyExtensions:    rule.DenyExtensions,
			DenyPatterns:      rule.DenyPatterns,
			DenyFiles:         rule.DenyFiles,
			DenyDirs:          rule.DenyDirs,
			WarnThreshold:     rule.WarnThreshold,
			WarnFilesAt:       rule.WarnFilesAt,
			WarnDirsAt:        rule.WarnDirsAt,
			Reason:            rule.Reason,
			Expires:           rule.Expires,
		}
		if rule.RequireSibling != nil {
			converted.RequireSibling = &structure.SiblingRule{
				Pattern:  rule.RequireSibling.Pattern,
				Template: rule.RequireSibling.Template,
			}
		}
		ruleList = append(ruleList, converted)
	}

	overrides := make([]structure.Override, 0, len(c.Structure.Overrides))
	for _, override := range c.Structure.Overrides {
		overrides = append(overrides, structure.Override{
			Path:     override.Path,
			MaxFiles: override.MaxFiles,
			MaxDirs:  override.MaxDirs,
			MaxDepth: override.MaxDepth,
			Reason:   override.Reason,
		})
	}

	return structure.NewChecker(globals, ruleList, overrides)
}

// ScannerOptions 导出扫描参数，ContentFilter 由调用方注入。
func (c *Config) ScannerOptions() scanner.Options {
	options := scanner.Options{
		Deny: scanner.DenyRules{
			Extensions: c.Structure.DenyExtensions,
			Patterns:   c.Structure.DenyPatterns,
			Files:      c.Structure.DenyFiles,
		},
	}
	if c.Scanner.Exclude != nil {
		options.Exclude = *c.Scanner.Exclude
	}
	if c.Scanner.Gitignore != nil {
		options.UseGitignore = *c.Scanner.Gitignore
	}
	if c.Scanner.IncludePaths != nil {
		options.Roots = *c.Scanner.IncludePaths
	}
	return options
}

// LanguageRegistry 构建语言注册中心：内置语言加用户自定义语言。
// 返回的替换记录描述哪些后缀被自定义语言接管。
func (c *Config) LanguageRegistry() (*language.Registry, []language.Replacement, error) {
	registry := language.NewRegistry()

	names := make([]string, 0, len(c.Languages))
	for name := range c.Languages {
		names = append(names, name)
	}
	sort.Strings(names)

	var replaced []language.Replacement
	for _, name := range names {
		lang, err := customLanguage(name, c.Languages[name])
		if err != nil {
			return nil, nil, err
		}
		replaced = append(replaced, registry.Register(lang)...)
	}
	return registry, replaced, nil
}

// customLanguage 把配置条目转换为语言定义。
func customLanguage(name string, cfg LanguageConfig) (language.Language, error) {
	if len(cfg.Extensions) == 0 {
		return language.Language{}, errs.Config(
			fmt.Sprintf("language %q has no extensions", name),
			"",
			"list at least one extension, e.g. extensions = [\"zig\"]",
		)
	}

	var single language.SingleQuoteMode
	switch cfg.SingleQuote {
	case "", "none":
		single = language.SingleQuoteNone
	case "string":
		single = language.SingleQuoteString
	case "char":
		single = language.SingleQuoteChar
	default:
		return language.Language{}, errs.Config(
			fmt.Sprintf("language %q has invalid single_quote %q", name, cfg.SingleQuote),
			"",
			"use one of: none, string, char",
		)
	}

	blocks := make([]language.BlockMarker, 0, len(cfg.Blocks))
	for _, block := range cfg.Blocks {
		if block.Start == "" || block.End == "" {
			return language.Language{}, errs.Config(
				fmt.Sprintf("language %q has an empty block delimiter", name),
				"",
				"both start and end must be non-empty",
			)
		}
		blocks = append(blocks, language.BlockMarker{
			Start:       block.Start,
			End:         block.End,
			Nested:      block.Nested,
			AtLineStart: block.AtLineStart,
		})
	}

	return language.Language{
		Name:       name,
		Extensions: cfg.Extensions,
		Syntax: language.CommentSyntax{
			LineMarkers:  cfg.LineComments,
			BlockMarkers: blocks,
			DoubleQuote:  cfg.DoubleQuote,
			SingleQuote:  single,
			RawStrings:   cfg.RawStrings,
			Backtick:     cfg.Backtick,
		},
	}, nil
}

// Validate 逐个编译各子系统，返回第一处配置问题。
// config validate 命令与检查入口共用这条路径。
func (c *Config) Validate() error {
	if c.Baseline.Mode != "" {
		valid := map[string]bool{"off": true, "warn": true, "auto": true, "strict": true}
		if !valid[c.Baseline.Mode] {
			return errs.Config(
				fmt.Sprintf("invalid baseline mode %q", c.Baseline.Mode),
				"",
				"use one of: off, warn, auto, strict",
			)
		}
	}

	if _, err := c.ContentResolver(); err != nil {
		return err
	}
	if _, err := c.StructureChecker(); err != nil {
		return err
	}
	if _, _, err := c.LanguageRegistry(); err != nil {
		return err
	}
	return nil
}
