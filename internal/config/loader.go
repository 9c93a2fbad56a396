package config

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"slocguard/internal/errs"
)

// maxExtendsDepth 限制 extends 链长度，防御配置互相引用。
const maxExtendsDepth = 8

// remoteTimeout 是拉取远程配置的超时。
const remoteTimeout = 10 * time.Second

// maxRemoteSize 限制远程配置体积。
const maxRemoteSize = 1 << 20

// Load 加载配置文件并解析完整 extends 链，
// 返回已叠加在内置默认值之上的最终配置。
func Load(path string) (*Config, error) {
	absolute, err := filepath.Abs(path)
	if err != nil {
		return nil, errs.IO(path, err)
	}

	visited := map[string]bool{absolute: true}
	user, err := loadFile(absolute, visited, 0)
	if err != nil {
		return nil, err
	}

	final := Default()
	mergeInto(final, user)
	return final, nil
}

// LoadText 从 TOML 文本加载配置，extends 相对路径以 baseDir 为基准。
// init 与测试使用。
func LoadText(text string, baseDir string) (*Config, error) {
	user, err := resolveChain(text, baseDir, "<inline>", map[string]bool{}, 0)
	if err != nil {
		return nil, err
	}
	final := Default()
	mergeInto(final, user)
	return final, nil
}

// loadFile 读取单个配置文件并解析其 extends 链。
func loadFile(path string, visited map[string]bool, depth int) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.IO(path, err)
	}
	return resolveChain(string(content), filepath.Dir(path), path, visited, depth)
}

// resolveChain 解码一段 TOML 并递归合并其 extends 来源。
func resolveChain(text string, baseDir string, origin string, visited map[string]bool, depth int) (*Config, error) {
	child, err := decode(text, origin)
	if err != nil {
		return nil, err
	}
	if child.Extends == "" {
		return child, nil
	}

	if depth+1 > maxExtendsDepth {
		return nil, errs.Config(
			"extends chain too deep",
			fmt.Sprintf("%s exceeds the limit of %d links", origin, maxExtendsDepth),
			"flatten the configuration hierarchy",
		)
	}

	parent, err := loadExtends(child.Extends, baseDir, origin, visited, depth+1)
	if err != nil {
		return nil, err
	}

	merged := parent
	mergeInto(merged, child)
	merged.Extends = ""
	return merged, nil
}

// loadExtends 按来源类型加载 extends 目标：预设名、HTTPS 地址或相对路径。
func loadExtends(target string, baseDir string, origin string, visited map[string]bool, depth int) (*Config, error) {
	if text, ok := Preset(target); ok {
		key := "preset:" + target
		if visited[key] {
			return nil, extendsCycle(origin, target)
		}
		visited[key] = true
		return resolveChain(text, baseDir, key, visited, depth)
	}

	if strings.Contains(target, "://") {
		if visited[target] {
			return nil, extendsCycle(origin, target)
		}
		visited[target] = true
		text, err := fetchRemote(target)
		if err != nil {
			return nil, err
		}
		// 远程配置自身只允许继续 extends 预设或绝对地址。
		return resolveChain(text, "", target, visited, depth)
	}

	if baseDir == "" {
		return nil, errs.Config(
			"relative extends from a remote configuration",
			fmt.Sprintf("%s extends %q", origin, target),
			"remote configurations may only extend presets or absolute URLs",
		)
	}

	resolved := filepath.Join(baseDir, filepath.FromSlash(target))
	absolute, err := filepath.Abs(resolved)
	if err != nil {
		return nil, errs.IO(resolved, err)
	}
	if visited[absolute] {
		return nil, extendsCycle(origin, target)
	}
	visited[absolute] = true
	return loadFile(absolute, visited, depth)
}

// decode 解码 TOML 文本，未知键与版本不符都视为配置错误。
func decode(text string, origin string) (*Config, error) {
	var cfg Config
	meta, err := toml.Decode(text, &cfg)
	if err != nil {
		return nil, errs.Config(
			fmt.Sprintf("parse %s", origin),
			err.Error(),
			"check the TOML syntax",
		)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return nil, errs.Config(
			fmt.Sprintf("unknown configuration key in %s", origin),
			strings.Join(keys, ", "),
			"check spelling against the documented schema",
		)
	}

	if cfg.Version != "" && cfg.Version != CurrentVersion {
		return nil, errs.Config(
			fmt.Sprintf("unsupported configuration version in %s", origin),
			fmt.Sprintf("version = %q, this build reads version %q", cfg.Version, CurrentVersion),
			"migrate the file or upgrade the tool",
		)
	}

	return &cfg, nil
}

// fetchRemote 拉取远程配置，仅接受 HTTPS。
func fetchRemote(target string) (string, error) {
	parsed, err := url.Parse(target)
	if err != nil || parsed.Scheme != "https" {
		return "", errs.Remote(target, fmt.Errorf("only https URLs are accepted"))
	}

	client := &http.Client{Timeout: remoteTimeout}
	response, err := client.Get(target)
	if err != nil {
		return "", errs.Remote(target, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return "", errs.Remote(target, fmt.Errorf("unexpected status %s", response.Status))
	}

	body, err := io.ReadAll(io.LimitReader(response.Body, maxRemoteSize))
	if err != nil {
		return "", errs.Remote(target, err)
	}
	return string(body), nil
}

// extendsCycle 构造循环引用错误。
func extendsCycle(origin string, target string) error {
	return errs.Config(
		"extends cycle detected",
		fmt.Sprintf("%s extends %q, which is already on the chain", origin, target),
		"remove the circular reference",
	)
}

// mergeInto 把 src 中显式设置的字段叠加到 dst。
// 标量与数组整体替换，languages 表按语言名逐项覆盖。
func mergeInto(dst *Config, src *Config) {
	if src.Version != "" {
		dst.Version = src.Version
	}

	if src.Scanner.Exclude != nil {
		dst.Scanner.Exclude = src.Scanner.Exclude
	}
	if src.Scanner.Gitignore != nil {
		dst.Scanner.Gitignore = src.Scanner.Gitignore
	}
	if src.Scanner.IncludePaths != nil {
		dst.Scanner.IncludePaths = src.Scanner.IncludePaths
	}

	if src.Content.MaxLines != nil {
		dst.Content.MaxLines = src.Content.MaxLines
	}
	if src.Content.Extensions != nil {
		dst.Content.Extensions = src.Content.Extensions
	}
	if src.Content.Exclude != nil {
		dst.Content.Exclude = src.Content.Exclude
	}
	if src.Content.SkipComments != nil {
		dst.Content.SkipComments = src.Content.SkipComments
	}
	if src.Content.SkipBlank != nil {
		dst.Content.SkipBlank = src.Content.SkipBlank
	}
	if src.Content.WarnThreshold != nil {
		dst.Content.WarnThreshold = src.Content.WarnThreshold
	}
	if len(src.Content.Rules) > 0 {
		dst.Content.Rules = src.Content.Rules
	}
	if len(src.Content.Overrides) > 0 {
		dst.Content.Overrides = src.Content.Overrides
	}

	if src.Structure.MaxFiles != nil {
		dst.Structure.MaxFiles = src.Structure.MaxFiles
	}
	if src.Structure.MaxDirs != nil {
		dst.Structure.MaxDirs = src.Structure.MaxDirs
	}
	if src.Structure.MaxDepth != nil {
		dst.Structure.MaxDepth = src.Structure.MaxDepth
	}
	if src.Structure.WarnThreshold != nil {
		dst.Structure.WarnThreshold = src.Structure.WarnThreshold
	}
	if len(src.Structure.DenyExtensions) > 0 {
		dst.Structure.DenyExtensions = src.Structure.DenyExtensions
	}
	if len(src.Structure.DenyPatterns) > 0 {
		dst.Structure.DenyPatterns = src.Structure.DenyPatterns
	}
	if len(src.Structure.DenyFiles) > 0 {
		dst.Structure.DenyFiles = src.Structure.DenyFiles
	}
	if len(src.Structure.Rules) > 0 {
		dst.Structure.Rules = src.Structure.Rules
	}
	if len(src.Structure.Overrides) > 0 {
		dst.Structure.Overrides = src.Structure.Overrides
	}

	if src.Baseline.Path != "" {
		dst.Baseline.Path = src.Baseline.Path
	}
	if src.Baseline.Mode != "" {
		dst.Baseline.Mode = src.Baseline.Mode
	}

	if src.Trend.Enabled {
		dst.Trend.Enabled = true
	}
	if src.Trend.HistoryLimit != 0 {
		dst.Trend.HistoryLimit = src.Trend.HistoryLimit
	}

	if src.Stats.Report.TopFiles != 0 {
		dst.Stats.Report.TopFiles = src.Stats.Report.TopFiles
	}

	if len(src.Languages) > 0 {
		if dst.Languages == nil {
			dst.Languages = make(map[string]LanguageConfig, len(src.Languages))
		}
		for name, lang := range src.Languages {
			dst.Languages[name] = lang
		}
	}
}
