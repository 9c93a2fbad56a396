// Package scanner 提供文件枚举与目录结构采集能力。
// 该层负责目录遍历、排除规则、gitignore 语义和每目录子项统计，
// 不负责内容解析细节。
package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"

	"slocguard/internal/model"
)

// File 表示一个待内容检查的文件。
type File struct {
	// Path 是斜杠化的展示路径，同时作为规则匹配与基线键。
	Path string
	// AbsPath 用于实际读取。
	AbsPath string
}

// DirInfo 表示单个目录的直接子项清单与统计。
type DirInfo struct {
	Stats model.DirStats
	// Files/Dirs 是直接子项的名字（不含路径前缀），被剪除的子项不在其中。
	Files []string
	Dirs  []string
}

// DeniedEntry 记录一个在遍历阶段被 deny 规则剪除的子项。
// 被剪除的子项既不进入内容检查，也不计入结构计数。
type DeniedEntry struct {
	Path    string
	Pattern string
	IsDir   bool
}

// DenyRules 是全局 deny 规则，在遍历时对子项剪枝。
type DenyRules struct {
	// Extensions 是 ".exe" 形式的禁止后缀。
	Extensions []string
	// Patterns 匹配文件名或全路径；以 "/" 结尾的模式仅匹配目录。
	Patterns []string
	// Files 仅按文件名匹配。
	Files []string
}

// Options 控制一次扫描。
type Options struct {
	Roots []string
	// Exclude 是用户排除 glob，匹配展示路径或文件名。
	Exclude []string
	// UseGitignore 为 true 时启用 .gitignore 语义（含嵌套文件与取反）。
	UseGitignore bool
	Deny         DenyRules
	// ContentFilter 决定文件是否进入内容检查队列，nil 表示全部进入。
	// 结构统计不受该过滤影响。
	ContentFilter func(path string) bool
}

// Result 是一次扫描的产物。
type Result struct {
	Files  []File
	Dirs   map[string]*DirInfo
	Denied []DeniedEntry
	Errors []model.ScanError
}

// gitignoreSet 把遍历中遇到的全部 .gitignore 按发现顺序合并成一个匹配器。
// 深层文件的模式补上目录前缀后追加在末尾，后出现的行优先，
// 因此子目录里的取反行可以推翻父级 .gitignore 的排除。
type gitignoreSet struct {
	lines   []string
	matcher *ignore.GitIgnore
}

// add 读取一个 .gitignore 并把它的模式并入集合。
// prefix 是该文件所在目录的展示路径，根目录为 ""。
func (s *gitignoreSet) add(path string, prefix string) {
	content, err := os.ReadFile(path)
	if err != nil {
		return
	}

	added := false
	for _, raw := range strings.Split(string(content), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		s.lines = append(s.lines, prefixPattern(line, prefix))
		added = true
	}
	if added {
		s.matcher = ignore.CompileIgnoreLines(s.lines...)
	}
}

// ignored 判断展示路径是否被集合排除。
func (s *gitignoreSet) ignored(display string, isDir bool) bool {
	if s.matcher == nil {
		return false
	}
	probe := display
	if isDir {
		probe += "/"
	}
	return s.matcher.MatchesPath(probe)
}

// prefixPattern 把单条 gitignore 模式换算到扫描根视角。
// 不含斜杠的模式在其目录下任意深度生效，换算成 /prefix/**/pat；
// 含斜杠的模式本就锚定在其目录，拼接前缀后加前导斜杠锚定到根。
func prefixPattern(line string, prefix string) string {
	negated := strings.HasPrefix(line, "!")
	if negated {
		line = strings.TrimPrefix(line, "!")
	}

	if prefix != "" {
		trailingSlash := strings.HasSuffix(line, "/")
		core := strings.TrimSuffix(line, "/")
		switch {
		case strings.HasPrefix(core, "/"):
			core = "/" + prefix + core
		case strings.Contains(core, "/"):
			core = "/" + prefix + "/" + core
		default:
			core = "/" + prefix + "/**/" + core
		}
		line = core
		if trailingSlash {
			line += "/"
		}
	}

	if negated {
		line = "!" + line
	}
	return line
}

// Scan 执行扫描。Roots 为空时默认扫描当前目录。
func Scan(options Options) (Result, error) {
	result := Result{
		Dirs: make(map[string]*DirInfo),
	}

	roots := options.Roots
	if len(roots) == 0 {
		roots = []string{"."}
	}

	for _, root := range roots {
		if err := scanRoot(root, options, &result); err != nil {
			return result, err
		}
	}

	sort.Slice(result.Files, func(i int, j int) bool {
		return result.Files[i].Path < result.Files[j].Path
	})
	sort.Slice(result.Denied, func(i int, j int) bool {
		return result.Denied[i].Path < result.Denied[j].Path
	})

	return result, nil
}

// scanRoot 遍历单个根。根可以是目录或单个文件。
func scanRoot(root string, options Options, result *Result) error {
	info, err := os.Stat(root)
	if err != nil {
		result.Errors = append(result.Errors, model.ScanError{
			Path:  filepath.ToSlash(root),
			Error: err.Error(),
		})
		return nil
	}

	if !info.IsDir() {
		display := displayPath(root, "")
		if options.ContentFilter == nil || options.ContentFilter(display) {
			absolute, absErr := filepath.Abs(root)
			if absErr != nil {
				absolute = root
			}
			result.Files = append(result.Files, File{Path: display, AbsPath: absolute})
		}
		return nil
	}

	var ignores gitignoreSet

	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			result.Errors = append(result.Errors, model.ScanError{
				Path:  filepath.ToSlash(path),
				Error: walkErr.Error(),
			})
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		relative, relErr := filepath.Rel(root, path)
		if relErr != nil {
			relative = path
		}
		display := displayPath(root, relative)
		name := entry.Name()

		if entry.IsDir() {
			// .git 永远剪除，这是硬默认，用户替换排除列表也不受影响。
			if name == ".git" {
				return filepath.SkipDir
			}

			isRoot := relative == "."
			if !isRoot {
				if matchesAny(options.Exclude, display, name) {
					return filepath.SkipDir
				}
				if options.UseGitignore && ignores.ignored(display, true) {
					return filepath.SkipDir
				}
				if pattern, denied := dirDenied(options.Deny, display, name); denied {
					result.Denied = append(result.Denied, DeniedEntry{
						Path:    display,
						Pattern: pattern,
						IsDir:   true,
					})
					return filepath.SkipDir
				}
			}

			if options.UseGitignore {
				prefix := display
				if prefix == "." {
					prefix = ""
				}
				ignores.add(filepath.Join(path, ".gitignore"), prefix)
			}

			depth := 0
			if !isRoot {
				depth = strings.Count(filepath.ToSlash(relative), "/") + 1
			}
			result.Dirs[dirKey(root, relative)] = &DirInfo{
				Stats: model.DirStats{Depth: depth},
			}
			if !isRoot {
				if parent, ok := result.Dirs[parentKey(root, relative)]; ok {
					parent.Stats.DirCount++
					parent.Dirs = append(parent.Dirs, name)
				}
			}
			return nil
		}

		// 符号链接不跟随。
		if entry.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		if matchesAny(options.Exclude, display, name) {
			return nil
		}
		if options.UseGitignore && ignores.ignored(display, false) {
			return nil
		}
		if pattern, denied := fileDenied(options.Deny, display, name); denied {
			result.Denied = append(result.Denied, DeniedEntry{
				Path:    display,
				Pattern: pattern,
			})
			return nil
		}

		if parent, ok := result.Dirs[parentKey(root, relative)]; ok {
			parent.Stats.FileCount++
			parent.Files = append(parent.Files, name)
		}

		if options.ContentFilter == nil || options.ContentFilter(display) {
			absolute, absErr := filepath.Abs(path)
			if absErr != nil {
				absolute = path
			}
			result.Files = append(result.Files, File{Path: display, AbsPath: absolute})
		}
		return nil
	})
}

// displayPath 计算展示路径：根目录前缀 + 斜杠分隔。
func displayPath(root string, relative string) string {
	cleaned := filepath.ToSlash(filepath.Clean(root))
	if relative == "" || relative == "." {
		if cleaned == "." {
			return "."
		}
		return cleaned
	}
	if cleaned == "." {
		return filepath.ToSlash(relative)
	}
	return cleaned + "/" + filepath.ToSlash(relative)
}

// dirKey 返回目录在结果表中的键。
func dirKey(root string, relative string) string {
	return displayPath(root, relative)
}

// parentKey 返回父目录的键。
func parentKey(root string, relative string) string {
	parent := filepath.Dir(relative)
	if parent == "." {
		return displayPath(root, "")
	}
	return displayPath(root, parent)
}

// matchesAny 判断展示路径或文件名是否命中任一 glob。
func matchesAny(patterns []string, display string, name string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, display); err == nil && ok {
			return true
		}
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

// fileDenied 判断文件是否命中全局 deny 规则，返回命中的模式。
func fileDenied(deny DenyRules, display string, name string) (string, bool) {
	ext := filepath.Ext(name)
	if ext != "" {
		for _, denied := range deny.Extensions {
			if strings.EqualFold(denied, ext) {
				return denied, true
			}
		}
	}

	for _, pattern := range deny.Files {
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return pattern, true
		}
	}

	for _, pattern := range deny.Patterns {
		if strings.HasSuffix(pattern, "/") {
			continue
		}
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return pattern, true
		}
		if ok, err := doublestar.Match(pattern, display); err == nil && ok {
			return pattern, true
		}
	}

	return "", false
}

// dirDenied 判断目录是否命中以 "/" 结尾的目录 deny 模式。
func dirDenied(deny DenyRules, display string, name string) (string, bool) {
	for _, pattern := range deny.Patterns {
		if !strings.HasSuffix(pattern, "/") {
			continue
		}
		trimmed := strings.TrimSuffix(pattern, "/")
		if ok, err := doublestar.Match(trimmed, name); err == nil && ok {
			return pattern, true
		}
		if ok, err := doublestar.Match(trimmed, display); err == nil && ok {
			return pattern, true
		}
	}
	return "", false
}
