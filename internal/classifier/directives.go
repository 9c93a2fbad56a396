package classifier

import (
	"strconv"
	"strings"
)

// 指令语法是对外契约的一部分，大小写敏感，仅在单行注释内识别。
const (
	directivePrefix      = "sloc-guard:"
	directiveIgnoreFile  = "sloc-guard:ignore-file"
	directiveIgnoreNext  = "sloc-guard:ignore-next"
	directiveIgnoreStart = "sloc-guard:ignore-start"
	directiveIgnoreEnd   = "sloc-guard:ignore-end"
)

// ignoreFileWindow 是 ignore-file 指令的生效窗口（前 10 个物理行）。
const ignoreFileWindow = 10

// directiveKind 表示当前行命中的指令种类。
type directiveKind int

const (
	directiveNone directiveKind = iota
	directiveNext
	directiveStart
	directiveEnd
)

// parseDirective 解析单行注释体中的指令并应用状态变化。
// 无效的 ignore-next 参数使指令退化为普通注释。
func (e *engine) parseDirective(body string) directiveKind {
	body = strings.TrimSpace(body)
	if !strings.HasPrefix(body, directivePrefix) {
		return directiveNone
	}

	switch {
	case strings.HasPrefix(body, directiveIgnoreStart):
		return directiveStart
	case strings.HasPrefix(body, directiveIgnoreEnd):
		return directiveEnd
	case strings.HasPrefix(body, directiveIgnoreNext):
		argument := strings.TrimSpace(strings.TrimPrefix(body, directiveIgnoreNext))
		fields := strings.Fields(argument)
		if len(fields) == 0 {
			return directiveNone
		}
		count, err := strconv.Atoi(fields[0])
		if err != nil || count < 0 {
			return directiveNone
		}
		e.ignoreNext = count
		return directiveNext
	}

	return directiveNone
}

// isIgnoreFileDirective 判断当前行是否是文件级忽略指令。
// 仅当解析状态干净（不在块注释或字符串中）且该行是单行注释时生效。
func (e *engine) isIgnoreFileDirective(line string) bool {
	if e.inBlock || e.inDouble || e.inSingle || e.inBacktick || e.inRaw {
		return false
	}

	trimmed := strings.TrimSpace(line)
	marker, body, ok := e.lineCommentPrefix(trimmed)
	if !ok || e.blockStartsLonger(trimmed, marker) {
		return false
	}

	return strings.HasPrefix(strings.TrimSpace(body), directiveIgnoreFile)
}
