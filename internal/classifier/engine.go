package classifier

import (
	"strings"
	"unicode"

	"slocguard/internal/language"
	"slocguard/internal/model"
)

// engine 记录单文件的逐行解析状态。
// 字符串与块注释状态可以跨行延续，因此集中放在成员字段上。
type engine struct {
	syntax *language.CommentSyntax

	// 块注释状态。Nested 语言用 blockDepth 计数实现嵌套。
	inBlock    bool
	block      language.BlockMarker
	blockDepth int

	// 字符串字面量状态。
	inDouble   bool
	inSingle   bool
	inBacktick bool
	inRaw      bool
	// 原始字符串开头的 # 数量，闭合时必须一致。
	rawHashes int

	// 指令状态。
	ignoreNext    int
	inIgnoreBlock bool
}

// processLine 处理一个完整物理行并更新统计。
func (e *engine) processLine(line string, stats *model.LineStats) {
	// ignore-next 覆盖在先，指令行自身的覆盖状态以行首时刻为准。
	covered := false
	if e.ignoreNext > 0 {
		covered = true
		e.ignoreNext--
	}
	inIgnoreRegion := e.inIgnoreBlock

	hasCode, hasComment, directive := e.scanLine(line)

	// ignore-start/ignore-end 标记行自身不属于被忽略区间。
	markerLine := directive == directiveStart || directive == directiveEnd
	switch directive {
	case directiveStart:
		e.inIgnoreBlock = true
	case directiveEnd:
		e.inIgnoreBlock = false
	}

	stats.Total++
	switch {
	case covered:
		stats.Ignored++
	case inIgnoreRegion && !markerLine:
		stats.Ignored++
	case hasCode:
		stats.Code++
	case hasComment:
		stats.Comment++
	default:
		stats.Blank++
	}
}

// scanLine 对单行执行分类，返回 (是否含代码, 是否含注释, 指令种类)。
func (e *engine) scanLine(line string) (bool, bool, directiveKind) {
	// 行首锚定的块注释（Ruby =begin/=end）只在行首判定结束。
	if e.inBlock && e.block.AtLineStart {
		if strings.HasPrefix(strings.TrimSpace(line), e.block.End) {
			e.inBlock = false
			e.blockDepth = 0
		}
		return false, true, directiveNone
	}

	// 其余跨行状态（块注释、字符串）交给逐字符扫描处理。
	if e.inBlock || e.inDouble || e.inSingle || e.inBacktick || e.inRaw {
		hasCode, hasComment := e.walk(line)
		return hasCode, hasComment, directiveNone
	}

	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false, false, directiveNone
	}

	// 行首单行注释：整行计注释，并在注释体中识别指令。
	// 当行首同时命中更长的块标记（如 Lua 的 --[[ 对 --）时按块注释处理。
	if marker, body, ok := e.lineCommentPrefix(trimmed); ok {
		if !e.blockStartsLonger(trimmed, marker) {
			return false, true, e.parseDirective(body)
		}
	}

	hasCode, hasComment := e.walk(line)
	return hasCode, hasComment, directiveNone
}

// walk 逐字符扫描一行，维护字符串与块注释状态。
func (e *engine) walk(line string) (hasCode bool, hasComment bool) {
	runes := []rune(line)

	if e.inBlock {
		hasComment = true
	}
	if e.inDouble || e.inSingle || e.inBacktick || e.inRaw {
		hasCode = true
	}

	firstNonSpace := -1
	for i, r := range runes {
		if !unicode.IsSpace(r) {
			firstNonSpace = i
			break
		}
	}

	for idx := 0; idx < len(runes); {
		if e.inBlock {
			hasComment = true

			// 嵌套块在注释内遇到起始标记时深度 +1。
			// 起止标记相同（docstring）时不存在嵌套。
			if e.block.Nested && e.block.Start != e.block.End && matchAt(runes, idx, e.block.Start) {
				e.blockDepth++
				idx += len([]rune(e.block.Start))
				continue
			}
			if matchAt(runes, idx, e.block.End) {
				e.blockDepth--
				idx += len([]rune(e.block.End))
				if e.blockDepth <= 0 {
					e.inBlock = false
					e.blockDepth = 0
				}
				continue
			}
			idx++
			continue
		}

		if e.inRaw {
			hasCode = true
			if runes[idx] == '"' && e.matchRawTerminator(runes, idx) {
				e.inRaw = false
				idx += 1 + e.rawHashes
				continue
			}
			idx++
			continue
		}

		if e.inDouble {
			hasCode = true
			if runes[idx] == '\\' && idx+1 < len(runes) {
				idx += 2
				continue
			}
			if runes[idx] == '"' {
				e.inDouble = false
			}
			idx++
			continue
		}

		if e.inSingle {
			hasCode = true
			if runes[idx] == '\\' && idx+1 < len(runes) {
				idx += 2
				continue
			}
			if runes[idx] == '\'' {
				e.inSingle = false
			}
			idx++
			continue
		}

		if e.inBacktick {
			// 反引号字符串按原始语义处理，不识别转义（Go 行为）。
			hasCode = true
			if runes[idx] == '`' {
				e.inBacktick = false
			}
			idx++
			continue
		}

		current := runes[idx]
		if unicode.IsSpace(current) {
			idx++
			continue
		}

		// 块注释起始优先于单行注释与字符串判定，
		// 保证 --[[ 胜过 --、""" 胜过 " 这类前缀冲突。
		if marker, ok := e.blockStartAt(runes, idx, idx == firstNonSpace); ok {
			hasComment = true
			e.inBlock = true
			e.block = marker
			e.blockDepth = 1
			idx += len([]rune(marker.Start))
			continue
		}

		if e.lineMarkerAt(runes, idx) {
			hasComment = true
			return hasCode, hasComment
		}

		if e.syntax.RawStrings {
			if next, ok := e.tryStartRawString(runes, idx); ok {
				hasCode = true
				idx = next
				continue
			}
		}

		if e.syntax.DoubleQuote && current == '"' {
			hasCode = true
			e.inDouble = true
			idx++
			continue
		}

		if current == '\'' {
			switch e.syntax.SingleQuote {
			case language.SingleQuoteString:
				hasCode = true
				e.inSingle = true
				idx++
				continue
			case language.SingleQuoteChar:
				// 区分字符字面量与标识符附带的撇号（如 Rust 生命周期 'a）。
				if looksLikeCharLiteral(runes, idx) {
					hasCode = true
					e.inSingle = true
					idx++
					continue
				}
			}
		}

		if e.syntax.Backtick && current == '`' {
			hasCode = true
			e.inBacktick = true
			idx++
			continue
		}

		hasCode = true
		idx++
	}

	return hasCode, hasComment
}

// lineCommentPrefix 在已去除前导空白的行上匹配单行注释标记。
// 返回命中的标记与标记之后的注释体。
func (e *engine) lineCommentPrefix(trimmed string) (string, string, bool) {
	for _, marker := range e.syntax.LineMarkers {
		if strings.HasPrefix(trimmed, marker) {
			return marker, trimmed[len(marker):], true
		}
	}
	return "", "", false
}

// blockStartsLonger 判断行首是否有比单行标记更长的块起始标记。
func (e *engine) blockStartsLonger(trimmed string, lineMarker string) bool {
	for _, marker := range e.syntax.BlockMarkers {
		if len(marker.Start) > len(lineMarker) && strings.HasPrefix(trimmed, marker.Start) {
			return true
		}
	}
	return false
}

// blockStartAt 判断 idx 处是否命中块注释起始标记，按声明序匹配。
// 行首锚定的标记仅在该行第一个非空白位置生效。
func (e *engine) blockStartAt(runes []rune, idx int, atFirstNonSpace bool) (language.BlockMarker, bool) {
	for _, marker := range e.syntax.BlockMarkers {
		if marker.AtLineStart && !atFirstNonSpace {
			continue
		}
		if matchAt(runes, idx, marker.Start) {
			return marker, true
		}
	}
	return language.BlockMarker{}, false
}

// lineMarkerAt 判断 idx 处是否命中单行注释标记。
func (e *engine) lineMarkerAt(runes []rune, idx int) bool {
	for _, marker := range e.syntax.LineMarkers {
		if matchAt(runes, idx, marker) {
			return true
		}
	}
	return false
}

// tryStartRawString 检测 Rust 风格原始字符串（r"…"、r#"…"#、br"…"）。
// 返回消费后的新索引。
func (e *engine) tryStartRawString(runes []rune, idx int) (int, bool) {
	start := idx
	if runes[idx] == 'b' {
		if idx+1 >= len(runes) || runes[idx+1] != 'r' {
			return 0, false
		}
		start = idx + 1
	}

	if runes[start] != 'r' {
		return 0, false
	}

	cursor := start + 1
	hashCount := 0
	for cursor < len(runes) && runes[cursor] == '#' {
		hashCount++
		cursor++
	}

	if cursor >= len(runes) || runes[cursor] != '"' {
		return 0, false
	}

	e.inRaw = true
	e.rawHashes = hashCount
	return cursor + 1, true
}

// matchRawTerminator 判断当前位置是否命中原始字符串结束符。
// 结束符是引号后跟与开头数量一致的 #。
func (e *engine) matchRawTerminator(runes []rune, idx int) bool {
	for i := 0; i < e.rawHashes; i++ {
		next := idx + 1 + i
		if next >= len(runes) || runes[next] != '#' {
			return false
		}
	}
	return true
}

// matchAt 判断 runes[idx:] 是否以 marker 开头。
func matchAt(runes []rune, idx int, marker string) bool {
	markerRunes := []rune(marker)
	if idx+len(markerRunes) > len(runes) {
		return false
	}
	for i, r := range markerRunes {
		if runes[idx+i] != r {
			return false
		}
	}
	return true
}

// looksLikeCharLiteral 区分字符字面量与普通撇号。
// 形如 'a' 或 '\n' 视为字符字面量。
func looksLikeCharLiteral(runes []rune, idx int) bool {
	if idx+2 >= len(runes) {
		return false
	}

	if runes[idx+1] != '\\' && runes[idx+2] == '\'' {
		return true
	}

	if runes[idx+1] == '\\' && idx+3 < len(runes) && runes[idx+3] == '\'' {
		return true
	}

	return false
}
