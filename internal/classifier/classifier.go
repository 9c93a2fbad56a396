// Package classifier 提供语言感知的逐行分类能力。
// 分类器是单遍流式状态机：处理字符串与字符字面量、原始字符串、
// 嵌套块注释、行首锚定标记，并识别 sloc-guard 忽略指令。
// 分类器从不因语法畸形而失败，未闭合的字符串或块注释延续到文件末尾。
package classifier

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"slocguard/internal/language"
	"slocguard/internal/model"
)

// readBufferSize 是流式读取缓冲大小，分类器本身是增量的。
const readBufferSize = 8 * 1024

// Classify 流式读取并分类一个文件。
// 第二个返回值为 true 时表示命中 ignore-file 指令，统计值无意义。
func Classify(syntax *language.CommentSyntax, reader io.Reader) (model.LineStats, bool, error) {
	var stats model.LineStats
	e := &engine{syntax: syntax}

	bufferedReader := bufio.NewReaderSize(reader, readBufferSize)
	lineNo := 0

	for {
		line, err := bufferedReader.ReadString('\n')
		// 没有任何剩余字符时说明已经读完。
		if errors.Is(err, io.EOF) && len(line) == 0 {
			break
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return stats, false, err
		}

		lineNo++
		current := normalizeLine(line)

		// ignore-file 只在前 10 行的单行注释中生效，命中即整体短路。
		if lineNo <= ignoreFileWindow && e.isIgnoreFileDirective(current) {
			return model.LineStats{}, true, nil
		}

		e.processLine(current, &stats)

		if errors.Is(err, io.EOF) {
			break
		}
	}

	return stats, false, nil
}

// ClassifyString 对完整内容执行分类，结果与流式输入完全一致。
func ClassifyString(syntax *language.CommentSyntax, content string) (model.LineStats, bool) {
	stats, ignored, _ := Classify(syntax, strings.NewReader(content))
	return stats, ignored
}

// normalizeLine 去除行尾换行符，适配 \n 与 \r\n。
func normalizeLine(line string) string {
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line
}
