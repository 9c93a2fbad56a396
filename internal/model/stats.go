// Package model 定义 sloc-guard 的核心数据模型。
// 这些结构会被分类器、扫描器、检查器和输出层共同使用。
package model

// LineStats 表示一个文件的行级统计值。
//
// 注意：
// - 每一行只会落入 Code/Comment/Blank/Ignored 中的一个桶
// - Total = Code + Comment + Blank + Ignored 恒成立
// - Code 即 SLOC（源代码行数），是内容限制比较的对象
type LineStats struct {
	Total   int `json:"total"`
	Code    int `json:"code"`
	Comment int `json:"comment"`
	Blank   int `json:"blank"`
	Ignored int `json:"ignored"`
}

// Add 将另一个统计结果叠加到当前对象。
func (s *LineStats) Add(other LineStats) {
	s.Total += other.Total
	s.Code += other.Code
	s.Comment += other.Comment
	s.Blank += other.Blank
	s.Ignored += other.Ignored
}

// Sloc 返回 SLOC 值，即 Code 桶。
func (s LineStats) Sloc() int {
	return s.Code
}

// Effective 根据 skipComments/skipBlank 计算用于限制比较的有效行数。
// skip 为 false 时对应桶会被计入有效值，Ignored 永远不计入。
func (s LineStats) Effective(skipComments bool, skipBlank bool) int {
	effective := s.Code
	if !skipComments {
		effective += s.Comment
	}
	if !skipBlank {
		effective += s.Blank
	}
	return effective
}

// DirStats 表示单个目录的直接子项统计。
// 深度以扫描根目录为 0 起算，计数只包含直接子项。
type DirStats struct {
	FileCount int `json:"file_count"`
	DirCount  int `json:"dir_count"`
	Depth     int `json:"depth"`
}

// ScanError 记录单文件处理失败信息。
// 设计为“错误不阻断全量检查”，便于大仓库分析时容错。
type ScanError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}
