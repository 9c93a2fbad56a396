// Package baseline 实现“棘轮”基线：记录既有违规的快照，
// 让新违规失败、已知且未恶化的违规通过，支持渐进收紧限制。
package baseline

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"slocguard/internal/errs"
)

// Version 是当前基线文件格式版本。
// v1（仅内容、无 type 标签）在加载时静默迁移为 v2。
const Version = 2

// DefaultFileName 是基线文件的约定名。
const DefaultFileName = ".sloc-guard-baseline.json"

// 条目类型取值。
const (
	EntryContent   = "content"
	EntryStructure = "structure"
)

// 结构条目的 violation_type 取值。
const (
	ViolationFiles = "files"
	ViolationDirs  = "dirs"
)

// Entry 是基线中单个路径的记录，按 Type 区分内容与结构。
type Entry struct {
	Type string `json:"type"`
	// 内容条目字段：快照时的行数与文件字节的 SHA-256。
	Lines int    `json:"lines,omitempty"`
	Hash  string `json:"hash,omitempty"`
	// 结构条目字段。
	ViolationType string `json:"violation_type,omitempty"`
	Count         int    `json:"count,omitempty"`
}

// Baseline 是完整基线。路径键使用正斜杠，天然无重复。
type Baseline struct {
	Version int              `json:"version"`
	Files   map[string]Entry `json:"files"`
}

// New 创建空基线。
func New() *Baseline {
	return &Baseline{
		Version: Version,
		Files:   make(map[string]Entry),
	}
}

// Load 从 JSON 文件加载基线，v1 输入静默迁移为 v2。
func Load(path string) (*Baseline, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.IO(path, err)
	}

	var baseline Baseline
	if err := json.Unmarshal(content, &baseline); err != nil {
		return nil, errs.Config(
			fmt.Sprintf("parse baseline %s", path),
			err.Error(),
			"regenerate the baseline with `sloc-guard baseline create`",
		)
	}

	if baseline.Files == nil {
		baseline.Files = make(map[string]Entry)
	}

	// v1 条目没有 type 标签，迁移为内容条目。
	if baseline.Version <= 1 {
		for key, entry := range baseline.Files {
			if entry.Type == "" {
				entry.Type = EntryContent
				baseline.Files[key] = entry
			}
		}
		baseline.Version = Version
	}

	return &baseline, nil
}

// Save 原子化保存基线：写临时文件后重命名，失败时清理临时文件。
// 基线永远不会处于半写状态。
func (b *Baseline) Save(path string) error {
	content, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return errs.IO(path, err)
	}
	content = append(content, '\n')

	directory := filepath.Dir(path)
	if directory != "." && directory != "" {
		if mkErr := os.MkdirAll(directory, 0o755); mkErr != nil {
			return errs.IO(path, mkErr)
		}
	}

	temp := path + ".tmp"
	if writeErr := os.WriteFile(temp, content, 0o644); writeErr != nil {
		return errs.IO(path, writeErr)
	}
	if renameErr := os.Rename(temp, path); renameErr != nil {
		_ = os.Remove(temp)
		return errs.IO(path, renameErr)
	}
	return nil
}

// SetContent 登记或更新一条内容违规。
func (b *Baseline) SetContent(path string, lines int, hash string) {
	b.Files[path] = Entry{Type: EntryContent, Lines: lines, Hash: hash}
}

// SetStructure 登记或更新一条结构违规。
func (b *Baseline) SetStructure(path string, violationType string, count int) {
	b.Files[path] = Entry{Type: EntryStructure, ViolationType: violationType, Count: count}
}

// Get 查询路径对应的条目。
func (b *Baseline) Get(path string) (Entry, bool) {
	entry, ok := b.Files[path]
	return entry, ok
}

// Remove 删除路径对应的条目。
func (b *Baseline) Remove(path string) {
	delete(b.Files, path)
}

// Len 返回条目数量。
func (b *Baseline) Len() int {
	return len(b.Files)
}

// Paths 返回排序后的全部路径，供确定性输出使用。
func (b *Baseline) Paths() []string {
	paths := make([]string, 0, len(b.Files))
	for path := range b.Files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// HashBytes 计算字节串的 SHA-256 十六进制摘要。
func HashBytes(content []byte) string {
	digest := sha256.Sum256(content)
	return hex.EncodeToString(digest[:])
}

// HashReader 流式计算 SHA-256，供大文件使用。
func HashReader(reader io.Reader) (string, error) {
	hasher := sha256.New()
	if _, err := io.Copy(hasher, reader); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
