// Package trend 在状态目录里维护检查结果的滚动历史。
package trend

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"slocguard/internal/errs"
	"slocguard/internal/model"
)

// fileName 是状态目录下的历史文件名。
const fileName = "trend.json"

// Point 是一次检查的汇总快照。
type Point struct {
	Timestamp  string `json:"timestamp"`
	TotalFiles int    `json:"total_files"`
	Passed     int    `json:"passed"`
	Failed     int    `json:"failed"`
	Warnings   int    `json:"warnings"`
}

// NewPoint 从报告汇总生成一个带 UTC 时间戳的趋势点。
func NewPoint(summary model.Summary) Point {
	return Point{
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		TotalFiles: summary.TotalFiles,
		Passed:     summary.Passed,
		Failed:     summary.Failed,
		Warnings:   summary.Warnings,
	}
}

// Append 把趋势点追加到 stateDir 下的历史文件。
// 超出 limit 时丢弃最旧的点；损坏的历史文件按空历史处理。
func Append(stateDir string, point Point, limit int) error {
	path := filepath.Join(stateDir, fileName)

	var points []Point
	if content, err := os.ReadFile(path); err == nil {
		_ = json.Unmarshal(content, &points)
	}

	points = append(points, point)
	if limit > 0 && len(points) > limit {
		points = points[len(points)-limit:]
	}

	encoded, err := json.MarshalIndent(points, "", "  ")
	if err != nil {
		return errs.IO(path, err)
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return errs.IO(path, err)
	}
	return nil
}

// Load 读取历史文件，文件不存在返回空历史。
func Load(stateDir string) ([]Point, error) {
	path := filepath.Join(stateDir, fileName)

	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.IO(path, err)
	}

	var points []Point
	if err := json.Unmarshal(content, &points); err != nil {
		return nil, errs.IO(path, err)
	}
	return points, nil
}
