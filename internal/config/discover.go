package config

import (
	"os"
	"path/filepath"
)

// Discover 从 startDir 起逐级向上寻找约定配置文件。
// 找到时返回文件路径，找不到返回 ok=false。
func Discover(startDir string) (string, bool) {
	directory, err := filepath.Abs(startDir)
	if err != nil {
		return "", false
	}

	for {
		candidate := filepath.Join(directory, DefaultFileName)
		if info, statErr := os.Stat(candidate); statErr == nil && !info.IsDir() {
			return candidate, true
		}

		parent := filepath.Dir(directory)
		if parent == directory {
			return "", false
		}
		directory = parent
	}
}
