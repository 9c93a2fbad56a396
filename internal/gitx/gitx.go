// Package gitx 封装本工具需要的少量 git 交互：
// 仓库根定位、状态目录选择和 diff 变更文件列表。
package gitx

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"slocguard/internal/errs"
)

// commandTimeout 是单次 git 调用的超时。
const commandTimeout = 30 * time.Second

// stateDirName 是工具状态目录名。
const stateDirName = "sloc-guard"

// FindRepoRoot 从 startDir 向上寻找包含 .git 的目录。
func FindRepoRoot(startDir string) (string, bool) {
	directory, err := filepath.Abs(startDir)
	if err != nil {
		return "", false
	}

	for {
		if _, statErr := os.Stat(filepath.Join(directory, ".git")); statErr == nil {
			return directory, true
		}
		parent := filepath.Dir(directory)
		if parent == directory {
			return "", false
		}
		directory = parent
	}
}

// StateDir 返回工具状态目录并确保其存在。
// 只看 root 自身是否带 .git 目录，不向上回溯：带则使用 .git/sloc-guard，
// 否则在 root 下使用 .sloc-guard 并自动写入忽略自身的 .gitignore。
func StateDir(root string) (string, error) {
	gitDir := filepath.Join(root, ".git")
	if info, err := os.Stat(gitDir); err == nil && info.IsDir() {
		state := filepath.Join(gitDir, stateDirName)
		if err := os.MkdirAll(state, 0o755); err != nil {
			return "", errs.IO(state, err)
		}
		return state, nil
	}

	state := filepath.Join(root, "."+stateDirName)
	if err := os.MkdirAll(state, 0o755); err != nil {
		return "", errs.IO(state, err)
	}
	marker := filepath.Join(state, ".gitignore")
	if _, err := os.Stat(marker); os.IsNotExist(err) {
		if writeErr := os.WriteFile(marker, []byte("*\n"), 0o644); writeErr != nil {
			return "", errs.IO(marker, writeErr)
		}
	}
	return state, nil
}

// ChangedFiles 返回相对 base 引用发生变化的文件（新增、修改、重命名后路径）。
// 返回的路径相对 workDir 并使用正斜杠，可直接与扫描展示路径比对；
// 不在 workDir 下的变更文件被丢弃。
func ChangedFiles(ctx context.Context, workDir string, base string) ([]string, error) {
	workDir, absErr := filepath.Abs(workDir)
	if absErr != nil {
		return nil, errs.IO(workDir, absErr)
	}
	root, ok := FindRepoRoot(workDir)
	if !ok {
		return nil, errs.Git("locate repository", fmt.Errorf("%s is not inside a git repository", workDir))
	}

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	command := exec.CommandContext(ctx, "git",
		"diff", "--name-only", "--diff-filter=ACMR", base, "--")
	command.Dir = root

	var stdout, stderr bytes.Buffer
	command.Stdout = &stdout
	command.Stderr = &stderr

	if err := command.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			err = fmt.Errorf("%s: %w", detail, err)
		}
		return nil, errs.Git(fmt.Sprintf("diff against %s", base), err)
	}

	var files []string
	for _, line := range strings.Split(stdout.String(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if rebased, inside := rebasePath(root, workDir, line); inside {
			files = append(files, rebased)
		}
	}
	return files, nil
}

// rebasePath 把仓库根相对路径换算成相对 workDir 的展示路径。
func rebasePath(repoRoot string, workDir string, repoRelative string) (string, bool) {
	absolute := filepath.Join(repoRoot, filepath.FromSlash(repoRelative))
	relative, err := filepath.Rel(workDir, absolute)
	if err != nil {
		return "", false
	}
	if relative == ".." || strings.HasPrefix(relative, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(relative), true
}
