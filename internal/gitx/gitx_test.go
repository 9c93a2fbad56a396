package gitx

import (
	"os"
	"path/filepath"
	"testing"
)

// TestFindRepoRootWalksUp 验证从深层目录向上定位仓库根。
func TestFindRepoRootWalksUp(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}

	found, ok := FindRepoRoot(nested)
	if !ok || found != root {
		t.Fatalf("unexpected root: %q ok=%v", found, ok)
	}
}

// TestFindRepoRootOutsideRepo 验证非仓库目录返回未找到。
func TestFindRepoRootOutsideRepo(t *testing.T) {
	if _, ok := FindRepoRoot(t.TempDir()); ok {
		t.Fatalf("must not find a repository in an empty temp dir")
	}
}

// TestStateDirInsideRepo 验证仓库内状态目录落在 .git 下。
func TestStateDirInsideRepo(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}

	state, err := StateDir(root)
	if err != nil {
		t.Fatalf("state dir failed: %v", err)
	}
	if state != filepath.Join(root, ".git", "sloc-guard") {
		t.Fatalf("unexpected state dir: %q", state)
	}
	if info, statErr := os.Stat(state); statErr != nil || !info.IsDir() {
		t.Fatalf("state dir not created")
	}
}

// TestStateDirIgnoresAncestors 验证状态目录决策只看 root 自身，
// 上层目录的 .git 不参与。
func TestStateDirIgnoresAncestors(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	nested := filepath.Join(root, "project")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}

	state, err := StateDir(nested)
	if err != nil {
		t.Fatalf("state dir failed: %v", err)
	}
	if state != filepath.Join(nested, ".sloc-guard") {
		t.Fatalf("ancestor .git must not win: %q", state)
	}
}

// TestStateDirOutsideRepo 验证仓库外回退目录自带忽略标记。
func TestStateDirOutsideRepo(t *testing.T) {
	dir := t.TempDir()

	state, err := StateDir(dir)
	if err != nil {
		t.Fatalf("state dir failed: %v", err)
	}
	if state != filepath.Join(dir, ".sloc-guard") {
		t.Fatalf("unexpected state dir: %q", state)
	}

	marker, readErr := os.ReadFile(filepath.Join(state, ".gitignore"))
	if readErr != nil || string(marker) != "*\n" {
		t.Fatalf("missing self-ignore marker: %v", readErr)
	}
}

// TestRebasePath 验证仓库根相对路径换算到工作目录视角。
func TestRebasePath(t *testing.T) {
	root := filepath.Join("/", "repo")
	work := filepath.Join(root, "sub")

	rebased, inside := rebasePath(root, work, "sub/a.go")
	if !inside || rebased != "a.go" {
		t.Fatalf("unexpected rebase: %q inside=%v", rebased, inside)
	}

	rebased, inside = rebasePath(root, work, "sub/deep/b.go")
	if !inside || rebased != "deep/b.go" {
		t.Fatalf("unexpected rebase: %q inside=%v", rebased, inside)
	}

	// 工作目录之外的变更不参与本次检查。
	if _, inside = rebasePath(root, work, "other/c.go"); inside {
		t.Fatalf("path outside work dir must be dropped")
	}

	// 在仓库根运行时路径原样保留。
	rebased, inside = rebasePath(root, root, "sub/a.go")
	if !inside || rebased != "sub/a.go" {
		t.Fatalf("unexpected identity rebase: %q inside=%v", rebased, inside)
	}
}
