package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"slocguard/internal/config"
	"slocguard/internal/model"
)

// chdir 是测试辅助函数，切换工作目录并在测试结束后恢复。
func chdir(t *testing.T, dir string) {
	t.Helper()

	oldDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd failed: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldDir); err != nil {
			t.Fatalf("chdir back failed: %v", err)
		}
	})
}

// runCommand 是测试辅助函数，执行根命令并捕获输出。
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buffer bytes.Buffer
	rootCmd := newRootCmd("test")
	rootCmd.SetOut(&buffer)
	rootCmd.SetErr(&buffer)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return buffer.String(), err
}

// TestVersionCommand 验证版本输出。
func TestVersionCommand(t *testing.T) {
	output, err := runCommand(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(output, "sloc-guard version test") {
		t.Fatalf("unexpected output: %q", output)
	}
}

// TestInitWritesConfig 验证 init 生成可加载的配置且默认拒绝覆盖。
func TestInitWritesConfig(t *testing.T) {
	chdir(t, t.TempDir())

	if _, err := runCommand(t, "init"); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if _, err := config.Load(config.DefaultFileName); err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}

	if _, err := runCommand(t, "init"); err == nil {
		t.Fatalf("second init must refuse to overwrite")
	}
	if _, err := runCommand(t, "init", "--force"); err != nil {
		t.Fatalf("forced init failed: %v", err)
	}
}

// TestCheckEndToEnd 验证 check 的 JSON 输出与结论性退出。
func TestCheckEndToEnd(t *testing.T) {
	chdir(t, t.TempDir())

	configText := "version = \"2\"\n" +
		"[scanner]\n" +
		"gitignore = false\n" +
		"[content]\n" +
		"max_lines = 3\n"
	if err := os.WriteFile(config.DefaultFileName, []byte(configText), 0o644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}
	if err := os.WriteFile("big.go", []byte(strings.Repeat("x := 1\n", 5)), 0o644); err != nil {
		t.Fatalf("write file failed: %v", err)
	}

	output, err := runCommand(t, "check", "--format", "json")
	if !errors.Is(err, errFindings) {
		t.Fatalf("expected findings failure, got %v", err)
	}

	var decoded model.Report
	if unmarshalErr := json.Unmarshal([]byte(output), &decoded); unmarshalErr != nil {
		t.Fatalf("invalid json output: %v\n%s", unmarshalErr, output)
	}
	if decoded.Summary.Failed != 1 || decoded.Summary.TotalFiles != 1 {
		t.Fatalf("unexpected summary: %+v", decoded.Summary)
	}
}

// TestCheckWarnOnlySwallowsFailure 验证 --warn-only 压平退出码。
func TestCheckWarnOnlySwallowsFailure(t *testing.T) {
	chdir(t, t.TempDir())

	if err := os.WriteFile("big.go", []byte(strings.Repeat("x := 1\n", 5)), 0o644); err != nil {
		t.Fatalf("write file failed: %v", err)
	}

	if _, err := runCommand(t, "check", "--max-lines", "3", "--warn-only"); err != nil {
		t.Fatalf("warn-only must not fail: %v", err)
	}
}

// TestCheckAutoModeRatchetsOnlyCleanRuns 验证 auto 模式脏运行不落基线。
// 新增违规不能靠一次失败的运行把自己洗进基线。
func TestCheckAutoModeRatchetsOnlyCleanRuns(t *testing.T) {
	chdir(t, t.TempDir())

	configText := "version = \"2\"\n" +
		"[scanner]\n" +
		"gitignore = false\n" +
		"[content]\n" +
		"max_lines = 3\n" +
		"[baseline]\n" +
		"path = \"baseline.json\"\n" +
		"mode = \"auto\"\n"
	if err := os.WriteFile(config.DefaultFileName, []byte(configText), 0o644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}
	if err := os.WriteFile("big.go", []byte(strings.Repeat("x := 1\n", 5)), 0o644); err != nil {
		t.Fatalf("write file failed: %v", err)
	}

	// 脏运行：失败，且不得写出基线。
	if _, err := runCommand(t, "check"); !errors.Is(err, errFindings) {
		t.Fatalf("expected findings failure, got %v", err)
	}
	if _, err := os.Stat("baseline.json"); !os.IsNotExist(err) {
		t.Fatalf("dirty run must not write a baseline: %v", err)
	}

	// 第二次运行没有基线可豁免，必须仍然失败。
	if _, err := runCommand(t, "check"); !errors.Is(err, errFindings) {
		t.Fatalf("second run must still fail, got %v", err)
	}

	// 修复后干净运行才落盘。
	if err := os.WriteFile("big.go", []byte("x := 1\n"), 0o644); err != nil {
		t.Fatalf("rewrite failed: %v", err)
	}
	if _, err := runCommand(t, "check"); err != nil {
		t.Fatalf("clean run failed: %v", err)
	}
	if _, err := os.Stat("baseline.json"); err != nil {
		t.Fatalf("clean run must write the baseline: %v", err)
	}
}

// TestCheckIncludeBeatsPositional 验证 --include 优先于位置参数。
func TestCheckIncludeBeatsPositional(t *testing.T) {
	chdir(t, t.TempDir())

	if err := os.MkdirAll("good", 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile("good/ok.go", []byte("x := 1\n"), 0o644); err != nil {
		t.Fatalf("write file failed: %v", err)
	}
	if err := os.MkdirAll("bad", 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile("bad/big.go", []byte(strings.Repeat("x := 1\n", 5)), 0o644); err != nil {
		t.Fatalf("write file failed: %v", err)
	}

	_, err := runCommand(t, "check", "good", "--include", "bad", "--max-lines", "3")
	if !errors.Is(err, errFindings) {
		t.Fatalf("--include must win over positional args, got %v", err)
	}
}

// TestCheckTrendRecording 验证启用趋势后状态目录里出现历史文件。
func TestCheckTrendRecording(t *testing.T) {
	chdir(t, t.TempDir())

	configText := "version = \"2\"\n" +
		"[trend]\n" +
		"enabled = true\n" +
		"history_limit = 5\n"
	if err := os.WriteFile(config.DefaultFileName, []byte(configText), 0o644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}
	if err := os.WriteFile("a.go", []byte("x := 1\n"), 0o644); err != nil {
		t.Fatalf("write file failed: %v", err)
	}

	if _, err := runCommand(t, "check"); err != nil {
		t.Fatalf("check failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(".sloc-guard", "trend.json")); err != nil {
		t.Fatalf("trend history missing: %v", err)
	}
}

// TestConfigValidateCommand 验证配置校验子命令。
func TestConfigValidateCommand(t *testing.T) {
	chdir(t, t.TempDir())

	if err := os.WriteFile(config.DefaultFileName, []byte("version = \"2\"\n"), 0o644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}

	output, err := runCommand(t, "config", "validate")
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !strings.Contains(output, "configuration is valid") {
		t.Fatalf("unexpected output: %q", output)
	}
}

// TestExplainCommandJSON 验证 explain 的 JSON 决策轨迹。
func TestExplainCommandJSON(t *testing.T) {
	chdir(t, t.TempDir())

	configText := "version = \"2\"\n" +
		"[[content.overrides]]\n" +
		"path = \"src/lib.rs\"\n" +
		"max_lines = 900\n" +
		"reason = \"legacy\"\n"
	if err := os.WriteFile(config.DefaultFileName, []byte(configText), 0o644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}

	output, err := runCommand(t, "explain", "src/lib.rs", "--json")
	if err != nil {
		t.Fatalf("explain failed: %v", err)
	}

	var decoded struct {
		Effective struct {
			MaxLines int    `json:"MaxLines"`
			Source   string `json:"Source"`
		} `json:"effective"`
	}
	if unmarshalErr := json.Unmarshal([]byte(output), &decoded); unmarshalErr != nil {
		t.Fatalf("invalid json: %v\n%s", unmarshalErr, output)
	}
	if decoded.Effective.MaxLines != 900 || decoded.Effective.Source != "content.overrides[0]" {
		t.Fatalf("unexpected effective limits: %+v", decoded.Effective)
	}
}

// TestStatsCommandJSON 验证 stats 的 JSON 聚合输出。
func TestStatsCommandJSON(t *testing.T) {
	chdir(t, t.TempDir())

	if err := os.WriteFile("a.go", []byte("package a\n\n// note\nvar X = 1\n"), 0o644); err != nil {
		t.Fatalf("write file failed: %v", err)
	}

	output, err := runCommand(t, "stats", "--format", "json")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}

	var decoded struct {
		Total     model.LineStats `json:"total"`
		Languages []struct {
			Language string `json:"language"`
			Files    int    `json:"files"`
		} `json:"languages"`
	}
	if unmarshalErr := json.Unmarshal([]byte(output), &decoded); unmarshalErr != nil {
		t.Fatalf("invalid json: %v\n%s", unmarshalErr, output)
	}
	if decoded.Total.Code != 2 || decoded.Total.Comment != 1 || decoded.Total.Blank != 1 {
		t.Fatalf("unexpected totals: %+v", decoded.Total)
	}
	if len(decoded.Languages) != 1 || decoded.Languages[0].Language != "Go" {
		t.Fatalf("unexpected languages: %+v", decoded.Languages)
	}
}

// TestBaselineCreateAndVerify 验证基线创建与一致性校验。
func TestBaselineCreateAndVerify(t *testing.T) {
	chdir(t, t.TempDir())

	configText := "version = \"2\"\n" +
		"[scanner]\n" +
		"gitignore = false\n" +
		"[content]\n" +
		"max_lines = 3\n" +
		"[baseline]\n" +
		"path = \"baseline.json\"\n"
	if err := os.WriteFile(config.DefaultFileName, []byte(configText), 0o644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}
	if err := os.WriteFile("big.go", []byte(strings.Repeat("x := 1\n", 5)), 0o644); err != nil {
		t.Fatalf("write file failed: %v", err)
	}

	if _, err := runCommand(t, "baseline", "create"); err != nil {
		t.Fatalf("baseline create failed: %v", err)
	}
	if _, err := os.Stat("baseline.json"); err != nil {
		t.Fatalf("baseline file missing: %v", err)
	}

	// 现状未变化时验证通过。
	if _, err := runCommand(t, "baseline", "verify"); err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	// 修复文件后基线出现陈旧条目，验证失败。
	if err := os.WriteFile("big.go", []byte("x := 1\n"), 0o644); err != nil {
		t.Fatalf("rewrite failed: %v", err)
	}
	if _, err := runCommand(t, "baseline", "verify"); !errors.Is(err, errFindings) {
		t.Fatalf("expected stale baseline failure, got %v", err)
	}
}
