// Package cmd 提供 sloc-guard 的命令行入口与子命令编排。
package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"slocguard/internal/config"
	"slocguard/internal/report"
)

// errFindings 标记结论性失败：检查完成但存在超限。
// 运行级错误（配置、IO、git）不走该通道。
var errFindings = errors.New("findings failed")

// Execute 组装根命令并执行，返回进程退出码。
// 0 全部通过，1 存在结论性失败，2 运行级错误。
func Execute(version string) int {
	rootCmd := newRootCmd(version)
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errFindings) {
			return 1
		}
		report.WriteErrorRecord(os.Stderr, err)
		return 2
	}
	return 0
}

// newRootCmd 创建根命令并注册全部子命令。
func newRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sloc-guard",
		Short: "源代码行数与目录结构策略检查工具",
		Long: "sloc-guard 按配置对代码仓库执行两类策略检查：\n" +
			"内容限制（语言感知的有效行数上限）与结构限制（目录文件数、深度、允许清单），\n" +
			"并通过基线棘轮让既有超标逐步收敛而不阻塞新提交。",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newVersionCmd(version))
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newExplainCmd())
	rootCmd.AddCommand(newBaselineCmd())
	rootCmd.AddCommand(newLanguageCmd())

	return rootCmd
}

// loadConfig 按优先级取得配置：显式路径、向上发现、内置默认。
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}

	workDir, err := os.Getwd()
	if err != nil {
		workDir = "."
	}
	if found, ok := config.Discover(workDir); ok {
		return config.Load(found)
	}
	return config.Default(), nil
}
