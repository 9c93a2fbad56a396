package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"slocguard/internal/baseline"
	"slocguard/internal/checker"
)

// baselineOptions 是 baseline 子命令组的公共参数。
type baselineOptions struct {
	configPath   string
	baselinePath string
}

// newBaselineCmd 创建 baseline 子命令组。
func newBaselineCmd() *cobra.Command {
	options := &baselineOptions{}

	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "管理棘轮基线文件",
	}
	cmd.PersistentFlags().StringVarP(&options.configPath, "config", "c", "", "配置文件路径")
	cmd.PersistentFlags().StringVar(&options.baselinePath, "baseline", "", "基线文件路径")

	cmd.AddCommand(newBaselineCreateCmd(options))
	cmd.AddCommand(newBaselineUpdateCmd(options))
	cmd.AddCommand(newBaselineVerifyCmd(options))
	return cmd
}

// snapshotCurrent 执行一次检查并返回当前违规快照与基线路径。
func snapshotCurrent(options *baselineOptions, args []string) (*baseline.Baseline, string, error) {
	cfg, err := loadConfig(options.configPath)
	if err != nil {
		return nil, "", err
	}

	path := cfg.Baseline.Path
	if options.baselinePath != "" {
		path = options.baselinePath
	}
	if path == "" {
		path = baseline.DefaultFileName
	}

	// 快照采集不消费既有基线，棘轮判定与落盘内容无关。
	runner, err := checker.New(cfg, checker.Options{Roots: args, Mode: baseline.ModeOff})
	if err != nil {
		return nil, "", err
	}
	outcome, err := runner.Run()
	if err != nil {
		return nil, "", err
	}
	return outcome.Snapshot, path, nil
}

// newBaselineCreateCmd 创建 baseline create 子命令。
func newBaselineCreateCmd(options *baselineOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "create [paths...]",
		Short: "把当前全部超标登记为基线",
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, path, err := snapshotCurrent(options, args)
			if err != nil {
				return err
			}
			if err := snapshot.Save(path); err != nil {
				return err
			}
			cmd.Printf("wrote %s with %d entries\n", path, snapshot.Len())
			return nil
		},
	}
}

// newBaselineUpdateCmd 创建 baseline update 子命令。
// 与 create 的区别只在输出：update 报告相对旧基线的增删。
func newBaselineUpdateCmd(options *baselineOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "update [paths...]",
		Short: "用当前超标重写基线并报告增删",
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, path, err := snapshotCurrent(options, args)
			if err != nil {
				return err
			}

			added, removed := 0, 0
			if _, statErr := os.Stat(path); statErr == nil {
				previous, loadErr := baseline.Load(path)
				if loadErr != nil {
					return loadErr
				}
				for _, entry := range snapshot.Paths() {
					if _, ok := previous.Get(entry); !ok {
						added++
					}
				}
				for _, entry := range previous.Paths() {
					if _, ok := snapshot.Get(entry); !ok {
						removed++
					}
				}
			} else {
				added = snapshot.Len()
			}

			if err := snapshot.Save(path); err != nil {
				return err
			}
			cmd.Printf("wrote %s: %d entries (%d added, %d resolved)\n",
				path, snapshot.Len(), added, removed)
			return nil
		},
	}
}

// newBaselineVerifyCmd 创建 baseline verify 子命令。
// 基线中已修复的陈旧条目会让验证失败，提醒收紧基线。
func newBaselineVerifyCmd(options *baselineOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify [paths...]",
		Short: "检查基线是否仍与现状一致",
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, path, err := snapshotCurrent(options, args)
			if err != nil {
				return err
			}
			recorded, err := baseline.Load(path)
			if err != nil {
				return err
			}

			stale := 0
			for _, entry := range recorded.Paths() {
				if _, ok := snapshot.Get(entry); !ok {
					stale++
					cmd.Printf("stale entry: %s no longer exceeds its limit\n", entry)
				}
			}

			if stale > 0 {
				cmd.Printf("%d stale entries, run `sloc-guard baseline update` to tighten the baseline\n", stale)
				return errFindings
			}
			cmd.Println("baseline is up to date")
			return nil
		},
	}
}
