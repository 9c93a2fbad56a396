package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"slocguard/internal/baseline"
	"slocguard/internal/checker"
	"slocguard/internal/config"
	"slocguard/internal/errs"
	"slocguard/internal/gitx"
	"slocguard/internal/model"
	"slocguard/internal/report"
	"slocguard/internal/trend"
)

// checkOptions 是 check 子命令的参数。
type checkOptions struct {
	configPath    string
	maxLines      int
	extensions    []string
	exclude       []string
	include       []string
	warnThreshold float64
	warnOnly      bool
	strict        bool
	baselinePath  string
	diffBase      string
	format        string
	output        string
	writeJSON     string
	writeSARIF    string
	color         string
	noCache       bool
	noGitignore   bool
	quiet         bool
	verbose       bool
}

// newCheckCmd 创建 check 子命令。
// 命令示例：sloc-guard check ./src --max-lines 400 --format json
func newCheckCmd() *cobra.Command {
	options := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "执行内容与结构策略检查",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, options, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&options.configPath, "config", "c", "", "配置文件路径")
	flags.IntVar(&options.maxLines, "max-lines", 0, "覆盖全局行数上限")
	flags.StringSliceVar(&options.extensions, "ext", nil, "覆盖内容检查后缀清单")
	flags.StringSliceVar(&options.exclude, "exclude", nil, "追加排除模式")
	flags.StringSliceVar(&options.include, "include", nil, "覆盖扫描根目录（优先于位置参数）")
	flags.Float64Var(&options.warnThreshold, "warn-threshold", 0, "覆盖警告阈值（0-1）")
	flags.BoolVar(&options.warnOnly, "warn-only", false, "只报告不阻塞，退出码恒为 0")
	flags.BoolVar(&options.strict, "strict", false, "新增警告也视为失败")
	flags.StringVar(&options.baselinePath, "baseline", "", "基线文件路径（隐含启用棘轮）")
	flags.StringVar(&options.diffBase, "diff", "", "只检查相对该 git 引用变化的文件")
	flags.StringVar(&options.format, "format", "text", "输出格式：text/json/sarif/markdown/html")
	flags.StringVarP(&options.output, "output", "o", "", "输出写入文件而非标准输出")
	flags.StringVar(&options.writeJSON, "write-json", "", "额外写一份 JSON 报告到该文件")
	flags.StringVar(&options.writeSARIF, "write-sarif", "", "额外写一份 SARIF 报告到该文件")
	flags.StringVar(&options.color, "color", "auto", "着色控制：auto/always/never")
	flags.BoolVar(&options.noCache, "no-cache", false, "兼容保留，本版本不落缓存")
	flags.BoolVar(&options.noGitignore, "no-gitignore", false, "忽略 .gitignore 语义")
	flags.BoolVarP(&options.quiet, "quiet", "q", false, "只输出失败与汇总")
	flags.BoolVarP(&options.verbose, "verbose", "v", false, "连通过的文件也逐行列出")

	return cmd
}

// runCheck 执行一次完整检查并渲染输出。
func runCheck(cmd *cobra.Command, options *checkOptions, args []string) error {
	cfg, err := loadConfig(options.configPath)
	if err != nil {
		return err
	}
	applyCheckOverrides(cmd, cfg, options)

	mode := baseline.Mode(cfg.Baseline.Mode)
	baselinePath := cfg.Baseline.Path
	if options.baselinePath != "" {
		baselinePath = options.baselinePath
		if mode == baseline.ModeOff {
			mode = baseline.ModeWarn
		}
	}
	if !baseline.ValidMode(mode) {
		return errs.Config(
			fmt.Sprintf("invalid baseline mode %q", mode),
			"", "use one of: off, warn, auto, strict")
	}

	// 扫描根优先级：--include > 位置参数 > 配置。
	roots := args
	if cmd.Flags().Changed("include") {
		roots = options.include
	}

	runnerOptions := checker.Options{
		Roots:        roots,
		BaselinePath: baselinePath,
		Mode:         mode,
	}

	if options.diffBase != "" {
		workDir, wdErr := os.Getwd()
		if wdErr != nil {
			return errs.IO(".", wdErr)
		}
		changed, diffErr := gitx.ChangedFiles(cmd.Context(), workDir, options.diffBase)
		if diffErr != nil {
			return diffErr
		}
		filter := make(map[string]bool, len(changed))
		for _, path := range changed {
			filter[path] = true
		}
		runnerOptions.FileFilter = filter
	}

	runner, err := checker.New(cfg, runnerOptions)
	if err != nil {
		return err
	}
	outcome, err := runner.Run()
	if err != nil {
		return err
	}

	// auto 模式只在干净运行时收紧基线：快照里剩下的是仍被豁免的
	// 旧账，陈旧条目自然脱落。脏运行不落盘，新增违规进不了基线。
	if mode == baseline.ModeAuto && options.diffBase == "" &&
		outcome.Report.Summary.Failed == 0 {
		if saveErr := outcome.Snapshot.Save(baselinePath); saveErr != nil {
			return saveErr
		}
	}

	// 趋势历史只记录整树检查，diff 的局部汇总没有可比性。
	if cfg.Trend.Enabled && options.diffBase == "" {
		stateDir, stateErr := gitx.StateDir(".")
		if stateErr != nil {
			return stateErr
		}
		point := trend.NewPoint(outcome.Report.Summary)
		if trendErr := trend.Append(stateDir, point, cfg.Trend.HistoryLimit); trendErr != nil {
			return trendErr
		}
	}

	if err := writeReports(cmd, options, outcome.Report); err != nil {
		return err
	}

	if checker.ExitCode(outcome.Report, options.warnOnly, options.strict) != 0 {
		return errFindings
	}
	return nil
}

// applyCheckOverrides 把命令行覆盖项叠加到配置上。
// 只有显式给出的 flag 才生效，零值不会覆盖配置。
func applyCheckOverrides(cmd *cobra.Command, cfg *config.Config, options *checkOptions) {
	flags := cmd.Flags()

	if flags.Changed("max-lines") {
		cfg.Content.MaxLines = &options.maxLines
	}
	if flags.Changed("ext") {
		cfg.Content.Extensions = &options.extensions
	}
	if flags.Changed("warn-threshold") {
		cfg.Content.WarnThreshold = &options.warnThreshold
	}
	if flags.Changed("exclude") {
		merged := options.exclude
		if cfg.Scanner.Exclude != nil {
			merged = append(append([]string(nil), *cfg.Scanner.Exclude...), options.exclude...)
		}
		cfg.Scanner.Exclude = &merged
	}
	if options.noGitignore {
		off := false
		cfg.Scanner.Gitignore = &off
	}
}

// writeReports 渲染主报告与附加报告。
func writeReports(cmd *cobra.Command, options *checkOptions, result *model.Report) error {
	destination := cmd.OutOrStdout()
	if options.output != "" {
		file, err := os.Create(options.output)
		if err != nil {
			return errs.IO(options.output, err)
		}
		defer file.Close()
		destination = file
	}

	var formatter report.Formatter
	if options.format == report.FormatText || options.format == "" {
		formatter = &report.TextFormatter{
			Color:   report.ColorEnabled(options.color, destination),
			Verbose: options.verbose,
			Quiet:   options.quiet,
		}
	} else {
		built, err := report.New(options.format, false)
		if err != nil {
			return err
		}
		formatter = built
	}
	if err := formatter.Write(destination, result); err != nil {
		return err
	}

	if options.writeJSON != "" {
		if err := writeToFile(options.writeJSON, &report.JSONFormatter{}, result); err != nil {
			return err
		}
	}
	if options.writeSARIF != "" {
		if err := writeToFile(options.writeSARIF, &report.SARIFFormatter{}, result); err != nil {
			return err
		}
	}
	return nil
}

// writeToFile 用指定格式写一份报告文件。
func writeToFile(path string, formatter report.Formatter, result *model.Report) error {
	file, err := os.Create(path)
	if err != nil {
		return errs.IO(path, err)
	}
	defer file.Close()
	return formatter.Write(file, result)
}
