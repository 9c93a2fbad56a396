package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"slocguard/internal/rules"
)

// explainOptions 是 explain 子命令的参数。
type explainOptions struct {
	configPath string
	asJSON     bool
}

// newExplainCmd 创建 explain 子命令。
// 命令示例：sloc-guard explain src/parser.go
func newExplainCmd() *cobra.Command {
	options := &explainOptions{}

	cmd := &cobra.Command{
		Use:   "explain <path>",
		Short: "展示某个路径的限制决策轨迹",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(options.configPath)
			if err != nil {
				return err
			}
			resolver, err := cfg.ContentResolver()
			if err != nil {
				return err
			}

			explanation := resolver.Explain(args[0])

			if options.asJSON {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(explanation)
			}
			return printExplanation(cmd, explanation)
		},
	}

	cmd.Flags().StringVarP(&options.configPath, "config", "c", "", "配置文件路径")
	cmd.Flags().BoolVar(&options.asJSON, "json", false, "以 JSON 输出")
	return cmd
}

// printExplanation 渲染人类可读的决策轨迹。
func printExplanation(cmd *cobra.Command, explanation rules.Explanation) error {
	cmd.Printf("path: %s\n", explanation.Path)

	if explanation.Excluded {
		cmd.Printf("excluded by content.exclude pattern %q\n", explanation.ExcludedPattern)
		return nil
	}
	if !explanation.ShouldProcess {
		cmd.Println("not subject to content checks (extension not listed, no rule matches)")
		return nil
	}

	cmd.Printf("effective limit: %d lines (warn at %.0f%%, source %s)\n",
		explanation.Effective.MaxLines,
		explanation.Effective.WarnThreshold*100,
		explanation.Effective.Source)
	if explanation.Effective.OverrideReason != "" {
		cmd.Printf("override reason: %s\n", explanation.Effective.OverrideReason)
	}

	cmd.Println("decision chain:")
	for _, candidate := range explanation.Chain {
		marker := " "
		switch candidate.Status {
		case rules.StatusMatched:
			marker = "*"
		case rules.StatusSuperseded:
			marker = "-"
		}
		if candidate.Pattern != "" {
			cmd.Printf("  %s %-24s %q -> %d lines (%s)\n",
				marker, candidate.Source, candidate.Pattern, candidate.MaxLines, candidate.Status)
			continue
		}
		cmd.Printf("  %s %-24s -> %d lines (%s)\n",
			marker, candidate.Source, candidate.MaxLines, candidate.Status)
	}
	return nil
}
