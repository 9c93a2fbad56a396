package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"slocguard/internal/config"
	"slocguard/internal/errs"
)

// initOptions 是 init 子命令的参数。
type initOptions struct {
	force bool
}

// newInitCmd 创建 init 子命令，在当前目录写出起步配置。
func newInitCmd() *cobra.Command {
	options := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "生成起步配置文件",
		RunE: func(cmd *cobra.Command, _ []string) error {
			target := config.DefaultFileName

			if _, err := os.Stat(target); err == nil && !options.force {
				return errs.Config(
					fmt.Sprintf("%s already exists", target),
					"",
					"pass --force to overwrite",
				)
			}

			if err := os.WriteFile(target, []byte(config.Template), 0o644); err != nil {
				return errs.IO(target, err)
			}
			cmd.Printf("wrote %s\n", target)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&options.force, "force", "f", false, "覆盖已有配置文件")
	return cmd
}
