package cmd

import (
	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"slocguard/internal/errs"
)

// configCmdOptions 是 config 子命令组的公共参数。
type configCmdOptions struct {
	configPath string
}

// newConfigCmd 创建 config 子命令组。
func newConfigCmd() *cobra.Command {
	options := &configCmdOptions{}

	cmd := &cobra.Command{
		Use:   "config",
		Short: "查看与校验配置",
	}
	cmd.PersistentFlags().StringVarP(&options.configPath, "config", "c", "", "配置文件路径")

	cmd.AddCommand(newConfigShowCmd(options))
	cmd.AddCommand(newConfigValidateCmd(options))
	return cmd
}

// newConfigShowCmd 创建 config show 子命令。
// 输出的是 extends 链展开、默认值填充后的最终生效配置。
func newConfigShowCmd(options *configCmdOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "展示最终生效配置",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(options.configPath)
			if err != nil {
				return err
			}

			encoder := toml.NewEncoder(cmd.OutOrStdout())
			if err := encoder.Encode(cfg); err != nil {
				return errs.Config("encode effective config", err.Error(), "")
			}
			return nil
		},
	}
}

// newConfigValidateCmd 创建 config validate 子命令。
func newConfigValidateCmd(options *configCmdOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "校验配置语义",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(options.configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			cmd.Println("configuration is valid")
			return nil
		},
	}
}
