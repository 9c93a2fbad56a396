package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// languageOptions 是 language 子命令的参数。
type languageOptions struct {
	configPath string
}

// newLanguageCmd 创建 language 子命令。
// 命令展示全部可识别语言（内置加配置自定义）及对应文件后缀。
func newLanguageCmd() *cobra.Command {
	options := &languageOptions{}

	cmd := &cobra.Command{
		Use:   "language",
		Short: "展示可识别语言及后缀",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(options.configPath)
			if err != nil {
				return err
			}
			registry, replaced, err := cfg.LanguageRegistry()
			if err != nil {
				return err
			}

			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

			if _, err := fmt.Fprintln(writer, "LANGUAGE\tEXTENSIONS"); err != nil {
				return err
			}
			for _, item := range registry.Languages() {
				if _, err := fmt.Fprintf(writer, "%s\t%s\n", item.Name, strings.Join(item.Extensions, ", ")); err != nil {
					return err
				}
			}
			if err := writer.Flush(); err != nil {
				return err
			}

			for _, item := range replaced {
				cmd.Printf("note: extension %q moved from %s to %s\n",
					item.Extension, item.OldName, item.NewName)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&options.configPath, "config", "c", "", "配置文件路径")
	return cmd
}
