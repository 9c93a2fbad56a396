package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"slocguard/internal/classifier"
	"slocguard/internal/language"
	"slocguard/internal/model"
	"slocguard/internal/scanner"
)

// statsOptions 是 stats 子命令的参数。
type statsOptions struct {
	configPath string
	format     string
	topFiles   int
}

// languageStats 是单语言的聚合统计。
type languageStats struct {
	Language string          `json:"language"`
	Files    int             `json:"files"`
	Stats    model.LineStats `json:"stats"`
}

// fileStats 是单文件统计，供“最大文件”清单使用。
type fileStats struct {
	Path string `json:"path"`
	Code int    `json:"code"`
}

// statsReport 是 stats 命令的 JSON 输出模型。
type statsReport struct {
	Total     model.LineStats `json:"total"`
	Languages []languageStats `json:"languages"`
	TopFiles  []fileStats     `json:"top_files,omitempty"`
}

// newStatsCmd 创建 stats 子命令。
// 命令示例：sloc-guard stats ./src --format json
func newStatsCmd() *cobra.Command {
	options := &statsOptions{}

	cmd := &cobra.Command{
		Use:   "stats [paths...]",
		Short: "输出行数统计而不做任何判定",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, options, args)
		},
	}

	cmd.Flags().StringVarP(&options.configPath, "config", "c", "", "配置文件路径")
	cmd.Flags().StringVar(&options.format, "format", "text", "输出格式：text/json")
	cmd.Flags().IntVar(&options.topFiles, "top", -1, "最大文件清单条数，-1 取配置值")
	return cmd
}

// runStats 扫描并聚合统计。
func runStats(cmd *cobra.Command, options *statsOptions, args []string) error {
	cfg, err := loadConfig(options.configPath)
	if err != nil {
		return err
	}
	resolver, err := cfg.ContentResolver()
	if err != nil {
		return err
	}
	registry, _, err := cfg.LanguageRegistry()
	if err != nil {
		return err
	}

	scanOptions := cfg.ScannerOptions()
	if len(args) > 0 {
		scanOptions.Roots = args
	}
	scanOptions.ContentFilter = resolver.ShouldProcess

	scanResult, err := scanner.Scan(scanOptions)
	if err != nil {
		return err
	}

	byLanguage := make(map[string]*languageStats)
	var files []fileStats
	var total model.LineStats

	for _, file := range scanResult.Files {
		content, readErr := os.ReadFile(file.AbsPath)
		if readErr != nil {
			continue
		}

		name := "Text"
		syntax := &language.CommentSyntax{}
		if lang, ok := registry.ByPath(file.Path); ok {
			name = lang.Name
			syntax = &lang.Syntax
		}

		stats, _, classifyErr := classifier.Classify(syntax, bytes.NewReader(content))
		if classifyErr != nil {
			continue
		}

		bucket, ok := byLanguage[name]
		if !ok {
			bucket = &languageStats{Language: name}
			byLanguage[name] = bucket
		}
		bucket.Files++
		bucket.Stats.Add(stats)
		total.Add(stats)
		files = append(files, fileStats{Path: file.Path, Code: stats.Code})
	}

	output := statsReport{Total: total}
	for _, bucket := range byLanguage {
		output.Languages = append(output.Languages, *bucket)
	}
	sort.Slice(output.Languages, func(i int, j int) bool {
		if output.Languages[i].Stats.Code != output.Languages[j].Stats.Code {
			return output.Languages[i].Stats.Code > output.Languages[j].Stats.Code
		}
		return output.Languages[i].Language < output.Languages[j].Language
	})

	top := options.topFiles
	if top < 0 {
		top = cfg.Stats.Report.TopFiles
	}
	if top > 0 {
		sort.Slice(files, func(i int, j int) bool {
			if files[i].Code != files[j].Code {
				return files[i].Code > files[j].Code
			}
			return files[i].Path < files[j].Path
		})
		if len(files) > top {
			files = files[:top]
		}
		output.TopFiles = files
	}

	if options.format == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(output)
	}
	return printStats(cmd, output)
}

// printStats 渲染统计表格。
func printStats(cmd *cobra.Command, output statsReport) error {
	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

	if _, err := fmt.Fprintln(writer, "LANGUAGE\tFILES\tCODE\tCOMMENT\tBLANK\tTOTAL"); err != nil {
		return err
	}
	for _, item := range output.Languages {
		if _, err := fmt.Fprintf(writer, "%s\t%d\t%d\t%d\t%d\t%d\n",
			item.Language, item.Files,
			item.Stats.Code, item.Stats.Comment, item.Stats.Blank, item.Stats.Total); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "TOTAL\t%d\t%d\t%d\t%d\t%d\n",
		sumFiles(output.Languages),
		output.Total.Code, output.Total.Comment, output.Total.Blank, output.Total.Total); err != nil {
		return err
	}
	if err := writer.Flush(); err != nil {
		return err
	}

	if len(output.TopFiles) > 0 {
		cmd.Println()
		cmd.Println("largest files:")
		for _, item := range output.TopFiles {
			cmd.Printf("  %6d  %s\n", item.Code, item.Path)
		}
	}
	return nil
}

// sumFiles 统计文件总数。
func sumFiles(languages []languageStats) int {
	count := 0
	for _, item := range languages {
		count += item.Files
	}
	return count
}
