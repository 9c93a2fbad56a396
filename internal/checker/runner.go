// Package checker 把扫描、分类、规则解析与基线棘轮串联成一次完整检查。
package checker

import (
	"bytes"
	"fmt"
	"os"
	"runtime"
	"sort"
	"sync"

	"slocguard/internal/baseline"
	"slocguard/internal/classifier"
	"slocguard/internal/config"
	"slocguard/internal/language"
	"slocguard/internal/model"
	"slocguard/internal/rules"
	"slocguard/internal/scanner"
	"slocguard/internal/structure"
)

// Options 控制一次检查。
type Options struct {
	// Roots 覆盖配置中的扫描根，空则使用配置值。
	Roots []string
	// BaselinePath 与 Mode 控制棘轮；Mode 为 off 时不读基线文件。
	BaselinePath string
	Mode         baseline.Mode
	// FileFilter 非 nil 时只检查集合内的文件（diff 模式）。
	// diff 模式下结构检查整体跳过，目录计数对局部文件集没有意义。
	FileFilter map[string]bool
	// Workers 是内容检查并发度，0 表示取 CPU 数。
	Workers int
}

// Runner 是编译好的一次性检查执行器。
type Runner struct {
	cfg       *config.Config
	resolver  *rules.Resolver
	structure *structure.Checker
	registry  *language.Registry
	replaced  []language.Replacement
	base      *baseline.Baseline
	options   Options
}

// Outcome 是一次检查的完整产物。
type Outcome struct {
	Report *model.Report
	// Snapshot 收录本次运行中实际超限的条目，auto 模式与
	// baseline create/update 用它落盘。
	Snapshot *baseline.Baseline
	// Replaced 记录被自定义语言接管的后缀。
	Replaced []language.Replacement
}

// New 编译配置并装载基线。基线文件不存在按空基线处理。
func New(cfg *config.Config, options Options) (*Runner, error) {
	resolver, err := cfg.ContentResolver()
	if err != nil {
		return nil, err
	}
	structureChecker, err := cfg.StructureChecker()
	if err != nil {
		return nil, err
	}
	registry, replaced, err := cfg.LanguageRegistry()
	if err != nil {
		return nil, err
	}

	base := baseline.New()
	if options.Mode != baseline.ModeOff && options.Mode != "" && options.BaselinePath != "" {
		if _, statErr := os.Stat(options.BaselinePath); statErr == nil {
			loaded, loadErr := baseline.Load(options.BaselinePath)
			if loadErr != nil {
				return nil, loadErr
			}
			base = loaded
		}
	}
	if options.Mode == "" {
		options.Mode = baseline.ModeOff
	}

	return &Runner{
		cfg:       cfg,
		resolver:  resolver,
		structure: structureChecker,
		registry:  registry,
		replaced:  replaced,
		base:      base,
		options:   options,
	}, nil
}

// contentResult 是单文件内容检查的产物，经结果通道汇聚。
type contentResult struct {
	finding model.Finding
	// skipped 表示文件被 ignore-file 指令整体豁免。
	skipped bool
	// violating 表示豁免前实际超限，供快照使用。
	violating bool
	lines     int
	hash      string
	scanError *model.ScanError
}

// Run 执行完整检查。
func (r *Runner) Run() (*Outcome, error) {
	scanOptions := r.cfg.ScannerOptions()
	if len(r.options.Roots) > 0 {
		scanOptions.Roots = r.options.Roots
	}
	scanOptions.ContentFilter = r.contentFilter()

	scanResult, err := scanner.Scan(scanOptions)
	if err != nil {
		return nil, err
	}

	report := &model.Report{}
	report.Errors = append(report.Errors, scanResult.Errors...)
	snapshot := baseline.New()

	r.runContent(scanResult.Files, report, snapshot)
	if r.options.FileFilter == nil {
		r.runStructure(&scanResult, report, snapshot)
	}

	sort.Slice(report.Findings, func(i int, j int) bool {
		if report.Findings[i].Path != report.Findings[j].Path {
			return report.Findings[i].Path < report.Findings[j].Path
		}
		return report.Findings[i].Kind < report.Findings[j].Kind
	})

	return &Outcome{Report: report, Snapshot: snapshot, Replaced: r.replaced}, nil
}

// contentFilter 组合规则过滤与 diff 文件集。
func (r *Runner) contentFilter() func(string) bool {
	if r.options.FileFilter == nil {
		return r.resolver.ShouldProcess
	}
	filter := r.options.FileFilter
	return func(path string) bool {
		return filter[path] && r.resolver.ShouldProcess(path)
	}
}

// runContent 用工作池并发检查内容限制。
func (r *Runner) runContent(files []scanner.File, report *model.Report, snapshot *baseline.Baseline) {
	workers := r.options.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	tasks := make(chan scanner.File, workers)
	results := make(chan contentResult, workers)

	var group sync.WaitGroup
	for i := 0; i < workers; i++ {
		group.Add(1)
		go func() {
			defer group.Done()
			for file := range tasks {
				results <- r.checkFile(file)
			}
		}()
	}

	go func() {
		for _, file := range files {
			tasks <- file
		}
		close(tasks)
	}()

	go func() {
		group.Wait()
		close(results)
	}()

	for result := range results {
		if result.scanError != nil {
			report.Errors = append(report.Errors, *result.scanError)
			continue
		}

		report.Summary.TotalFiles++
		if result.skipped {
			report.Summary.Passed++
			continue
		}

		switch result.finding.Severity {
		case model.SeverityFail:
			report.Summary.Failed++
		case model.SeverityWarn:
			report.Summary.Warnings++
			if result.finding.Category == model.CategoryGrandfathered {
				report.Summary.Grandfathered++
			}
		default:
			report.Summary.Passed++
		}

		if result.violating {
			snapshot.SetContent(result.finding.Path, result.lines, result.hash)
		}
		report.Findings = append(report.Findings, result.finding)
	}
}

// checkFile 对单个文件执行读取、分类、限制比较与基线判定。
func (r *Runner) checkFile(file scanner.File) contentResult {
	content, err := os.ReadFile(file.AbsPath)
	if err != nil {
		return contentResult{scanError: &model.ScanError{Path: file.Path, Error: err.Error()}}
	}

	syntax := &language.CommentSyntax{}
	if lang, ok := r.registry.ByPath(file.Path); ok {
		syntax = &lang.Syntax
	}

	stats, ignoredFile, err := classifier.Classify(syntax, bytes.NewReader(content))
	if err != nil {
		return contentResult{scanError: &model.ScanError{Path: file.Path, Error: err.Error()}}
	}
	if ignoredFile {
		return contentResult{skipped: true}
	}

	limits := r.resolver.Resolve(file.Path)
	effective := stats.Effective(limits.SkipComments, limits.SkipBlank)
	hash := baseline.HashBytes(content)

	severity := model.SeverityOK
	violating := effective > limits.MaxLines
	if violating {
		severity = model.SeverityFail
	} else if limits.WarnThreshold < 1 &&
		float64(effective) >= float64(limits.MaxLines)*limits.WarnThreshold {
		severity = model.SeverityWarn
	}

	category := model.CategoryNew
	if violating {
		category = r.base.EvaluateContent(file.Path, effective, hash, r.options.Mode)
		if category == model.CategoryGrandfathered {
			severity = model.SeverityWarn
		}
	}

	finding := model.Finding{
		Path:     file.Path,
		Kind:     model.KindContent,
		Actual:   effective,
		Limit:    limits.MaxLines,
		Severity: severity,
		Category: category,
		Reason:   limits.OverrideReason,
		Stats:    effectiveStats(stats, limits),
		RawStats: &stats,
	}
	if severity == model.SeverityFail && category == model.CategoryNew {
		finding.Suggestions = []string{
			"split the file, or add a [[content.overrides]] entry with a reason",
		}
	}

	return contentResult{
		finding:   finding,
		violating: violating,
		lines:     effective,
		hash:      hash,
	}
}

// effectiveStats 返回 skip 设置生效后的统计视图。
func effectiveStats(stats model.LineStats, limits rules.Limits) *model.LineStats {
	view := model.LineStats{Code: stats.Code, Ignored: stats.Ignored}
	if !limits.SkipComments {
		view.Comment = stats.Comment
	}
	if !limits.SkipBlank {
		view.Blank = stats.Blank
	}
	view.Total = view.Code + view.Comment + view.Blank + view.Ignored
	return &view
}

// runStructure 执行结构检查并折算被 deny 剪除的子项。
func (r *Runner) runStructure(scanResult *scanner.Result, report *model.Report, snapshot *baseline.Baseline) {
	for _, denied := range scanResult.Denied {
		kind := model.KindDeniedFile
		if denied.IsDir {
			kind = model.KindDeniedDir
		}
		report.Findings = append(report.Findings, model.Finding{
			Path:     denied.Path,
			Kind:     kind,
			Severity: model.SeverityFail,
			Category: model.CategoryNew,
			Detail:   denied.Pattern,
		})
		report.Summary.Failed++
	}

	if !r.structure.Enabled() {
		return
	}

	for _, violation := range r.structure.Check(scanResult.Dirs) {
		finding := model.Finding{
			Path:     violation.Path,
			Kind:     violation.Type,
			Actual:   violation.Actual,
			Limit:    violation.Limit,
			Severity: model.SeverityFail,
			Category: model.CategoryNew,
			Reason:   violation.Reason,
			Detail:   violation.Detail,
		}
		if violation.IsWarning {
			finding.Severity = model.SeverityWarn
		}

		violationType := structureViolationType(violation.Type)
		hardViolation := !violation.IsWarning && violationType != ""

		if hardViolation {
			finding.Category = r.base.EvaluateStructure(
				violation.Path, violationType, violation.Actual, r.options.Mode)
			if finding.Category == model.CategoryGrandfathered {
				finding.Severity = model.SeverityWarn
			}
			snapshot.SetStructure(violation.Path, violationType, violation.Actual)
		}

		switch finding.Severity {
		case model.SeverityFail:
			report.Summary.Failed++
		case model.SeverityWarn:
			report.Summary.Warnings++
			if finding.Category == model.CategoryGrandfathered {
				report.Summary.Grandfathered++
			}
		}
		if finding.Severity == model.SeverityFail && finding.Category == model.CategoryNew &&
			(violation.Type == model.KindFileCount || violation.Type == model.KindDirCount) {
			finding.Suggestions = []string{
				fmt.Sprintf("regroup the contents of %s into subdirectories, or raise the limit with a [[structure.overrides]] entry", violation.Path),
			}
		}

		report.Findings = append(report.Findings, finding)
	}
}

// structureViolationType 把检查种类映射为基线中的 violation_type。
// 只有计数类违规参与棘轮。
func structureViolationType(kind model.Kind) string {
	switch kind {
	case model.KindFileCount:
		return baseline.ViolationFiles
	case model.KindDirCount:
		return baseline.ViolationDirs
	}
	return ""
}

// ExitCode 按结论折算进程退出码。
// warnOnly 吞掉结论性失败；strict 把新增警告升级为失败。
func ExitCode(report *model.Report, warnOnly bool, strict bool) int {
	if warnOnly {
		return 0
	}
	if report.Summary.Failed > 0 {
		return 1
	}
	if strict {
		for _, finding := range report.Findings {
			if finding.Severity == model.SeverityWarn && finding.Category == model.CategoryNew {
				return 1
			}
		}
	}
	return 0
}
