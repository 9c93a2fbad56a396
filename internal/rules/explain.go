package rules

import "fmt"

// MatchStatus 表示候选规则在决策链中的状态。
type MatchStatus string

// 决策状态取值。
const (
	// StatusMatched 表示该候选最终胜出。
	StatusMatched MatchStatus = "matched"
	// StatusSuperseded 表示模式命中但被更高优先级候选压制。
	StatusSuperseded MatchStatus = "superseded"
	// StatusNoMatch 表示模式未命中。
	StatusNoMatch MatchStatus = "no_match"
)

// Candidate 是决策链中的一个候选项。
type Candidate struct {
	Source   string      `json:"source"`
	Pattern  string      `json:"pattern,omitempty"`
	MaxLines int         `json:"max_lines"`
	Status   MatchStatus `json:"status"`
}

// Explanation 是 explain 命令消费的完整决策轨迹。
type Explanation struct {
	Path            string      `json:"path"`
	Excluded        bool        `json:"excluded"`
	ExcludedPattern string      `json:"excluded_pattern,omitempty"`
	ShouldProcess   bool        `json:"should_process"`
	Effective       Limits      `json:"effective"`
	Chain           []Candidate `json:"rule_chain"`
}

// Explain 返回路径的完整决策轨迹。
// override 虽然会短路规则求值，但轨迹仍展示全部候选以便诊断。
func (r *Resolver) Explain(path string) Explanation {
	normalized := NormalizePath(path)

	explanation := Explanation{
		Path:          normalized,
		ShouldProcess: r.ShouldProcess(path),
		Effective:     r.Resolve(path),
	}

	for _, pattern := range r.globals.Exclude {
		if globMatch(pattern, normalized) {
			explanation.Excluded = true
			explanation.ExcludedPattern = pattern
			break
		}
	}

	winnerOverride, hasOverride := r.matchOverride(normalized)
	winnerRule, hasRule := r.matchRule(normalized)

	for index, override := range r.overrides {
		status := StatusNoMatch
		if !r.expired(override.Expires) && SuffixMatch(normalized, NormalizePath(override.Path)) {
			status = StatusSuperseded
			if hasOverride && index == winnerOverride {
				status = StatusMatched
			}
		}
		explanation.Chain = append(explanation.Chain, Candidate{
			Source:   fmt.Sprintf("content.overrides[%d]", index),
			Pattern:  override.Path,
			MaxLines: override.MaxLines,
			Status:   status,
		})
	}

	for index, rule := range r.rules {
		status := StatusNoMatch
		if !r.expired(rule.Expires) && globMatch(rule.Pattern, normalized) {
			status = StatusSuperseded
			if !hasOverride && hasRule && index == winnerRule {
				status = StatusMatched
			}
		}
		maxLines := r.globals.MaxLines
		if rule.MaxLines != nil {
			maxLines = *rule.MaxLines
		}
		explanation.Chain = append(explanation.Chain, Candidate{
			Source:   fmt.Sprintf("content.rules[%d]", index),
			Pattern:  rule.Pattern,
			MaxLines: maxLines,
			Status:   status,
		})
	}

	defaultStatus := StatusSuperseded
	if !hasOverride && !hasRule {
		defaultStatus = StatusMatched
	}
	explanation.Chain = append(explanation.Chain, Candidate{
		Source:   "default",
		MaxLines: r.globals.MaxLines,
		Status:   defaultStatus,
	})

	return explanation
}
