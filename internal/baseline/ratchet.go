package baseline

import "slocguard/internal/model"

// Mode 是棘轮模式。
type Mode string

// 棘轮模式取值。
const (
	// ModeOff 不消费基线，结论原样输出。
	ModeOff Mode = "off"
	// ModeWarn 已知且未恶化的违规降级为警告，恶化与新增失败。
	ModeWarn Mode = "warn"
	// ModeAuto 在干净运行时重写基线快照，否则行为同 warn。
	ModeAuto Mode = "auto"
	// ModeStrict 仅当行数与哈希完全一致时豁免，任何变化都重新审视。
	ModeStrict Mode = "strict"
)

// ValidMode 判断模式取值是否合法。
func ValidMode(mode Mode) bool {
	switch mode {
	case ModeOff, ModeWarn, ModeAuto, ModeStrict:
		return true
	}
	return false
}

// EvaluateContent 判定一条内容违规相对基线的分类。
// “未恶化”意味着当前行数不超过快照行数。
func (b *Baseline) EvaluateContent(path string, lines int, hash string, mode Mode) model.Category {
	if mode == ModeOff {
		return model.CategoryNew
	}

	entry, ok := b.Get(path)
	if !ok || entry.Type != EntryContent {
		return model.CategoryNew
	}

	if mode == ModeStrict {
		if lines == entry.Lines && hash == entry.Hash {
			return model.CategoryGrandfathered
		}
		return model.CategoryNew
	}

	if lines <= entry.Lines {
		return model.CategoryGrandfathered
	}
	return model.CategoryWorsened
}

// EvaluateStructure 判定一条结构计数违规相对基线的分类。
func (b *Baseline) EvaluateStructure(path string, violationType string, count int, mode Mode) model.Category {
	if mode == ModeOff {
		return model.CategoryNew
	}

	entry, ok := b.Get(path)
	if !ok || entry.Type != EntryStructure || entry.ViolationType != violationType {
		return model.CategoryNew
	}

	if mode == ModeStrict {
		if count == entry.Count {
			return model.CategoryGrandfathered
		}
		return model.CategoryNew
	}

	if count <= entry.Count {
		return model.CategoryGrandfathered
	}
	return model.CategoryWorsened
}
