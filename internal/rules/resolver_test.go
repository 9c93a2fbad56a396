package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool        { return &v }

// testGlobals 是测试用的全局默认值。
func testGlobals() Globals {
	return Globals{
		MaxLines:      500,
		WarnThreshold: 0.9,
		SkipComments:  true,
		SkipBlank:     true,
		Extensions:    []string{"go", "rs"},
	}
}

// TestResolveDefault 验证无规则命中时落到全局默认。
func TestResolveDefault(t *testing.T) {
	resolver, err := NewResolver(testGlobals(), nil, nil)
	require.NoError(t, err)

	limits := resolver.Resolve("src/app.go")
	assert.Equal(t, 500, limits.MaxLines)
	assert.Equal(t, "default", limits.Source)
}

// TestResolveLastRuleWins 验证多条规则命中时后声明者胜出。
func TestResolveLastRuleWins(t *testing.T) {
	resolver, err := NewResolver(testGlobals(), []Rule{
		{Pattern: "src/**", MaxLines: intPtr(400)},
		{Pattern: "src/**/*.go", MaxLines: intPtr(300)},
	}, nil)
	require.NoError(t, err)

	limits := resolver.Resolve("src/deep/app.go")
	assert.Equal(t, 300, limits.MaxLines)
	assert.Equal(t, "content.rules[1]", limits.Source)
}

// TestResolveRuleInheritsGlobals 验证规则未设置的字段继承全局值。
func TestResolveRuleInheritsGlobals(t *testing.T) {
	resolver, err := NewResolver(testGlobals(), []Rule{
		{Pattern: "**/*.go", WarnThreshold: floatPtr(0.8), SkipBlank: boolPtr(false)},
	}, nil)
	require.NoError(t, err)

	limits := resolver.Resolve("app.go")
	assert.Equal(t, 500, limits.MaxLines)
	assert.Equal(t, 0.8, limits.WarnThreshold)
	assert.True(t, limits.SkipComments)
	assert.False(t, limits.SkipBlank)
}

// TestResolveOverrideBeatsRules 验证显式豁免压过规则。
func TestResolveOverrideBeatsRules(t *testing.T) {
	resolver, err := NewResolver(testGlobals(),
		[]Rule{{Pattern: "src/**", MaxLines: intPtr(300)}},
		[]Override{{Path: "src/lib.rs", MaxLines: 900, Reason: "legacy"}},
	)
	require.NoError(t, err)

	limits := resolver.Resolve("project/src/lib.rs")
	assert.Equal(t, 900, limits.MaxLines)
	assert.Equal(t, "legacy", limits.OverrideReason)
	assert.Equal(t, "content.overrides[0]", limits.Source)
}

// TestOverrideWholeComponentSuffix 验证豁免按整组件后缀匹配。
func TestOverrideWholeComponentSuffix(t *testing.T) {
	resolver, err := NewResolver(testGlobals(), nil,
		[]Override{{Path: "src/lib.rs", MaxLines: 900, Reason: "legacy"}},
	)
	require.NoError(t, err)

	assert.Equal(t, "content.overrides[0]", resolver.Resolve("any/prefix/src/lib.rs").Source)
	assert.Equal(t, "default", resolver.Resolve("src/my_lib.rs").Source)
}

// TestExpiredRuleSkipped 验证过期规则不再参与匹配。
func TestExpiredRuleSkipped(t *testing.T) {
	resolver, err := NewResolver(testGlobals(), []Rule{
		{Pattern: "**/*.go", MaxLines: intPtr(100), Expires: "2020-01-01"},
	}, nil)
	require.NoError(t, err)
	resolver.now = func() time.Time {
		return time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	}

	assert.Equal(t, "default", resolver.Resolve("app.go").Source)
}

// TestShouldProcessExcludeWins 验证 content.exclude 优先于一切命中。
func TestShouldProcessExcludeWins(t *testing.T) {
	globals := testGlobals()
	globals.Exclude = []string{"generated/**"}

	resolver, err := NewResolver(globals,
		[]Rule{{Pattern: "generated/**", MaxLines: intPtr(100)}},
		[]Override{{Path: "generated/api.go", MaxLines: 900}},
	)
	require.NoError(t, err)

	assert.False(t, resolver.ShouldProcess("generated/api.go"))
	assert.True(t, resolver.ShouldProcess("src/app.go"))
}

// TestShouldProcessRuleBringsFileIn 验证规则命中能把清单外后缀拉进检查。
func TestShouldProcessRuleBringsFileIn(t *testing.T) {
	resolver, err := NewResolver(testGlobals(),
		[]Rule{{Pattern: "**/*.proto", MaxLines: intPtr(200)}}, nil)
	require.NoError(t, err)

	assert.True(t, resolver.ShouldProcess("api/schema.proto"))
	assert.False(t, resolver.ShouldProcess("README.md"))
}

// TestValidationErrors 验证非法规则在构造期暴露。
func TestValidationErrors(t *testing.T) {
	_, err := NewResolver(testGlobals(), []Rule{{Pattern: "src/[", MaxLines: intPtr(1)}}, nil)
	assert.Error(t, err)

	_, err = NewResolver(testGlobals(), []Rule{{Pattern: "**", WarnThreshold: floatPtr(1.5)}}, nil)
	assert.Error(t, err)

	_, err = NewResolver(testGlobals(), []Rule{{Pattern: "**", Expires: "not-a-date"}}, nil)
	assert.Error(t, err)

	_, err = NewResolver(testGlobals(), nil, []Override{{Path: "a.go", MaxLines: -5}})
	assert.Error(t, err)
}

// TestExplainShowsSupersededChain 验证决策轨迹包含被压制的候选。
func TestExplainShowsSupersededChain(t *testing.T) {
	resolver, err := NewResolver(testGlobals(),
		[]Rule{{Pattern: "src/**", MaxLines: intPtr(300)}},
		[]Override{{Path: "src/lib.rs", MaxLines: 900, Reason: "legacy"}},
	)
	require.NoError(t, err)

	explanation := resolver.Explain("src/lib.rs")
	require.Len(t, explanation.Chain, 3)

	assert.Equal(t, StatusMatched, explanation.Chain[0].Status)
	assert.Equal(t, StatusSuperseded, explanation.Chain[1].Status)
	assert.Equal(t, StatusSuperseded, explanation.Chain[2].Status)
	assert.Equal(t, "default", explanation.Chain[2].Source)
	assert.Equal(t, 900, explanation.Effective.MaxLines)
}

// TestExplainExcludedPath 验证排除路径的轨迹输出。
func TestExplainExcludedPath(t *testing.T) {
	globals := testGlobals()
	globals.Exclude = []string{"vendor/**"}

	resolver, err := NewResolver(globals, nil, nil)
	require.NoError(t, err)

	explanation := resolver.Explain("vendor/dep.go")
	assert.True(t, explanation.Excluded)
	assert.Equal(t, "vendor/**", explanation.ExcludedPattern)
	assert.False(t, explanation.ShouldProcess)
}
