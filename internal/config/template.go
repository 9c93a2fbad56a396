package config

// Template 是 `sloc-guard init` 写出的起步配置。
const Template = `version = "2"

# 继承内置预设或另一份配置：
# extends = "strict"

[scanner]
gitignore = true
exclude = [".git/**", "node_modules/**", "vendor/**", "target/**", "dist/**", "build/**"]

[content]
max_lines = 500
warn_threshold = 0.9
skip_comments = true
skip_blank = true

# 针对某类文件收紧或放宽限制，后声明的规则优先：
# [[content.rules]]
# pattern = "src/**/*.go"
# max_lines = 300

# 对既有大文件的显式豁免，必须写明理由：
# [[content.overrides]]
# path = "src/legacy.go"
# max_lines = 1200
# reason = "legacy module pending split"
# expires = "2027-01-01"

[structure]
# max_files = 50
# max_depth = 8

[baseline]
path = ".sloc-guard-baseline.json"
mode = "off"
`
