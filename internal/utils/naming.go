package utils

import (
	"strings"
	"unicode"
)

// ToPascalCase 将文件名词干转换为大驼峰标识符
// 单词边界：非字母数字字符、小写到大写的切换、缩略词末尾（HTTPServer -> HTTP, Server）
// 数字不会开启新单词：grid-2x2 -> Grid2x2, arrow-down-0-1 -> ArrowDown01
func ToPascalCase(s string) string {
	var buf strings.Builder
	for _, word := range splitWords(s) {
		buf.WriteString(capitalize(word))
	}
	return buf.String()
}

// ToIdentifier 在 ToPascalCase 基础上保证结果是合法的导出标识符
// 以数字开头时添加 Icon 前缀
func ToIdentifier(stem string) string {
	name := ToPascalCase(stem)
	if name == "" {
		return ""
	}
	if unicode.IsDigit([]rune(name)[0]) {
		return "Icon" + name
	}
	return name
}

// FeatureName 返回图标对应的 feature 名称，下划线替换为连字符
func FeatureName(stem string) string {
	return strings.ReplaceAll(stem, "_", "-")
}

// FeatureEnvName 返回 feature 对应的环境变量名
// arrow-up + ICONGEN_FEATURE_ -> ICONGEN_FEATURE_ARROW_UP
func FeatureEnvName(prefix, feature string) string {
	return prefix + strings.ReplaceAll(strings.ToUpper(feature), "-", "_")
}

type caseMode int

const (
	modeBoundary caseMode = iota
	modeLower
	modeUpper
)

// splitWords 按单词边界切分
func splitWords(s string) []string {
	var words []string
	for _, seg := range strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		runes := []rune(seg)
		start := 0
		mode := modeBoundary
		for i, r := range runes {
			switch {
			case unicode.IsLower(r):
				mode = modeLower
			case unicode.IsUpper(r):
				mode = modeUpper
			}
			if i+1 >= len(runes) {
				break
			}
			next := runes[i+1]
			switch {
			case mode == modeLower && unicode.IsUpper(next):
				// fooBar: 在 B 之前切分
				words = append(words, string(runes[start:i+1]))
				start = i + 1
				mode = modeBoundary
			case mode == modeUpper && unicode.IsUpper(r) && unicode.IsLower(next) && i > start:
				// HTTPServer: 在 S 之前切分
				words = append(words, string(runes[start:i]))
				start = i
			}
		}
		words = append(words, string(runes[start:]))
	}
	return words
}

// capitalize 首字母大写，其余小写
func capitalize(word string) string {
	runes := []rune(strings.ToLower(word))
	if len(runes) == 0 {
		return ""
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
