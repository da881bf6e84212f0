package plugin

import (
	"fmt"
	"strings"
)

// FormatHelpText 为所有注册的 target 生成帮助文本
func FormatHelpText(registry *Registry) string {
	targets := registry.Targets()
	if len(targets) == 0 {
		return "  (暂无已注册的 target)\n"
	}

	var sb strings.Builder

	for _, t := range targets {
		sb.WriteString(fmt.Sprintf("  %s - %s\n", t.Name(), t.Description()))
		sb.WriteString(fmt.Sprintf("    输出文件: %s\n", t.OutputFile()))
		sb.WriteString(fmt.Sprintf("    格式化器: %s\n", FormatFormatterSpec(t.Formatter())))
		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatFormatterSpec 格式化外部格式化器定义
func FormatFormatterSpec(spec FormatterSpec) string {
	if spec.Command == "" {
		return "(无)"
	}
	if spec.VersionArgs == "" {
		return spec.Command
	}
	first, _, _ := strings.Cut(spec.Command, " ")
	return fmt.Sprintf("%s (预检: %s %s)", spec.Command, first, spec.VersionArgs)
}
