package templgen

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/a-h/templ/parser/v2"
	"github.com/donutnomad/icongen/plugin"
)

const targetName = "templ"

// componentTemplate 单个图标组件的 templ 源码单元
const componentTemplate = `package {{ .Package }}

// {{ .Identifier }} renders the {{ .Stem }} icon.
templ {{ .Identifier }}({{ .Param }} ...string) {
	<svg
	{{- range .Attrs }}
		{{ .Name }}={{ .Value | quote }}
	{{- end }}
		class={ strings.Join({{ .Param }}, " ") }
	>
		{{- .Markup | trim | nindent 2 }}
	</svg>
}
`

var tmpl = template.Must(template.New("component").Funcs(sprig.TxtFuncMap()).Parse(componentTemplate))

// TemplTarget 实现 plugin.Target 接口，生成 templ 组件
type TemplTarget struct {
	plugin.BaseTarget
}

// NewTemplTarget 创建 templ target
func NewTemplTarget() *TemplTarget {
	return &TemplTarget{
		BaseTarget: *plugin.NewBaseTarget(
			targetName,
			"生成 templ 组件 (github.com/a-h/templ)",
			"icons.templ",
			plugin.FormatterSpec{
				Command:     "templ fmt -stdin",
				VersionArgs: "version",
			},
		),
	}
}

// Prelude 返回 .templ 文件开头：包声明和 strings 导入
func (t *TemplTarget) Prelude(pkg string) []byte {
	return fmt.Appendf(nil, "package %s\n\nimport \"strings\"\n", pkg)
}

type templateData struct {
	*plugin.Definition
	Param string
	Attrs []plugin.Attr
}

// Synthesize 渲染组件模板
func (t *TemplTarget) Synthesize(def *plugin.Definition) ([]byte, error) {
	var buf bytes.Buffer
	data := templateData{
		Definition: def,
		Param:      plugin.ClassParam,
		Attrs:      plugin.ContainerAttrs,
	}
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("渲染 %s 模板失败: %w", def.Identifier, err)
	}
	return buf.Bytes(), nil
}

// Pretty 用 templ 解析器解析并重新输出
func (t *TemplTarget) Pretty(src []byte) ([]byte, error) {
	tf, err := parser.ParseString(string(src))
	if err != nil {
		return nil, fmt.Errorf("解析 templ 源码失败: %w", err)
	}
	var buf bytes.Buffer
	if err := tf.Write(&buf); err != nil {
		return nil, fmt.Errorf("输出 templ 源码失败: %w", err)
	}
	return buf.Bytes(), nil
}

// Fragment 去掉开头的包声明、导入和空行
func (t *TemplTarget) Fragment(src []byte) ([]byte, error) {
	sc := bufio.NewScanner(bytes.NewReader(src))
	sc.Buffer(make([]byte, 0, 64*1024), len(src)+1)
	offset := 0
	for sc.Scan() {
		line := sc.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "package ") && !strings.HasPrefix(trimmed, "import ") {
			return src[offset:], nil
		}
		offset += len(line) + 1
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("templ 源码中没有定义")
}
