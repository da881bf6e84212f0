package gomponentsgen

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"

	"github.com/donutnomad/gg"
	"github.com/donutnomad/icongen/plugin"
	"golang.org/x/tools/imports"
)

const (
	targetName     = "gomponents"
	gomponentsPath = "maragu.dev/gomponents"
	gomponentsName = "g"
)

// GomponentsTarget 实现 plugin.Target 接口，生成 gomponents 节点函数
type GomponentsTarget struct {
	plugin.BaseTarget
}

// NewGomponentsTarget 创建 gomponents target
func NewGomponentsTarget() *GomponentsTarget {
	return &GomponentsTarget{
		BaseTarget: *plugin.NewBaseTarget(
			targetName,
			"生成 gomponents 节点函数 (maragu.dev/gomponents)",
			"icons_gen.go",
			plugin.FormatterSpec{
				Command:     "gofumpt",
				VersionArgs: "--version",
			},
		),
	}
}

// Prelude 返回 Go 文件开头：生成标记、包声明和导入
func (t *GomponentsTarget) Prelude(pkg string) []byte {
	return fmt.Appendf(nil, `// Code generated by icongen. DO NOT EDIT.

package %s

import (
	"strings"

	%s %q
)
`, pkg, gomponentsName, gomponentsPath)
}

// Synthesize 生成单个图标的 Go 源码单元
func (t *GomponentsTarget) Synthesize(def *plugin.Definition) ([]byte, error) {
	expr, err := buildExpr(def.Markup)
	if err != nil {
		return nil, fmt.Errorf("转换 %s 的 svg 内容失败: %w", def.Identifier, err)
	}

	gen := gg.New()
	gen.SetPackage(def.Package)
	gen.P("strings")
	gen.PAlias(gomponentsPath, gomponentsName)

	body := gen.Body()
	body.Append(gg.S("// %s renders the %s icon.", def.Identifier, def.Stem))
	body.NewFunction(def.Identifier).
		AddParameter(plugin.ClassParam, "...string").
		AddResult("", gomponentsName+".Node").
		AddBody(gg.Return(gg.S("%s", expr)))

	return gen.Bytes(), nil
}

// Pretty 解析为语法树后重新输出，只格式化不改动导入
func (t *GomponentsTarget) Pretty(src []byte) ([]byte, error) {
	out, err := imports.Process("", src, &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("格式化 Go 源码失败: %w", err)
	}
	return out, nil
}

// Fragment 截取最后一个 import 声明（或包声明）之后的内容
func (t *GomponentsTarget) Fragment(src []byte) ([]byte, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "", src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("解析格式化结果失败: %w", err)
	}

	offset := fset.Position(file.Name.End()).Offset
	for _, decl := range file.Decls {
		if gd, ok := decl.(*ast.GenDecl); ok && gd.Tok == token.IMPORT {
			offset = fset.Position(gd.End()).Offset
		}
	}
	frag := bytes.TrimSpace(src[offset:])
	if len(frag) == 0 {
		return nil, fmt.Errorf("Go 源码中没有定义")
	}
	return frag, nil
}
