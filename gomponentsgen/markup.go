package gomponentsgen

import (
	"fmt"
	"strings"

	"github.com/donutnomad/icongen/plugin"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// svgContext 以 svg 作为上下文解析片段，解析器会按外来内容规则还原 viewBox 等大小写
var svgContext = &html.Node{
	Type:      html.ElementNode,
	Data:      "svg",
	DataAtom:  atom.Svg,
	Namespace: "svg",
}

// buildExpr 生成 g.El("svg", ...) 表达式，每个属性和子节点占一行
func buildExpr(markup string) (string, error) {
	nodes, err := html.ParseFragment(strings.NewReader(markup), svgContext)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s.El(%q,\n", gomponentsName, "svg"))
	for _, attr := range plugin.ContainerAttrs {
		sb.WriteString(fmt.Sprintf("%s.Attr(%q, %q),\n", gomponentsName, attr.Name, attr.Value))
	}
	sb.WriteString(fmt.Sprintf("%s.Attr(%q, strings.Join(%s, \" \")),\n", gomponentsName, "class", plugin.ClassParam))
	for _, n := range nodes {
		if child := nodeExpr(n); child != "" {
			sb.WriteString(child)
			sb.WriteString(",\n")
		}
	}
	sb.WriteString(")")
	return sb.String(), nil
}

// nodeExpr 将单个节点转换为 gomponents 表达式，注释和空白文本返回空字符串
func nodeExpr(n *html.Node) string {
	switch n.Type {
	case html.ElementNode:
		args := []string{fmt.Sprintf("%q", n.Data)}
		for _, attr := range n.Attr {
			key := attr.Key
			if attr.Namespace != "" {
				key = attr.Namespace + ":" + key
			}
			args = append(args, fmt.Sprintf("%s.Attr(%q, %q)", gomponentsName, key, attr.Val))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if child := nodeExpr(c); child != "" {
				args = append(args, child)
			}
		}
		return fmt.Sprintf("%s.El(%s)", gomponentsName, strings.Join(args, ", "))
	case html.TextNode:
		text := strings.TrimSpace(n.Data)
		if text == "" {
			return ""
		}
		return fmt.Sprintf("%s.Text(%q)", gomponentsName, text)
	default:
		return ""
	}
}
