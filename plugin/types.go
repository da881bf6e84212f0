package plugin

// DefaultPackage 生成文件的默认包名
const DefaultPackage = "icons"

// Attr 表示一个固定的 svg 属性
type Attr struct {
	Name  string
	Value string
}

// ContainerAttrs 所有生成定义共享的固定属性集合，顺序即输出顺序
// 动态的 class 属性不在此列，由各 target 绑定到输入参数
var ContainerAttrs = []Attr{
	{Name: "xmlns", Value: "http://www.w3.org/2000/svg"},
	{Name: "width", Value: "24"},
	{Name: "height", Value: "24"},
	{Name: "viewBox", Value: "0 0 24 24"},
	{Name: "fill", Value: "none"},
	{Name: "stroke", Value: "currentColor"},
	{Name: "stroke-width", Value: "2"},
	{Name: "stroke-linecap", Value: "round"},
	{Name: "stroke-linejoin", Value: "round"},
}

// ClassParam 样式参数名，类型为 ...string，默认为空
const ClassParam = "class"

// Definition 单个图标的组件定义
// 由 pipeline 构造，交给 Target.Synthesize 生成源码，之后不再修改
type Definition struct {
	Package    string // 生成文件的包名
	Identifier string // 组件名，如 ArrowUp
	Stem       string // 源文件名（不含扩展名），如 arrow-up
	Markup     string // 从 <svg> 中提取的子元素
}

// FormatterSpec 外部格式化器的命令行
type FormatterSpec struct {
	Command     string // 格式化命令，从 stdin 读取，输出到 stdout，如 "templ fmt -stdin"
	VersionArgs string // 预检时使用的参数，如 "version"
}
