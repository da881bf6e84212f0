package plugin

// Target 是宿主 UI 框架插件接口
// 每个 target（如 templgen、gomponentsgen）需要实现此接口
type Target interface {
	// Name 返回 target 名称，用于 --target 选择
	Name() string

	// Description 返回简短描述，用于帮助信息
	Description() string

	// OutputFile 返回默认输出文件名
	OutputFile() string

	// Formatter 返回默认的外部格式化器
	Formatter() FormatterSpec

	// Prelude 返回输出文件的开头部分（包声明 + 宿主框架导入）
	Prelude(pkg string) []byte

	// Synthesize 为单个图标生成自包含的源码单元（包声明 + 一个定义）
	// 纯函数，不做任何 I/O
	Synthesize(def *Definition) ([]byte, error)

	// Pretty 将源码单元解析为语法树并重新输出（第一阶段格式化）
	Pretty(src []byte) ([]byte, error)

	// Fragment 从格式化后的源码单元中截取定义部分，去掉包声明和导入
	Fragment(src []byte) ([]byte, error)
}

// BaseTarget 提供基础实现，可嵌入
type BaseTarget struct {
	name        string
	description string
	outputFile  string
	formatter   FormatterSpec
}

func NewBaseTarget(name, description, outputFile string, formatter FormatterSpec) *BaseTarget {
	return &BaseTarget{
		name:        name,
		description: description,
		outputFile:  outputFile,
		formatter:   formatter,
	}
}

func (t *BaseTarget) Name() string {
	return t.name
}

func (t *BaseTarget) Description() string {
	return t.description
}

func (t *BaseTarget) OutputFile() string {
	return t.outputFile
}

func (t *BaseTarget) Formatter() FormatterSpec {
	return t.formatter
}
