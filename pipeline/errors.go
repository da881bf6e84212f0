package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrNoExtension 图标文件缺少扩展名（严格模式）
	ErrNoExtension = errors.New("文件缺少扩展名")
	// ErrNoContainer 图标文件中找不到 <svg> 容器元素
	ErrNoContainer = errors.New("找不到 <svg> 容器元素")
	// ErrMalformedMarkup 容器内容无法作为子元素嵌入
	ErrMalformedMarkup = errors.New("svg 内容格式错误")
	// ErrFormatterNotFound 外部格式化器不可用
	ErrFormatterNotFound = errors.New("找不到外部格式化器")
	// ErrFormatterFailed 外部格式化器执行失败
	ErrFormatterFailed = errors.New("外部格式化器执行失败")
)

// Stage 单个图标处理流程中的阶段
type Stage string

const (
	StageScan       Stage = "scan"
	StageRead       Stage = "read"
	StageExtract    Stage = "extract"
	StageSynthesize Stage = "synthesize"
	StageParse      Stage = "parse"
	StageFormat     Stage = "format"
	StageFragment   Stage = "fragment"
)

// AssetError 单个图标处理失败，携带文件路径和阶段
type AssetError struct {
	Path  string
	Stage Stage
	Err   error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("处理图标 %s 失败 (%s): %v", e.Path, e.Stage, e.Err)
}

func (e *AssetError) Unwrap() error {
	return e.Err
}

func assetError(path string, stage Stage, err error) error {
	return &AssetError{Path: path, Stage: stage, Err: err}
}
