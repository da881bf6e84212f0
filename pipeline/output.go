package pipeline

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pmezard/go-difflib/difflib"
)

// WriteOutput 写入输出内容：开头部分 + 空行，然后每个定义后跟一个换行
func WriteOutput(w io.Writer, prelude []byte, fragments [][]byte) error {
	if _, err := w.Write(prelude); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	for _, frag := range fragments {
		if _, err := w.Write(frag); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Render 在内存中生成完整的输出内容
func Render(prelude []byte, fragments [][]byte) []byte {
	var buf bytes.Buffer
	_ = WriteOutput(&buf, prelude, fragments)
	return buf.Bytes()
}

// WriteOutputFile 截断并写入输出文件
// 中途写入失败时文件保持不完整状态，由下游编译失败暴露问题
func WriteOutputFile(path string, prelude []byte, fragments [][]byte) (err error) {
	// 确保目录存在
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("创建目录失败: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建输出文件失败: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("关闭输出文件失败: %w", cerr)
		}
	}()

	if err := WriteOutput(f, prelude, fragments); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}
	return nil
}

// Diff 比较磁盘上的输出文件与期望内容，返回 unified diff；内容一致时返回空字符串
// 文件不存在时视为空文件
func Diff(path string, want []byte) (string, error) {
	got, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("读取 %s 失败: %w", path, err)
	}
	if bytes.Equal(got, want) {
		return "", nil
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(got)),
		B:        difflib.SplitLines(string(want)),
		FromFile: path,
		ToFile:   path + " (generated)",
		Context:  3,
	})
}
