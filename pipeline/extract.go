package pipeline

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// containerPattern 匹配第一个 <svg> 容器，非贪婪，允许属性和跨行
var containerPattern = regexp.MustCompile(`(?s)<svg[^>]*>(.*?)</svg>`)

// ExtractMarkup 提取第一个 <svg> 元素的内部内容（包括嵌套元素）
// 找不到容器返回 ErrNoContainer，内容无法嵌入返回 ErrMalformedMarkup
func ExtractMarkup(src string) (string, error) {
	m := containerPattern.FindStringSubmatch(src)
	if m == nil {
		return "", ErrNoContainer
	}
	body := m[1]
	if err := checkMarkup(body); err != nil {
		return "", err
	}
	return body, nil
}

// checkMarkup 检查内容是否为闭合良好的元素序列
func checkMarkup(body string) error {
	dec := xml.NewDecoder(strings.NewReader("<svg>" + body + "</svg>"))
	dec.Strict = true
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedMarkup, err)
		}
	}
}
