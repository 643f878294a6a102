package classify

import "strings"

// Line 是源文本中的一行及其行号（从 0 开始）。
type Line struct {
	Content string `json:"content"`
	Index   int    `json:"index"`
}

// Kind 返回该行的类别。
func (l Line) Kind() Kind { return Classify(l.Content) }

// Split 按 '\n' 切分源文本，行尾的 '\r' 会被去掉以兼容 CRLF。
// 空字符串返回 nil：没有任何行，而不是一个空行。
func Split(text string) []Line {
	if text == "" {
		return nil
	}
	parts := strings.Split(text, "\n")
	lines := make([]Line, len(parts))
	for i, p := range parts {
		lines[i] = Line{Content: strings.TrimSuffix(p, "\r"), Index: i}
	}
	return lines
}

// NonBlank 统计非空行数量。
func NonBlank(lines []Line) int {
	n := 0
	for _, l := range lines {
		if l.Kind() != Blank {
			n++
		}
	}
	return n
}
