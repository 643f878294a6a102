package classify

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxHeadingLength 是标题行（去除首尾空白后）的字符数上限，不含该值。
const MaxHeadingLength = 50

// Kind 表示单行文本的类别。
type Kind int

const (
	Blank Kind = iota
	Heading
	Body
)

func (k Kind) String() string {
	switch k {
	case Blank:
		return "blank"
	case Heading:
		return "heading"
	case Body:
		return "body"
	default:
		return "unknown"
	}
}

// MarshalText 让 Kind 在调试 JSON 中以名称输出。
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

var titleCasePattern = regexp.MustCompile(`^[A-Z][a-z]+( [A-Z][a-z]+)*$`)

// Classify 判断一行文本是空行、标题还是正文。
// 规则：
//  1. 仅含空白 → Blank；
//  2. 去空白后长度 < 50，且满足以下任一条件 → Heading：
//     a) 以 ':' 结尾；b) 与自身转大写后的结果相同（纯数字/标点也算）；c) 形如 "Work Experience" 的首字母大写词组；
//  3. 其余 → Body。
func Classify(line string) Kind {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return Blank
	}
	if utf8.RuneCountInString(trimmed) >= MaxHeadingLength {
		return Body
	}
	switch {
	case strings.HasSuffix(trimmed, ":"):
		return Heading
	case trimmed == strings.ToUpper(trimmed):
		return Heading
	case titleCasePattern.MatchString(trimmed):
		return Heading
	}
	return Body
}
