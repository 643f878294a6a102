// Package flow 将源文本转换为可重排文档的块序列（标题、正文、空行），
// 不做测量与换行，分页交给消费方（例如 Word）。
package flow

import (
	"github.com/ByLCY/tailor/classify"
	"github.com/ByLCY/tailor/layout"
)

// HeadingLevel 是所有标题块使用的固定级别。
const HeadingLevel = 2

// BlockKind 区分块的样式角色。
type BlockKind int

const (
	BlockSpacer BlockKind = iota
	BlockHeading
	BlockBody
)

func (k BlockKind) String() string {
	switch k {
	case BlockHeading:
		return "heading"
	case BlockBody:
		return "body"
	default:
		return "spacer"
	}
}

// MarshalText 让块类型在 JSON 中以名称输出。
func (k BlockKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Block 对应源文本中的一行。Spacer 的 Text 为空。
type Block struct {
	Kind BlockKind `json:"kind"`
	Text string    `json:"text,omitempty"`
}

// Build 为每一行生成一个块，保持原有顺序。
func Build(lines []classify.Line) []Block {
	blocks := make([]Block, 0, len(lines))
	for _, line := range lines {
		switch classify.Classify(line.Content) {
		case classify.Blank:
			blocks = append(blocks, Block{Kind: BlockSpacer})
		case classify.Heading:
			blocks = append(blocks, Block{Kind: BlockHeading, Text: line.Content})
		default:
			blocks = append(blocks, Block{Kind: BlockBody, Text: line.Content})
		}
	}
	return blocks
}

// Document 是可重排文档序列化器的输入。
type Document struct {
	Blocks       []Block             `json:"blocks"`
	HeadingLevel int                 `json:"headingLevel"`
	Meta         layout.DocumentMeta `json:"meta"`
}

// NewDocument 构建块序列并附上元信息。
func NewDocument(lines []classify.Line, meta layout.DocumentMeta) *Document {
	return &Document{
		Blocks:       Build(lines),
		HeadingLevel: HeadingLevel,
		Meta:         meta,
	}
}

// Headings 返回所有标题块的文本。
func (d *Document) Headings() []string {
	if d == nil {
		return nil
	}
	var out []string
	for _, b := range d.Blocks {
		if b.Kind == BlockHeading {
			out = append(out, b.Text)
		}
	}
	return out
}
