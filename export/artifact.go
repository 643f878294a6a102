package export

import (
	"bytes"
	"io"

	"github.com/google/uuid"
)

// Artifact 是一次导出得到的二进制文件。它只在一次导出调用内存在。
type Artifact struct {
	ID       uuid.UUID    `json:"id"`
	Document DocumentKind `json:"document"`
	Format   Format       `json:"format"`
	Filename string       `json:"filename"`
	MimeType string       `json:"mime_type"`
	Data     []byte       `json:"-"`
	// Pages 为 PDF 的页数；DOCX 的分页由阅读器决定，记为 0。
	Pages int `json:"pages"`
}

// Size 返回数据字节数。
func (a *Artifact) Size() int { return len(a.Data) }

// Reader 返回数据的只读视图。
func (a *Artifact) Reader() io.Reader { return bytes.NewReader(a.Data) }
