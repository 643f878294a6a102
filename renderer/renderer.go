package renderer

import (
	"errors"

	"github.com/ByLCY/tailor/flow"
	"github.com/ByLCY/tailor/layout"
)

// ErrSerialization 表示将排版结果打包为二进制文件时失败。
var ErrSerialization = errors.New("renderer: serialization failed")

// PageRenderer 将分页结果输出为固定版式文件，例如 PDF。
// Render 返回生成的二进制数据（例如 PDF 字节切片）以及可能的错误。
type PageRenderer interface {
	Render(result *layout.Result) ([]byte, error)
}

// FlowRenderer 将块序列输出为可重排文档，例如 DOCX。
type FlowRenderer interface {
	RenderFlow(doc *flow.Document) ([]byte, error)
}
