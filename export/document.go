package export

import (
	"fmt"
	"strings"

	"github.com/ByLCY/tailor/renderer/docx"
)

// Format 是导出文件格式。
type Format string

const (
	// FormatDOCX 是可重排文档（Word）。
	FormatDOCX Format = "docx"
	// FormatPDF 是固定版式的分页文档。
	FormatPDF Format = "pdf"
)

// Formats 列出所有支持的格式。
var Formats = []Format{FormatDOCX, FormatPDF}

// ParseFormat 解析格式名称，另接受 "flow" 与 "paginated" 两个别名。
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "docx", "flow":
		return FormatDOCX, nil
	case "pdf", "paginated":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Ext 返回不带点的扩展名。
func (f Format) Ext() string { return string(f) }

// MimeType 返回格式对应的 MIME 类型。
func (f Format) MimeType() string {
	switch f {
	case FormatDOCX:
		return docx.MimeType
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// DocumentKind 标识两份生成文档之一。
type DocumentKind string

const (
	CV          DocumentKind = "cv"
	CoverLetter DocumentKind = "cover-letter"
)

// Documents 列出所有文档种类。
var Documents = []DocumentKind{CV, CoverLetter}

// ParseDocument 解析文档名称，接受 "cover_letter"、"coverletter" 等写法。
func ParseDocument(s string) (DocumentKind, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("_", "-", " ", "-").Replace(norm)
	switch norm {
	case "cv", "resume":
		return CV, nil
	case "cover-letter", "coverletter", "letter":
		return CoverLetter, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDocument, s)
	}
}

// Valid 报告是否为已知文档。
func (d DocumentKind) Valid() bool { return d == CV || d == CoverLetter }

// BaseName 返回不带扩展名的下载文件名。
func (d DocumentKind) BaseName() string { return "tailored-" + string(d) }

// Label 返回文档的显示名称。
func (d DocumentKind) Label() string {
	switch d {
	case CV:
		return "Tailored CV"
	case CoverLetter:
		return "Tailored Cover Letter"
	default:
		return string(d)
	}
}

// Filename 返回文档在给定格式下的文件名，例如 tailored-cv.pdf。
func Filename(d DocumentKind, f Format) string { return d.BaseName() + "." + f.Ext() }

// Selection 是调用方持有的两份文档以及当前选中的一份。
type Selection struct {
	Active      DocumentKind `json:"active"`
	CV          string       `json:"cv"`
	CoverLetter string       `json:"cover_letter"`
}

// Content 返回当前选中文档的文本。
func (s Selection) Content() (string, error) {
	switch s.Active {
	case CV:
		return s.CV, nil
	case CoverLetter:
		return s.CoverLetter, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDocument, s.Active)
	}
}

// With 返回切换到另一份文档后的副本。
func (s Selection) With(active DocumentKind) Selection {
	s.Active = active
	return s
}
