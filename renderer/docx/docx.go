// Package docx 将块序列写成最小的 Office Open XML 文字处理包。
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ByLCY/tailor/flow"
	"github.com/ByLCY/tailor/layout"
	"github.com/ByLCY/tailor/renderer"
)

// MimeType 是 DOCX 文件的 MIME 类型。
const MimeType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// 包内条目使用固定时间戳，保证相同输入得到相同字节。
var epoch = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)

// Renderer 输出单节文档；页面尺寸与边距以 pt 表示。
type Renderer struct {
	PageWidth  float64
	PageHeight float64
	Margin     float64
}

var _ renderer.FlowRenderer = (*Renderer)(nil)

// NewRenderer 返回 A4 纵向、1 英寸边距的默认页面设置。
func NewRenderer() *Renderer {
	g := layout.DefaultGeometry()
	return &Renderer{PageWidth: g.Width, PageHeight: g.Height, Margin: 72}
}

// RenderFlow 实现 renderer.FlowRenderer。
func (r *Renderer) RenderFlow(doc *flow.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: 文档为空", renderer.ErrSerialization)
	}
	level := doc.HeadingLevel
	if level <= 0 {
		level = flow.HeadingLevel
	}

	parts := []struct {
		name string
		body string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", rootRelsXML},
		{"docProps/core.xml", corePropsXML(doc.Meta)},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"word/styles.xml", stylesXML(level)},
		{"word/document.xml", r.documentXML(doc.Blocks, level)},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range parts {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     p.name,
			Method:   zip.Deflate,
			Modified: epoch,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: 创建 %s 失败: %w", renderer.ErrSerialization, p.name, err)
		}
		if _, err := w.Write([]byte(p.body)); err != nil {
			return nil, fmt.Errorf("%w: 写入 %s 失败: %w", renderer.ErrSerialization, p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: 写入 DOCX 失败: %w", renderer.ErrSerialization, err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) documentXML(blocks []flow.Block, level int) string {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><w:body>`)
	for _, block := range blocks {
		switch block.Kind {
		case flow.BlockSpacer:
			b.WriteString(`<w:p/>`)
		case flow.BlockHeading:
			fmt.Fprintf(&b, `<w:p><w:pPr><w:pStyle w:val="Heading%d"/></w:pPr>`, level)
			writeRun(&b, block.Text)
			b.WriteString(`</w:p>`)
		default:
			b.WriteString(`<w:p>`)
			writeRun(&b, block.Text)
			b.WriteString(`</w:p>`)
		}
	}
	fmt.Fprintf(&b, `<w:sectPr><w:pgSz w:w="%d" w:h="%d"/><w:pgMar w:top="%[3]d" w:right="%[3]d" w:bottom="%[3]d" w:left="%[3]d" w:header="708" w:footer="708" w:gutter="0"/></w:sectPr>`,
		twips(r.PageWidth), twips(r.PageHeight), twips(r.Margin))
	b.WriteString(`</w:body></w:document>`)
	return b.String()
}

func writeRun(b *strings.Builder, text string) {
	b.WriteString(`<w:r><w:t xml:space="preserve">`)
	b.WriteString(escape(text))
	b.WriteString(`</w:t></w:r>`)
}

// twips 将 pt 转换为 Word 使用的 1/20 pt。
func twips(pt float64) int { return int(math.Round(pt * 20)) }

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

func stylesXML(level int) string {
	return xml.Header + fmt.Sprintf(`<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">`+
		`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:rPr><w:sz w:val="22"/></w:rPr></w:style>`+
		`<w:style w:type="paragraph" w:styleId="Heading%[1]d"><w:name w:val="heading %[1]d"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:qFormat/>`+
		`<w:pPr><w:keepNext/><w:spacing w:before="240" w:after="60"/><w:outlineLvl w:val="%[2]d"/></w:pPr><w:rPr><w:b/><w:sz w:val="26"/></w:rPr></w:style>`+
		`</w:styles>`, level, level-1)
}

func corePropsXML(meta layout.DocumentMeta) string {
	creator := meta.Author
	if creator == "" {
		creator = meta.Creator
	}
	return xml.Header + `<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` +
		`<dc:title>` + escape(meta.Title) + `</dc:title>` +
		`<dc:subject>` + escape(meta.Subject) + `</dc:subject>` +
		`<dc:creator>` + escape(creator) + `</dc:creator>` +
		`<cp:keywords>` + escape(strings.Join(meta.Keywords, ", ")) + `</cp:keywords>` +
		`</cp:coreProperties>`
}

const contentTypesXML = xml.Header + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>` +
	`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>` +
	`</Types>`

const rootRelsXML = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>` +
	`</Relationships>`

const documentRelsXML = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>` +
	`</Relationships>`
