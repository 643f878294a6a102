package layout

import (
	"fmt"
	"strings"

	"github.com/ByLCY/tailor/classify"
)

// Paginate 将源文本逐行排到固定尺寸的页面上。
//
// 游标 y 从 Height-Margin 开始向下移动：
//   - 空行只下移半个行高，不检查分页；
//   - 非空行先检查 y < Margin 是否需要换页，再按类别选择字重与字号；
//   - 按单个空格切词并贪心拼接，宽度超过可用宽度时把已有内容输出为一行；
//     单个过长的词不拆分，允许越过右边距。
func Paginate(lines []classify.Line, opts Options) (*Result, error) {
	if opts.Measurer == nil {
		return nil, fmt.Errorf("%w: 缺少排版后端 Measurer", ErrInvalidOptions)
	}
	if err := opts.Geometry.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Typography.Validate(); err != nil {
		return nil, err
	}

	lineHeight := opts.Typography.LineHeightValue()

	pc := newPageCollector(opts.Geometry)
	cur := &cursor{collector: pc, y: pc.top(), lineHeight: lineHeight}

	for _, line := range lines {
		kind := classify.Classify(line.Content)
		if kind == classify.Blank {
			cur.spacer()
			continue
		}
		cur.ensureSpace()

		variant, size := Regular, opts.Typography.FontSize
		if kind == classify.Heading {
			variant, size = Bold, opts.Typography.HeadingSize()
		}
		if err := cur.wrap(line, variant, size, opts.Measurer); err != nil {
			return nil, err
		}
	}

	return &Result{Pages: pc.pages(), Meta: opts.Meta}, nil
}

type pageAccumulator struct {
	runs []TextRun
}

type pageCollector struct {
	geometry Geometry
	accs     []*pageAccumulator
}

func newPageCollector(g Geometry) *pageCollector {
	pc := &pageCollector{geometry: g}
	pc.newPage()
	return pc
}

func (pc *pageCollector) newPage() *pageAccumulator {
	acc := &pageAccumulator{}
	pc.accs = append(pc.accs, acc)
	return acc
}

func (pc *pageCollector) curr() *pageAccumulator {
	return pc.accs[len(pc.accs)-1]
}

// top 是内容区域顶部的基线位置。
func (pc *pageCollector) top() float64 { return pc.geometry.Height - pc.geometry.Margin }

// bottom 是内容区域底部；游标低于该值时下一行需要换页。
func (pc *pageCollector) bottom() float64 { return pc.geometry.Margin }

func (pc *pageCollector) pages() []Page {
	out := make([]Page, len(pc.accs))
	for i, acc := range pc.accs {
		out[i] = Page{
			Width:  pc.geometry.Width,
			Height: pc.geometry.Height,
			Margin: pc.geometry.Margin,
			Runs:   acc.runs,
		}
	}
	return out
}

type cursor struct {
	collector  *pageCollector
	y          float64
	lineHeight float64
}

// spacer 处理空行：只下移半个行高，越界由下一条非空行的 ensureSpace 处理。
func (c *cursor) spacer() {
	c.y -= c.lineHeight / 2
}

func (c *cursor) ensureSpace() {
	if c.y >= c.collector.bottom() {
		return
	}
	c.pageBreak()
}

func (c *cursor) pageBreak() {
	c.collector.newPage()
	c.y = c.collector.top()
}

func (c *cursor) emit(text string, variant FontVariant, size float64) {
	acc := c.collector.curr()
	acc.runs = append(acc.runs, TextRun{
		Text:    text,
		X:       c.collector.geometry.Margin,
		Y:       c.y,
		Variant: variant,
		SizePt:  size,
	})
	c.y -= c.lineHeight
}

func (c *cursor) wrap(line classify.Line, variant FontVariant, size float64, m Measurer) error {
	maxWidth := c.collector.geometry.ContentWidth()
	current := ""
	for _, word := range strings.Split(line.Content, " ") {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		width, err := m.WidthOf(candidate, variant, size)
		if err != nil {
			return measureError(line, err)
		}
		if width > maxWidth && current != "" {
			c.emit(current, variant, size)
			current = word
			c.ensureSpace()
			continue
		}
		current = candidate
	}
	if current != "" {
		c.emit(current, variant, size)
	}
	return nil
}

func measureError(line classify.Line, err error) error {
	return fmt.Errorf("%w: 第 %d 行: %w", ErrMeasurement, line.Index+1, err)
}
