package layout

// 该文件定义分页排版的结果类型，供排版计算、PDF 渲染与调试 JSON 共用。
// 所有长度与 Measurer 的输出同单位（默认 pt），坐标原点位于页面左下角。

// FontVariant 区分常规与加粗两种字重。
type FontVariant int

const (
	Regular FontVariant = iota
	Bold
)

func (v FontVariant) String() string {
	if v == Bold {
		return "bold"
	}
	return "regular"
}

// MarshalText 让字重在调试 JSON 中以名称输出。
func (v FontVariant) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// Result 保存分页后的页面与文档元信息。
// Pages 至少包含一页：全空输入得到一张空白页。
type Result struct {
	Pages []Page       `json:"pages"`
	Meta  DocumentMeta `json:"meta"`
}

// Page 记录页面尺寸、边距与已经定好坐标的文本。
type Page struct {
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
	Margin float64   `json:"margin"`
	Runs   []TextRun `json:"runs"`
}

// TextRun 表示一段样式统一、坐标已确定的文本；Y 为基线位置。
type TextRun struct {
	Text    string      `json:"text"`
	X       float64     `json:"x"`
	Y       float64     `json:"y"`
	Variant FontVariant `json:"variant"`
	SizePt  float64     `json:"sizePt"`
}

// RunCount 统计所有页面上的 TextRun 数量。
func (r *Result) RunCount() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, p := range r.Pages {
		n += len(p.Runs)
	}
	return n
}

// DocumentMeta 保存导出文件的元信息，字段值可包含 ${name} 占位符。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
