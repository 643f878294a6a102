package layout

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMeasurement 表示排版后端无法测量给定文本（例如字体缺少字形）。
var ErrMeasurement = errors.New("layout: measurement failed")

// ErrInvalidOptions 表示页面几何或字体排印参数不可用。
var ErrInvalidOptions = errors.New("layout: invalid options")

// Measurer 负责返回文本在给定字重与字号下的渲染宽度。
// 返回值的单位即排版单位，Paginate 内部不做任何换算。
type Measurer interface {
	WidthOf(text string, variant FontVariant, sizePt float64) (float64, error)
}

// Geometry 描述固定页面尺寸与四边统一的边距。
type Geometry struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Margin float64 `json:"margin"`
}

// ContentWidth 返回可用内容宽度。
func (g Geometry) ContentWidth() float64 { return g.Width - 2*g.Margin }

// ContentHeight 返回可用内容高度。
func (g Geometry) ContentHeight() float64 { return g.Height - 2*g.Margin }

// Validate 检查页面尺寸与边距是否能留出内容区域。
func (g Geometry) Validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("%w: 页面尺寸必须为正数: %gx%g", ErrInvalidOptions, g.Width, g.Height)
	}
	if g.Margin < 0 {
		return fmt.Errorf("%w: 边距不能为负数: %g", ErrInvalidOptions, g.Margin)
	}
	if g.ContentWidth() <= 0 || g.ContentHeight() <= 0 {
		return fmt.Errorf("%w: 边距 %g 超出页面 %gx%g", ErrInvalidOptions, g.Margin, g.Width, g.Height)
	}
	return nil
}

// Typography 描述正文字号、标题字号增量与行高。
type Typography struct {
	FontSize     float64        `json:"fontSize"`
	HeadingDelta float64        `json:"headingDelta"`
	LineHeight   LineHeightSpec `json:"lineHeight"`
}

// Validate 检查字号与行高均为正数。
func (t Typography) Validate() error {
	if t.FontSize <= 0 {
		return fmt.Errorf("%w: 字号必须为正数: %g", ErrInvalidOptions, t.FontSize)
	}
	if lh := t.LineHeightValue(); lh <= 0 {
		return fmt.Errorf("%w: 行高必须为正数: %g", ErrInvalidOptions, lh)
	}
	return nil
}

// LineHeightValue 计算实际行高（与字号同单位）。所有行（包括标题）共用该行高。
func (t Typography) LineHeightValue() float64 {
	return t.LineHeight.Resolve(Length{Value: t.FontSize, Unit: UnitPT}, UnitPT)
}

// HeadingSize 返回标题字号。
func (t Typography) HeadingSize() float64 { return t.FontSize + t.HeadingDelta }

// Options 配置分页排版所需的依赖与参数。
type Options struct {
	Measurer   Measurer
	Geometry   Geometry
	Typography Typography
	Meta       DocumentMeta
}

// Settings 是与具体文本无关的导出配置，通常由 profile 文件解析得到。
type Settings struct {
	Name       string       `json:"name"`
	Typeface   string       `json:"typeface"`
	Geometry   Geometry     `json:"geometry"`
	Typography Typography   `json:"typography"`
	Meta       DocumentMeta `json:"meta"`
}

// Options 使用给定的 Measurer 生成分页参数。
func (s Settings) Options(m Measurer) Options {
	return Options{
		Measurer:   m,
		Geometry:   s.Geometry,
		Typography: s.Typography,
		Meta:       s.Meta,
	}
}

const (
	DefaultPageSize     = "A4"
	DefaultMargin       = 50.0
	DefaultFontSize     = 11.0
	DefaultHeadingDelta = 2.0
	DefaultLineFactor   = 1.5
	DefaultTypeface     = "go"
)

// DefaultGeometry 返回 A4 纵向、50pt 边距。
func DefaultGeometry() Geometry {
	w, h, _ := PageSize(DefaultPageSize, false)
	return Geometry{Width: w, Height: h, Margin: DefaultMargin}
}

// DefaultTypography 返回 11pt 正文、13pt 标题、1.5 倍行高。
func DefaultTypography() Typography {
	return Typography{
		FontSize:     DefaultFontSize,
		HeadingDelta: DefaultHeadingDelta,
		LineHeight:   LineHeightSpec{Kind: LineHeightFactor, Factor: DefaultLineFactor},
	}
}

// DefaultSettings 返回内置的导出配置。
func DefaultSettings() Settings {
	return Settings{
		Name:       "default",
		Typeface:   DefaultTypeface,
		Geometry:   DefaultGeometry(),
		Typography: DefaultTypography(),
		Meta: DocumentMeta{
			Title:   "${label}",
			Creator: "tailor",
		},
	}
}

// pagePresets 以 pt 为单位（纵向）。
var pagePresets = map[string][2]float64{
	"A4":     {595.28, 841.89},
	"A5":     {419.53, 595.28},
	"LETTER": {612, 792},
	"LEGAL":  {612, 1008},
}

// PageSize 返回预设纸张的宽高（pt），landscape 时交换宽高。
func PageSize(name string, landscape bool) (float64, float64, error) {
	base, ok := pagePresets[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return 0, 0, fmt.Errorf("暂不支持的纸张尺寸：%s", name)
	}
	w, h := base[0], base[1]
	if landscape {
		w, h = h, w
	}
	return w, h, nil
}
