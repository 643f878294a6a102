package layout

import (
	"fmt"
	"os"
	"strings"

	"github.com/ByLCY/tailor/binding"
	"github.com/ByLCY/tailor/dsl"
)

// LoadProfile 读取并解析 profile 文件，在默认配置上叠加其中的设置。
func LoadProfile(path string) (Settings, error) {
	file, err := os.Open(path)
	if err != nil {
		return Settings{}, fmt.Errorf("无法打开 profile 文件 %s: %w", path, err)
	}
	defer file.Close()

	p, err := dsl.Parse(file)
	if err != nil {
		return Settings{}, fmt.Errorf("解析 profile 失败: %w", err)
	}
	return FromProfile(p)
}

// FromProfile 将 profile AST 转换为导出配置，未出现的项保持默认值。
func FromProfile(p *dsl.Profile) (Settings, error) {
	s := DefaultSettings()
	if p == nil {
		return s, fmt.Errorf("profile 为空")
	}
	s.Name = p.Name
	if p.Block == nil {
		return s, nil
	}

	for _, st := range p.Block.Statements {
		switch {
		case st.Command != nil:
			if err := applyCommand(&s, st.Command); err != nil {
				return s, err
			}
		case st.Assignment != nil:
			if err := applyAssignment(&s, st.Assignment); err != nil {
				return s, err
			}
		}
	}
	if err := s.Geometry.Validate(); err != nil {
		return s, err
	}
	if err := s.Typography.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

func applyCommand(s *Settings, cmd *dsl.Command) error {
	switch cmd.Name {
	case "page":
		return applyPage(s, cmd)
	case "meta":
		if cmd.Block == nil {
			return fmt.Errorf("%s: meta 缺少内容", cmd.Pos)
		}
		for _, st := range cmd.Block.Statements {
			if st.Assignment == nil {
				continue
			}
			if err := applyMeta(&s.Meta, st.Assignment); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%s: 未知指令 %s", cmd.Pos, cmd.Name)
	}
}

// applyPage 解析 `page <size> [portrait|landscape] [margin <length>]`。
func applyPage(s *Settings, cmd *dsl.Command) error {
	if len(cmd.Args) == 0 {
		return fmt.Errorf("%s: page 缺少纸张尺寸", cmd.Pos)
	}
	size := cmd.Args[0].Value
	landscape := false
	margin := s.Geometry.Margin
	for i := 1; i < len(cmd.Args); i++ {
		switch strings.ToLower(cmd.Args[i].Value) {
		case "portrait":
			landscape = false
		case "landscape":
			landscape = true
		case "margin":
			if i+1 >= len(cmd.Args) {
				return fmt.Errorf("%s: margin 缺少数值", cmd.Pos)
			}
			l, err := ParseLength(cmd.Args[i+1].Value)
			if err != nil {
				return fmt.Errorf("%s: %w", cmd.Pos, err)
			}
			margin = l.ToPT()
			i++
		default:
			return fmt.Errorf("%s: page 无法识别的参数 %s", cmd.Pos, cmd.Args[i].Value)
		}
	}
	w, h, err := PageSize(size, landscape)
	if err != nil {
		return fmt.Errorf("%s: %w", cmd.Pos, err)
	}
	s.Geometry = Geometry{Width: w, Height: h, Margin: margin}
	return nil
}

func applyAssignment(s *Settings, a *dsl.Assignment) error {
	raw := a.Value.Text()
	switch a.Key {
	case "typeface", "font":
		s.Typeface = raw
	case "size", "font-size":
		l, err := ParseLength(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", a.Pos, err)
		}
		s.Typography.FontSize = l.ToPT()
	case "heading-delta":
		l, err := ParseLength(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", a.Pos, err)
		}
		s.Typography.HeadingDelta = l.ToPT()
	case "line-height":
		lh, err := ParseLineHeight(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", a.Pos, err)
		}
		s.Typography.LineHeight = lh
	case "margin":
		l, err := ParseLength(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", a.Pos, err)
		}
		s.Geometry.Margin = l.ToPT()
	default:
		return fmt.Errorf("%s: 未知配置项 %s", a.Pos, a.Key)
	}
	return nil
}

func applyMeta(m *DocumentMeta, a *dsl.Assignment) error {
	switch a.Key {
	case "title":
		m.Title = a.Value.Text()
	case "author":
		m.Author = a.Value.Text()
	case "subject":
		m.Subject = a.Value.Text()
	case "creator":
		m.Creator = a.Value.Text()
	case "keywords":
		m.Keywords = a.Value.Strings()
	default:
		return fmt.Errorf("%s: 未知 meta 字段 %s", a.Pos, a.Key)
	}
	return nil
}

// Expand 用 vars 替换元信息中的 ${name} 占位符，返回新的副本。
func (m DocumentMeta) Expand(vars map[string]string) DocumentMeta {
	out := DocumentMeta{
		Title:   binding.Interpolate(m.Title, vars),
		Author:  binding.Interpolate(m.Author, vars),
		Subject: binding.Interpolate(m.Subject, vars),
		Creator: binding.Interpolate(m.Creator, vars),
	}
	if len(m.Keywords) > 0 {
		out.Keywords = make([]string, len(m.Keywords))
		for i, k := range m.Keywords {
			out.Keywords[i] = binding.Interpolate(k, vars)
		}
	}
	return out
}
