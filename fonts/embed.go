package fonts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10regular"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Typeface 是同一字族的常规与加粗两种字重。
type Typeface struct {
	Name    string
	Regular []byte
	Bold    []byte
}

var builtin = map[string]Typeface{
	"go": {
		Name:    "go",
		Regular: goregular.TTF,
		Bold:    gobold.TTF,
	},
	"latin-modern": {
		Name:    "latin-modern",
		Regular: lmroman10regular.TTF,
		Bold:    lmroman10bold.TTF,
	},
}

// Lookup 返回内置字族，名称不区分大小写，可写为 "builtin:go"。
func Lookup(name string) (Typeface, error) {
	key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "builtin:")))
	tf, ok := builtin[key]
	if !ok {
		return Typeface{}, fmt.Errorf("未知的内置字体 %s（可用：%s）", name, strings.Join(Names(), ", "))
	}
	return tf, nil
}

// Names 返回所有内置字族名称（已排序）。
func Names() []string {
	out := make([]string, 0, len(builtin))
	for name := range builtin {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
