package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/tailor/dsl"
)

const sampleProfile = `
// 求职信导出配置
profile coverletter {
  page Letter landscape margin 1in
  typeface: latin-modern
  size: 12pt; heading-delta: 3pt
  line-height: 1.4x

  meta {
    title: "${label}"
    author: "Jane Doe"
    keywords: [
      "cover letter",
      "tailored",
    ]
  }
}
`

func TestParseProfile(t *testing.T) {
	p, err := dsl.ParseString(sampleProfile)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if p.Name != "coverletter" {
		t.Fatalf("expected profile name coverletter, got %s", p.Name)
	}
	if p.Block == nil || len(p.Block.Statements) != 6 {
		t.Fatalf("expected 6 statements, got %#v", p.Block)
	}

	page := p.Block.Statements[0].Command
	if page == nil || page.Name != "page" {
		t.Fatalf("first statement should be page command, got %#v", p.Block.Statements[0])
	}
	var args []string
	for _, a := range page.Args {
		args = append(args, a.Value)
	}
	if got := strings.Join(args, " "); got != "Letter landscape margin 1in" {
		t.Fatalf("unexpected page args: %q", got)
	}

	face := p.Block.Statements[1].Assignment
	if face == nil || face.Key != "typeface" || face.Value.Text() != "latin-modern" {
		t.Fatalf("unexpected typeface assignment: %#v", face)
	}
	if size := p.Block.Statements[2].Assignment; size == nil || size.Value.Text() != "12pt" {
		t.Fatalf("unexpected size assignment: %#v", size)
	}
	if lh := p.Block.Statements[4].Assignment; lh == nil || lh.Value.Text() != "1.4x" {
		t.Fatalf("unexpected line-height assignment: %#v", lh)
	}

	meta := p.Block.Statements[5].Command
	if meta == nil || meta.Name != "meta" || meta.Block == nil {
		t.Fatalf("expected meta block, got %#v", p.Block.Statements[5])
	}
	if len(meta.Block.Statements) != 3 {
		t.Fatalf("expected 3 meta entries, got %d", len(meta.Block.Statements))
	}
	title := meta.Block.Statements[0].Assignment
	if title.Value.Text() != "${label}" {
		t.Fatalf("title should be kept verbatim, got %q", title.Value.Text())
	}
	kw := meta.Block.Statements[2].Assignment.Value.Strings()
	if len(kw) != 2 || kw[0] != "cover letter" || kw[1] != "tailored" {
		t.Fatalf("unexpected keywords: %#v", kw)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	inputs := []string{
		``,
		`profile`,
		`profile cv { meta { title: "x" }`,
		`doc cv v1 { }`,
	}
	for _, in := range inputs {
		if _, err := dsl.ParseString(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestValueHelpers(t *testing.T) {
	var nilValue *dsl.Value
	if nilValue.Text() != "" || nilValue.Strings() != nil {
		t.Fatalf("nil value helpers should be empty")
	}
	p, err := dsl.ParseString(`profile x { tags: [a, "b c", 3] }`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	v := p.Block.Statements[0].Assignment.Value
	if got := v.Text(); got != "a, b c, 3" {
		t.Fatalf("unexpected list text: %q", got)
	}
}
