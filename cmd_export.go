package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ByLCY/tailor/export"
)

type exportFlags struct {
	cvPath     string
	letterPath string
	document   string
	format     string
	all        bool
	out        string
}

func newExportCmd(a *app) *cobra.Command {
	f := &exportFlags{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "导出当前选中的文档",
		Long: `读取简历与求职信的纯文本，按选中的文档与格式导出到输出目录。
文件名固定为 tailored-cv.{docx,pdf} 或 tailored-cover-letter.{docx,pdf}。`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd, a, f)
		},
	}
	cmd.Flags().StringVar(&f.cvPath, "cv", "", "简历文本文件")
	cmd.Flags().StringVar(&f.letterPath, "cover-letter", "", "求职信文本文件")
	cmd.Flags().StringVar(&f.document, "document", string(export.CV), "导出的文档：cv|cover-letter")
	cmd.Flags().StringVar(&f.format, "format", string(export.FormatPDF), "导出格式：docx|pdf")
	cmd.Flags().BoolVar(&f.all, "all", false, "导出所有已提供文档的所有格式")
	cmd.Flags().StringVar(&f.out, "out", "", "输出目录（默认取配置 output_dir）")
	return cmd
}

func runExport(cmd *cobra.Command, a *app, f *exportFlags) error {
	sel, provided, err := readSelection(f.cvPath, f.letterPath)
	if err != nil {
		return err
	}
	out := f.out
	if out == "" {
		out = a.cfg.OutputDir
	}
	sink := export.NewDirSink(out)
	ctx := cmd.Context()

	if f.all {
		if len(provided) == 0 {
			return fmt.Errorf("--all 需要至少提供 --cv 或 --cover-letter")
		}
		g, gctx := errgroup.WithContext(ctx)
		for _, doc := range provided {
			for _, format := range export.Formats {
				g.Go(func() error {
					art, err := a.exporter.ExportAs(gctx, format, sel.With(doc), sink)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "已导出：%s\n", art.Filename)
					return nil
				})
			}
		}
		return g.Wait()
	}

	doc, err := export.ParseDocument(f.document)
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(f.format)
	if err != nil {
		return err
	}
	if !contains(provided, doc) {
		return fmt.Errorf("未提供 %s 的文本文件", doc)
	}
	art, err := a.exporter.ExportAs(ctx, format, sel.With(doc), sink)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "已导出：%s\n", art.Filename)
	return nil
}

// readSelection 读取提供的文本文件，返回选择与已提供的文档列表。
func readSelection(cvPath, letterPath string) (export.Selection, []export.DocumentKind, error) {
	var sel export.Selection
	var provided []export.DocumentKind
	if cvPath != "" {
		data, err := os.ReadFile(cvPath)
		if err != nil {
			return sel, nil, fmt.Errorf("读取简历失败: %w", err)
		}
		sel.CV = string(data)
		provided = append(provided, export.CV)
	}
	if letterPath != "" {
		data, err := os.ReadFile(letterPath)
		if err != nil {
			return sel, nil, fmt.Errorf("读取求职信失败: %w", err)
		}
		sel.CoverLetter = string(data)
		provided = append(provided, export.CoverLetter)
	}
	return sel, provided, nil
}

func contains(docs []export.DocumentKind, d export.DocumentKind) bool {
	for _, x := range docs {
		if x == d {
			return true
		}
	}
	return false
}
