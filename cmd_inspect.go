package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ByLCY/tailor/classify"
	"github.com/ByLCY/tailor/flow"
	"github.com/ByLCY/tailor/layout"
	canvasrenderer "github.com/ByLCY/tailor/renderer/canvas"
)

func newInspectCmd(a *app) *cobra.Command {
	var debugPath string
	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "打印逐行分类与分页摘要",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("无法打开文件 %s: %w", args[0], err)
			}
			return runInspect(cmd, a, string(data), debugPath)
		},
	}
	cmd.Flags().StringVar(&debugPath, "debug-json", "", "分页结果调试 JSON 输出路径")
	return cmd
}

func runInspect(cmd *cobra.Command, a *app, text, debugPath string) error {
	lines := classify.Split(text)
	out := cmd.OutOrStdout()

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, line := range lines {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", line.Index+1, line.Kind(), line.Content)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	doc := flow.NewDocument(lines, a.settings.Meta)
	r := canvasrenderer.NewRenderer(a.settings.Typeface)
	if err := r.Prepare(); err != nil {
		return err
	}
	res, err := layout.Paginate(lines, a.settings.Options(r))
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}
	fmt.Fprintf(out, "\nlines: %d  non-blank: %d  headings: %d  blocks: %d  pages: %d  runs: %d\n",
		len(lines), classify.NonBlank(lines), len(doc.Headings()), len(doc.Blocks), len(res.Pages), res.RunCount())

	if debugPath != "" {
		return writeDebug(res, debugPath)
	}
	return nil
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
