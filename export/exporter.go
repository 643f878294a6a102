package export

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/google/uuid"

	"github.com/ByLCY/tailor/binding"
	"github.com/ByLCY/tailor/classify"
	"github.com/ByLCY/tailor/flow"
	"github.com/ByLCY/tailor/layout"
	"github.com/ByLCY/tailor/renderer"
	canvasrenderer "github.com/ByLCY/tailor/renderer/canvas"
	"github.com/ByLCY/tailor/renderer/docx"
)

// Backend 同时负责文本测量与 PDF 打包，必须在排版前完成字体准备。
type Backend interface {
	layout.Measurer
	renderer.PageRenderer
	Prepare() error
}

// Options 配置 Exporter。
type Options struct {
	Settings layout.Settings
	// NewBackend 为每次 PDF 导出创建独立的后端；默认使用 canvas 渲染器。
	NewBackend func(typeface string) (Backend, error)
	// NewFlow 为每次 DOCX 导出创建序列化器；默认使用 docx 渲染器，页面尺寸取自 Settings。
	NewFlow func(g layout.Geometry) renderer.FlowRenderer
	Logger  *slog.Logger
}

// Exporter 协调分类、排版、打包与交付。可被多个 goroutine 同时使用：
// 每次调用都会创建自己的后端，调用之间不共享可变状态。
type Exporter struct {
	settings   layout.Settings
	newBackend func(typeface string) (Backend, error)
	newFlow    func(g layout.Geometry) renderer.FlowRenderer
	logger     *slog.Logger
}

// New 使用默认值补全 opts 并创建 Exporter。
func New(opts Options) *Exporter {
	e := &Exporter{
		settings:   opts.Settings,
		newBackend: opts.NewBackend,
		newFlow:    opts.NewFlow,
		logger:     opts.Logger,
	}
	if reflect.ValueOf(e.settings).IsZero() {
		e.settings = layout.DefaultSettings()
	}
	if e.settings.Geometry == (layout.Geometry{}) {
		e.settings.Geometry = layout.DefaultGeometry()
	}
	if e.settings.Typography.FontSize == 0 {
		e.settings.Typography = layout.DefaultTypography()
	}
	if e.settings.Typeface == "" {
		e.settings.Typeface = layout.DefaultTypeface
	}
	if e.newBackend == nil {
		e.newBackend = func(typeface string) (Backend, error) {
			return canvasrenderer.NewRenderer(typeface), nil
		}
	}
	if e.newFlow == nil {
		e.newFlow = func(g layout.Geometry) renderer.FlowRenderer {
			r := docx.NewRenderer()
			r.PageWidth, r.PageHeight = g.Width, g.Height
			return r
		}
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Settings 返回当前导出配置。
func (e *Exporter) Settings() layout.Settings { return e.settings }

// Build 将 content 渲染为指定格式的产物，不做交付。
func (e *Exporter) Build(format Format, document DocumentKind, content string) (*Artifact, error) {
	if !document.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDocument, document)
	}
	if format != FormatDOCX && format != FormatPDF {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	art := &Artifact{
		ID:       uuid.New(),
		Document: document,
		Format:   format,
		Filename: Filename(document, format),
		MimeType: format.MimeType(),
	}
	meta := e.expandMeta(art)
	lines := classify.Split(content)

	switch format {
	case FormatDOCX:
		data, err := e.newFlow(e.settings.Geometry).RenderFlow(flow.NewDocument(lines, meta))
		if err != nil {
			return nil, err
		}
		art.Data = data
	case FormatPDF:
		backend, err := e.newBackend(e.settings.Typeface)
		if err != nil {
			return nil, fmt.Errorf("%w: 创建排版后端失败: %w", ErrMeasurement, err)
		}
		if err := backend.Prepare(); err != nil {
			return nil, fmt.Errorf("%w: 准备字体失败: %w", ErrMeasurement, err)
		}
		opts := e.settings.Options(backend)
		opts.Meta = meta
		res, err := layout.Paginate(lines, opts)
		if err != nil {
			return nil, err
		}
		data, err := backend.Render(res)
		if err != nil {
			return nil, err
		}
		art.Data = data
		art.Pages = len(res.Pages)
	}
	return art, nil
}

// ExportAs 渲染当前选中的文档并交给 sink。
// 暂存的下载句柄在成功与失败路径上都会被释放；打包失败时不会写出任何文件。
func (e *Exporter) ExportAs(ctx context.Context, format Format, sel Selection, sink Sink) (*Artifact, error) {
	log := e.logger.With("document", string(sel.Active), "format", string(format))

	content, err := sel.Content()
	if err != nil {
		log.Error("导出失败", "code", Code(err), "error", err)
		return nil, err
	}
	art, err := e.Build(format, sel.Active, content)
	if err != nil {
		log.Error("导出失败", "code", Code(err), "error", err)
		return nil, err
	}
	log = log.With("id", art.ID.String())

	if err := e.deliver(ctx, art, sink, log); err != nil {
		log.Error("导出失败", "code", Code(err), "error", err)
		return nil, err
	}
	log.Info("导出完成", "filename", art.Filename, "bytes", art.Size(), "pages", art.Pages)
	return art, nil
}

func (e *Exporter) deliver(ctx context.Context, art *Artifact, sink Sink, log *slog.Logger) error {
	if sink == nil {
		return fmt.Errorf("%w: 缺少下载端", ErrDelivery)
	}
	dl, err := sink.Stage(ctx, art)
	if err != nil {
		return fmt.Errorf("%w: 暂存 %s 失败: %w", ErrDelivery, art.Filename, err)
	}
	defer func() {
		if err := dl.Release(); err != nil {
			log.Warn("释放下载句柄失败", "error", err)
		}
	}()
	if err := dl.Deliver(ctx); err != nil {
		return fmt.Errorf("%w: 交付 %s 失败: %w", ErrDelivery, art.Filename, err)
	}
	return nil
}

func (e *Exporter) expandMeta(art *Artifact) layout.DocumentMeta {
	meta := e.settings.Meta.Expand(map[string]string{
		"document": string(art.Document),
		"label":    art.Document.Label(),
		"filename": art.Filename,
		"id":       art.ID.String(),
	})
	all := strings.Join(append([]string{meta.Title, meta.Author, meta.Subject, meta.Creator}, meta.Keywords...), " ")
	if names := binding.Placeholders(all); len(names) > 0 {
		e.logger.Warn("元信息中存在未解析的占位符", "names", names)
	}
	return meta
}
