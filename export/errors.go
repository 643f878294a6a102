package export

import (
	"errors"

	"github.com/ByLCY/tailor/layout"
	"github.com/ByLCY/tailor/renderer"
)

var (
	// ErrMeasurement: 排版后端无法测量文本。
	ErrMeasurement = layout.ErrMeasurement
	// ErrSerialization: 打包二进制文件失败。
	ErrSerialization = renderer.ErrSerialization
	// ErrInvalidOptions: 页面或字体排印参数无效。
	ErrInvalidOptions = layout.ErrInvalidOptions
	// ErrDelivery: 产物无法交付给下载端。
	ErrDelivery = errors.New("export: delivery failed")
	// ErrUnknownFormat: 不支持的导出格式。
	ErrUnknownFormat = errors.New("export: unknown format")
	// ErrUnknownDocument: 不存在的文档。
	ErrUnknownDocument = errors.New("export: unknown document")
)

// ErrorCode 是导出失败的最小分类，用于日志与 HTTP 状态映射。
type ErrorCode string

const (
	CodeNone          ErrorCode = ""
	CodeMeasurement   ErrorCode = "measurement"
	CodeSerialization ErrorCode = "serialization"
	CodeDelivery      ErrorCode = "delivery"
	CodeInvalid       ErrorCode = "invalid"
	CodeUnknown       ErrorCode = "unknown"
)

// Code 将错误归类。仅依赖哨兵错误，不做字符串匹配。
func Code(err error) ErrorCode {
	switch {
	case err == nil:
		return CodeNone
	case errors.Is(err, ErrMeasurement):
		return CodeMeasurement
	case errors.Is(err, ErrSerialization):
		return CodeSerialization
	case errors.Is(err, ErrDelivery):
		return CodeDelivery
	case errors.Is(err, ErrUnknownFormat), errors.Is(err, ErrUnknownDocument), errors.Is(err, ErrInvalidOptions):
		return CodeInvalid
	default:
		return CodeUnknown
	}
}
