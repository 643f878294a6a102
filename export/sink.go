package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Sink 接收导出产物。Stage 先把产物放到临时位置并返回下载句柄。
type Sink interface {
	Stage(ctx context.Context, a *Artifact) (Download, error)
}

// Download 是已暂存的下载句柄。
// 无论 Deliver 成功与否，调用方都必须调用 Release。
type Download interface {
	Deliver(ctx context.Context) error
	Release() error
}

// DirSink 将产物写入目录：先写同目录隐藏临时文件，交付时原子改名为最终文件名。
type DirSink struct {
	Dir      string
	PermFile os.FileMode
	PermDir  os.FileMode
}

var _ Sink = (*DirSink)(nil)

// NewDirSink 创建目录下载端；dir 为空时使用当前目录。
func NewDirSink(dir string) *DirSink {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	return &DirSink{Dir: dir, PermFile: 0o644, PermDir: 0o755}
}

// Stage 实现 Sink。
func (s *DirSink) Stage(ctx context.Context, a *Artifact) (Download, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := filepath.Base(filepath.Clean(a.Filename))
	if name == "." || name == ".." || name == string(filepath.Separator) {
		return nil, fmt.Errorf("非法文件名 %q", a.Filename)
	}
	if err := os.MkdirAll(s.Dir, s.PermDir); err != nil {
		return nil, err
	}
	tmp, err := os.CreateTemp(s.Dir, ".tailor-*")
	if err != nil {
		return nil, err
	}
	tmpPath := tmp.Name()
	_ = os.Chmod(tmpPath, s.PermFile)

	if _, err := io.Copy(tmp, a.Reader()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return nil, err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return nil, err
	}
	return &fileDownload{tmp: tmpPath, dest: filepath.Join(s.Dir, name)}, nil
}

type fileDownload struct {
	tmp       string
	dest      string
	delivered bool
}

func (d *fileDownload) Deliver(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Rename(d.tmp, d.dest); err != nil {
		return err
	}
	d.delivered = true
	return nil
}

// Release 删除尚未交付的临时文件。
func (d *fileDownload) Release() error {
	if d.delivered {
		return nil
	}
	if err := os.Remove(d.tmp); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
