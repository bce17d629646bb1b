// Package poppler 通过 pdftoppm 子进程实现光栅化端口，
// 以 PPM (P6) 原始 RGB 输出，避免在引擎侧绑定图像格式。
package poppler

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"

	"docsearcher/internal/domain/document"
)

// Rasterizer 实现 document.Rasterizer。
type Rasterizer struct {
	binary string
}

// New 创建光栅化适配器。binary 为空时使用 PATH 中的 pdftoppm。
func New(binary string) *Rasterizer {
	if binary == "" {
		binary = "pdftoppm"
	}
	return &Rasterizer{binary: binary}
}

// RenderPage 渲染单页为原始 RGB 像素缓冲。zoom 换算为 DPI（1.0 = 72dpi）。
func (r *Rasterizer) RenderPage(ctx context.Context, path string, page int, zoom float64) (*document.RasterPage, error) {
	dpi := int(zoom*72 + 0.5)
	if dpi <= 0 {
		dpi = 72
	}

	args := []string{
		"-f", strconv.Itoa(page),
		"-l", strconv.Itoa(page),
		"-r", strconv.Itoa(dpi),
		path,
	}
	cmd := exec.CommandContext(ctx, r.binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s page %d: %w (%s)", r.binary, page, err, firstLine(stderr.String()))
	}

	raster, err := parsePPM(stdout.Bytes())
	if err != nil {
		return nil, fmt.Errorf("parse %s output for page %d: %w", r.binary, page, err)
	}
	return raster, nil
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
