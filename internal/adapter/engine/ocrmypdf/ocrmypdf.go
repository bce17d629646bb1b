// Package ocrmypdf 通过 ocrmypdf 子进程实现 OCR 引擎端口：
// 输入原始 PDF，输出带文本层的 PDF。
package ocrmypdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"os/exec"

	"docsearcher/internal/domain/document"
)

// Engine 实现 document.OCREngine。
type Engine struct {
	binary string
}

// New 创建 OCR 适配器。binary 为空时使用 PATH 中的 ocrmypdf。
func New(binary string) *Engine {
	if binary == "" {
		binary = "ocrmypdf"
	}
	return &Engine{binary: binary}
}

// Run 执行一次 OCR。opts.Timeout 为硬性墙钟超时：超过即按引擎失败
// 处理，绝不悬挂。
func (e *Engine) Run(ctx context.Context, inputPath, outputPath string, opts document.OCROptions) error {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	args := e.buildArgs(inputPath, outputPath, opts)
	cmd := exec.CommandContext(ctx, e.binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return document.NewError(document.CodeOCRFailed,
			fmt.Sprintf("OCR timed out after %.0fs", opts.Timeout.Seconds()), ctx.Err())
	}
	return document.NewError(document.CodeOCRFailed,
		fmt.Sprintf("%s: %s", e.binary, summarize(stderr.String(), err)),
		fmt.Errorf("%w\n%s", err, stderr.String()))
}

func (e *Engine) buildArgs(inputPath, outputPath string, opts document.OCROptions) []string {
	args := []string{"--language", opts.Language}
	if opts.Deskew {
		args = append(args, "--deskew")
	}
	if opts.Optimize > 0 {
		args = append(args, "--optimize", strconv.Itoa(opts.Optimize))
	}
	if opts.SkipText {
		args = append(args, "--skip-text")
	}
	if opts.RotatePages {
		args = append(args,
			"--rotate-pages",
			"--rotate-pages-threshold", strconv.FormatFloat(opts.RotateThreshold, 'f', -1, 64),
		)
	}
	if opts.Timeout > 0 {
		args = append(args, "--tesseract-timeout", strconv.Itoa(int(opts.Timeout.Seconds())))
	}
	return append(args, inputPath, outputPath)
}

// summarize 取 stderr 末行作为简明失败说明，空输出退回 exec 错误。
func summarize(stderr string, err error) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return err.Error()
}
