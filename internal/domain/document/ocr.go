package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	applog "docsearcher/internal/platform/log"
)

// OCROutcome OCR 编排结果：最终 active 路径与状态摘要。
// 失败时 ActivePath 保持为原始文件，上传继续以纯文本提取降级进行。
type OCROutcome struct {
	ActivePath string
	OCRPath    string
	Status     OCRStatus
}

// Orchestrator OCR 编排器：页数守卫 -> 调用外部引擎 -> 产物校验。
type Orchestrator struct {
	engine OCREngine
	pdf    PDFEngine
	cfg    OCRConfig
	outDir string
}

// NewOrchestrator 创建 OCR 编排器。outDir 为空时使用系统临时目录。
func NewOrchestrator(engine OCREngine, pdf PDFEngine, cfg OCRConfig, outDir string) *Orchestrator {
	if outDir == "" {
		outDir = os.TempDir()
	}
	return &Orchestrator{engine: engine, pdf: pdf, cfg: cfg, outDir: outDir}
}

// Run 对原始上传执行一次 OCR 编排。任何失败都只降级，不中断上传。
func (o *Orchestrator) Run(ctx context.Context, originalPath, docID, lang string) OCROutcome {
	// performed 标记引擎是否真的跑过：守卫或探测阶段的放弃
	// 报告 Performed=false，引擎启动之后的失败报告 Performed=true。
	failed := func(performed bool, msg string, elapsed time.Duration) OCROutcome {
		return OCROutcome{
			ActivePath: originalPath,
			Status:     OCRStatus{Performed: performed, Failed: true, Message: msg, Elapsed: elapsed},
		}
	}

	// 页数探测先于昂贵的 OCR 路径。探测失败（损坏文件）同样降级。
	pages, err := o.pdf.PageCount(originalPath)
	if err != nil {
		applog.Warn("[OCR] Inspection failed", "doc_id", docID, "error", err)
		return failed(false, fmt.Sprintf("OCR inspection failed: %v", err), 0)
	}
	if pages > o.cfg.MaxPages {
		applog.Info("[OCR] Aborted by page guard", "doc_id", docID, "pages", pages, "limit", o.cfg.MaxPages)
		return failed(false, fmt.Sprintf("OCR aborted: exceeds %d pages.", o.cfg.MaxPages), 0)
	}

	// 清掉同 id 上一次运行的残留，避免把旧产物当结果。
	outPath := filepath.Join(o.outDir, fmt.Sprintf("%s_ocr.pdf", docID))
	removeQuietly(outPath)

	opts := o.cfg.Options(lang)
	start := time.Now()
	runErr := o.engine.Run(ctx, originalPath, outPath, opts)
	elapsed := time.Since(start)

	if runErr != nil {
		msg := fmt.Sprintf("OCR failed after %.1fs: %v", elapsed.Seconds(), baseMessage(runErr))
		if o.cfg.Debug {
			msg = fmt.Sprintf("%s\n%v", msg, runErr)
		}
		applog.Warn("[OCR] Engine failed", "doc_id", docID, "elapsed", elapsed, "error", runErr)
		return failed(true, msg, elapsed)
	}

	// 引擎成功但产物缺失或为空：与成功不可区分，必须显式检查。
	info, statErr := os.Stat(outPath)
	if statErr != nil || info.Size() == 0 {
		applog.Warn("[OCR] Engine produced no output", "doc_id", docID, "out", outPath)
		return failed(true, "OCR produced no output.", elapsed)
	}

	applog.Info("[OCR] Completed", "doc_id", docID, "elapsed", elapsed, "out", outPath)
	return OCROutcome{
		ActivePath: outPath,
		OCRPath:    outPath,
		Status: OCRStatus{
			Performed: true,
			Message:   fmt.Sprintf("OCR (rotate+deskew) completed in %.1fs.", elapsed.Seconds()),
			Elapsed:   elapsed,
		},
	}
}

// baseMessage 取失败摘要：域错误只保留 Message，保证用户可见文案
// 始终包含简明的失败说明。
func baseMessage(err error) string {
	if de, ok := err.(*DocumentError); ok && de.Message != "" {
		return de.Message
	}
	return err.Error()
}
