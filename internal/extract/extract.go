// Package extract converts PDF files into plain text. Primary extraction
// shells out to poppler's pdftotext page by page; scanned documents fall back
// to rasterization (pdftoppm) plus OCR (tesseract). Page-level failures are
// tolerated: a failing page contributes an empty string and extraction
// continues.
package extract

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Veda-rathna/mou-management-system/internal/config"
	"github.com/Veda-rathna/mou-management-system/internal/model"
)

// Extractor extracts text from PDF documents.
type Extractor struct {
	pdfInfo    string
	pdfToText  string
	pdfToPpm   string
	tesseract  string
	ocrEnabled bool
}

// New creates an Extractor from config. Empty binary paths default to the
// bare command names resolved via PATH.
func New(cfg config.ExtractConfig) *Extractor {
	e := &Extractor{
		pdfInfo:    cfg.PdfInfoPath,
		pdfToText:  cfg.PdfToTextPath,
		pdfToPpm:   cfg.PdfToPpmPath,
		tesseract:  cfg.TesseractPath,
		ocrEnabled: cfg.OCREnabled,
	}
	if e.pdfInfo == "" {
		e.pdfInfo = "pdfinfo"
	}
	if e.pdfToText == "" {
		e.pdfToText = "pdftotext"
	}
	if e.pdfToPpm == "" {
		e.pdfToPpm = "pdftoppm"
	}
	if e.tesseract == "" {
		e.tesseract = "tesseract"
	}
	return e
}

// Extract produces an ExtractedDocument from the PDF at pdfPath. An
// unopenable input is the only hard error; unreadable content degrades to an
// empty document instead.
func (e *Extractor) Extract(ctx context.Context, pdfPath string) (*model.ExtractedDocument, error) {
	if _, err := os.Stat(pdfPath); err != nil {
		return nil, eris.Wrapf(err, "extract: open %s", pdfPath)
	}

	doc := e.extractText(ctx, pdfPath)
	if !doc.IsEmpty() {
		return doc, nil
	}

	if !e.ocrEnabled {
		zap.L().Warn("extract: no text layer and OCR disabled", zap.String("pdf", pdfPath))
		return doc, nil
	}

	zap.L().Info("extract: empty text layer, running OCR fallback", zap.String("pdf", pdfPath))
	ocrDoc, err := e.ocrFallback(ctx, pdfPath)
	if err != nil {
		zap.L().Warn("extract: OCR fallback failed", zap.String("pdf", pdfPath), zap.Error(err))
		return doc, nil
	}
	return ocrDoc, nil
}

// extractText pulls the text layer page by page. A page that fails
// contributes an empty string; a document whose page count cannot be read
// yields an empty document.
func (e *Extractor) extractText(ctx context.Context, pdfPath string) *model.ExtractedDocument {
	pageCount, err := e.pageCount(ctx, pdfPath)
	if err != nil {
		zap.L().Warn("extract: page count failed", zap.String("pdf", pdfPath), zap.Error(err))
		return &model.ExtractedDocument{}
	}

	pages := make([]string, 0, pageCount)
	for p := 1; p <= pageCount; p++ {
		text, err := e.pageText(ctx, pdfPath, p)
		if err != nil {
			zap.L().Warn("extract: page failed",
				zap.String("pdf", pdfPath),
				zap.Int("page", p),
				zap.Error(err),
			)
			text = ""
		}
		pages = append(pages, text)
	}

	return &model.ExtractedDocument{
		FullText: strings.Join(pages, "\n"),
		Pages:    pages,
	}
}

var pagesRe = regexp.MustCompile(`(?m)^Pages:\s+(\d+)`)

func (e *Extractor) pageCount(ctx context.Context, pdfPath string) (int, error) {
	out, err := runCommand(ctx, e.pdfInfo, pdfPath)
	if err != nil {
		return 0, err
	}
	m := pagesRe.FindStringSubmatch(out)
	if m == nil {
		return 0, eris.Errorf("extract: no page count in pdfinfo output for %s", pdfPath)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 0, eris.Errorf("extract: bad page count %q for %s", m[1], pdfPath)
	}
	return n, nil
}

func (e *Extractor) pageText(ctx context.Context, pdfPath string, page int) (string, error) {
	p := strconv.Itoa(page)
	return runCommand(ctx, e.pdfToText, "-layout", "-f", p, "-l", p, pdfPath, "-")
}

// ocrFallback rasterizes every page and runs OCR per page. Per-page OCR
// failures contribute empty strings; only a failed rasterization aborts.
func (e *Extractor) ocrFallback(ctx context.Context, pdfPath string) (*model.ExtractedDocument, error) {
	tmpDir, err := os.MkdirTemp("", "mou-ocr-")
	if err != nil {
		return nil, eris.Wrap(err, "extract: temp dir")
	}
	defer os.RemoveAll(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	if _, err := runCommand(ctx, e.pdfToPpm, "-png", "-r", "150", pdfPath, prefix); err != nil {
		return nil, eris.Wrapf(err, "extract: rasterize %s", pdfPath)
	}

	images, err := filepath.Glob(prefix + "*.png")
	if err != nil {
		return nil, eris.Wrap(err, "extract: glob page images")
	}
	sort.Strings(images)
	if len(images) == 0 {
		return nil, eris.Errorf("extract: rasterization produced no pages for %s", pdfPath)
	}

	pages := make([]string, 0, len(images))
	for _, img := range images {
		text, err := runCommand(ctx, e.tesseract, img, "stdout")
		if err != nil {
			zap.L().Warn("extract: OCR page failed", zap.String("image", img), zap.Error(err))
			text = ""
		}
		pages = append(pages, text)
	}

	return &model.ExtractedDocument{
		FullText:        strings.Join(pages, "\n"),
		Pages:           pages,
		SourceIsScanned: true,
	}, nil
}

func runCommand(ctx context.Context, bin string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, bin, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", eris.Wrapf(err, "%s failed: %s", bin, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
