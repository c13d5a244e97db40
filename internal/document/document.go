// Package document turns stored résumé files into plain text.
package document

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const (
	binarySampleSize = 1000
	binaryThreshold  = 0.3
)

// ErrBinaryContent is returned when a text file turns out to hold binary data.
var ErrBinaryContent = errors.New("file content looks binary")

type runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Reader extracts text from .txt, .md and .pdf files.
type Reader struct {
	logger *zap.Logger
	run    runner
}

// New creates a Reader. PDF files are converted with pdftotext from poppler-utils.
func New(logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{logger: logger, run: runCommand}
}

// Text returns the document text. Empty text is a valid result, for example
// for an image-only PDF.
func (r *Reader) Text(ctx context.Context, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("document path is required")
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".txt", ".md", "":
		return readText(path)
	case ".pdf":
		return r.pdfText(ctx, path)
	default:
		return "", fmt.Errorf("unsupported file type: %s", ext)
	}
}

func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	text := string(data)
	if IsBinary(text) {
		return "", fmt.Errorf("%s: %w", path, ErrBinaryContent)
	}
	return text, nil
}

func (r *Reader) pdfText(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}

	output, err := r.run(ctx, "pdftotext", "-layout", path, "-")
	if err != nil {
		return "", fmt.Errorf("pdf extraction requires 'pdftotext' (install poppler-utils): %w", err)
	}

	text := string(output)
	if strings.TrimSpace(text) == "" {
		r.logger.Warn("pdf has no extractable text", zap.String("path", path))
	}
	return text, nil
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// IsBinary reports whether content looks like binary data such as a PDF or ZIP payload.
func IsBinary(content string) bool {
	if len(content) == 0 {
		return false
	}
	if strings.HasPrefix(content, "%PDF-") || strings.HasPrefix(content, "PK") {
		return true
	}

	sampleSize := min(binarySampleSize, len(content))
	nonPrintable := 0
	for i := 0; i < sampleSize; i++ {
		ch := content[i]
		if ch < 32 && ch != '\n' && ch != '\r' && ch != '\t' {
			nonPrintable++
		}
	}

	return float64(nonPrintable)/float64(sampleSize) > binaryThreshold
}
