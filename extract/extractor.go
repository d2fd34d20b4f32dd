// Package extract converts uploaded contract documents into plain text for
// the analysis pipeline.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

var (
	ErrEmptyDocument   = errors.New("document contains no text")
	ErrUnsupportedType = errors.New("unsupported document type")
	ErrInvalidEncoding = errors.New("document is not valid UTF-8 text")
)

// TextExtractor converts an uploaded document into plain text. Failures
// (corrupt file, unsupported format) propagate to the caller of analyze
// unchanged.
type TextExtractor interface {
	ExtractText(ctx context.Context, filename string, document io.Reader) (string, error)
}

// PlainTextExtractor extracts text from plain-text contract documents.
// Binary formats (PDF, DOCX) need a dedicated extractor behind the same
// interface.
type PlainTextExtractor struct {
	maxBytes int64
}

// NewPlainTextExtractor creates a plain-text extractor with a read cap
func NewPlainTextExtractor(maxBytes int64) *PlainTextExtractor {
	if maxBytes <= 0 {
		maxBytes = 10 * 1024 * 1024 // 10MB, matches the upload cap
	}
	return &PlainTextExtractor{maxBytes: maxBytes}
}

// ExtractText reads a plain-text document in full and returns its contents
func (e *PlainTextExtractor) ExtractText(ctx context.Context, filename string, document io.Reader) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".md", "":
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, filepath.Ext(filename))
	}

	data, err := io.ReadAll(io.LimitReader(document, e.maxBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}

	if !utf8.Valid(data) {
		return "", ErrInvalidEncoding
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", ErrEmptyDocument
	}

	return text, nil
}
