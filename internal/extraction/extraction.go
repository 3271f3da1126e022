// Package extraction turns uploaded resume documents into plain text. It never
// returns an error to callers: a document that cannot be read yields empty text
// and the reason is logged.
package extraction

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/jonathan/applicant-screener/internal/logger"
)

// Format identifies the container a document was decoded from.
type Format string

const (
	FormatPDF     Format = "pdf"
	FormatDOCX    Format = "docx"
	FormatHTML    Format = "html"
	FormatText    Format = "text"
	FormatUnknown Format = "unknown"
)

// Result is the outcome of one extraction.
type Result struct {
	Text     string
	Format   Format
	Metadata *Metadata
	// Reason is set when Text is empty because decoding failed.
	Reason string
}

// Empty reports whether no usable text was recovered.
func (r Result) Empty() bool {
	return strings.TrimSpace(r.Text) == ""
}

// Extractor decodes documents. The zero value is usable and logs nothing.
type Extractor struct {
	logger *zap.Logger
}

// New returns an Extractor that reports decode failures to log.
func New(log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{logger: logger.ForComponent(log, "extraction")}
}

// FromFile reads and decodes the document at path.
func (e *Extractor) FromFile(path string) Result {
	data, err := os.ReadFile(path)
	if err != nil {
		reason := fmt.Sprintf("failed to read file: %v", err)
		if os.IsNotExist(err) {
			reason = fmt.Sprintf("file not found: %s", path)
		}
		e.warn(path, reason)
		return Result{Format: FormatUnknown, Reason: reason}
	}
	return e.FromBytes(filepath.Base(path), data)
}

// FromBytes decodes data. name is only used as a format hint when the content
// itself is not conclusive.
func (e *Extractor) FromBytes(name string, data []byte) Result {
	format := DetectFormat(name, data)
	meta := NewMetadata(name, format, data)

	raw, err := decode(format, data)
	if err != nil {
		e.warn(name, err.Error())
		return Result{Format: format, Metadata: meta, Reason: err.Error()}
	}

	return Result{Text: CleanText(raw), Format: format, Metadata: meta}
}

func (e *Extractor) warn(name, reason string) {
	if e == nil || e.logger == nil {
		return
	}
	e.logger.Warn("document extraction failed",
		zap.String(logger.FieldDocument, name),
		zap.String("reason", reason),
	)
}

func decode(format Format, data []byte) (text string, err error) {
	// The PDF and DOCX readers panic on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%s decoder panicked: %v", format, r)
		}
	}()

	switch format {
	case FormatPDF:
		return pdfText(data)
	case FormatDOCX:
		return docxText(data)
	case FormatHTML:
		return htmlText(data)
	case FormatText:
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported document format")
	}
}

var (
	pdfMagic = []byte("%PDF-")
	zipMagic = []byte("PK\x03\x04")
)

// DetectFormat identifies a document by its leading bytes, falling back to the
// file extension of name.
func DetectFormat(name string, data []byte) Format {
	switch {
	case bytes.HasPrefix(data, pdfMagic):
		return FormatPDF
	case bytes.HasPrefix(data, zipMagic):
		return FormatDOCX
	}

	head := strings.ToLower(strings.TrimSpace(string(data[:min(len(data), 512)])))
	if strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html") {
		return FormatHTML
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return FormatPDF
	case ".docx":
		return FormatDOCX
	case ".html", ".htm":
		return FormatHTML
	case ".txt", ".md", ".text":
		return FormatText
	}

	if len(data) > 0 && utf8.Valid(data) {
		return FormatText
	}
	return FormatUnknown
}
