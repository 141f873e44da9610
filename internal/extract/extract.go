package extract

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/doccheck/internal/config"
)

// Extractor extracts plain text from an uploaded document.
type Extractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// SupportedExtension reports whether documents with the given filename
// extension can be handled. The check runs at the upload boundary so
// unsupported files are rejected before any temp file outlives the request.
func SupportedExtension(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".txt", ".md":
		return true
	default:
		return false
	}
}

// New creates an Extractor based on config. The configured provider only
// applies to PDFs; plain-text documents are always read directly.
func New(cfg config.ExtractConfig) (Extractor, error) {
	var pdf Extractor
	switch cfg.Provider {
	case "local", "":
		pdf = NewPdfToText(cfg.PdfToTextPath)
	case "mistral":
		if cfg.MistralKey == "" {
			return nil, eris.New("extract: mistral provider requires mistral_api_key")
		}
		pdf = NewMistralOCR(cfg.MistralKey, cfg.MistralModel)
	default:
		return nil, eris.Errorf("extract: unknown provider %q", cfg.Provider)
	}
	return &dispatcher{pdf: pdf}, nil
}

// dispatcher routes by file extension: PDFs go to the configured PDF
// extractor, everything else is treated as plain text.
type dispatcher struct {
	pdf Extractor
}

func (d *dispatcher) ExtractText(ctx context.Context, path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return d.pdf.ExtractText(ctx, path)
	}
	return readPlainText(path)
}

func readPlainText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", eris.Wrapf(err, "extract: read %s", path)
	}
	return string(data), nil
}
