package extract

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/doccheck/internal/config"
)

func TestSupportedExtension(t *testing.T) {
	assert.True(t, SupportedExtension("handbook.pdf"))
	assert.True(t, SupportedExtension("HANDBOOK.PDF"))
	assert.True(t, SupportedExtension("notes.txt"))
	assert.True(t, SupportedExtension("readme.md"))
	assert.False(t, SupportedExtension("sheet.xlsx"))
	assert.False(t, SupportedExtension("archive"))
}

func TestNew_LocalDefault(t *testing.T) {
	ext, err := New(config.ExtractConfig{})
	require.NoError(t, err)
	d, ok := ext.(*dispatcher)
	require.True(t, ok)
	assert.IsType(t, &PdfToText{}, d.pdf)
}

func TestNew_MistralMissingKey(t *testing.T) {
	_, err := New(config.ExtractConfig{Provider: "mistral"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mistral provider requires mistral_api_key")
}

func TestNew_MistralWithKey(t *testing.T) {
	ext, err := New(config.ExtractConfig{Provider: "mistral", MistralKey: "mk"})
	require.NoError(t, err)
	d, ok := ext.(*dispatcher)
	require.True(t, ok)
	assert.IsType(t, &MistralOCR{}, d.pdf)
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(config.ExtractConfig{Provider: "tesseract"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown provider "tesseract"`)
}

func TestDispatcher_PlainText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.txt")
	require.NoError(t, os.WriteFile(path, []byte("Purpose: to define onboarding steps."), 0644))

	ext, err := New(config.ExtractConfig{})
	require.NoError(t, err)

	text, err := ext.ExtractText(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Purpose: to define onboarding steps.", text)
}

func TestDispatcher_MissingFile(t *testing.T) {
	ext, err := New(config.ExtractConfig{})
	require.NoError(t, err)

	_, err = ext.ExtractText(context.Background(), filepath.Join(t.TempDir(), "gone.txt"))
	require.Error(t, err)
}

func TestPdfToText_BinPath(t *testing.T) {
	p := NewPdfToText("")
	assert.Equal(t, "pdftotext", p.binPath)

	p = NewPdfToText("/custom/pdftotext")
	assert.Equal(t, "/custom/pdftotext", p.binPath)
}

func TestPdfToText_MissingBinary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0644))

	p := NewPdfToText(filepath.Join(dir, "no-such-binary"))
	_, err := p.ExtractText(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdftotext failed")
}

func TestMistralOCR_Defaults(t *testing.T) {
	m := NewMistralOCR("key", "")
	assert.Equal(t, defaultMistralModel, m.model)
	assert.Equal(t, mistralOCREndpoint, m.endpoint)

	m = NewMistralOCR("key", "custom-model")
	assert.Equal(t, "custom-model", m.model)
}

func TestMistralOCR_ExtractText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req mistralOCRRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.Equal(t, "document_url", req.Document.Type)
		assert.Contains(t, req.Document.DocumentURL, "data:application/pdf;base64,")

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(mistralOCRResponse{ //nolint:errcheck
			Pages: []mistralOCRPage{
				{Index: 0, Markdown: "Page one"},
				{Index: 1, Markdown: "Page two"},
			},
		})
	}))
	defer srv.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 test"), 0644))

	m := NewMistralOCR("test-key", "test-model")
	m.endpoint = srv.URL

	text, err := m.ExtractText(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Page one\n\nPage two", text)
}

func TestMistralOCR_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid api key"}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0644))

	m := NewMistralOCR("bad-key", "test-model")
	m.endpoint = srv.URL

	_, err := m.ExtractText(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mistral API returned 401")
}
