package server

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/doccheck/internal/extract"
	"github.com/sells-group/doccheck/internal/validator"
)

// maxUploadBytes bounds the multipart form held in memory before spilling to disk.
const maxUploadBytes = 32 << 20

// validateResponse is the wire shape of a successful validation.
type validateResponse struct {
	Results []validator.Verdict `json:"results"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	if s.batch == nil {
		writeError(w, http.StatusInternalServerError, "completion API key is not configured")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no document attached")
		return
	}
	defer file.Close() //nolint:errcheck

	rules := validator.ParseRules(r.FormValue("rules"))
	if len(rules) == 0 {
		writeError(w, http.StatusBadRequest, "no rules provided")
		return
	}

	if !extract.SupportedExtension(header.Filename) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported file type %q", filepath.Ext(header.Filename)))
		return
	}

	text, err := s.extractUpload(r, file, header.Filename)
	if err != nil {
		zap.L().Error("validate: text extraction failed",
			zap.String("filename", header.Filename),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "failed to extract text from document")
		return
	}

	verdicts := s.batch.Validate(r.Context(), text, rules)
	writeJSON(w, http.StatusOK, validateResponse{Results: verdicts})
}

// extractUpload spools the uploaded document to the uploads dir, extracts its
// text, and removes the file. The upload is transient: it is deleted whether
// or not extraction succeeds.
func (s *Server) extractUpload(r *http.Request, file io.Reader, filename string) (string, error) {
	if err := os.MkdirAll(s.cfg.UploadsDir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(s.cfg.UploadsDir, uuid.NewString()+strings.ToLower(filepath.Ext(filename)))
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer os.Remove(path) //nolint:errcheck

	_, copyErr := io.Copy(dst, file)
	closeErr := dst.Close()
	if copyErr != nil {
		return "", copyErr
	}
	if closeErr != nil {
		return "", closeErr
	}

	return s.extractor.ExtractText(r.Context(), path)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":           "ok",
		"message":          "document validation API is running",
		"apiKeyConfigured": s.client != nil,
	})
}

func (s *Server) handleTestKey(w http.ResponseWriter, r *http.Request) {
	if s.client == nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"valid": false,
			"error": "completion API key is not configured",
		})
		return
	}

	models, err := s.client.ListModels(r.Context())
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"valid":   true,
		"message": fmt.Sprintf("key accepted; %d models available", len(models)),
	})
}
