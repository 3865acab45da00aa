package web

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/aitools/internal/core"
	"github.com/JonMunkholm/aitools/internal/web/templates"
)

var (
	errNoPayload    = errors.New("no import payload provided")
	errFileTooLarge = errors.New("file too large")
)

// handleImport runs a bulk import and returns the ImportResult.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, format, err := s.readImportPayload(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	result, err := s.service.ImportTools(ctx, data, format)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = templates.ImportResultPartial(result).Render(r.Context(), w)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleImportPreview parses and validates a payload without publishing it.
func (s *Server) handleImportPreview(w http.ResponseWriter, r *http.Request) {
	data, format, err := s.readImportPayload(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	preview, err := s.service.PreviewImport(r.Context(), data, format)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = templates.ImportResultPartial(preview.Result).Render(r.Context(), w)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

// handleImportTemplate downloads the example payload for ?format= (default csv).
func (s *Server) handleImportTemplate(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("format")
	if raw == "" {
		raw = string(core.FormatCSV)
	}
	format, err := core.ParseFormat(raw)
	if err != nil {
		respondError(w, r, badRequest(err))
		return
	}

	body, err := core.ImportTemplate(format)
	if err != nil {
		respondError(w, r, err)
		return
	}

	contentType := "text/csv; charset=utf-8"
	if format == core.FormatJSON {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", core.TemplateFileName(format)))
	_, _ = io.WriteString(w, body)
}

// handleImportStatus reports import slot usage.
func (s *Server) handleImportStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.ImportLimiterStatus())
}

// readImportPayload reads the import body, bounded by IMPORT_MAX_SIZE.
//
// A multipart request carries the payload in its "file" part; anything else
// is the raw body. The format comes from ?format=, then a "format" form
// field, then the file extension, then the Content-Type.
func (s *Server) readImportPayload(w http.ResponseWriter, r *http.Request) ([]byte, core.Format, error) {
	maxSize := s.cfg.Import.MaxSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	formatHint := r.URL.Query().Get("format")
	var data []byte

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxSize); err != nil {
			return nil, "", payloadError(err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, "", badRequest(errNoPayload)
		}
		defer file.Close()

		if data, err = io.ReadAll(file); err != nil {
			return nil, "", payloadError(err)
		}
		if formatHint == "" {
			formatHint = r.FormValue("format")
		}
		if formatHint == "" {
			formatHint = strings.TrimPrefix(strings.ToLower(filepath.Ext(header.Filename)), ".")
		}
	} else {
		var err error
		if data, err = io.ReadAll(r.Body); err != nil {
			return nil, "", payloadError(err)
		}
		if formatHint == "" {
			formatHint = mediaType
		}
	}

	if len(data) == 0 {
		return nil, "", badRequest(errNoPayload)
	}

	format, err := core.ParseFormat(formatHint)
	if err != nil {
		return nil, "", badRequest(err)
	}
	return data, format, nil
}

// payloadError maps a body read failure, reporting oversize bodies as 413.
func payloadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return &requestError{
			status: http.StatusRequestEntityTooLarge,
			err:    fmt.Errorf("%w: limit is %d bytes", errFileTooLarge, tooLarge.Limit),
		}
	}
	return badRequest(fmt.Errorf("read import payload: %w", err))
}
