// Package web is the HTTP boundary of the extraction service: upload a
// .docx, run the extraction, fetch the result through a time-limited
// signed URL. The core transformation itself lives in package verbatim;
// this layer only moves bytes between the store and the caller.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/debatetools/cardmark/signurl"
	"github.com/debatetools/cardmark/store"
	"github.com/debatetools/cardmark/verbatim"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Service wires the extraction core to storage and signed downloads.
type Service struct {
	store     *store.Store
	extractor *verbatim.Extractor
	secret    []byte
	cfg       *Config
	logger    *slog.Logger
}

// NewService creates the HTTP service.
func NewService(st *store.Store, cfg *Config, secret []byte, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store: st,
		extractor: verbatim.New(verbatim.Config{
			StructuralStyles:     cfg.StructuralStyles,
			KeepCitationAfterTag: cfg.KeepCitationAfterTag,
			Logger:               logger,
		}),
		secret: secret,
		cfg:    cfg,
		logger: logger,
	}
}

// RegisterHTTP mounts the service routes on a chi router.
func (s *Service) RegisterHTTP(r chi.Router) {
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, map[string]string{"status": "ok"})
	})
	r.Post("/api/upload", s.handleUpload)
	r.Post("/api/extract", s.handleExtract)
	r.Get("/download/{token}", s.handleDownload)
}

func (s *Service) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadSize())

	file, hdr, err := r.FormFile("file")
	if err != nil {
		writeError(w, 400, fmt.Errorf("multipart field %q: %w", "file", err))
		return
	}
	defer file.Close()

	name := filepath.Base(hdr.Filename)
	if !strings.EqualFold(filepath.Ext(name), ".docx") {
		writeCode(w, 400, "not_docx", "only .docx files are accepted")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, 400, err)
		return
	}

	f, err := s.store.Put(r.Context(), store.KindUpload, name, data, s.cfg.UploadTTL())
	if err != nil {
		s.logger.Error("upload store failed", "name", name, "error", err)
		writeCode(w, 500, "storage_failed", "could not store the upload")
		return
	}

	s.logger.Info("upload stored", "file_id", f.ID, "name", f.Name, "size", f.Size)
	writeJSON(w, 201, map[string]any{
		"file_id":  f.ID,
		"filename": f.Name,
		"size":     f.Size,
	})
}

func (s *Service) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FileID string `json:"file_id"`
		Mode   string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, err)
		return
	}

	mode, err := verbatim.ParseMode(req.Mode)
	if err != nil {
		writeError(w, 400, err)
		return
	}

	data, rec, err := s.store.Read(r.Context(), req.FileID)
	if errors.Is(err, store.ErrNotFound) {
		writeCode(w, 404, "file_not_found", "unknown or expired file ID")
		return
	}
	if err != nil {
		s.logger.Error("read upload failed", "file_id", req.FileID, "error", err)
		writeCode(w, 500, "storage_failed", "could not read the upload")
		return
	}

	res, err := s.extractor.Extract(data, mode)
	if err != nil {
		// A malformed document fails the same way on every retry, so the
		// caller gets a terminal rejection, not a retryable error.
		switch {
		case errors.Is(err, verbatim.ErrMalformedDocument):
			writeCode(w, 422, "malformed_document", "the file is not a valid .docx document")
		case errors.Is(err, verbatim.ErrUnsupportedFormat):
			writeCode(w, 422, "unsupported_format", "the file has no Word document content")
		default:
			s.logger.Error("extraction failed", "file_id", req.FileID, "error", err)
			writeCode(w, 500, "processing_failed", "extraction failed")
		}
		return
	}

	outName := verbatim.OutputFilename(rec.Name)
	out, err := s.store.Put(r.Context(), store.KindOutput, outName, res.Data, s.cfg.OutputTTL())
	if err != nil {
		s.logger.Error("store output failed", "file_id", req.FileID, "error", err)
		writeCode(w, 500, "storage_failed", "could not store the result")
		return
	}

	token, err := signurl.Sign(s.secret, out.ID, s.cfg.DownloadTTL())
	if err != nil {
		s.logger.Error("sign download token failed", "error", err)
		writeCode(w, 500, "processing_failed", "could not issue a download link")
		return
	}

	if res.Empty() {
		s.logger.Warn("extraction produced an empty document",
			"file_id", req.FileID, "mode", mode)
	}
	s.logger.Info("extraction done",
		"file_id", req.FileID, "output_id", out.ID, "mode", mode,
		"paragraphs_kept", res.ParagraphsKept,
		"paragraphs_dropped", res.ParagraphsDropped,
		"runs_dropped", res.RunsDropped)

	writeJSON(w, 200, map[string]any{
		"output_filename":    outName,
		"download_url":       "/download/" + token,
		"empty":              res.Empty(),
		"paragraphs_kept":    res.ParagraphsKept,
		"paragraphs_dropped": res.ParagraphsDropped,
		"runs_dropped":       res.RunsDropped,
	})
}

func (s *Service) handleDownload(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	fileID, err := signurl.Verify(s.secret, token)
	if err != nil {
		writeCode(w, 403, "invalid_token", "the download link is invalid or expired")
		return
	}

	data, rec, err := s.store.Read(r.Context(), fileID)
	if errors.Is(err, store.ErrNotFound) {
		writeCode(w, 404, "file_not_found", "the file has been cleaned up")
		return
	}
	if err != nil {
		s.logger.Error("read output failed", "file_id", fileID, "error", err)
		writeCode(w, 500, "storage_failed", "could not read the file")
		return
	}

	w.Header().Set("Content-Type", docxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rec.Name))
	w.WriteHeader(200)
	w.Write(data)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func writeCode(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]string{"error": msg, "code": code})
}
