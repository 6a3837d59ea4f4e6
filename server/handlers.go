package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gaurav-prasanna/pagepress/core"
)

type convertRequest struct {
	MarkdownContent string `json:"markdown_content"`
	Theme           string `json:"theme"`
}

type convertResponse struct {
	HTMLContent string `json:"html_content"`
	ThemeUsed   string `json:"theme_used"`
	Success     bool   `json:"success"`
	Message     string `json:"message"`
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":          "Markdown to HTML Converter API",
		"version":          Version,
		"available_themes": s.themes.Names(),
		"endpoints": map[string]string{
			"convert": "/convert",
			"preview": "/convert/preview/{theme}",
			"themes":  "/themes",
			"health":  "/health",
		},
	})
}

func (s *Server) handleThemes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"available_themes": s.themes.Names(),
		"default_theme":    s.themes.Default(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": serviceName,
	})
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	var req convertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Theme == "" {
		req.Theme = s.themes.Default()
	}
	if !s.themes.Has(req.Theme) {
		writeError(w, http.StatusBadRequest, s.invalidThemeDetail())
		return
	}
	if strings.TrimSpace(req.MarkdownContent) == "" {
		writeError(w, http.StatusBadRequest, "Markdown content cannot be empty")
		return
	}

	html, doc, err := s.convert(req.MarkdownContent, req.Theme, "request")
	if err != nil {
		s.writeConvertError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, convertResponse{
		HTMLContent: string(html),
		ThemeUsed:   doc.Meta.Theme,
		Success:     true,
		Message:     "Conversion successful",
	})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	theme := chi.URLParam(r, "theme")
	if !s.themes.Has(theme) {
		writeError(w, http.StatusBadRequest, s.invalidThemeDetail())
		return
	}

	html, _, err := s.convert(previewMarkdown, theme, "preview")
	if err != nil {
		s.writeConvertError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(html)
}

func (s *Server) convert(markdown, theme, source string) ([]byte, *core.Document, error) {
	return s.pipeline.Convert(markdown, core.DocumentMetadata{Source: source, Theme: theme}, s.renderer)
}

func (s *Server) writeConvertError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrUnknownTheme):
		writeError(w, http.StatusBadRequest, s.invalidThemeDetail())
	case errors.Is(err, core.ErrEmptyContent):
		writeError(w, http.StatusBadRequest, "Markdown content cannot be empty")
	default:
		s.logger.ErrorContext(r.Context(), "conversion failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error during conversion: "+err.Error())
	}
}
