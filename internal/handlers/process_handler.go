package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/PratyakshSaluja/Linkedin-Data-Formatter/internal/input"
	"github.com/PratyakshSaluja/Linkedin-Data-Formatter/internal/processor"
)

const maxUploadSize = 10 << 20 // 10MB

// ProcessHandler accepts profile URLs, singly or via upload, and runs them
// through the batch processor.
type ProcessHandler struct {
	processor *processor.Processor
	logger    *zap.Logger
}

func NewProcessHandler(p *processor.Processor, logger *zap.Logger) *ProcessHandler {
	return &ProcessHandler{
		processor: p,
		logger:    logger.Named("process"),
	}
}

// RegisterRoutes registers the routes for this handler
func (h *ProcessHandler) RegisterRoutes(router *mux.Router, logger *zap.Logger) {
	router.HandleFunc("/process", h.handleProcess).Methods("POST")
	router.HandleFunc("/process-excel", h.handleProcessExcel).Methods("POST")
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{"error": message})
}

// handleProcess accepts either a CSV file of URLs or a single linkedin_url
// form field.
func (h *ProcessHandler) handleProcess(w http.ResponseWriter, req *http.Request) {
	if err := req.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	var urls []string
	file, _, err := req.FormFile("file")
	if err == nil {
		defer func() {
			_ = file.Close()
		}()
		urls, err = input.FromCSV(file)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	} else if linkedinURL := req.FormValue("linkedin_url"); linkedinURL != "" {
		urls = []string{linkedinURL}
	} else {
		writeError(w, http.StatusBadRequest,
			"no input provided; supply either a CSV file or a linkedin_url field")
		return
	}

	summary := h.processor.ProcessURLs(req.Context(), urls, 0)
	h.respond(w, summary)
}

// handleProcessExcel accepts an Excel roster with a "Linkedin Profile"
// column and an optional limit form field.
func (h *ProcessHandler) handleProcessExcel(w http.ResponseWriter, req *http.Request) {
	if err := req.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, _, err := req.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no Excel file provided")
		return
	}
	defer func() {
		_ = file.Close()
	}()

	entries, err := input.FromExcel(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit := 0
	if raw := req.FormValue("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	urls := make([]string, 0, len(entries))
	for _, entry := range entries {
		urls = append(urls, entry.ProfileURL)
	}

	// Roster re-runs should not re-fetch profiles already in the database.
	summary := h.processor.ProcessNewURLs(req.Context(), urls, limit)
	h.respond(w, summary)
}

func (h *ProcessHandler) respond(w http.ResponseWriter, summary *processor.Summary) {
	status := http.StatusOK
	if summary.Processed == 0 && len(summary.Failures) > 0 {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, map[string]interface{}{
		"success":   summary.Processed > 0 || len(summary.Failures) == 0,
		"processed": summary.Processed,
		"skipped":   summary.Skipped,
		"failures":  summary.Failures,
	})
}
