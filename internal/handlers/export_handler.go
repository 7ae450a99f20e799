package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/PratyakshSaluja/Linkedin-Data-Formatter/internal/exporter"
)

const workbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler regenerates and serves spreadsheet exports of the dataset.
type ExportHandler struct {
	exporter   *exporter.Exporter
	workbook   string
	csvBaseDir string
	logger     *zap.Logger
}

func NewExportHandler(e *exporter.Exporter, workbookPath, csvBaseDir string, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{
		exporter:   e,
		workbook:   workbookPath,
		csvBaseDir: csvBaseDir,
		logger:     logger.Named("export"),
	}
}

// RegisterRoutes registers the routes for this handler
func (h *ExportHandler) RegisterRoutes(router *mux.Router, logger *zap.Logger) {
	router.HandleFunc("/download", h.handleDownload).Methods("GET")
	router.HandleFunc("/export/csv", h.handleExportCSV).Methods("GET")
}

// handleDownload regenerates the workbook from current database state and
// streams it. The file is never incrementally maintained.
func (h *ExportHandler) handleDownload(w http.ResponseWriter, req *http.Request) {
	if err := h.exporter.ExportWorkbook(req.Context(), h.workbook); err != nil {
		h.logger.Error("workbook export failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to generate export")
		return
	}

	w.Header().Set("Content-Type", workbookContentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", filepath.Base(h.workbook)))
	http.ServeFile(w, req, h.workbook)
}

func (h *ExportHandler) handleExportCSV(w http.ResponseWriter, req *http.Request) {
	dir := filepath.Join(h.csvBaseDir, "exports_"+time.Now().Format("20060102_150405"))
	if err := h.exporter.ExportCSV(req.Context(), dir); err != nil {
		h.logger.Error("csv export failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to generate export")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"dir":     dir,
	})
}
