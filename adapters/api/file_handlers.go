package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"datalens/domain/core"
	"datalens/domain/dataset"
	"datalens/internal"
	"datalens/internal/analysis"
	apperrors "datalens/internal/errors"
	"datalens/ports"

	"github.com/gin-gonic/gin"
)

// FileHandler serves the upload, listing and analysis endpoints
type FileHandler struct {
	files     ports.FileRepository
	reports   ports.ReportRepository
	parser    ports.FileParser
	analyzer  *analysis.Analyzer
	uploadDir string
	logger    *internal.Logger
}

func NewFileHandler(files ports.FileRepository, reports ports.ReportRepository, parser ports.FileParser, analyzer *analysis.Analyzer, uploadDir string) *FileHandler {
	return &FileHandler{
		files:     files,
		reports:   reports,
		parser:    parser,
		analyzer:  analyzer,
		uploadDir: uploadDir,
		logger:    internal.DefaultLogger,
	}
}

// HandleUpload accepts a multipart spreadsheet upload, stores it, runs the
// analysis pipeline and persists the resulting report. The file record
// tracks processing state so failures are visible to the client afterwards.
func (h *FileHandler) HandleUpload(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	upload, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file field in multipart form"})
		return
	}

	ext := filepath.Ext(upload.Filename)
	if !isSupportedExtension(ext) {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unsupported file type %q, expected .csv, .xlsx or .xls", ext)})
		return
	}

	record := dataset.NewFile(userID, upload.Filename)
	record.FileSize = upload.Size
	record.MimeType = upload.Header.Get("Content-Type")

	storedPath := filepath.Join(h.uploadDir, fmt.Sprintf("%s%s", record.ID, ext))
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		h.logger.Error("[Upload] Failed to create upload dir: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store upload"})
		return
	}
	if err := c.SaveUploadedFile(upload, storedPath); err != nil {
		h.logger.Error("[Upload] Failed to save %s: %v", upload.Filename, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store upload"})
		return
	}
	record.StoredPath = storedPath

	if err := h.files.Create(c.Request.Context(), record); err != nil {
		h.logger.Error("[Upload] Failed to create file record: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record upload"})
		return
	}

	report, err := h.processFile(c, record)
	if err != nil {
		h.logger.Warn("[Upload] Analysis of %s failed: %v", record.ID, err)
		c.JSON(statusForError(err), gin.H{
			"file":  record,
			"error": err.Error(),
		})
		return
	}

	h.logger.Info("[Upload] Analyzed %s (%d rows, %d columns)", record.ID, record.RowCount, record.ColumnCount)
	c.JSON(http.StatusCreated, gin.H{
		"file":   record,
		"report": report,
	})
}

// processFile parses the stored upload, analyzes it and persists the report,
// keeping the file record's status in sync along the way.
func (h *FileHandler) processFile(c *gin.Context, record *dataset.File) (*dataset.Report, error) {
	ctx := c.Request.Context()

	fail := func(err error) error {
		record.Status = dataset.StatusFailed
		record.ErrorMessage = err.Error()
		record.UpdatedAt = time.Now()
		if updateErr := h.files.Update(ctx, record); updateErr != nil {
			h.logger.Error("[Upload] Failed to mark file %s failed: %v", record.ID, updateErr)
		}
		return err
	}

	ds, err := h.parser.Parse(record.StoredPath)
	if err != nil {
		return nil, fail(err)
	}

	record.RowCount = ds.TotalRows
	record.ColumnCount = len(ds.Headers)

	opts := analysis.Options{
		KeyColumn:     c.Query("key_column"),
		MeasureColumn: c.Query("measure_column"),
	}
	report, err := h.analyzer.AnalyzeWithOptions(ctx, ds, opts)
	if err != nil {
		return nil, fail(err)
	}

	if err := h.reports.Save(ctx, record.ID, report); err != nil {
		return nil, fail(err)
	}

	record.Status = dataset.StatusReady
	record.ErrorMessage = ""
	record.UpdatedAt = time.Now()
	if err := h.files.Update(ctx, record); err != nil {
		return nil, err
	}
	return report, nil
}

// HandleListFiles returns the current user's uploads, newest first
func (h *FileHandler) HandleListFiles(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	limit := queryInt(c, "limit", 20, 1, 100)
	offset := queryInt(c, "offset", 0, 0, 1<<30)

	files, err := h.files.ListByUser(c.Request.Context(), userID, limit, offset)
	if err != nil {
		h.logger.Error("[Files] Failed to list files for %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list files"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": files, "count": len(files)})
}

// HandleGetFile returns one file record owned by the current user
func (h *FileHandler) HandleGetFile(c *gin.Context) {
	record, ok := h.ownedFile(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"file": record})
}

// HandleDeleteFile removes the file record, its stored bytes and its report
func (h *FileHandler) HandleDeleteFile(c *gin.Context) {
	record, ok := h.ownedFile(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.reports.DeleteByFileID(ctx, record.ID); err != nil {
		h.logger.Debug("[Files] No report to delete for %s: %v", record.ID, err)
	}
	if err := h.files.Delete(ctx, record.ID); err != nil {
		h.logger.Error("[Files] Failed to delete file %s: %v", record.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete file"})
		return
	}
	if record.StoredPath != "" {
		if err := os.Remove(record.StoredPath); err != nil && !os.IsNotExist(err) {
			h.logger.Warn("[Files] Failed to remove stored upload %s: %v", record.StoredPath, err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// HandleAnalyse returns the stored analysis report for a file. The path
// carries both user and file IDs so report links are shareable within an
// account; the user ID must still match the authenticated session.
func (h *FileHandler) HandleAnalyse(c *gin.Context) {
	sessionUserID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	pathUserID, err := core.ParseUserID(c.Param("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}
	if pathUserID != sessionUserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "File belongs to another user"})
		return
	}

	fileID, err := core.ParseFileID(c.Param("fileID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file id"})
		return
	}

	ctx := c.Request.Context()
	record, err := h.files.GetByID(ctx, fileID)
	if err != nil || record.UserID != sessionUserID {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	if record.Status == dataset.StatusFailed {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"file":  record,
			"error": record.ErrorMessage,
		})
		return
	}

	report, err := h.reports.GetByFileID(ctx, fileID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"file":   record,
		"report": report,
	})
}

// HandleReanalyse re-runs the pipeline over the stored upload, replacing the
// persisted report. Useful after changing key/measure column overrides.
func (h *FileHandler) HandleReanalyse(c *gin.Context) {
	record, ok := h.ownedFile(c)
	if !ok {
		return
	}
	if record.StoredPath == "" {
		c.JSON(http.StatusGone, gin.H{"error": "Stored upload no longer available"})
		return
	}

	record.Status = dataset.StatusProcessing
	report, err := h.processFile(c, record)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"file": record, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"file": record, "report": report})
}

// ownedFile resolves the :id path param to a file owned by the session user,
// writing the error response itself when that fails.
func (h *FileHandler) ownedFile(c *gin.Context) (*dataset.File, bool) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return nil, false
	}

	fileID, err := core.ParseFileID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file id"})
		return nil, false
	}

	record, err := h.files.GetByID(c.Request.Context(), fileID)
	if err != nil || record.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return nil, false
	}
	return record, true
}

func isSupportedExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".csv", ".xlsx", ".xls":
		return true
	}
	return false
}

func queryInt(c *gin.Context, name string, def, min, max int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min || v > max {
		return def
	}
	return v
}

// statusForError maps engine error codes to HTTP statuses
func statusForError(err error) int {
	switch apperrors.GetCode(err) {
	case apperrors.CodeInputTooLarge:
		return http.StatusRequestEntityTooLarge
	case apperrors.CodeParseError, apperrors.CodeInvalidInput, apperrors.CodeValidationError:
		return http.StatusBadRequest
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
