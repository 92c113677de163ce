package analysis

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	httperr "github.com/respira-lab/respira/internal/core/errors"
	"github.com/respira-lab/respira/internal/core/signal"
	"github.com/respira-lab/respira/internal/core/storage"
	"github.com/respira-lab/respira/internal/intervals"
	"github.com/respira-lab/respira/internal/report"
)

const defaultListLimit = 50

// Handler exposes the analysis service over HTTP.
type Handler struct {
	svc              *Service
	maxBodySizeBytes int64
}

// NewHandler creates an HTTP handler for the analysis service.
func NewHandler(svc *Service, maxBodySizeMB int) *Handler {
	if maxBodySizeMB <= 0 {
		maxBodySizeMB = 8
	}
	return &Handler{
		svc:              svc,
		maxBodySizeBytes: int64(maxBodySizeMB) * 1024 * 1024,
	}
}

// RegisterRoutes registers the analysis API routes on the given router.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST("/v1/analyze", h.AnalyzeHandler)
	r.POST("/v1/epochs/analyze", h.AnalyzeEpochsHandler)
	r.GET("/v1/analyses", h.ListAnalysesHandler)
	r.GET("/v1/analyses/:analysis_id/features", h.GetFeaturesHandler)
}

// AnalyzeHandler handles POST /v1/analyze: one recording in, one prefixed
// feature row out.
func (h *Handler) AnalyzeHandler(c *gin.Context) {
	var req AnalyzeRequest
	if !h.bindBody(c, &req) {
		return
	}

	rec, err := req.Recording.toRecording()
	if err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidInputError,
			Message:   "Invalid recording",
			Details:   err.Error(),
		})
		return
	}

	slog.Info("Received analyze request",
		"columns", len(req.Recording.Columns),
		"samples", rec.Rows(),
		"sampling_rate", req.SamplingRate)

	id, table, err := h.svc.AnalyzeRecording(c.Request.Context(), rec, req.SamplingRate)
	if err != nil {
		writeAnalysisError(c, err)
		return
	}

	c.JSON(http.StatusOK, analyzeResponse(id, storage.KindInterval, table))
}

// AnalyzeEpochsHandler handles POST /v1/epochs/analyze: a named collection
// of recordings in, one row of means per epoch out.
func (h *Handler) AnalyzeEpochsHandler(c *gin.Context) {
	var req EpochsRequest
	if !h.bindBody(c, &req) {
		return
	}
	if len(req.Epochs) == 0 {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidInputError,
			Message:   "At least one epoch is required",
		})
		return
	}

	collection := make(signal.Collection, len(req.Epochs))
	for name, payload := range req.Epochs {
		rec, err := payload.toRecording()
		if err != nil {
			c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
				ErrorType: httperr.HttpInvalidInputError,
				Message:   "Invalid epoch recording",
				Details:   map[string]interface{}{"epoch": name, "error": err.Error()},
			})
			return
		}
		collection[name] = rec
	}

	slog.Info("Received epochs analyze request", "epochs", len(collection))

	id, table, err := h.svc.AnalyzeEpochs(c.Request.Context(), collection)
	if err != nil {
		writeAnalysisError(c, err)
		return
	}

	c.JSON(http.StatusOK, analyzeResponse(id, storage.KindEpochs, table))
}

// GetFeaturesHandler handles GET /v1/analyses/:analysis_id/features.
func (h *Handler) GetFeaturesHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("analysis_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidInputError,
			Message:   "Invalid analysis id",
			Details:   err.Error(),
		})
		return
	}

	table, err := h.svc.GetFeatures(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, httperr.ErrorResponse{
				ErrorType: httperr.HttpNotFoundError,
				Message:   "Analysis not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to load features",
			Details:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, report.Document(table))
}

// ListAnalysesHandler handles GET /v1/analyses.
func (h *Handler) ListAnalysesHandler(c *gin.Context) {
	analyses, err := h.svc.ListAnalyses(c.Request.Context(), defaultListLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to list analyses",
			Details:   err.Error(),
		})
		return
	}

	type analysisDoc struct {
		ID        string `json:"analysis_id"`
		Kind      string `json:"kind"`
		RowCount  int    `json:"row_count"`
		CreatedAt string `json:"created_at"`
	}
	docs := make([]analysisDoc, 0, len(analyses))
	for _, a := range analyses {
		docs = append(docs, analysisDoc{
			ID:        a.ID.String(),
			Kind:      a.Kind,
			RowCount:  a.RowCount,
			CreatedAt: a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	c.JSON(http.StatusOK, gin.H{"analyses": docs})
}

// bindBody reads a size-limited request body and binds it as JSON. Writes
// the error response itself and returns false when binding fails.
func (h *Handler) bindBody(c *gin.Context, out interface{}) bool {
	limitedBody := io.LimitReader(c.Request.Body, h.maxBodySizeBytes+1) // +1 to detect oversized requests

	bodyBytes, err := io.ReadAll(limitedBody)
	if err != nil {
		slog.Error("Failed to read request body", "error", err)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to read request body",
		})
		return false
	}

	if int64(len(bodyBytes)) > h.maxBodySizeBytes {
		slog.Warn("Request body exceeds maximum size", "size", len(bodyBytes), "max", h.maxBodySizeBytes)
		c.JSON(http.StatusRequestEntityTooLarge, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidJsonError,
			Message:   "Request body exceeds maximum allowed size",
			Details: map[string]interface{}{
				"max_size_mb": h.maxBodySizeBytes / (1024 * 1024),
			},
		})
		return false
	}

	c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))
	if err := c.ShouldBindJSON(out); err != nil {
		slog.Warn("Invalid JSON body received", "error", err, "payload_size", len(bodyBytes))
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidJsonError,
			Message:   "Invalid JSON body",
			Details:   err.Error(),
		})
		return false
	}

	return true
}

// writeAnalysisError maps analysis failures onto HTTP responses.
func writeAnalysisError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, intervals.ErrMissingColumn):
		var missing *intervals.MissingColumnError
		details := map[string]interface{}{}
		if errors.As(err, &missing) {
			details["column"] = missing.Fragment
			details["matches"] = missing.Matches
		}
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpMissingColumnError,
			Message:   err.Error(),
			Details:   details,
		})
	case errors.Is(err, intervals.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidInputError,
			Message:   err.Error(),
		})
	case errors.Is(err, intervals.ErrRRV):
		c.JSON(http.StatusBadGateway, httperr.ErrorResponse{
			ErrorType: httperr.HttpRrvFailedError,
			Message:   err.Error(),
		})
	default:
		slog.Error("Analysis failed", "error", err)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Analysis failed",
			Details:   err.Error(),
		})
	}
}

func analyzeResponse(id uuid.UUID, kind string, table *intervals.ResultTable) AnalyzeResponse {
	resp := AnalyzeResponse{Kind: kind, Table: report.Document(table)}
	if id != uuid.Nil {
		resp.AnalysisID = id.String()
	}
	return resp
}
