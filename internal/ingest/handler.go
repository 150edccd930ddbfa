package ingest

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"docingest-backend/internal/documents"
	"docingest-backend/internal/shared/server/middleware"
	"docingest-backend/internal/shared/server/respond"
)

// Oversized uploads must reach the validator so they get the proper
// rejection reason, so the request cap sits well above MaxUploadBytes.
const maxRequestBytes = 32 << 20

// Handler exposes the ingestion pipeline over HTTP.
type Handler struct {
	Pipeline *Pipeline
}

// NewHandler constructs a Handler.
func NewHandler(p *Pipeline) *Handler {
	return &Handler{Pipeline: p}
}

// RegisterRoutes attaches the upload route to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents", h.upload)
}

type uploadResponse struct {
	Status   string                      `json:"status"`
	Document *documents.DocumentResponse `json:"document,omitempty"`
	IndexKey string                      `json:"indexKey,omitempty"`
}

func (h *Handler) upload(c *gin.Context) {
	ownerID := middleware.OwnerIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	up := RawUpload{
		ContentType: fileHeader.Header.Get("Content-Type"),
		SizeBytes:   fileHeader.Size,
		Name:        fileHeader.Filename,
		Bytes:       data,
	}

	result := h.Pipeline.Ingest(c.Request.Context(), up, ownerID)
	switch result.Outcome {
	case OutcomeDone:
		doc := documents.ToResponse(result.Document)
		respond.JSON(c, http.StatusCreated, uploadResponse{
			Status:   string(OutcomeDone),
			Document: &doc,
			IndexKey: result.IndexKey,
		})
	case OutcomeRejectedInvalid:
		respond.Error(c, http.StatusBadRequest, string(OutcomeRejectedInvalid), result.Reason, nil)
	case OutcomeStorageFailed:
		respond.Error(c, http.StatusInternalServerError, string(OutcomeStorageFailed), "failed to store document", nil)
	case OutcomeExtractionFailed:
		respond.Error(c, http.StatusUnprocessableEntity, string(OutcomeExtractionFailed), "failed to extract document text", nil)
	case OutcomeIndexingFailed:
		respond.Error(c, http.StatusBadGateway, string(OutcomeIndexingFailed), "failed to index document", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "unknown pipeline outcome", nil)
	}
}
