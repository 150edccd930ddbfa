package documents

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"docingest-backend/internal/shared/server/middleware"
	"docingest-backend/internal/shared/server/respond"
)

// Handler exposes the document listing over HTTP.
type Handler struct {
	Repo Repo
}

// NewHandler constructs a Handler.
func NewHandler(repo Repo) *Handler {
	return &Handler{Repo: repo}
}

// RegisterRoutes attaches document read routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/documents", h.list)
}

func (h *Handler) list(c *gin.Context) {
	ownerID := middleware.OwnerIDFromContext(c)

	docs, err := h.Repo.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list documents", nil)
		}
		return
	}

	resp := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		resp = append(resp, ToResponse(doc))
	}

	respond.JSON(c, http.StatusOK, resp)
}
