package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"note-keeper/internal/service"
)

func (h *Handler) exportNotes(c *gin.Context) {
	location, err := h.exports.Export(c.Request.Context(), CurrentUser(c))
	h.metrics.NoteOp("export", err)
	if err != nil {
		if errors.Is(err, service.ErrExportsDisabled) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		h.logFailure(c, "export notes", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error exporting notes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "location": location})
}

func (h *Handler) listExports(c *gin.Context) {
	exports, err := h.exports.List(c.Request.Context(), CurrentUser(c).ID)
	if err != nil {
		if errors.Is(err, service.ErrExportsDisabled) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		h.logFailure(c, "list exports", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing exports"})
		return
	}

	resp := make([]ExportResponse, len(exports))
	for i := range exports {
		resp[i] = exportToResponse(exports[i])
	}
	c.JSON(http.StatusOK, resp)
}
