package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"note-keeper/internal/domain"
)

type noteRequest struct {
	Title   string `form:"title" json:"title"`
	Content string `form:"content" json:"content"`
}

func (h *Handler) listNotes(c *gin.Context) {
	user := CurrentUser(c)
	notes, err := h.notes.List(c.Request.Context(), user.ID)
	if err != nil {
		h.logFailure(c, "list notes", err)
		c.String(http.StatusInternalServerError, "Error loading notes")
		return
	}

	if c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON {
		resp := make([]NoteResponse, len(notes))
		for i := range notes {
			resp[i] = noteToResponse(notes[i])
		}
		c.JSON(http.StatusOK, resp)
		return
	}
	h.render(c, http.StatusOK, "index", gin.H{"notes": notes})
}

func (h *Handler) newNoteForm(c *gin.Context) {
	h.render(c, http.StatusOK, "newNote", gin.H{"title": "", "content": "", "error": ""})
}

func (h *Handler) createNote(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBind(&req); err != nil {
		h.render(c, http.StatusBadRequest, "newNote", gin.H{"error": "Note title is required", "title": "", "content": ""})
		return
	}

	_, err := h.notes.Create(c.Request.Context(), CurrentUser(c).ID, req.Title, req.Content)
	h.metrics.NoteOp("create", err)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			h.render(c, http.StatusBadRequest, "newNote", gin.H{
				"error":   domain.Message(err, "Error creating note"),
				"title":   req.Title,
				"content": req.Content,
			})
			return
		}
		h.logFailure(c, "create note", err)
		c.String(http.StatusInternalServerError, "Error creating note")
		return
	}
	c.Redirect(http.StatusFound, "/notes")
}

func (h *Handler) showNote(c *gin.Context) {
	h.renderNote(c, "note")
}

func (h *Handler) editNoteForm(c *gin.Context) {
	h.renderNote(c, "editNote")
}

func (h *Handler) renderNote(c *gin.Context, view string) {
	note, err := h.notes.Get(c.Request.Context(), CurrentUser(c).ID, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.String(http.StatusNotFound, "Note not found")
			return
		}
		h.logFailure(c, "get note", err)
		c.String(http.StatusInternalServerError, "Error loading note")
		return
	}
	h.render(c, http.StatusOK, view, gin.H{"note": note})
}

func (h *Handler) updateNote(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	err := h.notes.Update(c.Request.Context(), CurrentUser(c).ID, c.Param("id"), req.Title, req.Content)
	h.metrics.NoteOp("update", err)
	if err != nil {
		h.logFailure(c, "update note", err)
		c.JSON(statusFor(err), gin.H{"error": domain.Message(err, "Error updating note")})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) deleteNote(c *gin.Context) {
	err := h.notes.Delete(c.Request.Context(), CurrentUser(c).ID, c.Param("id"))
	h.metrics.NoteOp("delete", err)
	if err != nil {
		h.logFailure(c, "delete note", err)
		c.JSON(statusFor(err), gin.H{"error": domain.Message(err, "Error deleting note")})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func noteToResponse(n domain.Note) NoteResponse {
	return NoteResponse{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
		UpdatedAt: n.UpdatedAt.Format(time.RFC3339),
	}
}
